package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Print one question as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, difficulty, err := parseBucket(cmd, false)
		if err != nil {
			return err
		}
		offline, _ := cmd.Flags().GetBool("offline")
		rt, err := openRuntime(cmd, runtimeOpts{offline: offline})
		if err != nil {
			return err
		}
		defer rt.Close()

		q, err := rt.svc.Next(cmd.Context(), topic, difficulty)
		if err != nil {
			return fmt.Errorf("next question: %w", err)
		}
		out, err := json.MarshalIndent(q, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	askCmd.Flags().StringP("topic", "t", "addition", "Question topic")
	askCmd.Flags().StringP("difficulty", "d", "easy", "Question difficulty")
	askCmd.Flags().Bool("offline", false, "Use only stored and deterministic questions")
}
