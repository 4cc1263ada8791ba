package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/play"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Take a quiz in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, difficulty, err := parseBucket(cmd, true)
		if err != nil {
			return err
		}
		typed, _ := cmd.Flags().GetBool("typed")
		offline, _ := cmd.Flags().GetBool("offline")

		rt, err := openRuntime(cmd, runtimeOpts{offline: offline, quiet: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		correct, answered, err := play.Run(cmd.Context(), rt.svc, play.Options{
			Topic:      topic,
			Difficulty: difficulty,
			Typed:      typed,
		})
		if err != nil {
			return err
		}
		if answered > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "You got %d of %d right.\n", correct, answered)
		}
		return nil
	},
}

func init() {
	playCmd.Flags().StringP("topic", "t", "", "Topic (asked interactively when empty)")
	playCmd.Flags().StringP("difficulty", "d", "", "Difficulty (asked interactively when empty)")
	playCmd.Flags().Bool("typed", false, "Type answers instead of picking an option")
	playCmd.Flags().Bool("offline", false, "Use only stored and deterministic questions")
}
