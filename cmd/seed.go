package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate questions for every topic and difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		perBucket, _ := cmd.Flags().GetInt("per-bucket")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		offline, _ := cmd.Flags().GetBool("offline")
		if perBucket <= 0 {
			return fmt.Errorf("--per-bucket must be positive")
		}

		rt, err := openRuntime(cmd, runtimeOpts{offline: offline})
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := rt.svc.Seed(cmd.Context(), perBucket, concurrency)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Added %d questions (%d remote, %d local).\n", res.Total(), res.Remote, res.Local)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().IntP("per-bucket", "n", 5, "Questions to add per topic and difficulty")
	seedCmd.Flags().IntP("concurrency", "c", 4, "Concurrent generations")
	seedCmd.Flags().Bool("offline", false, "Use only the deterministic generator")
}
