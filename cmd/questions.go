package cmd

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/question"
	"github.com/abhisek/mathquiz/internal/store"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Inspect stored questions",
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, difficulty, err := parseBucket(cmd, true)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := openRuntime(cmd, runtimeOpts{offline: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		all, err := rt.repo.All(cmd.Context())
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		qs := lo.Filter(all, func(q question.Question, _ int) bool {
			return (topic == "" || q.Topic == topic) && (difficulty == "" || q.Difficulty == difficulty)
		})
		if limit > 0 && len(qs) > limit {
			qs = qs[len(qs)-limit:]
		}

		out := cmd.OutOrStdout()
		if len(qs) == 0 {
			fmt.Fprintln(out, "No questions stored.")
			return nil
		}
		fmt.Fprintf(out, "%-16s  %-8s  %-40s  %s\n", "Topic", "Level", "Question", "Answer")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, q := range qs {
			fmt.Fprintf(out, "%-16s  %-8s  %-40s  %s\n",
				q.Topic, q.Difficulty, truncate(q.Question, 40), q.CorrectOption())
		}
		return nil
	},
}

var questionsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored question counts per topic and difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, runtimeOpts{offline: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		buckets, err := rt.repo.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("count questions: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-16s  %8s  %8s  %8s\n", "Topic", "easy", "medium", "hard")
		fmt.Fprintln(out, strings.Repeat("─", 46))
		for _, t := range question.Topics() {
			counts := make([]int, 0, 3)
			for _, d := range question.Difficulties() {
				b, _ := lo.Find(buckets, func(b store.BucketCount) bool {
					return b.Topic == t && b.Difficulty == d
				})
				counts = append(counts, b.Count)
			}
			fmt.Fprintf(out, "%-16s  %8d  %8d  %8d\n", t, counts[0], counts[1], counts[2])
		}
		fmt.Fprintln(out, strings.Repeat("─", 46))
		fmt.Fprintf(out, "%-16s  %8d\n", "TOTAL", lo.SumBy(buckets, func(b store.BucketCount) int { return b.Count }))
		return nil
	},
}

func init() {
	questionsListCmd.Flags().StringP("topic", "t", "", "Filter by topic")
	questionsListCmd.Flags().StringP("difficulty", "d", "", "Filter by difficulty")
	questionsListCmd.Flags().IntP("limit", "n", 20, "Show at most this many of the newest questions (0 for all)")

	questionsCmd.AddCommand(questionsListCmd)
	questionsCmd.AddCommand(questionsStatsCmd)
}
