package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/config"
	"github.com/abhisek/mathquiz/internal/question"
)

var rootCmd = &cobra.Command{
	Use:   "mathquiz",
	Short: "Arithmetic quiz question service",
	Long: "mathquiz serves multiple-choice arithmetic questions, reusing stored questions\n" +
		"and generating new ones with an LLM or a deterministic fallback.",
	SilenceUsage: true,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file (default ./"+config.DefaultFileName+" when present)")
	pf.String("store", "", "Question store backend: file or sqlite")
	pf.String("data-dir", "", "Directory for questions.json and mathquiz.db")
	pf.BoolP("verbose", "v", false, "Human-readable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store.Backend = v
	}
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.Store.DataDir = v
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// parseBucket reads the --topic and --difficulty flags. Empty values default
// to addition and easy unless allowEmpty is set.
func parseBucket(cmd *cobra.Command, allowEmpty bool) (question.Topic, question.Difficulty, error) {
	rawTopic, _ := cmd.Flags().GetString("topic")
	rawDifficulty, _ := cmd.Flags().GetString("difficulty")

	var topic question.Topic
	var difficulty question.Difficulty
	var err error
	if rawTopic != "" || !allowEmpty {
		if topic, err = question.ParseTopic(rawTopic); err != nil {
			return "", "", fmt.Errorf("--topic: %w", err)
		}
	}
	if rawDifficulty != "" || !allowEmpty {
		if difficulty, err = question.ParseDifficulty(rawDifficulty); err != nil {
			return "", "", fmt.Errorf("--difficulty: %w", err)
		}
	}
	return topic, difficulty, nil
}
