package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mathquiz/internal/config"
	"github.com/abhisek/mathquiz/internal/llm"
	"github.com/abhisek/mathquiz/internal/logging"
	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/quiz"
	"github.com/abhisek/mathquiz/internal/store"
)

// runtime holds the dependencies shared by the commands.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
	db     *store.Store
	repo   store.QuestionRepo
	svc    *quiz.Service
	remote bool
}

type runtimeOpts struct {
	// offline skips building an LLM provider.
	offline bool
	// quiet discards logs unless --verbose is set. The terminal quiz owns
	// the screen, so it cannot share stderr with the logger.
	quiet bool
}

// openRuntime loads configuration, opens the stores and builds the question
// service.
func openRuntime(cmd *cobra.Command, opts runtimeOpts) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := zap.NewNop()
	if verbose || !opts.quiet {
		if logger, err = logging.New(verbose); err != nil {
			return nil, err
		}
	}

	dbPath, err := cfg.DBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logger, db: db}
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		rt.repo = db.QuestionRepo()
	default:
		rt.repo = store.NewFileStore(cfg.QuestionsPath(), logger)
	}

	local := problemgen.NewArithmetic(problemgen.WithMaxDistractorAttempts(cfg.Quiz.MaxDistractorAttempts))
	svcOpts := []quiz.Option{
		quiz.WithLogger(logger),
		quiz.WithPolicy(quiz.NewCoinFlip(cfg.Quiz.ReuseProbability, nil)),
	}
	if !opts.offline {
		if gen := rt.remoteGenerator(cmd.Context()); gen != nil {
			svcOpts = append(svcOpts, quiz.WithRemote(gen))
			rt.remote = true
		}
	}
	rt.svc = quiz.NewService(rt.repo, local, svcOpts...)
	return rt, nil
}

// remoteGenerator builds the LLM-backed generator, or returns nil when no
// provider is usable.
func (rt *runtime) remoteGenerator(ctx context.Context) problemgen.Generator {
	lc, ok := rt.cfg.ProviderConfig()
	if !ok {
		rt.logger.Info("no LLM API key found, remote generation disabled")
		return nil
	}
	provider, err := llm.NewProvider(ctx, lc, rt.db.EventRepo(), rt.logger)
	if err != nil {
		rt.logger.Warn("LLM provider not configured, remote generation disabled", zap.Error(err))
		return nil
	}

	gcfg := problemgen.DefaultConfig()
	if rt.cfg.Quiz.VerifyRemoteMath {
		gcfg = gcfg.WithMathCheck()
	}
	rt.logger.Debug("remote generation enabled",
		zap.String("provider", lc.Provider),
		zap.String("model", provider.ModelID()))
	return problemgen.New(provider, gcfg, rt.logger)
}

func (rt *runtime) Close() error {
	_ = rt.logger.Sync()
	return rt.db.Close()
}

// openEventStore opens only the SQLite database for the llm subcommands.
func openEventStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := cfg.DBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
