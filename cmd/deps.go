package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/kotoba/internal/auth"
	"github.com/abhisek/kotoba/internal/catalog"
	"github.com/abhisek/kotoba/internal/coach"
	"github.com/abhisek/kotoba/internal/config"
	"github.com/abhisek/kotoba/internal/llm"
	"github.com/abhisek/kotoba/internal/logging"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/report"
	"github.com/abhisek/kotoba/internal/screen"
	"github.com/abhisek/kotoba/internal/store"
)

// deps bundles everything a command needs. Close releases the store and
// flushes the logger.
type deps struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	services screen.Services
}

func (d *deps) Close() {
	_ = d.log.Sync()
	d.store.Close()
}

// loadConfig reads the config file and environment named by the
// persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(config.Options{File: file, EnvFile: envFile})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDSN returns the database source using --db flag (highest
// priority), then db.dsn, then the default XDG path.
func resolveDSN(cmd *cobra.Command, cfg *config.Config) (driver, dsn string, err error) {
	driver = cfg.DB.Driver
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return store.DriverSQLite, p, store.EnsureDir(p)
	}
	if cfg.DB.DSN != "" {
		return driver, cfg.DB.DSN, nil
	}
	p, err := store.DefaultDBPath()
	return driver, p, err
}

// setup loads configuration, opens the store and wires the services.
// logToStderr sends logs to the terminal instead of the log file.
func setup(cmd *cobra.Command, logToStderr bool) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log, logToStderr)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	driver, dsn, err := resolveDSN(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	svc, err := buildServices(cmd.Context(), cfg, st, log)
	if err != nil {
		st.Close()
		return nil, err
	}
	return &deps{cfg: cfg, log: log, store: st, services: svc}, nil
}

func buildServices(ctx context.Context, cfg *config.Config, st *store.Store, log *zap.Logger) (screen.Services, error) {
	authSvc := auth.NewService(st.Users(), st.KV(), auth.Options{
		Delay:  cfg.Auth.Delay,
		Logger: log.Named("auth"),
	})
	if err := authSvc.SeedDemo(ctx); err != nil {
		return screen.Services{}, err
	}

	bank, err := catalog.Open(cfg.Catalog.File)
	if err != nil {
		return screen.Services{}, fmt.Errorf("load question bank: %w", err)
	}

	defaults, err := cfg.QuizDefaults()
	if err != nil {
		return screen.Services{}, err
	}

	provider, err := llm.New(ctx, cfg.Coach, st.LLMEvents(), log.Named("llm"))
	if err != nil {
		// The coach is optional; report tips fall back to built-in advice.
		log.Warn("llm provider not configured", zap.Error(err))
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		provider = nil
	}
	coachSvc := coach.New(provider, coach.Config{
		MaxTokens:   cfg.Coach.MaxTokens,
		Temperature: cfg.Coach.Temperature,
		Timeout:     cfg.Coach.Timeout,
	}, log.Named("coach"))

	return screen.Services{
		Auth:     authSvc,
		Catalog:  bank,
		Engine:   quiz.NewEngine(quiz.SystemClock, nil),
		Tracker:  report.NewTracker(st.History(), quiz.SystemClock, log.Named("report")),
		Coach:    coachSvc,
		Defaults: defaults,
		Logger:   log,
	}, nil
}

// resolveUser returns the account for --email, or the remembered user
// when the flag is empty.
func resolveUser(cmd *cobra.Command, d *deps) (*auth.User, error) {
	ctx := cmd.Context()
	email, _ := cmd.Flags().GetString("email")
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		u, err := d.services.Auth.Current(ctx)
		if errors.Is(err, auth.ErrNotSignedIn) {
			return nil, errors.New("no user signed in; pass --email or sign in with `kotoba`")
		}
		return u, err
	}
	u, err := d.store.Users().UserByEmail(ctx, email)
	if errors.Is(err, auth.ErrUserNotFound) {
		return nil, fmt.Errorf("no account for %s", email)
	}
	return u, err
}
