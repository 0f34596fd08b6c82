package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"axis/internal/config"
	"axis/internal/google"
	"axis/internal/observability"
	"axis/internal/scheduler"
	"axis/internal/seed"
	"axis/internal/server"
	"axis/internal/store"
	"axis/internal/syncer"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "axis",
		Usage: "HR dashboard backend: employee directory with periodic calendar sync.",
		Commands: []*cli.Command{
			serveCommand(),
			syncCommand(),
			seedCommand(),
			authCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API with the background calendar sync loop.",
		Action: func(c *cli.Context) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)
			observability.RegisterMetrics()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
			if err != nil {
				return fmt.Errorf("failed to create store: %w", err)
			}
			defer func() {
				if err := st.Close(c.Context); err != nil {
					logger.Error("Failed to close store", "error", err)
				}
			}()

			gClient, err := google.NewClient(ctx, logger, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleTokenFile)
			if err != nil {
				return fmt.Errorf("failed to create google client: %w", err)
			}

			rec := syncer.NewReconciler(logger, st, gClient, cfg.ProviderTimeout)
			sched := scheduler.New(logger, st, rec, cfg.SyncInterval, cfg.SyncWorkers)
			srv := server.New(logger, st, gClient)

			// The sync loop is a supervised task owned by this command's
			// lifetime: started here, stopped after the server drains.
			handle := sched.Start(ctx)
			logger.Info("Started calendar sync scheduler.", "interval", cfg.SyncInterval, "workers", cfg.SyncWorkers)

			err = srv.Run(ctx, cfg.HTTPAddr)
			handle.Stop()
			return err
		},
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Run the calendar synchronization process.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "once", Usage: "Run the sync cycle once and exit."},
			&cli.IntFlag{Name: "watch", Value: 300, Usage: "Run sync every N seconds. Overrides --once."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)
			observability.RegisterMetrics()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
			if err != nil {
				return fmt.Errorf("failed to create store: %w", err)
			}
			defer func() {
				if err := st.Close(c.Context); err != nil {
					logger.Error("Failed to close store", "error", err)
				}
			}()

			gClient, err := google.NewClient(ctx, logger, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleTokenFile)
			if err != nil {
				return fmt.Errorf("failed to create google client: %w", err)
			}

			rec := syncer.NewReconciler(logger, st, gClient, cfg.ProviderTimeout)

			// --watch flag takes precedence
			if c.IsSet("watch") {
				interval := time.Duration(c.Int("watch")) * time.Second
				logger.Info("Starting watcher.", "interval", interval)
				sched := scheduler.New(logger, st, rec, interval, cfg.SyncWorkers)
				return sched.Run(ctx)
			}

			logger.Info("Running a single sync cycle.")
			sched := scheduler.New(logger, st, rec, cfg.SyncInterval, cfg.SyncWorkers)
			stats := sched.RunCycle(ctx)
			if stats.Failed > 0 {
				return fmt.Errorf("sync cycle finished with %d failed employees", stats.Failed)
			}
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Provision the employee directory with a fresh dataset.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Value: seed.DefaultCount, Usage: "Number of employees to create."},
			&cli.StringFlag{Name: "calendar-email", EnvVars: []string{"SEED_CALENDAR_EMAIL"}, Usage: "Calendar email assigned to every seeded employee."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)

			st, err := store.NewMongo(c.Context, cfg.MongoURI, cfg.MongoDatabase)
			if err != nil {
				return fmt.Errorf("failed to create store: %w", err)
			}
			defer func() {
				if err := st.Close(c.Context); err != nil {
					logger.Error("Failed to close store", "error", err)
				}
			}()

			if err := st.Drop(c.Context); err != nil {
				return err
			}
			employees := seed.Employees(c.Int("count"), c.String("calendar-email"), time.Now())
			if err := st.InsertMany(c.Context, employees); err != nil {
				return err
			}

			logger.Info("Seeded employee directory.", "count", len(employees))
			return nil
		},
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with a Google account to get an API token.",
		Action: func(c *cli.Context) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)
			logger.Info("Starting Google authentication flow.")

			oauthCfg, err := google.GetOAuthConfigForAuthFlow(cfg.GoogleClientID, cfg.GoogleClientSecret)
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.TokenFromWeb(oauthCfg, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			if err := google.SaveToken(cfg.GoogleTokenFile, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			logger.Info("Successfully authenticated and saved token.", "file", cfg.GoogleTokenFile)
			return nil
		},
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
