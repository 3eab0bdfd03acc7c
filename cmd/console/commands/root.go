package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lexron-admin/internal/backend"
	"lexron-admin/internal/config"
	"lexron-admin/internal/console"
	"lexron-admin/internal/genai"
	"lexron-admin/internal/logger"
	"lexron-admin/internal/session"
	"lexron-admin/internal/tui"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootCmd opens the console. It takes no flags; the backend is configured
// through SUPABASE_URL and SUPABASE_ANON_KEY.
var rootCmd = &cobra.Command{
	Use:   "lexron-console",
	Short: "Lexron store admin console",
	Long: `Manage the Lexron catalog from the terminal: products, categories,
subcategories, brands and customers.

The backend is read from SUPABASE_URL and SUPABASE_ANON_KEY, falling back to
a local development backend when they are unset.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: No .env file found, relying on system environment")
	}
	return config.Load()
}

func runConsole(ctx context.Context) error {
	cfg := loadConfig()

	// The terminal belongs to the UI, so logs go to a file
	log, err := logger.NewFile(cfg.Server.Env, cfg.Console.LogFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting console", zap.String("backend", cfg.Backend.URL))

	client := backend.NewClient(cfg.Backend, log)
	deps := console.Deps{
		Tables:    console.HTTPTables(client),
		Auth:      client,
		Storage:   client.Storage(),
		Generator: genai.New(cfg.GenAI, log),
		Logger:    log,
	}

	gate := session.NewGate(client, log)
	defer gate.Close()

	if err := tui.Run(ctx, deps, gate, console.PathAdmin); err != nil {
		log.Error("Console exited with error", zap.Error(err))
		return err
	}
	log.Info("Console closed")
	return nil
}
