package cmd

import (
	"context"
	"fmt"

	"bulkcat/internal/app"
	"bulkcat/internal/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "bulkcat",
	Short: "Bulk category management for blog posts",
	Long: `bulkcat lists published posts by category and moves many of them to a
single target category in one operation, either over an HTTP API or from the
command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := config.ConfigureLogging(cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		appInstance, err := app.NewApp(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appInstance, err := GetAppFromContext(cmd.Context()); err == nil {
			appInstance.Close()
		}
	},
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfigFile(configPath)
	}
	return config.LoadConfig()
}

// Execute runs the root command; ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

type contextKey string

const appKey contextKey = "app"

// GetAppFromContext returns the app built by the root command's pre-run.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ./config.yaml)")

	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(migrateCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database connectivity and other diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		fmt.Printf("Checking %s database connectivity...\n", appInstance.Config.Database.Driver)
		if err := appInstance.Store.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		fmt.Println("Database connection successful.")

		if appInstance.JobClient != nil {
			fmt.Printf("Events enabled: publishing to queue %q via %s\n",
				appInstance.Config.Events.Queue, appInstance.Config.Redis.Address)
		} else {
			fmt.Println("Events disabled.")
		}
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if err := appInstance.Store.Migrate(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Schema is up to date.")
		return nil
	},
}
