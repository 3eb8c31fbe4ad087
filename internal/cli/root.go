package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/studentdesk/internal/config"
)

// rootOptions holds flags shared by every command
type rootOptions struct {
	envFile string
	output  string
}

// loadConfig reads the env file named by --env-file and the environment.
// An empty --env-file reads the environment only.
func (o *rootOptions) loadConfig() (config.Config, error) {
	if o.envFile == "" {
		return config.Parse(os.Getenv)
	}
	return config.Load(o.envFile)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "studentdesk",
		Short: "Student records web application",
		Long: `studentdesk serves a small web application for managing student records
behind username/password login.

Settings come from the environment, optionally seeded from a .env file:
ADDR, STORAGE_TYPE (memory, redis, postgres), REDIS_URL, DATABASE_URL,
SESSION_DURATION, SESSION_CLEANUP_INTERVAL, COOKIE_SECURE, BCRYPT_COST,
LOG_LEVEL.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Optional dotenv file to load")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newMigrateCmd(opts))
	rootCmd.AddCommand(newUserAddCmd(opts))
	rootCmd.AddCommand(newHealthCmd(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
