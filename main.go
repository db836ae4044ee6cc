package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/myorganisms/internal/app"
	"github.com/pstuifzand/myorganisms/internal/config"
	"github.com/pstuifzand/myorganisms/internal/socket"
)

var (
	configPath   string
	taxonomyPath string
	databasePath string
	startPath    string
	debug        bool
)

var rootCmd = &cobra.Command{
	Use:   "myorgs",
	Short: "Choose the organisms you want to see",
	Long: `myorgs keeps a list of preferred organisms. The interactive screen
shows the organism tree, lets you pick the organisms to keep and previews
the pruned tree before saving.

Example:
  myorgs
  myorgs --path /preferred-organisms
  myorgs status`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/myorganisms/config.toml)")
	rootCmd.PersistentFlags().StringVar(&taxonomyPath, "taxonomy", "", "Taxonomy JSON file")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "", "Preference database")
	rootCmd.Flags().StringVar(&startPath, "path", app.HomePath, "Screen to open at startup")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug mode (shows key events in status)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the command line overrides
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if taxonomyPath != "" {
		cfg.TaxonomyPath = taxonomyPath
	}
	if databasePath != "" {
		cfg.DatabasePath = databasePath
	}
	return cfg, nil
}

// openLog sends the standard logger to a file in the state directory, so
// it does not draw over the screen.
func openLog() (*os.File, string, error) {
	dir, err := config.GetStateDir()
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create state directory: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(dir, "myorgs.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", err
	}
	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	return logFile, dir, nil
}

func runTUI() error {
	logFile, stateDir, err := openLog()
	if err != nil {
		return err
	}
	defer logFile.Close()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, app.Options{
		Config:     cfg,
		Path:       startPath,
		Debug:      debug,
		SocketDir:  socket.DefaultDir(),
		HistoryDir: stateDir,
	})
	if err != nil {
		return err
	}

	if err := application.Run(); err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}
	return nil
}
