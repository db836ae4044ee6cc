package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/myorganisms/internal/prefs"
	"github.com/pstuifzand/myorganisms/internal/socket"
	"github.com/pstuifzand/myorganisms/internal/storage"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the preferred organism count",
		Long: `The status command prints "(N of M)" for the preferred organisms, whether
filtering is enabled and how many organisms are new since the last save.
A running instance is asked first; without one the database is read directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemote(socket.CommandStatus)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Enable or disable My Organisms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemote(socket.CommandToggle)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "dismiss",
		Short: "Dismiss the new organisms banner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemote(socket.CommandDismiss)
		},
	})
}

// runRemote sends command to a running instance, falling back to the
// preference database when none is running.
func runRemote(command string) error {
	response, err := sendToInstance(command)
	if errors.Is(err, socket.ErrNoInstance) {
		return runLocal(command)
	}
	if err != nil {
		return err
	}
	if !response.Success {
		return errors.New(response.Message)
	}
	if response.Status != nil {
		printStatus(*response.Status)
		return nil
	}
	fmt.Println(response.Message)
	return nil
}

func sendToInstance(command string) (*socket.Response, error) {
	socketPath, pid, err := socket.FindRunningInstance(socket.DefaultDir())
	if err != nil {
		return nil, err
	}
	log.Printf("Found running instance at PID %d: %s", pid, socketPath)

	client, err := socket.NewClient(socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return client.SendCommand(command)
}

func runLocal(command string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, err := storage.NewTaxonomyStore(cfg.TaxonomyPath, cfg.TaxonomyRoot).Load()
	if err != nil {
		return err
	}
	store, err := storage.OpenSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	service := prefs.NewService(store, doc)
	if err := service.Load(ctx); err != nil {
		return err
	}

	switch command {
	case socket.CommandToggle:
		if err := service.Toggle(ctx); err != nil {
			return err
		}
	case socket.CommandDismiss:
		if err := service.Dismiss(ctx); err != nil {
			return err
		}
	}

	summary, err := service.Summary(ctx)
	if err != nil {
		return err
	}
	printStatus(socket.Status{
		Enabled:      summary.Enabled,
		Preferred:    summary.Preferred,
		Available:    summary.Available,
		NewOrganisms: summary.NewOrganisms,
	})
	return nil
}

func printStatus(status socket.Status) {
	state := "disabled"
	if status.Enabled {
		state = "enabled"
	}
	fmt.Printf("My Organism Preferences (%d of %d)\n", status.Preferred, status.Available)
	fmt.Printf("My Organisms: %s\n", state)
	if status.NewOrganisms > 0 {
		fmt.Printf("New organisms: %d\n", status.NewOrganisms)
	}
	if status.Path != "" {
		fmt.Printf("Showing: %s\n", status.Path)
	}
}
