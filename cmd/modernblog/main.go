package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/modernblog"
	"github.com/eringen/modernblog/auth"
	"github.com/eringen/modernblog/storage"
)

// version is set at build time via ldflags.
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "modernblog",
	Short:         "A single-user blog with a JSON API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blog API",
	RunE:  runServe,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the stored posts as JSON",
	RunE:  runExport,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace stored posts with the samples and clear the admin session",
	RunE:  runReset,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := auth.HashBcrypt(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the modernblog version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "modernblog %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "modernblog.yaml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, exportCmd, resetCmd, hashPasswordCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := modernblog.LoadConfig(configPath)
	if err != nil {
		return err
	}
	app := modernblog.New(cfg)
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Echo.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openSlot() (*storage.SQLite, error) {
	cfg, err := modernblog.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return storage.OpenSQLite(cfg.DatabasePath)
}

func runExport(cmd *cobra.Command, args []string) error {
	slot, err := openSlot()
	if err != nil {
		return err
	}
	defer slot.Close()

	posts := modernblog.NewRepository(slot, nil).Load()
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(posts)
}

func runReset(cmd *cobra.Command, args []string) error {
	slot, err := openSlot()
	if err != nil {
		return err
	}
	defer slot.Close()

	repo := modernblog.NewRepository(slot, nil)
	if err := repo.Save(modernblog.SamplePosts()); err != nil {
		return fmt.Errorf("write sample posts: %w", err)
	}
	if err := auth.NewSessionStore(slot).Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Posts reset to the samples; admin session cleared.")
	return nil
}
