package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/libyanfood/site/internal/admin/apiclient"
	"github.com/libyanfood/site/internal/admin/session"
	"github.com/libyanfood/site/internal/config"

	"github.com/spf13/cobra"
)

type app struct {
	api  *apiclient.Client
	gate *session.Gate
	log  *slog.Logger
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "admin",
		Short:         "Edit the food company site from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		statsCmd(a),
		contentCmd(a),
		listCmd(a),
		createCmd(a),
		editCmd(a),
		deleteCmd(a),
		readCmd(a),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func (a *app) init() error {
	cfg, err := config.LoadAdmin()
	if err != nil {
		return err
	}

	a.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	a.api = apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(cfg.Timeout),
		apiclient.WithLogger(a.log),
	)
	a.gate, err = session.NewGate(a.api, session.FileStore{Path: cfg.TokenFile})
	return err
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
