package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zebp/discord-rust-playground/internal/discord"
	"github.com/zebp/discord-rust-playground/internal/server"
)

var (
	portFlag int
	httpFlag bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Discord and answer !rust commands",
	Long: `Connect to Discord with DISCORD_TOKEN and answer commands in the
channels listed in CHANNELS.

With --http (or server.enabled in the config) an HTTP gateway is also
started: POST /api/messages and a WebSocket at /api/conversations/{id}/ws.

Examples:
  playbot serve
  playbot serve --http --port 9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&portFlag, "port", 0, "HTTP gateway port (overrides config)")
	serveCmd.Flags().BoolVar(&httpFlag, "http", false, "Also start the HTTP gateway")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.cfg.RequireToken(); err != nil {
		return err
	}

	gw, err := discord.New(a.cfg.Discord.Token, a.logger.Named("discord"))
	if err != nil {
		return err
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting playbot", zap.Strings("channels", a.cfg.Channels))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return gw.Run(ctx, a.bot)
	})

	if httpFlag || a.cfg.Server.Enabled {
		port := a.cfg.Server.Port
		if portFlag > 0 {
			port = portFlag
		}
		srv := server.New(a.bot, a.logger.Named("http"))
		g.Go(func() error {
			return srv.Start(port)
		})
		g.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown(context.Background())
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
