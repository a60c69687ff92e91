package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/zebp/discord-rust-playground/internal/bot"
	"github.com/zebp/discord-rust-playground/internal/command"
	"github.com/zebp/discord-rust-playground/internal/config"
	"github.com/zebp/discord-rust-playground/internal/logging"
	"github.com/zebp/discord-rust-playground/internal/playground"
	"github.com/zebp/discord-rust-playground/internal/reply"
)

// app is everything a command needs, built from config once.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	bot    *bot.Bot
}

func newApp() (*app, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Log.Level
	if verboseFlag {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	allow, err := cfg.AllowList()
	if err != nil {
		return nil, err
	}

	client := playground.NewClient(cfg.Playground.BaseURL,
		playground.WithTimeout(cfg.Playground.Timeout),
		playground.WithLogger(logger.Named("playground")))

	b := bot.New(
		command.NewExtractor(allow, cfg.Command.Prefix, cfg.Command.Name),
		client,
		reply.NewFormatter(cfg.Reply),
		logger.Named("bot"),
	)

	return &app{cfg: cfg, logger: logger, bot: b}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
