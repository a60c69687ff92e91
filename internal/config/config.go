package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/zebp/discord-rust-playground/internal/command"
	"github.com/zebp/discord-rust-playground/internal/playground"
	"github.com/zebp/discord-rust-playground/internal/reply"
)

type DiscordConfig struct {
	Token string `mapstructure:"token" yaml:"token"`
}

type CommandConfig struct {
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
	Name   string `mapstructure:"name" yaml:"name"`
}

type PlaygroundConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type ServerConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" yaml:"port"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

type Config struct {
	Discord    DiscordConfig    `mapstructure:"discord" yaml:"discord"`
	Channels   []string         `mapstructure:"-" yaml:"channels"`
	Command    CommandConfig    `mapstructure:"command" yaml:"command"`
	Playground PlaygroundConfig `mapstructure:"playground" yaml:"playground"`
	Reply      reply.Options    `mapstructure:"reply" yaml:"reply"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

// Load reads configuration from the optional file at path (or playbot.yaml in
// the working directory or ~/.playbot), a .env file, and the environment.
func Load(path string) (*Config, error) {
	// A missing .env is normal; the variables may already be exported.
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("playbot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.playbot")
	}

	v.SetDefault("command.prefix", "!")
	v.SetDefault("command.name", "rust")
	v.SetDefault("playground.base_url", playground.DefaultBaseURL)
	v.SetDefault("playground.timeout", playground.DefaultTimeout)
	def := reply.DefaultOptions()
	v.SetDefault("reply.max_output", def.MaxOutput)
	v.SetDefault("reply.failure_marker", def.FailureMarker)
	v.SetDefault("reply.failure_skip_lines", def.FailureSkipLines)
	v.SetDefault("reply.banner_skip_lines", def.BannerSkipLines)
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetEnvPrefix("PLAYBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The names the bot has always been deployed with.
	_ = v.BindEnv("discord.token", "DISCORD_TOKEN", "PLAYBOT_DISCORD_TOKEN")
	_ = v.BindEnv("channels", "CHANNELS", "PLAYBOT_CHANNELS")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	// Whitespace-separated in the environment, a list in YAML.
	cfg.Channels = v.GetStringSlice("channels")

	// Expand environment variables in the token
	if t := cfg.Discord.Token; strings.HasPrefix(t, "${") && strings.HasSuffix(t, "}") {
		cfg.Discord.Token = os.Getenv(t[2 : len(t)-1])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if len(c.Channels) == 0 {
		return errors.New("no channels configured: set CHANNELS to a list of channel ids or wildcards")
	}
	if _, err := c.AllowList(); err != nil {
		return err
	}
	if c.Command.Prefix == "" || c.Command.Name == "" {
		return errors.New("command prefix and name must not be empty")
	}
	if c.Playground.Timeout < 0 {
		return fmt.Errorf("invalid playground timeout %s", c.Playground.Timeout)
	}
	return nil
}

// RequireToken checks that a Discord token is present.
func (c *Config) RequireToken() error {
	if c.Discord.Token == "" {
		return errors.New("no Discord token configured: set DISCORD_TOKEN")
	}
	return nil
}

// AllowList compiles the configured channel patterns.
func (c *Config) AllowList() (*command.AllowList, error) {
	return command.NewAllowList(c.Channels)
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Discord.Token != "" {
		c.Discord.Token = "<redacted>"
	}
	c.Channels = append([]string(nil), c.Channels...)
	return c
}
