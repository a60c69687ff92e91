// Package discord connects the bot to Discord.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/zebp/discord-rust-playground/internal/bot"
	"github.com/zebp/discord-rust-playground/internal/reply"
)

// Handler processes inbound messages.
type Handler interface {
	Handle(ctx context.Context, msg bot.Message, r bot.Replier) error
}

// Gateway is a Discord session that feeds messages to a Handler and
// implements bot.Replier.
type Gateway struct {
	session *discordgo.Session
	logger  *zap.Logger
}

// New creates a gateway authenticated with a bot token.
func New(token string, logger *zap.Logger) (*Gateway, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{session: s, logger: logger}, nil
}

// Run connects and dispatches messages to h until ctx is cancelled.
// discordgo calls each handler on its own goroutine.
func (g *Gateway) Run(ctx context.Context, h Handler) error {
	remove := g.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		msg, ok := inbound(s, m)
		if !ok {
			return
		}
		if err := h.Handle(ctx, msg, g); err != nil {
			g.logger.Debug("command failed",
				zap.String("conversation_id", msg.ConversationID),
				zap.Error(err))
		}
	})
	defer remove()

	g.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		g.logger.Info("connected to discord", zap.String("user", r.User.Username))
	})

	if err := g.session.Open(); err != nil {
		return fmt.Errorf("opening discord connection: %w", err)
	}

	<-ctx.Done()
	g.logger.Info("disconnecting from discord")
	if err := g.session.Close(); err != nil {
		return fmt.Errorf("closing discord connection: %w", err)
	}
	return nil
}

// inbound converts a Discord event, skipping messages written by bots.
func inbound(s *discordgo.Session, m *discordgo.MessageCreate) (bot.Message, bool) {
	if m.Author == nil || m.Author.Bot {
		return bot.Message{}, false
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return bot.Message{}, false
	}
	return bot.Message{
		ConversationID: m.ChannelID,
		AuthorID:       m.Author.ID,
		Text:           m.Content,
	}, true
}

func (g *Gateway) SendPlain(ctx context.Context, channelID, text string) error {
	if _, err := g.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("sending message to %s: %w", channelID, err)
	}
	return nil
}

func (g *Gateway) SendEmbed(ctx context.Context, channelID string, e reply.Embed) error {
	if _, err := g.session.ChannelMessageSendEmbed(channelID, toDiscord(e), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("sending embed to %s: %w", channelID, err)
	}
	return nil
}

func toDiscord(e reply.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return out
}
