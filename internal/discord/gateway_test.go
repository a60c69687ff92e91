package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"github.com/zebp/discord-rust-playground/internal/bot"
	"github.com/zebp/discord-rust-playground/internal/reply"
)

func TestInbound(t *testing.T) {
	s := &discordgo.Session{State: discordgo.NewState()}
	s.State.User = &discordgo.User{ID: "self"}

	msg, ok := inbound(s, &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID: "c1",
		Content:   "!rust",
		Author:    &discordgo.User{ID: "u1"},
	}})
	assert.True(t, ok)
	assert.Equal(t, bot.Message{ConversationID: "c1", AuthorID: "u1", Text: "!rust"}, msg)

	_, ok = inbound(s, &discordgo.MessageCreate{Message: &discordgo.Message{
		Author: &discordgo.User{ID: "self"},
	}})
	assert.False(t, ok, "own messages are skipped")

	_, ok = inbound(s, &discordgo.MessageCreate{Message: &discordgo.Message{
		Author: &discordgo.User{ID: "other-bot", Bot: true},
	}})
	assert.False(t, ok, "bot messages are skipped")
}

func TestToDiscord(t *testing.T) {
	e := reply.Failure("boom")
	got := toDiscord(e)

	assert.Equal(t, reply.Title, got.Title)
	assert.Equal(t, reply.FailureColor, got.Color)
	assert.Len(t, got.Fields, 1)
	assert.Equal(t, &discordgo.MessageEmbedField{Name: "Message", Value: "boom"}, got.Fields[0])
}
