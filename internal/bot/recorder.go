package bot

import (
	"context"
	"sync"

	"github.com/zebp/discord-rust-playground/internal/reply"
)

// Reply is one captured outbound message.
type Reply struct {
	Type    string       `json:"type"`
	Content string       `json:"content,omitempty"`
	Embed   *reply.Embed `json:"embed,omitempty"`
}

const (
	ReplyPlain = "plain"
	ReplyEmbed = "embed"
)

// Recorder is a Replier that keeps replies in memory.
type Recorder struct {
	mu      sync.Mutex
	replies []Reply
}

func (r *Recorder) SendPlain(_ context.Context, _ string, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, Reply{Type: ReplyPlain, Content: text})
	return nil
}

func (r *Recorder) SendEmbed(_ context.Context, _ string, e reply.Embed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, Reply{Type: ReplyEmbed, Embed: &e})
	return nil
}

// Replies returns the replies recorded so far.
func (r *Recorder) Replies() []Reply {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Reply(nil), r.replies...)
}
