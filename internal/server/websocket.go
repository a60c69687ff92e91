package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zebp/discord-rust-playground/internal/bot"
	"github.com/zebp/discord-rust-playground/internal/reply"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsIncoming is a message from the client.
type wsIncoming struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
}

// wsOutgoing is a message to the client.
type wsOutgoing struct {
	Type    string       `json:"type"`
	Content string       `json:"content,omitempty"`
	Embed   *reply.Embed `json:"embed,omitempty"`
}

// wsReplier sends bot replies as frames on one connection.
type wsReplier struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (r *wsReplier) SendPlain(_ context.Context, _ string, text string) error {
	return r.write(wsOutgoing{Type: bot.ReplyPlain, Content: text})
}

func (r *wsReplier) SendEmbed(_ context.Context, _ string, e reply.Embed) error {
	return r.write(wsOutgoing{Type: bot.ReplyEmbed, Embed: &e})
}

func (r *wsReplier) write(v wsOutgoing) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Upgrade to WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade error", zap.Error(err))
		return
	}
	defer conn.Close()

	// Cancelled when the client goes away
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	rep := &wsReplier{conn: conn}
	var wg sync.WaitGroup
	defer wg.Wait()

	// Read loop
	for {
		var msg wsIncoming
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read error", zap.Error(err))
			}
			cancel()
			return
		}

		if msg.Type != "message" || msg.Content == "" {
			if err := rep.write(wsOutgoing{Type: "error", Content: "invalid message"}); err != nil {
				s.logger.Debug("websocket write error", zap.Error(err))
			}
			continue
		}

		// Commands run independently; a slow playground call does not
		// block the next message.
		wg.Add(1)
		go func(text, author string) {
			defer wg.Done()
			err := s.handler.Handle(ctx, bot.Message{
				ConversationID: id,
				AuthorID:       author,
				Text:           text,
			}, rep)
			if err != nil {
				s.logger.Debug("command failed", zap.String("conversation_id", id), zap.Error(err))
			}
		}(msg.Content, msg.Author)
	}
}
