package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zebp/discord-rust-playground/internal/bot"
)

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type messageRequest struct {
	ConversationID string `json:"conversation_id"`
	AuthorID       string `json:"author_id"`
	Text           string `json:"text"`
}

type messageResponse struct {
	Replies []bot.Reply `json:"replies"`
}

// handleMessage runs one message through the bot and returns every reply it
// produced. Command failures are replies too, so they still return 200.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.ConversationID == "" {
		writeError(w, http.StatusBadRequest, "conversation_id is required")
		return
	}

	rec := &bot.Recorder{}
	err := s.handler.Handle(r.Context(), bot.Message{
		ConversationID: req.ConversationID,
		AuthorID:       req.AuthorID,
		Text:           req.Text,
	}, rec)
	if err != nil {
		s.logger.Debug("command failed",
			zap.String("http_request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}

	replies := rec.Replies()
	if replies == nil {
		replies = []bot.Reply{}
	}
	writeJSON(w, http.StatusOK, messageResponse{Replies: replies})
}
