package chat

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/message", h.SendMessage)
		r.Get("/{session_id}/transcript", h.GetTranscript)
	})
}
