package actions

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/actions", func(r chi.Router) {
		r.Get("/pending", h.ListPending)
		r.Get("/rate-limit", h.GetRateLimitStatus)
		r.Post("/{action_id}/confirm", h.ConfirmAction)
		r.Post("/{action_id}/cancel", h.CancelAction)
	})
}
