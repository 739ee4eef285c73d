package handlers

import (
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) SetRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Get("/health", h.HealthHandler)
			r.Get("/commands", h.CommandsHandler)
		})
	})
}

func (h *Handler) InitAuth(jwtKey string) {
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
		"service_id": "card",
		"exp":        expirationTime,
	})

	log.Debugf("DEBUG: JWT for testing expires soon : %s", tokenString)
}

// TokenAuth is the verifier guarding the secure routes.
func (h *Handler) TokenAuth() *jwtauth.JWTAuth {
	return h.tokenAuth
}
