package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/avvvet/card-services/internal/socketsvc/handlers"
)

func SetRoutes(r chi.Router, h *handlers.Handler, tokenAuth *jwtauth.JWTAuth) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/commands", h.CommandsHandler)

		// browsers cannot set headers on a websocket handshake
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(tokenAuth, tokenFromQuery, jwtauth.TokenFromHeader))
			r.Use(jwtauth.Authenticator)

			r.Get("/ws", h.HandleWebSocket)
		})

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Get("/health", h.HealthHandler)
		})
	})
}

func tokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("token")
}

func InitAuth(jwtKey string) *jwtauth.JWTAuth {
	tokenAuth := jwtauth.New("HS256", []byte(jwtKey), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, _ := tokenAuth.Encode(map[string]interface{}{
		"service_id":        "socket",
		handlers.UserClaim: "tester",
		"exp":               expirationTime,
	})

	log.Debugf("DEBUG: JWT for testing expires soon : %s", tokenString)
	return tokenAuth
}
