package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/avvvet/card-services/internal/comm"
)

type Handler struct {
	tokenAuth   *jwtauth.JWTAuth
	port        string
	definitions func() []comm.CommandDefinition
}

func NewHandler(port string, definitions func() []comm.CommandDefinition) *Handler {
	return &Handler{port: port, definitions: definitions}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "card service is running at port " + h.port,
		Code:    http.StatusOK,
	})
}

// CommandsHandler lists the commands this bot serves.
func (h *Handler) CommandsHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "commands",
		Code:    http.StatusOK,
		Data:    h.definitions(),
	})
}
