package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/avvvet/card-services/internal/comm"
	"github.com/avvvet/card-services/internal/socketsvc/catalog"
	"github.com/avvvet/card-services/internal/socketsvc/ws"
)

// UserClaim is the token claim naming the chat user.
const UserClaim = "username"

type Handler struct {
	upgrader websocket.Upgrader
	ws       *ws.Ws
	catalog  *catalog.Catalog
	port     string
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func NewHandler(s *ws.Ws, c *catalog.Catalog, port string) *Handler {
	h := &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		ws:      s,
		catalog: c,
		port:    port,
	}
	return h
}

// HandleWebSocket upgrades an authenticated chat client and relays its
// commands to the bot.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	user, _ := claims[UserClaim].(string)
	if user == "" {
		http.Error(w, "token has no "+UserClaim+" claim", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	socketId := uuid.New().String()
	client := &ws.Client{Conn: conn, User: user}
	h.ws.StoreConnection(socketId, client)

	log.Infof("New WebSocket connection established: %s (%s)", socketId, user)

	// Handle WebSocket connection
	go h.handleConnection(client, socketId)
}

func (h *Handler) handleConnection(client *ws.Client, socketId string) {
	// Ensure cleanup happens when connection closes
	defer func() {
		log.Infof("Closing WebSocket connection: %s", socketId)
		client.Conn.Close()
		h.ws.HandleDisconnect(socketId)
	}()

	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Errorf("WebSocket unexpected close error for socket %s: %v", socketId, err)
			} else {
				log.Infof("WebSocket connection closed normally for socket: %s", socketId)
			}
			break
		}

		message := &comm.WSMessage{}
		if err := json.Unmarshal(raw, message); err != nil {
			log.Errorf("Failed to unmarshal message from socket %s: %v", socketId, err)
			h.sendErrorToClient(client, "Invalid message format")
			continue
		}

		log.Debugf("Received message from socket %s: type=%s", socketId, message.Type)

		if err := h.ws.SocketMessage(socketId, message); err != nil {
			h.sendErrorToClient(client, err.Error())
		}
	}
}

// sendErrorToClient sends an error message back to the WebSocket client
func (h *Handler) sendErrorToClient(client *ws.Client, errorMsg string) {
	errorResponse := map[string]interface{}{
		"type":  comm.TypeError,
		"error": errorMsg,
	}

	if err := client.WriteJSON(errorResponse); err != nil {
		log.Errorf("Failed to send error message to client: %v", err)
	}
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
		Message: "socket service is running at port " + h.port,
		Code:    http.StatusOK,
	})
}

// CommandsHandler lists the commands the bot registered.
func (h *Handler) CommandsHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "registered commands",
		Code:    http.StatusOK,
		Data:    h.catalog.List(),
	})
}
