package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/avvvet/card-services/internal/comm"
	"github.com/avvvet/card-services/internal/socketsvc/broker"
	"github.com/avvvet/card-services/internal/socketsvc/catalog"
)

// Publisher forwards envelopes to the bot.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Client is one chat connection. Writes are serialized because replies from
// the bot and errors from the read loop arrive on different goroutines.
type Client struct {
	Conn *websocket.Conn
	User string
	mu   sync.Mutex
}

func (c *Client) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteJSON(v)
}

type Ws struct {
	connMap sync.Map // socketId -> *Client
	Broker  Publisher
	Catalog *catalog.Catalog
}

func NewWs(c *catalog.Catalog) *Ws {
	return &Ws{Catalog: c}
}

// SocketMessage handles one message from a chat client.
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) error {
	switch message.Type {
	case comm.TypeCommand:
		return s.handleCommand(socketId, message)
	default:
		log.Warnf("unknown event received: %s", message.Type)
		return fmt.Errorf("unknown message type: %s", message.Type)
	}
}

func (s *Ws) handleCommand(socketId string, msg *comm.WSMessage) error {
	client, ok := s.getClient(socketId)
	if !ok {
		return errors.New("connection not found")
	}

	interaction := &comm.Interaction{}
	if err := json.Unmarshal(msg.Data, interaction); err != nil {
		log.Errorf("Error: invalid_command_data Malformed command payload %s", err)
		return errors.New("malformed command payload")
	}

	if interaction.Command == "" {
		return errors.New("command is required")
	}
	if err := s.Catalog.Check(interaction); err != nil {
		return err
	}

	// the invoking user is whoever authenticated the socket
	interaction.User = client.User

	data, err := json.Marshal(interaction)
	if err != nil {
		return err
	}
	out := &comm.WSMessage{
		Type:     comm.TypeCommand,
		Data:     data,
		SocketId: socketId,
	}

	bytes, err := json.Marshal(out)
	if err != nil {
		log.Errorf("Failed to marshal WSMessage for NATS: %v", err)
		return err
	}

	if err := s.Broker.Publish(comm.SubjectCommands, bytes); err != nil {
		log.Errorf("Failed to publish to NATS topic %s: %v", comm.SubjectCommands, err)
		return errors.New("bot unavailable")
	}

	log.Infof("Published %s from %s to topic %s", interaction.Command, client.User, comm.SubjectCommands)
	return nil
}

func (s *Ws) StoreConnection(socketId string, c *Client) {
	s.connMap.Store(socketId, c)
}

func (s *Ws) getClient(socketId string) (*Client, bool) {
	c, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return c.(*Client), true
}

// GetConnection is handed to the broker for routing replies.
func (s *Ws) GetConnection(socketId string) (broker.JSONWriter, bool) {
	c, ok := s.getClient(socketId)
	if !ok {
		return nil, false
	}
	return c, true
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
}
