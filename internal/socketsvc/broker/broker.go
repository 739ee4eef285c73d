package broker

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/avvvet/card-services/internal/comm"
	"github.com/avvvet/card-services/internal/socketsvc/catalog"
)

// JSONWriter is a client connection that replies can be written to.
type JSONWriter interface {
	WriteJSON(v interface{}) error
}

type Broker struct {
	Conn          *nats.Conn
	GetConnection func(string) (JSONWriter, bool)
	Catalog       *catalog.Catalog
}

func NewBroker(conn *nats.Conn, fncGetConnection func(string) (JSONWriter, bool), c *catalog.Catalog) *Broker {
	return &Broker{
		Conn:          conn,
		GetConnection: fncGetConnection,
		Catalog:       c,
	}
}

// consume replies from the bot
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// answer command registration requests from the bot
func (b *Broker) SubscribeRegistrations(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, func(msg *nats.Msg) {
		if err := msg.Respond(b.Register(msg.Data)); err != nil {
			log.Errorf("Error responding to registration: %s", err)
		}
	})
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// publish message for the bot to consume
func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

// Register replaces the catalog with the posted definitions and returns the
// acknowledgement body.
func (b *Broker) Register(data []byte) []byte {
	res := comm.Res{Status: true}

	var defs []comm.CommandDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		res = comm.Res{Status: false, Error: "malformed command definitions: " + err.Error()}
	} else if err := b.Catalog.Replace(defs); err != nil {
		res = comm.Res{Status: false, Error: err.Error()}
	}

	if res.Status {
		log.Infof("registered %d commands", len(defs))
	} else {
		log.Errorf("command registration rejected: %s", res.Error)
	}

	ack, _ := json.Marshal(res)
	return ack
}

// handleMessages receive message from the bot
func (b *Broker) handleMessages(msgNats *nats.Msg) {
	b.Forward(msgNats.Data)
}

// Forward routes one bot message to the socket it answers.
func (b *Broker) Forward(data []byte) {
	message := &comm.WSMessage{}
	if err := json.Unmarshal(data, message); err != nil {
		log.Errorf("Error %s", err)
		return
	}

	switch message.Type {
	case comm.TypeCommandReply:
		b.sendMessage(message)
	default:
		log.Errorf("Unknown message %s", message.Type)
	}
}

// send socket message to the chat client
func (b *Broker) sendMessage(m *comm.WSMessage) {
	conn, ok := b.GetConnection(m.SocketId)
	if !ok {
		log.Warnf("reply for closed socket %s dropped", m.SocketId)
		return
	}
	if err := conn.WriteJSON(m); err != nil {
		log.Errorf("Failed to write reply to socket %s: %v", m.SocketId, err)
	}
}
