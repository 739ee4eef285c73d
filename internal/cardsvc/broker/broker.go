package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/avvvet/card-services/internal/cardsvc/command"
	"github.com/avvvet/card-services/internal/comm"
)

type Broker struct {
	Conn     *nats.Conn
	Registry *command.Registry
	Timeout  time.Duration // per command, covers the storage call
}

func NewBroker(nc *nats.Conn, registry *command.Registry, timeout time.Duration) *Broker {
	return &Broker{
		Conn:     nc,
		Registry: registry,
		Timeout:  timeout,
	}
}

// consume command messages, one bot instance per message
func (b *Broker) QueueSubscribeCommands(topic, queueGroup string) (*nats.Subscription, error) {
	sub, err := b.Conn.QueueSubscribe(topic, queueGroup, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// handleMessage runs every command on its own goroutine so a slow storage
// call does not hold up the subscription.
func (b *Broker) handleMessage(msgNat *nats.Msg) {
	data := msgNat.Data
	go func() {
		payload, ok := b.Process(data)
		if !ok {
			return
		}
		b.Publish(comm.SubjectReplies, payload)
	}()
}

// Process decodes one command envelope, dispatches it and returns the reply
// envelope. ok is false when there is nothing to reply.
func (b *Broker) Process(data []byte) ([]byte, bool) {
	msg := &comm.WSMessage{}
	if err := json.Unmarshal(data, msg); err != nil {
		log.Errorf("Error nats message %s", err)
		return nil, false
	}

	switch msg.Type {
	case comm.TypeCommand:
		interaction := &comm.Interaction{}
		dec := json.NewDecoder(bytes.NewReader(msg.Data))
		dec.UseNumber()
		if err := dec.Decode(interaction); err != nil {
			log.Errorf("Error unmarshalling command: %s", err)
			return nil, false
		}

		ctx, cancel := context.WithTimeout(context.Background(), b.Timeout)
		defer cancel()

		content, ok := b.Registry.Dispatch(ctx, interaction)
		if !ok {
			return nil, false
		}

		return b.replyPayload(comm.CommandReply{Command: interaction.Command, Content: content}, msg.SocketId)
	default:
		log.Errorf("Unknown message %s", msg.Type)
		return nil, false
	}
}

func (b *Broker) replyPayload(r comm.CommandReply, socketId string) ([]byte, bool) {
	data, err := json.Marshal(r)
	if err != nil {
		log.Errorf("error [replyPayload] unable to marshal reply for %s %s", r.Command, socketId)
		return nil, false
	}

	msg := &comm.WSMessage{
		Type:     comm.TypeCommandReply,
		Data:     data,
		SocketId: socketId,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return nil, false
	}
	return payload, true
}

// publish message for the socket service to consume
func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}
