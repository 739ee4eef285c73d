package broker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/card-services/internal/cardsvc/command"
	"github.com/avvvet/card-services/internal/cardsvc/service"
	"github.com/avvvet/card-services/internal/cardsvc/store"
	"github.com/avvvet/card-services/internal/comm"
)

func newTestBroker() *Broker {
	svc := service.NewCardService(store.NewMemoryCardStore(), time.UTC)
	registry := command.NewRegistry(append(command.NewCardCommands(svc).Commands(), command.Ping)...)
	return NewBroker(nil, registry, time.Second)
}

func envelope(t *testing.T, msgType string, data string) []byte {
	t.Helper()
	raw, err := json.Marshal(comm.WSMessage{Type: msgType, Data: json.RawMessage(data), SocketId: "sock-1"})
	require.NoError(t, err)
	return raw
}

func decodeReply(t *testing.T, payload []byte) (comm.WSMessage, comm.CommandReply) {
	t.Helper()
	var msg comm.WSMessage
	require.NoError(t, json.Unmarshal(payload, &msg))
	var reply comm.CommandReply
	require.NoError(t, json.Unmarshal(msg.Data, &reply))
	return msg, reply
}

func TestProcessCommand(t *testing.T) {
	b := newTestBroker()

	payload, ok := b.Process(envelope(t, comm.TypeCommand,
		`{"command":"post_card","user":"alice","options":{"card_name":"貪狼","cost":4,"category":"感知"}}`))
	require.True(t, ok)

	msg, reply := decodeReply(t, payload)
	assert.Equal(t, comm.TypeCommandReply, msg.Type)
	assert.Equal(t, "sock-1", msg.SocketId)
	assert.Equal(t, "post_card", reply.Command)
	assert.Contains(t, reply.Content, `"cost": 4`)

	payload, ok = b.Process(envelope(t, comm.TypeCommand,
		`{"command":"play_card","user":"alice","options":{"card_name":"貪狼","curr_mana":5}}`))
	require.True(t, ok)
	_, reply = decodeReply(t, payload)
	assert.Contains(t, reply.Content, "MANA：5 -> 1")
}

func TestProcessFractionalCost(t *testing.T) {
	b := newTestBroker()

	payload, ok := b.Process(envelope(t, comm.TypeCommand,
		`{"command":"post_card","user":"alice","options":{"card_name":"a","cost":1.5,"category":"感知"}}`))
	require.True(t, ok)
	_, reply := decodeReply(t, payload)
	assert.Equal(t, "InvalidParameterError: cost is not an integer!", reply.Content)
}

func TestProcessIgnoresUnknown(t *testing.T) {
	b := newTestBroker()

	_, ok := b.Process([]byte("not json"))
	assert.False(t, ok)

	_, ok = b.Process(envelope(t, "init", `{}`))
	assert.False(t, ok)

	_, ok = b.Process(envelope(t, comm.TypeCommand, `{"command":"test_embed"}`))
	assert.False(t, ok)
}
