package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/card-services/internal/comm"
)

var getCard = comm.CommandDefinition{
	Name:    "get_card",
	Options: []comm.OptionDefinition{{Name: "card_name", Type: comm.OptionString}},
}

func TestReplaceAndCheck(t *testing.T) {
	c := New()
	require.NoError(t, c.Replace([]comm.CommandDefinition{{Name: "ping"}, getCard}))

	assert.Len(t, c.List(), 2)
	assert.NoError(t, c.Check(&comm.Interaction{Command: "get_card", Options: map[string]any{"card_name": "x"}}))
	assert.NoError(t, c.Check(&comm.Interaction{Command: "get_card"}))
	assert.EqualError(t, c.Check(&comm.Interaction{Command: "nope"}), "unknown command: nope")
	assert.EqualError(t,
		c.Check(&comm.Interaction{Command: "get_card", Options: map[string]any{"cost": 1}}),
		"unknown option cost for command get_card")
}

func TestReplaceRejectsBadDefinitions(t *testing.T) {
	c := New()
	require.NoError(t, c.Replace([]comm.CommandDefinition{{Name: "ping"}}))

	assert.Error(t, c.Replace([]comm.CommandDefinition{{Name: "ping"}, {Name: "ping"}}))
	assert.Error(t, c.Replace([]comm.CommandDefinition{{Name: ""}}))
	assert.Error(t, c.Replace([]comm.CommandDefinition{{
		Name:    "x",
		Options: []comm.OptionDefinition{{Name: "a"}, {Name: "a"}},
	}}))

	// a rejected list leaves the previous one in place
	_, ok := c.Lookup("ping")
	assert.True(t, ok)
}
