package command

import (
	"context"

	"github.com/avvvet/card-services/internal/comm"
)

var Ping = Command{
	Definition: comm.CommandDefinition{
		Name:        "ping",
		Description: "Replies with Pong!",
	},
	Execute: func(context.Context, *comm.Interaction) (string, error) {
		return "Pong!", nil
	},
}
