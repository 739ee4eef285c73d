package command

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/avvvet/card-services/internal/apperr"
	"github.com/avvvet/card-services/internal/comm"
)

// ExecuteFailedReply answers a command whose handler panicked.
const ExecuteFailedReply = "There was an error while executing this command!"

// Handler runs one command and returns the success body or a tagged error.
type Handler func(ctx context.Context, i *comm.Interaction) (string, error)

type Command struct {
	Definition comm.CommandDefinition
	Execute    Handler
}

type Registry struct {
	commands map[string]Command
	order    []string
}

func NewRegistry(cmds ...Command) *Registry {
	r := &Registry{commands: make(map[string]Command, len(cmds))}
	for _, c := range cmds {
		r.Register(c)
	}
	return r
}

// Register adds c, replacing any command with the same name.
func (r *Registry) Register(c Command) {
	name := c.Definition.Name
	if _, ok := r.commands[name]; !ok {
		r.order = append(r.order, name)
	}
	r.commands[name] = c
}

// Definitions returns the declared commands in registration order.
func (r *Registry) Definitions() []comm.CommandDefinition {
	defs := make([]comm.CommandDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.commands[name].Definition)
	}
	return defs
}

// Dispatch routes i to its command and renders the reply. ok is false for
// commands this registry does not know.
func (r *Registry) Dispatch(ctx context.Context, i *comm.Interaction) (reply string, ok bool) {
	c, found := r.commands[i.Command]
	if !found {
		log.Warnf("unknown command received: %s", i.Command)
		return "", false
	}

	defer func() {
		if p := recover(); p != nil {
			log.Errorf("command %s panicked: %v", i.Command, p)
			reply, ok = ExecuteFailedReply, true
		}
	}()

	content, err := c.Execute(ctx, i)
	if err != nil {
		log.Warnf("command %s by %s failed: %s", i.Command, i.User, err)
	} else {
		log.Infof("command %s by %s succeeded", i.Command, i.User)
	}
	return Render(content, err), true
}

// Render is the two-armed projection of a handler result into reply text.
func Render(content string, err error) string {
	if err != nil {
		return apperr.From(err).Error()
	}
	return content
}
