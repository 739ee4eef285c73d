package deploy

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/avvvet/card-services/internal/apperr"
	"github.com/avvvet/card-services/internal/comm"
)

// Requester is the request/reply half of a NATS connection.
type Requester interface {
	Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error)
}

// DeployCommands registers defs with the chat gateway and waits for its ack.
func DeployCommands(r Requester, defs []comm.CommandDefinition, timeout time.Duration) error {
	payload, err := json.Marshal(defs)
	if err != nil {
		return apperr.New(apperr.BotDeploy, "Deploy Commands Failed: %s", err)
	}

	msg, err := r.Request(comm.SubjectRegister, payload, timeout)
	if err != nil {
		return apperr.New(apperr.BotDeploy, "Deploy Commands Failed: %s", err)
	}

	var res comm.Res
	if err := json.Unmarshal(msg.Data, &res); err != nil {
		return apperr.New(apperr.BotDeploy, "Deploy Commands Failed: invalid ack: %s", err)
	}
	if !res.Status {
		return apperr.New(apperr.BotDeploy, "Deploy Commands Failed: %s", res.Error)
	}

	log.Infof("%d commands deployed", len(defs))
	return nil
}
