package deploy

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/card-services/internal/apperr"
	"github.com/avvvet/card-services/internal/comm"
)

type MockRequester struct {
	mock.Mock
}

func (m *MockRequester) Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error) {
	args := m.Called(subj, data, timeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nats.Msg), args.Error(1)
}

var defs = []comm.CommandDefinition{{Name: "ping", Description: "Replies with Pong!"}}

func TestDeployCommands(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockRequester)
		wantErr   string
	}{
		{
			name: "ack",
			setupMock: func(m *MockRequester) {
				m.On("Request", comm.SubjectRegister, mock.Anything, time.Second).
					Return(&nats.Msg{Data: []byte(`{"status":true}`)}, nil)
			},
		},
		{
			name: "rejected",
			setupMock: func(m *MockRequester) {
				m.On("Request", comm.SubjectRegister, mock.Anything, time.Second).
					Return(&nats.Msg{Data: []byte(`{"status":false,"error":"duplicate command name"}`)}, nil)
			},
			wantErr: "BotDeployError: Deploy Commands Failed: duplicate command name",
		},
		{
			name: "no responders",
			setupMock: func(m *MockRequester) {
				m.On("Request", comm.SubjectRegister, mock.Anything, time.Second).
					Return(nil, errors.New("nats: no responders available for request"))
			},
			wantErr: "BotDeployError: Deploy Commands Failed: nats: no responders available for request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockRequester)
			tt.setupMock(m)

			err := DeployCommands(m, defs, time.Second)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, apperr.BotDeploy, apperr.KindOf(err))
				assert.Equal(t, tt.wantErr, err.Error())
			} else {
				assert.NoError(t, err)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestDeployCommandsPayload(t *testing.T) {
	m := new(MockRequester)
	m.On("Request", comm.SubjectRegister, mock.MatchedBy(func(data []byte) bool {
		var got []comm.CommandDefinition
		return json.Unmarshal(data, &got) == nil && len(got) == 1 && got[0].Name == "ping"
	}), time.Second).Return(&nats.Msg{Data: []byte(`{"status":true}`)}, nil)

	require.NoError(t, DeployCommands(m, defs, time.Second))
	m.AssertExpectations(t)
}
