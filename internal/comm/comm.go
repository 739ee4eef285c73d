package comm

import (
	"encoding/json"
)

// NATS subjects shared by the bot and the gateway
const (
	SubjectCommands = "command.service"  // gateway -> bot
	SubjectReplies  = "bot.service"      // bot -> gateway
	SubjectRegister = "command.register" // bot -> gateway, request/reply
)

// WSMessage types
const (
	TypeCommand      = "command"
	TypeCommandReply = "command-reply"
	TypeError        = "error"
)

type WSMessage struct {
	Type     string          `json:"type"` // e.g. "command", "command-reply"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

// Interaction is one command invocation from a chat user.
type Interaction struct {
	Command string         `json:"command"`
	Options map[string]any `json:"options"`
	User    string         `json:"user"` // invoking user name, becomes card author
}

type CommandReply struct {
	Command string `json:"command"`
	Content string `json:"content"`
}

type OptionType string

const (
	OptionString  OptionType = "string"
	OptionInteger OptionType = "integer"
	OptionBoolean OptionType = "boolean"
)

type OptionDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        OptionType `json:"type"`
	Required    bool       `json:"required"`
}

// CommandDefinition is what gets registered with the chat gateway.
type CommandDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Options     []OptionDefinition `json:"options"`
}

type Res struct {
	Status bool   `json:"status"`
	Error  string `json:"error,omitempty"`
}
