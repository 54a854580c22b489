// Package command sends Celery Script commands to the bot's command channel.
// Publishers are abstracted so the tools can be tested without a bot.
package command

import (
	"context"
	"encoding/json"
	"fmt"
)

// Kind is a Celery Script node kind.
type Kind string

const (
	KindSendMessage Kind = "send_message"
	KindSetUserEnv  Kind = "set_user_env"
	KindPair        Kind = "pair"
	KindRPCRequest  Kind = "rpc_request"
)

// Message types understood by send_message.
const (
	MessageError   = "error"
	MessageInfo    = "info"
	MessageSuccess = "success"
)

// Command is a Celery Script node.
type Command struct {
	Kind Kind           `json:"kind"`
	Args map[string]any `json:"args"`
	Body []Command      `json:"body,omitempty"`
}

// Publisher sends commands to the bot.
type Publisher interface {
	// Send delivers a command. Returns error if delivery fails
	// (should not crash the process).
	Send(ctx context.Context, cmd Command) error

	// Close releases the connection.
	Close() error
}

// ConnectionStatus reports whether a publisher's connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Notification is a user-visible message for the bot's log.
type Notification struct {
	Kind    string // e.g. "error", "info"
	Message string
}

// NoData is the notification sent when a pin has no stored readings.
func NoData(tool string, pin int) Notification {
	return Notification{
		Kind:    MessageError,
		Message: fmt.Sprintf("[%s] No data available for pin %d.", tool, pin),
	}
}

// ValueUnavailable is the notification sent when the bot reports no value
// for a pin.
func ValueUnavailable(tool string, pin int) Notification {
	return Notification{
		Kind:    MessageError,
		Message: fmt.Sprintf("[%s] Pin %d value not available.", tool, pin),
	}
}

// SendMessage wraps a notification in a send_message command.
func SendMessage(n Notification) Command {
	return Command{
		Kind: KindSendMessage,
		Args: map[string]any{
			"message_type": n.Kind,
			"message":      n.Message,
		},
	}
}

// SetUserEnv builds a set_user_env command storing value under label.
func SetUserEnv(label, value string) Command {
	return Command{
		Kind: KindSetUserEnv,
		Args: map[string]any{},
		Body: []Command{{
			Kind: KindPair,
			Args: map[string]any{
				"label": label,
				"value": value,
			},
		}},
	}
}

// RPCRequest wraps commands in an rpc_request, as required on the MQTT
// channel. The label lets the bot correlate its rpc_ok/rpc_error reply.
func RPCRequest(label string, body ...Command) Command {
	return Command{
		Kind: KindRPCRequest,
		Args: map[string]any{
			"label":    label,
			"priority": 600,
		},
		Body: body,
	}
}

// FormatPayload creates the JSON payload for a command.
func FormatPayload(cmd Command) ([]byte, error) {
	if cmd.Args == nil {
		cmd.Args = map[string]any{}
	}
	return json.Marshal(cmd)
}
