package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

const schemaBaseURL = "https://blackjack.lox.dev/schemas/"

var (
	// ErrInvalidMessage wraps envelope and payload validation failures
	ErrInvalidMessage = errors.New("invalid message")
	// ErrUnknownMessageType is returned for types clients may not send
	ErrUnknownMessageType = errors.New("unknown message type")
)

// payloadSchemas maps client message types to the schema their data must match
var payloadSchemas = map[MessageType]string{
	MessageTypeCreateRoom: "createRoom",
	MessageTypeJoinRoom:   "joinRoom",
	MessageTypePlaceBet:   "placeBet",
	MessageTypeLeaveRoom:  "empty",
	MessageTypeStartGame:  "empty",
	MessageTypeHit:        "empty",
	MessageTypeStand:      "empty",
	MessageTypeDouble:     "empty",
}

// Validator checks inbound client messages against the embedded JSON schemas
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles every embedded schema
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	entries, err := schemaFiles.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	// Register everything first so $refs between files resolve
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		data, err := schemaFiles.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", entry.Name(), err)
		}
		if err := compiler.AddResource(schemaBaseURL+entry.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", entry.Name(), err)
		}
		names = append(names, entry.Name())
	}

	schemas := make(map[string]*jsonschema.Schema, len(names))
	for _, filename := range names {
		schema, err := compiler.Compile(schemaBaseURL + filename)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", filename, err)
		}
		schemas[strings.TrimSuffix(filename, ".json")] = schema
	}

	return &Validator{schemas: schemas}, nil
}

// ParseClientMessage validates raw bytes from a client and returns the
// decoded envelope. Errors wrap ErrInvalidMessage or ErrUnknownMessageType.
func (v *Validator) ParseClientMessage(raw []byte) (*Message, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := v.schemas["message"].Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	schemaName, ok := payloadSchemas[msg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessageType, msg.Type)
	}
	if err := v.ValidatePayload(schemaName, msg.Data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMessage, msg.Type, err)
	}
	return &msg, nil
}

// ValidatePayload validates a message's data against a named schema.
// Missing data is treated as null.
func (v *Validator) ValidatePayload(schemaName string, data json.RawMessage) error {
	schema, ok := v.schemas[schemaName]
	if !ok {
		return fmt.Errorf("schema not found: %s", schemaName)
	}

	var doc any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return schema.Validate(doc)
}

// Schemas returns the names of the loaded schemas
func (v *Validator) Schemas() []string {
	names := make([]string, 0, len(v.schemas))
	for name := range v.schemas {
		names = append(names, name)
	}
	return names
}
