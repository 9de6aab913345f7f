package ws

import (
	"encoding/json"
	"fmt"

	"battleship-bot/boterrors"
	"battleship-bot/game"
)

// InboundEnvelope is the generic envelope for all server-to-bot game events.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	// Unmarshal just the type field
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// DecodeEvent turns the payload of a "data" event into one of the game event types.
func DecodeEvent(data []byte) (game.Event, error) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	var ev game.Event
	switch envelope.Type {
	case "INIT":
		ev = &game.InitEvent{}
	case "SET":
		ev = &game.SetEvent{}
	case "ROUND":
		ev = &game.RoundEvent{}
	case "RESULT":
		ev = &game.ResultEvent{}
	default:
		return nil, fmt.Errorf("%w: %q", boterrors.ErrUnknownEventType, envelope.Type)
	}
	if err := json.Unmarshal(envelope.Raw, ev); err != nil {
		return nil, fmt.Errorf("decode %s event: %w", envelope.Type, err)
	}
	return ev, nil
}
