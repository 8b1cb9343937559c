package event

import (
	"encoding/json"
	"sync"
)

// DecodeFunc builds a concrete event from its already-parsed base fields
// and the full wire document.
type DecodeFunc func(base *Base, fields map[string]any) (Event, error)

var (
	registryMu sync.RWMutex
	decoders   = map[string]DecodeFunc{}
)

func init() {
	Register(TypeCreate, parseCreate)
	Register(TypeDelete, parseDelete)
	Register(TypeChange, parseChange)
	Register(TypeMove, parseMove)
	Register(TypeUI, parseUI)
}

// Register installs a decoder for a type tag. Later registrations replace
// earlier ones, so callers can override the built-in variants.
func Register(typ string, fn DecodeFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	decoders[typ] = fn
}

// FromFields constructs the event a wire document describes, dispatching on
// its type tag. Tags with no registered decoder yield a bare base event so
// documents from newer or third-party emitters pass through intact.
func FromFields(fields map[string]any) (Event, error) {
	typ, ok := fields[KeyType].(string)
	if !ok || typ == "" {
		return nil, &ParseError{Field: KeyType, Reason: "required string"}
	}

	base, err := ParseBase(typ, fields)
	if err != nil {
		return nil, err
	}

	registryMu.RLock()
	fn := decoders[typ]
	registryMu.RUnlock()

	if fn == nil {
		return base, nil
	}
	return fn(base, fields)
}

// Decode parses JSON text into an event via FromFields.
func Decode(data []byte) (Event, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &ParseError{Reason: "not a JSON object: " + err.Error()}
	}
	return FromFields(fields)
}
