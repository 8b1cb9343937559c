// Package event defines the block-editor event contract: an immutable record
// of an action that happened inside a workspace (block created, moved,
// deleted, a field changed, ...) together with its flat JSON wire format.
//
// Every event document carries a type tag, the owning workspace ID, and
// optionally the primary block it concerns plus a group ID correlating
// events that belong to one logical user action. Optional keys are omitted
// from the wire document when unset — never written as null.
package event

import (
	"encoding/json"
	"fmt"
)

// Wire keys shared by every event document.
const (
	KeyType      = "type"
	KeyWorkspace = "workspaceId"
	KeyBlock     = "blockId"
	KeyGroup     = "groupId"
)

// ParseError reports a required or mistyped field encountered while
// constructing an event from a wire document.
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return "parsing event: " + e.Reason
	}
	return fmt.Sprintf("parsing event: field %q: %s", e.Field, e.Reason)
}

// MarshalError reports a failure to render an event as a wire document.
type MarshalError struct {
	Type string
	Err  error
}

func (e *MarshalError) Error() string {
	return fmt.Sprintf("encoding %q event: %v", e.Type, e.Err)
}

func (e *MarshalError) Unwrap() error { return e.Err }

// Event is a single immutable editor action. Implementations embed Base and
// layer their own payload keys on top of the shared wire fields.
type Event interface {
	Type() string
	WorkspaceID() string
	GroupID() string
	BlockID() string

	// Fields produces the flat wire mapping for the event. Optional keys
	// are present only when set. The base record cannot fail here; the
	// error return exists for variants carrying richer payloads.
	Fields() (map[string]any, error)
}

// Base holds the fields common to every event. All fields are fixed at
// construction; events are append-only facts and are never mutated.
type Base struct {
	typ         string
	workspaceID string
	groupID     string
	blockID     string
}

// Option sets an optional field during construction.
type Option func(*Base)

// WithGroup correlates the event with a group of related events.
func WithGroup(id string) Option {
	return func(b *Base) { b.groupID = id }
}

// WithBlock names the primary block the event concerns.
func WithBlock(id string) Option {
	return func(b *Base) { b.blockID = id }
}

// New constructs a base event. The workspace ID is mandatory; everything
// else is up to the caller.
func New(typ, workspaceID string, opts ...Option) (*Base, error) {
	if workspaceID == "" {
		return nil, fmt.Errorf("workspace ID is required")
	}
	b := &Base{typ: typ, workspaceID: workspaceID}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// ParseBase extracts the shared fields from a wire document. workspaceId
// must be present as a non-empty string; blockId and groupId are taken when
// present as strings and treated as absent otherwise.
func ParseBase(typ string, fields map[string]any) (*Base, error) {
	ws, ok := fields[KeyWorkspace].(string)
	if !ok || ws == "" {
		return nil, &ParseError{Field: KeyWorkspace, Reason: "required string"}
	}
	return &Base{
		typ:         typ,
		workspaceID: ws,
		groupID:     optString(fields, KeyGroup),
		blockID:     optString(fields, KeyBlock),
	}, nil
}

func (b *Base) Type() string        { return b.typ }
func (b *Base) WorkspaceID() string { return b.workspaceID }
func (b *Base) GroupID() string     { return b.groupID }
func (b *Base) BlockID() string     { return b.blockID }

// Fields returns the shared wire mapping: type and workspaceId always,
// blockId and groupId only when set.
func (b *Base) Fields() (map[string]any, error) {
	fields := map[string]any{
		KeyType:      b.typ,
		KeyWorkspace: b.workspaceID,
	}
	if b.blockID != "" {
		fields[KeyBlock] = b.blockID
	}
	if b.groupID != "" {
		fields[KeyGroup] = b.groupID
	}
	return fields, nil
}

// Encode renders an event as JSON text.
func Encode(ev Event) ([]byte, error) {
	fields, err := ev.Fields()
	if err != nil {
		return nil, &MarshalError{Type: ev.Type(), Err: err}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, &MarshalError{Type: ev.Type(), Err: err}
	}
	return data, nil
}

// optString reads a string value from a wire document. Anything that is not
// a string (absent, null, wrong type) counts as not present.
func optString(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// optStrings reads an array-of-strings value. Arrays containing non-string
// entries, or values of any other shape, count as not present.
func optStrings(fields map[string]any, key string) []string {
	raw, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}
