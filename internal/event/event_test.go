package event

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNew_RequiresWorkspace(t *testing.T) {
	if _, err := New("create", ""); err == nil {
		t.Fatal("expected error for empty workspace ID")
	}
}

func TestNew_OptionalFieldsDefaultAbsent(t *testing.T) {
	ev, err := New("create", "ws1")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if ev.Type() != "create" {
		t.Errorf("Type: got %q, want %q", ev.Type(), "create")
	}
	if ev.WorkspaceID() != "ws1" {
		t.Errorf("WorkspaceID: got %q, want %q", ev.WorkspaceID(), "ws1")
	}
	if ev.BlockID() != "" {
		t.Errorf("BlockID should be absent, got %q", ev.BlockID())
	}
	if ev.GroupID() != "" {
		t.Errorf("GroupID should be absent, got %q", ev.GroupID())
	}
}

func TestFields_OmitsAbsentOptionals(t *testing.T) {
	ev, err := New("create", "ws1")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	fields, err := ev.Fields()
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}

	if fields[KeyType] != "create" {
		t.Errorf("type: got %v, want create", fields[KeyType])
	}
	if fields[KeyWorkspace] != "ws1" {
		t.Errorf("workspaceId: got %v, want ws1", fields[KeyWorkspace])
	}
	if _, ok := fields[KeyBlock]; ok {
		t.Error("blockId key must be omitted when unset, not emitted")
	}
	if _, ok := fields[KeyGroup]; ok {
		t.Error("groupId key must be omitted when unset, not emitted")
	}
}

func TestFields_IncludesSetOptionals(t *testing.T) {
	ev, err := New("delete", "ws1", WithBlock("b1"), WithGroup("g1"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	fields, err := ev.Fields()
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}

	if fields[KeyBlock] != "b1" {
		t.Errorf("blockId: got %v, want b1", fields[KeyBlock])
	}
	if fields[KeyGroup] != "g1" {
		t.Errorf("groupId: got %v, want g1", fields[KeyGroup])
	}
}

func TestParseBase_MissingWorkspaceFails(t *testing.T) {
	cases := []map[string]any{
		{},
		{"blockId": "b1", "groupId": "g1"},
		{"workspaceId": nil},
		{"workspaceId": 42},
		{"workspaceId": ""},
	}

	for _, fields := range cases {
		_, err := ParseBase("create", fields)
		if err == nil {
			t.Errorf("ParseBase(%v) should fail", fields)
			continue
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("ParseBase(%v): error %v is not a *ParseError", fields, err)
		}
	}
}

func TestParseBase_NonStringOptionalsTreatedAbsent(t *testing.T) {
	ev, err := ParseBase("create", map[string]any{
		"workspaceId": "ws1",
		"blockId":     7,
		"groupId":     nil,
	})
	if err != nil {
		t.Fatalf("ParseBase failed: %v", err)
	}

	if ev.BlockID() != "" {
		t.Errorf("non-string blockId should resolve to absent, got %q", ev.BlockID())
	}
	if ev.GroupID() != "" {
		t.Errorf("null groupId should resolve to absent, got %q", ev.GroupID())
	}
}

func TestRoundTrip_BaseFields(t *testing.T) {
	original, err := New("custom_kind", "ws1", WithBlock("b1"), WithGroup("g1"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	fields, err := original.Fields()
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}

	parsed, err := ParseBase(original.Type(), fields)
	if err != nil {
		t.Fatalf("ParseBase failed: %v", err)
	}

	if parsed.Type() != original.Type() {
		t.Errorf("Type: got %q, want %q", parsed.Type(), original.Type())
	}
	if parsed.WorkspaceID() != original.WorkspaceID() {
		t.Errorf("WorkspaceID: got %q, want %q", parsed.WorkspaceID(), original.WorkspaceID())
	}
	if parsed.BlockID() != original.BlockID() {
		t.Errorf("BlockID: got %q, want %q", parsed.BlockID(), original.BlockID())
	}
	if parsed.GroupID() != original.GroupID() {
		t.Errorf("GroupID: got %q, want %q", parsed.GroupID(), original.GroupID())
	}
}

func TestEncode_MatchesFields(t *testing.T) {
	ev, err := New("create", "ws1", WithBlock("b1"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	data, err := Encode(ev)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Encode output is not valid JSON: %v", err)
	}

	want := map[string]any{
		"type":        "create",
		"workspaceId": "ws1",
		"blockId":     "b1",
	}
	if len(decoded) != len(want) {
		t.Errorf("document has %d keys, want %d: %v", len(decoded), len(want), decoded)
	}
	for k, v := range want {
		if decoded[k] != v {
			t.Errorf("%s: got %v, want %v", k, decoded[k], v)
		}
	}
}

func TestEncode_WrapsVariantFailure(t *testing.T) {
	_, err := Encode(failingEvent{})
	if err == nil {
		t.Fatal("expected error from failing variant")
	}

	var merr *MarshalError
	if !errors.As(err, &merr) {
		t.Fatalf("error %v is not a *MarshalError", err)
	}
	if merr.Type != "broken" {
		t.Errorf("MarshalError.Type: got %q, want %q", merr.Type, "broken")
	}
}

// failingEvent simulates a variant whose payload cannot be serialized.
type failingEvent struct{}

func (failingEvent) Type() string        { return "broken" }
func (failingEvent) WorkspaceID() string { return "ws1" }
func (failingEvent) GroupID() string     { return "" }
func (failingEvent) BlockID() string     { return "" }
func (failingEvent) Fields() (map[string]any, error) {
	return nil, errors.New("payload not serializable")
}

func TestNewGroupID_UniqueAndWellFormed(t *testing.T) {
	a, err := NewGroupID()
	if err != nil {
		t.Fatalf("NewGroupID failed: %v", err)
	}
	b, err := NewGroupID()
	if err != nil {
		t.Fatalf("NewGroupID failed: %v", err)
	}

	if a == b {
		t.Error("two generated group IDs should differ")
	}
	if len(a) != idLength {
		t.Errorf("group ID length: got %d, want %d", len(a), idLength)
	}
}
