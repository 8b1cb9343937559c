package event

import (
	"errors"
	"testing"
)

func TestDecode_DispatchesOnTypeTag(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"create","workspaceId":"ws1","blockId":"b1","ids":["b1","b2"]}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	create, ok := ev.(*Create)
	if !ok {
		t.Fatalf("expected *Create, got %T", ev)
	}
	if create.WorkspaceID() != "ws1" {
		t.Errorf("WorkspaceID: got %q, want ws1", create.WorkspaceID())
	}
	if create.BlockID() != "b1" {
		t.Errorf("BlockID: got %q, want b1", create.BlockID())
	}
	if got := create.IDs(); len(got) != 2 || got[0] != "b1" || got[1] != "b2" {
		t.Errorf("IDs: got %v, want [b1 b2]", got)
	}
}

func TestDecode_SpecExample(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"create","workspaceId":"ws1","blockId":"b1"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if ev.Type() != "create" || ev.WorkspaceID() != "ws1" || ev.BlockID() != "b1" {
		t.Errorf("unexpected event: type=%q workspace=%q block=%q",
			ev.Type(), ev.WorkspaceID(), ev.BlockID())
	}
	if ev.GroupID() != "" {
		t.Errorf("GroupID should be absent, got %q", ev.GroupID())
	}

	fields, err := ev.Fields()
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}
	if _, ok := fields[KeyGroup]; ok {
		t.Error("re-serialized document must not contain a groupId key")
	}
}

func TestDecode_EmptyObjectFails(t *testing.T) {
	_, err := Decode([]byte(`{}`))
	if err == nil {
		t.Fatal("decoding an empty object should fail")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error %v is not a *ParseError", err)
	}
}

func TestDecode_MalformedJSONFails(t *testing.T) {
	for _, data := range []string{`{`, `[]`, `"create"`, ``} {
		_, err := Decode([]byte(data))
		if err == nil {
			t.Errorf("Decode(%q) should fail", data)
			continue
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Decode(%q): error %v is not a *ParseError", data, err)
		}
	}
}

func TestDecode_MissingTypeFails(t *testing.T) {
	_, err := Decode([]byte(`{"workspaceId":"ws1"}`))
	if err == nil {
		t.Fatal("decoding without a type tag should fail")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error %v is not a *ParseError", err)
	}
	if perr.Field != KeyType {
		t.Errorf("ParseError.Field: got %q, want %q", perr.Field, KeyType)
	}
}

func TestDecode_UnknownTypeYieldsBase(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"comment_create","workspaceId":"ws1","groupId":"g1"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if _, ok := ev.(*Base); !ok {
		t.Fatalf("unknown type should decode as *Base, got %T", ev)
	}
	if ev.Type() != "comment_create" {
		t.Errorf("Type: got %q, want comment_create", ev.Type())
	}
	if ev.GroupID() != "g1" {
		t.Errorf("GroupID: got %q, want g1", ev.GroupID())
	}
}

func TestRegister_OverridesBuiltin(t *testing.T) {
	type marked struct{ Base }

	Register("ui", func(base *Base, fields map[string]any) (Event, error) {
		return &marked{Base: *base}, nil
	})
	t.Cleanup(func() { Register("ui", parseUI) })

	ev, err := Decode([]byte(`{"type":"ui","workspaceId":"ws1"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if _, ok := ev.(*marked); !ok {
		t.Errorf("expected overridden decoder to run, got %T", ev)
	}
}

func TestRoundTrip_Variants(t *testing.T) {
	events := []Event{
		mustEvent(t)(NewCreate("ws1", "<block/>", []string{"b1"}, WithBlock("b1"))),
		mustEvent(t)(NewDelete("ws1", "<block/>", []string{"b1", "b2"}, WithBlock("b1"), WithGroup("g1"))),
		mustEvent(t)(NewChange("ws1", "field", "NUM", "1", "2", WithBlock("b1"))),
		mustEvent(t)(NewMove("ws1", "parent1", "INPUT", "", WithBlock("b1"))),
		mustEvent(t)(NewUI("ws1", "selected", "b1", "b2")),
	}

	for _, original := range events {
		data, err := Encode(original)
		if err != nil {
			t.Fatalf("Encode(%s) failed: %v", original.Type(), err)
		}

		decoded, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode(%s) failed: %v", data, err)
		}

		redone, err := Encode(decoded)
		if err != nil {
			t.Fatalf("re-Encode(%s) failed: %v", decoded.Type(), err)
		}

		if !sameJSON(t, data, redone) {
			t.Errorf("%s: round trip changed the document:\n  first:  %s\n  second: %s",
				original.Type(), data, redone)
		}
	}
}

func mustEvent(t *testing.T) func(Event, error) Event {
	t.Helper()
	return func(ev Event, err error) Event {
		if err != nil {
			t.Fatalf("constructing event: %v", err)
		}
		return ev
	}
}

func sameJSON(t *testing.T, a, b []byte) bool {
	t.Helper()
	fa, err := Decode(a)
	if err != nil {
		t.Fatalf("decoding %s: %v", a, err)
	}
	fb, err := Decode(b)
	if err != nil {
		t.Fatalf("decoding %s: %v", b, err)
	}
	ma, _ := fa.Fields()
	mb, _ := fb.Fields()
	if len(ma) != len(mb) {
		return false
	}
	for k := range ma {
		va, _ := ma[k].([]string)
		vb, _ := mb[k].([]string)
		if va != nil || vb != nil {
			if len(va) != len(vb) {
				return false
			}
			for i := range va {
				if va[i] != vb[i] {
					return false
				}
			}
			continue
		}
		if ma[k] != mb[k] {
			return false
		}
	}
	return true
}
