package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		input string
		want  Action
	}{
		{"click", ActionClick},
		{"Press", ActionClick},
		{"default", ActionClick},
		{"focus", ActionFocus},
		{" blur ", ActionBlur},
		{"showMenu", ActionShowContextMenu},
		{"show-context-menu", ActionShowContextMenu},
		{"setValue", ActionSetValue},
		{"replace-selected-text", ActionReplaceSelectedText},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAction(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ParseAction(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseAction("dance"); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestActionNames_RoundTrip(t *testing.T) {
	names := ActionNames()
	if len(names) != len(actionNames) {
		t.Fatalf("got %d names, want %d", len(names), len(actionNames))
	}
	for i, name := range names {
		if i > 0 && names[i-1] >= name {
			t.Errorf("names not sorted at %d: %q >= %q", i, names[i-1], name)
		}
		a, err := ParseAction(name)
		if err != nil {
			t.Errorf("ParseAction(%q): %v", name, err)
			continue
		}
		if a.String() != name {
			t.Errorf("%q parsed to %s", name, a)
		}
	}
}

func TestWindowID_Text(t *testing.T) {
	if got := WindowID(7).String(); got != "w7" {
		t.Errorf("String() = %q", got)
	}
	for _, in := range []string{"w7", "7"} {
		var id WindowID
		if err := id.UnmarshalText([]byte(in)); err != nil || id != 7 {
			t.Errorf("UnmarshalText(%q) = %d, %v", in, id, err)
		}
	}
	for _, in := range []string{"", "w", "main", "w-1"} {
		var id WindowID
		if err := id.UnmarshalText([]byte(in)); err == nil {
			t.Errorf("UnmarshalText(%q) should fail", in)
		}
	}
}

func TestActionRequestEvent_Encoding(t *testing.T) {
	ev := ActionRequestEvent{
		Window:  3,
		Request: ActionRequest{Action: ActionSetValue, Target: 12, Value: "hello"},
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"window":"w3","request":{"action":"set-value","target":12,"value":"hello"}}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}

	y, err := yaml.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	var back ActionRequestEvent
	if err := yaml.Unmarshal(y, &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ev, back); diff != "" {
		t.Errorf("yaml round trip (-want +got):\n%s", diff)
	}

	if got := ev.String(); got != "set-value(w3)@12" {
		t.Errorf("String() = %q", got)
	}
}

func TestNode_IsRoot(t *testing.T) {
	if !(Node{ID: 1}).IsRoot() {
		t.Error("node without parent should be a root")
	}
	if (Node{ID: 2, Parent: 1}).IsRoot() {
		t.Error("node with parent is not a root")
	}
}
