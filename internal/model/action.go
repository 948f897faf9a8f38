package model

import (
	"fmt"
	"sort"
	"strings"
)

// Action is an instruction from an assistive technology.
type Action int

const (
	ActionClick Action = iota
	ActionFocus
	ActionBlur
	ActionCollapse
	ActionExpand
	ActionIncrement
	ActionDecrement
	ActionShowContextMenu
	ActionScrollIntoView
	ActionScrollUp
	ActionScrollDown
	ActionSetValue
	ActionReplaceSelectedText
	ActionCustom
)

var actionNames = map[Action]string{
	ActionClick:               "click",
	ActionFocus:               "focus",
	ActionBlur:                "blur",
	ActionCollapse:            "collapse",
	ActionExpand:              "expand",
	ActionIncrement:           "increment",
	ActionDecrement:           "decrement",
	ActionShowContextMenu:     "show-context-menu",
	ActionScrollIntoView:      "scroll-into-view",
	ActionScrollUp:            "scroll-up",
	ActionScrollDown:          "scroll-down",
	ActionSetValue:            "set-value",
	ActionReplaceSelectedText: "replace-selected-text",
	ActionCustom:              "custom",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// MarshalText encodes the action by name so events print readably.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts any name understood by ParseAction.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction converts an action name to an Action. Names are case-insensitive
// and accept a few aliases used by platform APIs ("press", "showMenu").
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "click", "press", "default":
		return ActionClick, nil
	case "focus":
		return ActionFocus, nil
	case "blur":
		return ActionBlur, nil
	case "collapse":
		return ActionCollapse, nil
	case "expand":
		return ActionExpand, nil
	case "increment":
		return ActionIncrement, nil
	case "decrement":
		return ActionDecrement, nil
	case "show-context-menu", "showmenu":
		return ActionShowContextMenu, nil
	case "scroll-into-view":
		return ActionScrollIntoView, nil
	case "scroll-up":
		return ActionScrollUp, nil
	case "scroll-down":
		return ActionScrollDown, nil
	case "set-value", "setvalue":
		return ActionSetValue, nil
	case "replace-selected-text":
		return ActionReplaceSelectedText, nil
	case "custom":
		return ActionCustom, nil
	default:
		return ActionClick, fmt.Errorf("unknown action: %q", s)
	}
}

// ActionNames returns every canonical action name, sorted.
func ActionNames() []string {
	names := make([]string, 0, len(actionNames))
	for _, name := range actionNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActionRequest is a single request delivered by the platform for one window.
type ActionRequest struct {
	Action Action `yaml:"action"          json:"action"`
	Target NodeID `yaml:"target"          json:"target"`
	Value  string `yaml:"value,omitempty" json:"value,omitempty"`
}

// ActionRequestEvent is the engine event carrying a drained request.
type ActionRequestEvent struct {
	Window  WindowID      `yaml:"window"  json:"window"`
	Request ActionRequest `yaml:"request" json:"request"`
}

func (e ActionRequestEvent) String() string {
	return fmt.Sprintf("%s(%s)@%d", e.Request.Action, e.Window, e.Request.Target)
}
