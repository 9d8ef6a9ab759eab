package config

import (
	"fmt"
	"sort"
	"strings"
)

// KeyBindingsConfig holds modifier customization and optional per-action overrides
type KeyBindingsConfig struct {
	Modifiers ModifierConfig    `toml:"modifiers"`
	Actions   map[string]string `toml:"actions"` // Optional overrides for specific actions
}

type ModifierConfig struct {
	Primary   string `toml:"primary"`   // e.g., "alt", "ctrl"
	Secondary string `toml:"secondary"` // e.g., "alt+shift", "ctrl+shift"
}

// actionDef defines the default modifier and key for an action
type actionDef struct {
	modifier string // "primary", "secondary", or "none"
	key      string
}

// actionRegistry maps action names to their default keybindings.
// Users can override any of these in the [actions] section of keybindings.toml
var actionRegistry = map[string]actionDef{
	// Chat input
	"send":    {"none", "enter"},
	"newline": {"primary", "enter"},

	// Chat session
	"close_chat":     {"none", "esc"},
	"help":           {"primary", "h"},
	"quit":           {"primary", "q"},
	"copy_message":   {"primary", "y"},
	"select_prev":    {"primary", "up"},
	"select_next":    {"primary", "down"},
	"toggle_sidebar": {"primary", "b"},

	"use_suggestion_1": {"primary", "1"},
	"use_suggestion_2": {"primary", "2"},
	"use_suggestion_3": {"primary", "3"},
	"use_suggestion_4": {"primary", "4"},
	"use_suggestion_5": {"primary", "5"},

	// Transcript scrolling
	"half_page_down":   {"primary", "j"},
	"half_page_up":     {"primary", "k"},
	"page_down":        {"none", "pgdown"},
	"page_up":          {"none", "pgup"},
	"scroll_to_top":    {"primary", "g"},
	"scroll_to_bottom": {"secondary", "g"},

	// Document picker (no modifier needed outside filter mode)
	"picker_down":    {"none", "j"},
	"picker_up":      {"none", "k"},
	"picker_filter":  {"none", "/"},
	"picker_refresh": {"primary", "r"},
	"picker_open":    {"none", "enter"},
}

// DefaultKeybindings returns default configuration
func DefaultKeybindings() *KeyBindingsConfig {
	return &KeyBindingsConfig{
		Modifiers: ModifierConfig{
			Primary:   "alt",
			Secondary: "alt+shift",
		},
	}
}

// LoadKeybindings reads keybindings.toml from the data directory. Overrides
// must name a known action.
func LoadKeybindings(dataDir string) (*KeyBindingsConfig, error) {
	cfg := DefaultKeybindings()
	if err := keybindingsFile(dataDir).load(cfg); err != nil {
		return nil, err
	}

	var unknown []string
	for action := range cfg.Actions {
		if _, ok := actionRegistry[action]; !ok {
			unknown = append(unknown, action)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown actions in keybindings: %s", strings.Join(unknown, ", "))
	}

	return cfg, nil
}

func GenerateKeybindingsTemplate() string {
	return `# docchat keybindings
# Modifiers apply to every action that uses them; [actions] overrides one
# action with a full key, as reported by the terminal (e.g. "ctrl+w").

[modifiers]
primary = "alt"
secondary = "alt+shift"

[actions]
# send = "ctrl+s"
# newline = "enter"
# close_chat = "ctrl+w"
`
}

// Primary returns the primary modifier
func (kb *KeyBindingsConfig) Primary() string {
	if kb.Modifiers.Primary == "" {
		return "alt"
	}
	return kb.Modifiers.Primary
}

// Secondary returns the secondary modifier
func (kb *KeyBindingsConfig) Secondary() string {
	if kb.Modifiers.Secondary == "" {
		return "alt+shift"
	}
	return kb.Modifiers.Secondary
}

// PrimaryKey builds a keybinding string with primary modifier
// Example: PrimaryKey("y") returns "alt+y" (or "ctrl+y" if primary is "ctrl")
func (kb *KeyBindingsConfig) PrimaryKey(key string) string {
	return kb.Primary() + "+" + key
}

// SecondaryKey builds a keybinding string with secondary modifier.
// Single letters with a shift modifier become uppercase, matching what the
// terminal reports: SecondaryKey("g") returns "alt+G".
func (kb *KeyBindingsConfig) SecondaryKey(key string) string {
	secondary := kb.Secondary()

	if strings.Contains(strings.ToLower(secondary), "shift") && len(key) == 1 && key[0] >= 'a' && key[0] <= 'z' {
		modParts := strings.Split(secondary, "+")
		var cleanMods []string
		for _, part := range modParts {
			if strings.ToLower(part) != "shift" {
				cleanMods = append(cleanMods, part)
			}
		}
		if len(cleanMods) > 0 {
			return strings.Join(cleanMods, "+") + "+" + strings.ToUpper(key)
		}
		return strings.ToUpper(key)
	}

	return secondary + "+" + key
}

// GetActionKey returns the keybinding for a specific action
// Checks user overrides first, then falls back to action registry defaults
func (kb *KeyBindingsConfig) GetActionKey(action string) string {
	if kb.Actions != nil {
		if override, exists := kb.Actions[action]; exists && override != "" {
			return override
		}
	}

	if def, exists := actionRegistry[action]; exists {
		switch def.modifier {
		case "primary":
			return kb.PrimaryKey(def.key)
		case "secondary":
			return kb.SecondaryKey(def.key)
		case "none":
			return def.key
		}
	}

	return ""
}

// Matches reports whether a key string (tea.KeyMsg.String()) triggers action.
func (kb *KeyBindingsConfig) Matches(action, pressed string) bool {
	key := kb.GetActionKey(action)
	return key != "" && key == pressed
}

// DisplayActionKey returns a display-friendly version of an action's keybinding
// Example: "ctrl+shift+j" -> "Ctrl+Shift+J"
func (kb *KeyBindingsConfig) DisplayActionKey(action string) string {
	key := kb.GetActionKey(action)
	if key == "" {
		return ""
	}
	return capitalizeKeybinding(key)
}

// capitalizeKeybinding capitalizes a keybinding string for display
// Examples:
//
//	"ctrl+shift+j" -> "Ctrl+Shift+J"
//	"alt+G" -> "Alt+Shift+G"
//	"esc" -> "Esc"
func capitalizeKeybinding(key string) string {
	parts := strings.Split(key, "+")
	var result []string

	hasShift := false
	for _, p := range parts {
		if strings.ToLower(p) == "shift" {
			hasShift = true
			break
		}
	}

	for i, part := range parts {
		if len(part) == 0 {
			continue
		}

		if len(part) == 1 && part[0] >= 'A' && part[0] <= 'Z' {
			if !hasShift && i > 0 {
				result = append(result, "Shift")
			}
			result = append(result, part)
		} else {
			result = append(result, strings.ToUpper(part[:1])+part[1:])
		}
	}

	return strings.Join(result, "+")
}

// Validate checks if the configuration is valid
// Returns (isValid, warningMessage)
func (kb *KeyBindingsConfig) Validate() (bool, string) {
	primary := kb.Primary()
	secondary := kb.Secondary()

	if primary == "shift" || secondary == "shift" {
		return false, "Shift alone conflicts with typing"
	}

	if kb.GetActionKey("send") == kb.GetActionKey("newline") {
		return false, "send and newline cannot share a key"
	}

	if strings.Contains(primary, "ctrl") || strings.Contains(secondary, "ctrl") {
		return true, "Warning: Ctrl may conflict with terminal shortcuts (Ctrl+C, Ctrl+Z, Ctrl+D)"
	}

	return true, ""
}
