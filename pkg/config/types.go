package config

import (
	"fmt"
	"strconv"
)

// Config is the persistent relay configuration stored as config.toml in the
// .relay/ directory.
type Config struct {
	Version int          `toml:"version"`
	Client  ClientConfig `toml:"client"`
	UI      UIConfig     `toml:"ui"`
}

// ClientConfig describes the upstream completion endpoint and the fixed
// parts of every request.
type ClientConfig struct {
	Endpoint     string `toml:"endpoint,omitempty"`
	Model        string `toml:"model,omitempty"`
	SystemPrompt string `toml:"system_prompt,omitempty"`
	Greeting     string `toml:"greeting,omitempty"`
}

// UIConfig selects and tunes the rendering surface used by relay chat.
type UIConfig struct {
	// Mode is one of UIModeAuto, UIModeTUI or UIModeLine.
	Mode     string `toml:"mode,omitempty"`
	Markdown bool   `toml:"markdown"`
}

const (
	UIModeAuto = "auto"
	UIModeTUI  = "tui"
	UIModeLine = "line"
)

// ValidUIMode reports whether mode is a recognised ui.mode value.
func ValidUIMode(mode string) bool {
	switch mode {
	case UIModeAuto, UIModeTUI, UIModeLine:
		return true
	}
	return false
}

// configKeyInfo maps a dotted key to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// orderedKeys lists every supported key in TOML section order.
var orderedKeys = []string{
	"client.endpoint",
	"client.model",
	"client.system_prompt",
	"client.greeting",
	"ui.mode",
	"ui.markdown",
}

var configKeys = map[string]configKeyInfo{
	"client.endpoint": {
		get: func(c *Config) string { return c.Client.Endpoint },
		set: func(c *Config, v string) error { c.Client.Endpoint = v; return nil },
	},
	"client.model": {
		get: func(c *Config) string { return c.Client.Model },
		set: func(c *Config, v string) error { c.Client.Model = v; return nil },
	},
	"client.system_prompt": {
		get: func(c *Config) string { return c.Client.SystemPrompt },
		set: func(c *Config, v string) error { c.Client.SystemPrompt = v; return nil },
	},
	"client.greeting": {
		get: func(c *Config) string { return c.Client.Greeting },
		set: func(c *Config, v string) error { c.Client.Greeting = v; return nil },
	},
	"ui.mode": {
		get: func(c *Config) string { return c.UI.Mode },
		set: func(c *Config, v string) error {
			if !ValidUIMode(v) {
				return fmt.Errorf("invalid value for ui.mode: %q (expected auto, tui or line)", v)
			}
			c.UI.Mode = v
			return nil
		},
	},
	"ui.markdown": {
		get: func(c *Config) string { return strconv.FormatBool(c.UI.Markdown) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for ui.markdown: %w", err)
			}
			c.UI.Markdown = b
			return nil
		},
	},
}
