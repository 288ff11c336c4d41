package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/relay/pkg/dotdir"
)

// KeyAPIKey is the viper key holding the bearer credential. It is never
// written to config.toml.
const KeyAPIKey = "api_key"

// InitViper returns a viper instance with relay's precedence chain:
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (RELAY_CLIENT_MODEL, RELAY_UI_MODE, ...)
//  3. config.toml
//  4. NewDefaultConfig()
//
// The credential is bound to RELAY_API_KEY and OPENAI_API_KEY.
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	v.AddConfigPath(target)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv(KeyAPIKey, "RELAY_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding credential env: %w", err)
	}

	return v, nil
}

// FromViper materialises the resolved values into a Config.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Version: v.GetInt("version"),
		Client: ClientConfig{
			Endpoint:     v.GetString("client.endpoint"),
			Model:        v.GetString("client.model"),
			SystemPrompt: v.GetString("client.system_prompt"),
			Greeting:     v.GetString("client.greeting"),
		},
		UI: UIConfig{
			Mode:     v.GetString("ui.mode"),
			Markdown: v.GetBool("ui.markdown"),
		},
	}

	if !ValidUIMode(cfg.UI.Mode) {
		return nil, fmt.Errorf("invalid ui.mode %q (expected auto, tui or line)", cfg.UI.Mode)
	}

	return cfg, nil
}

func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("client.endpoint", d.Client.Endpoint)
	v.SetDefault("client.model", d.Client.Model)
	v.SetDefault("client.system_prompt", d.Client.SystemPrompt)
	v.SetDefault("client.greeting", d.Client.Greeting)

	v.SetDefault("ui.mode", d.UI.Mode)
	v.SetDefault("ui.markdown", d.UI.Markdown)
}
