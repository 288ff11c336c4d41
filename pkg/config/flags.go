package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single definition of a CLI flag and the viper key it feeds.
type Flag struct {
	// Name is the long flag name (e.g. "model").
	Name string

	// Shorthand is the one-letter short flag. Empty for none.
	Shorthand string

	// ViperKey is the dotted config key (e.g. "client.model").
	ViperKey string

	// Description is the help text.
	Description string
}

// FlagSet maps registry keys to flag definitions.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagModel        = "model"
	FlagEndpoint     = "endpoint"
	FlagSystemPrompt = "system-prompt"
	FlagUIMode       = "ui"
	FlagMarkdown     = "markdown"
)

// ChatFlags are the flags accepted by relay chat.
var ChatFlags = FlagSet{
	FlagModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "client.model",
		Description: "Upstream model identifier",
	},
	FlagEndpoint: {
		Name:        "endpoint",
		Shorthand:   "e",
		ViperKey:    "client.endpoint",
		Description: "Chat completions endpoint URL",
	},
	FlagSystemPrompt: {
		Name:        "system-prompt",
		ViperKey:    "client.system_prompt",
		Description: "System instruction sent ahead of the conversation",
	},
	FlagUIMode: {
		Name:        "ui",
		ViperKey:    "ui.mode",
		Description: "Rendering surface: auto, tui or line",
	},
	FlagMarkdown: {
		Name:        "markdown",
		ViperKey:    "ui.markdown",
		Description: "Render assistant replies as markdown",
	},
}

// AddStringFlag registers the string flag fs[key] on cmd.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddBoolFlag registers the bool flag fs[key] on cmd.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, key string, target *bool) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetBool(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().BoolVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags connects already-registered flags to v so they sit at
// the top of the precedence chain. Call it in PreRunE after InitViper.
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, keys []string) {
	for _, key := range keys {
		def, ok := fs[key]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

func defaults() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
}
