package config

import "github.com/papercomputeco/relay/pkg/completion"

const defaultGreeting = "Hello, I'm ChatGPT! Ask me anything!"

// NewDefaultConfig returns a Config with every field set to its default.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			Endpoint:     completion.DefaultEndpoint,
			Model:        completion.DefaultModel,
			SystemPrompt: completion.DefaultSystemPrompt,
			Greeting:     defaultGreeting,
		},
		UI: UIConfig{
			Mode:     UIModeAuto,
			Markdown: true,
		},
	}
}
