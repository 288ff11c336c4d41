package completion

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/papercomputeco/relay/pkg/conversation"
)

// Project maps a transcript onto the upstream message list. The system
// instruction always comes first. Assistant turns keep the "assistant" role,
// every other turn is sent as "user". System turns inside the transcript and
// pending placeholders are not replayed.
func Project(systemPrompt string, t conversation.Transcript) []openai.ChatCompletionMessage {
	turns := t.Turns()
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	for _, turn := range turns {
		if turn.Role == conversation.RoleSystem || turn.IsPending() {
			continue
		}

		role := openai.ChatMessageRoleUser
		if turn.Role == conversation.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}

		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Text,
		})
	}

	return messages
}

// BuildRequest returns the request body for t. It is rebuilt on every call.
func (c *Client) BuildRequest(t conversation.Transcript) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:    c.config.Model,
		Messages: Project(c.config.SystemPrompt, t),
	}
}
