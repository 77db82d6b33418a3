package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	turnModel       = openai.GPT4o
	turnTemperature = 0.7
	turnMaxTokens   = 300

	analysisModel      = openai.GPT4oMini
	summaryMaxTokens   = 150
	sentimentMaxTokens = 10

	modelCallTimeout = 15 * time.Second
)

// Caller-facing fallbacks. These are spoken, so they apologize instead of
// describing the failure.
const (
	fallbackNotConfigured = "I apologize, but I'm having technical difficulties. Please hold while I transfer you to our staff."
	fallbackTurnFailure   = "I apologize, but I'm experiencing some issues. Let me transfer you to our staff."

	emptySummary       = "No conversation to summarize."
	summaryUnavailable = "Unable to generate summary."

	sentimentNeutral = "neutral"
)

var errModelNotConfigured = errors.New("conversation: model API key not configured")

// OpenAIClient is the production ModelClient. A missing API key yields a
// client whose every turn recovers into a transfer fallback, so the voice
// surface stays up even when the model is unconfigured.
type OpenAIClient struct {
	api     *openai.Client
	timeout time.Duration
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	c := &OpenAIClient{timeout: modelCallTimeout}
	if apiKey != "" {
		c.api = openai.NewClient(apiKey)
	}
	return c
}

func (c *OpenAIClient) Respond(ctx context.Context, systemPrompt string, history []Turn, collected map[string]any) Reply {
	if c.api == nil {
		return Reply{Text: fallbackNotConfigured, Action: ActionTransferCall{}, Err: errModelNotConfigured}
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	if len(collected) > 0 {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: fmt.Sprintf("Information collected so far: %v", collected),
		})
	}
	for _, t := range history {
		role := openai.ChatMessageRoleUser
		if t.Speaker == SpeakerAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: t.Text})
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       turnModel,
		Messages:    messages,
		Temperature: turnTemperature,
		MaxTokens:   turnMaxTokens,
		Tools:       callTools(),
		ToolChoice:  "auto",
	})
	if err != nil {
		return Reply{Text: fallbackTurnFailure, Action: ActionTransferCall{}, Err: err}
	}
	if len(resp.Choices) == 0 {
		return Reply{Text: fallbackTurnFailure, Action: ActionTransferCall{}, Err: errors.New("conversation: empty completion")}
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return Reply{Text: msg.Content, Action: ActionNone{}}
	}

	call := msg.ToolCalls[0]
	action, err := decodeToolCall(call.Function.Name, call.Function.Arguments)
	if err != nil {
		return Reply{Text: fallbackTurnFailure, Action: ActionTransferCall{}, Err: err}
	}
	text := msg.Content
	if text == "" {
		text = actionResponse(action)
	}
	return Reply{Text: text, Action: action}
}

func (c *OpenAIClient) Summarize(ctx context.Context, history []Turn) string {
	if len(history) == 0 {
		return emptySummary
	}
	if c.api == nil {
		return summaryUnavailable
	}

	var lines []string
	for _, t := range history {
		role := "user"
		if t.Speaker == SpeakerAssistant {
			role = "assistant"
		}
		lines = append(lines, role+": "+t.Text)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     analysisModel,
		MaxTokens: summaryMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "Summarize this phone conversation in 2-3 sentences. Focus on what the caller wanted and what was accomplished."},
			{Role: openai.ChatMessageRoleUser, Content: strings.Join(lines, "\n")},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		return summaryUnavailable
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

func (c *OpenAIClient) AnalyzeSentiment(ctx context.Context, text string) string {
	if c.api == nil {
		return sentimentNeutral
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     analysisModel,
		MaxTokens: sentimentMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "Analyze the sentiment of this text. Respond with only one word: positive, neutral, or negative."},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		return sentimentNeutral
	}
	switch s := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content)); s {
	case "positive", "neutral", "negative":
		return s
	default:
		return sentimentNeutral
	}
}

// Tool names the model may invoke.
const (
	toolScheduleAppointment = "schedule_appointment"
	toolTransferCall        = "transfer_call"
	toolEndCall             = "end_call"
)

func callTools() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolScheduleAppointment,
				Description: "Schedule an appointment for the caller",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"patient_name":   map[string]any{"type": "string", "description": "Name of the patient"},
						"phone_number":   map[string]any{"type": "string", "description": "Contact phone number"},
						"preferred_date": map[string]any{"type": "string", "description": "Preferred appointment date"},
						"preferred_time": map[string]any{"type": "string", "description": "Preferred appointment time"},
						"reason":         map[string]any{"type": "string", "description": "Reason for the visit"},
					},
					"required": []string{"patient_name", "phone_number", "preferred_date", "preferred_time"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolTransferCall,
				Description: "Transfer the call to a human staff member",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"reason": map[string]any{"type": "string", "description": "Reason for transfer"},
					},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolEndCall,
				Description: "End the call with a closing message",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"summary": map[string]any{"type": "string", "description": "Summary of what was accomplished"},
					},
				},
			},
		},
	}
}

// decodeToolCall maps a tool invocation to an Action. Malformed arguments
// are an error so the turn can recover into a transfer; a tool name outside
// the declared set is treated as no action and the conversation continues.
func decodeToolCall(name, arguments string) (Action, error) {
	args := map[string]any{}
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, fmt.Errorf("conversation: decode %s arguments: %w", name, err)
		}
	}
	switch name {
	case toolScheduleAppointment:
		return ActionScheduleAppointment{Fields: args}, nil
	case toolTransferCall:
		reason, _ := args["reason"].(string)
		return ActionTransferCall{Reason: reason}, nil
	case toolEndCall:
		summary, _ := args["summary"].(string)
		return ActionEndCall{Summary: summary}, nil
	default:
		return ActionNone{}, nil
	}
}

// actionResponse substitutes a spoken confirmation when the model invoked a
// tool without any accompanying text.
func actionResponse(a Action) string {
	switch v := a.(type) {
	case ActionScheduleAppointment:
		return fmt.Sprintf("I've scheduled your appointment for %v at %v. We'll see you then, %v!",
			v.Fields["preferred_date"], v.Fields["preferred_time"], v.Fields["patient_name"])
	case ActionTransferCall:
		return "I'll transfer you to one of our staff members now. Please hold."
	case ActionEndCall:
		return "Thank you for calling! Have a great day."
	default:
		return ""
	}
}
