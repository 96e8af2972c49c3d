package agent

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/capex-close/pkg/anthropic"
)

// MaxTurns caps the tool-use loop within one user message.
const MaxTurns = 15

// EventType classifies orchestrator events streamed to the caller.
type EventType string

const (
	EventText       EventType = "text"
	EventToolCall   EventType = "tool_call"
	EventToolResult EventType = "tool_result"
	EventClarify    EventType = "clarify"
	EventDone       EventType = "done"
	EventError      EventType = "error"
)

// Event is one step of the assistant's work on a user message.
type Event struct {
	Type EventType

	// text / done
	Text string

	// tool_call / tool_result
	ToolName      string
	ToolUseID     string
	ToolInput     json.RawMessage
	ResultPreview string
	IsError       bool

	// clarify
	Question string
	Options  []string

	// error
	Message string
}

// EmitFunc receives orchestrator events as they happen.
type EmitFunc func(Event)

// Orchestrator runs the close assistant's tool-use conversation loop against
// the Anthropic API. It holds the conversation history for one session.
type Orchestrator struct {
	client    anthropic.Client
	registry  *Registry
	model     string
	maxTokens int64

	system   []anthropic.SystemBlock
	messages []anthropic.Message

	// pendingClarifyID is set while the loop is paused on an
	// ask_user_question call awaiting the user's answer.
	pendingClarifyID string
}

// NewOrchestrator creates an orchestrator for one session. period is the
// close period in "2026-01" form.
func NewOrchestrator(client anthropic.Client, registry *Registry, model string, maxTokens int64, period string) *Orchestrator {
	return &Orchestrator{
		client:    client,
		registry:  registry,
		model:     model,
		maxTokens: maxTokens,
		system:    anthropic.BuildCachedSystemBlocks(SystemPrompt(period)),
	}
}

// AwaitingAnswer reports whether the conversation is paused on a clarifying
// question.
func (o *Orchestrator) AwaitingAnswer() bool {
	return o.pendingClarifyID != ""
}

// Send delivers one user message (or the answer to a pending clarifying
// question) and runs the tool-use loop until the model finishes, asks a new
// question, or the turn limit is reached. Events are emitted as they happen.
func (o *Orchestrator) Send(ctx context.Context, userText string, emit EmitFunc) error {
	if o.pendingClarifyID != "" {
		o.messages = append(o.messages, anthropic.ToolResultMessage(o.pendingClarifyID, userText, false))
		o.pendingClarifyID = ""
	} else {
		o.messages = append(o.messages, anthropic.TextMessage("user", userText))
	}

	for turn := 0; turn < MaxTurns; turn++ {
		resp, err := o.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     o.model,
			MaxTokens: o.maxTokens,
			System:    o.system,
			Messages:  o.messages,
			Tools:     Definitions(),
		})
		if err != nil {
			emit(Event{Type: EventError, Message: err.Error()})
			return eris.Wrap(err, "agent: create message")
		}
		resp.Usage.LogCost(o.model, "chat")

		if text := resp.Text(); text != "" {
			emit(Event{Type: EventText, Text: text})
		}
		o.messages = append(o.messages, resp.AsMessage())

		calls := resp.ToolCalls()
		if len(calls) == 0 {
			emit(Event{Type: EventDone, Text: resp.Text()})
			return nil
		}

		for _, call := range calls {
			emit(Event{
				Type:      EventToolCall,
				ToolName:  call.ToolName,
				ToolUseID: call.ToolUseID,
				ToolInput: call.Input,
			})
		}

		// A clarifying question pauses the loop; the user's answer arrives
		// via the next Send as a tool result.
		if clarify := findClarify(calls); clarify != nil {
			question, options := parseClarify(clarify.Input)
			o.pendingClarifyID = clarify.ToolUseID
			emit(Event{
				Type:      EventClarify,
				ToolUseID: clarify.ToolUseID,
				Question:  question,
				Options:   options,
			})
			return nil
		}

		results := anthropic.Message{Role: "user"}
		for _, call := range calls {
			result, isError := o.registry.Invoke(ctx, call.ToolName, call.Input)

			preview := result
			if len(preview) > 200 {
				preview = preview[:200]
			}
			emit(Event{
				Type:          EventToolResult,
				ToolName:      call.ToolName,
				ToolUseID:     call.ToolUseID,
				ResultPreview: preview,
				IsError:       isError,
			})

			results.Blocks = append(results.Blocks, anthropic.Block{
				Type:      anthropic.BlockToolResult,
				ToolUseID: call.ToolUseID,
				Content:   result,
				IsError:   isError,
			})
		}
		o.messages = append(o.messages, results)
	}

	zap.L().Warn("agent: exceeded max tool-use turns", zap.Int("max_turns", MaxTurns))
	emit(Event{Type: EventError, Message: "exceeded maximum tool-use turns"})
	return eris.New("agent: exceeded maximum tool-use turns")
}

func findClarify(calls []anthropic.Block) *anthropic.Block {
	for i := range calls {
		if calls[i].ToolName == ToolAskUserQuestion {
			return &calls[i]
		}
	}
	return nil
}

func parseClarify(input json.RawMessage) (question string, options []string) {
	var in struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return "", nil
	}
	return in.Question, in.Options
}
