package agent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/capex-close/pkg/anthropic"
)

// scriptedClient returns canned responses in order and records requests.
type scriptedClient struct {
	responses []*anthropic.MessageResponse
	requests  []anthropic.MessageRequest
}

func (c *scriptedClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	c.requests = append(c.requests, req)
	if len(c.responses) == 0 {
		return &anthropic.MessageResponse{
			Content:    []anthropic.Block{{Type: anthropic.BlockText, Text: "done"}},
			StopReason: "end_turn",
		}, nil
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content:    []anthropic.Block{{Type: anthropic.BlockText, Text: text}},
		StopReason: "end_turn",
	}
}

func toolUseResponse(id, name, input string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.Block{
			{Type: anthropic.BlockToolUse, ToolUseID: id, ToolName: name, Input: json.RawMessage(input)},
		},
		StopReason: anthropic.StopReasonToolUse,
	}
}

func collectEvents(t *testing.T, o *Orchestrator, text string) []Event {
	t.Helper()
	var events []Event
	err := o.Send(context.Background(), text, func(e Event) { events = append(events, e) })
	require.NoError(t, err)
	return events
}

func eventTypes(events []Event) []EventType {
	types := make([]EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func TestSend_TextOnly(t *testing.T) {
	client := &scriptedClient{responses: []*anthropic.MessageResponse{
		textResponse("The close period is January 2026."),
	}}
	o := NewOrchestrator(client, newTestRegistry(t, nil), "claude-sonnet-4-5-20250929", 4096, "2026-01")

	events := collectEvents(t, o, "what period are we closing?")
	assert.Equal(t, []EventType{EventText, EventDone}, eventTypes(events))
	assert.Equal(t, "The close period is January 2026.", events[0].Text)

	// System prompt and tool definitions ride on every request.
	require.Len(t, client.requests, 1)
	assert.Contains(t, client.requests[0].System[0].Text, "2026-01")
	assert.Len(t, client.requests[0].Tools, 10)
}

func TestSend_ToolUseLoop(t *testing.T) {
	client := &scriptedClient{responses: []*anthropic.MessageResponse{
		toolUseResponse("toolu_01", ToolAccruals, `{"business_unit":"all"}`),
		textResponse("Accruals complete."),
	}}
	o := NewOrchestrator(client, newTestRegistry(t, nil), "claude-sonnet-4-5-20250929", 4096, "2026-01")

	events := collectEvents(t, o, "run step 1")
	assert.Equal(t, []EventType{EventToolCall, EventToolResult, EventText, EventDone}, eventTypes(events))
	assert.Equal(t, ToolAccruals, events[0].ToolName)
	assert.False(t, events[1].IsError)
	assert.NotEmpty(t, events[1].ResultPreview)

	// Second request carries the assistant turn plus the tool result.
	require.Len(t, client.requests, 2)
	last := client.requests[1].Messages
	assert.Equal(t, "assistant", last[len(last)-2].Role)
	assert.Equal(t, anthropic.BlockToolResult, last[len(last)-1].Blocks[0].Type)
}

func TestSend_ToolErrorStillLoops(t *testing.T) {
	client := &scriptedClient{responses: []*anthropic.MessageResponse{
		toolUseResponse("toolu_01", ToolWellDetail, `{}`),
		textResponse("I need a WBS element."),
	}}
	o := NewOrchestrator(client, newTestRegistry(t, nil), "claude-sonnet-4-5-20250929", 4096, "2026-01")

	events := collectEvents(t, o, "show me the well")
	require.Equal(t, []EventType{EventToolCall, EventToolResult, EventText, EventDone}, eventTypes(events))
	assert.True(t, events[1].IsError)
	assert.Contains(t, events[1].ResultPreview, "wbs_element")
}

func TestSend_ClarifyPausesAndResumes(t *testing.T) {
	client := &scriptedClient{responses: []*anthropic.MessageResponse{
		toolUseResponse("toolu_05", ToolAskUserQuestion,
			`{"question":"Proceed with net-down adjustments?","options":["Yes, proceed","No, skip"]}`),
		textResponse("Booking the adjustments."),
	}}
	o := NewOrchestrator(client, newTestRegistry(t, nil), "claude-sonnet-4-5-20250929", 4096, "2026-01")

	events := collectEvents(t, o, "run step 2")
	require.Equal(t, []EventType{EventToolCall, EventClarify}, eventTypes(events))
	assert.Equal(t, "Proceed with net-down adjustments?", events[1].Question)
	assert.Equal(t, []string{"Yes, proceed", "No, skip"}, events[1].Options)
	assert.True(t, o.AwaitingAnswer())

	// The answer goes back as a tool result on the paused tool_use ID.
	events = collectEvents(t, o, "Yes, proceed")
	assert.Equal(t, []EventType{EventText, EventDone}, eventTypes(events))
	assert.False(t, o.AwaitingAnswer())

	last := client.requests[1].Messages
	answer := last[len(last)-1]
	require.Equal(t, "user", answer.Role)
	require.Equal(t, anthropic.BlockToolResult, answer.Blocks[0].Type)
	assert.Equal(t, "toolu_05", answer.Blocks[0].ToolUseID)
	assert.Equal(t, "Yes, proceed", answer.Blocks[0].Content)
}

func TestSend_MaxTurns(t *testing.T) {
	var responses []*anthropic.MessageResponse
	for i := 0; i < MaxTurns+1; i++ {
		responses = append(responses, toolUseResponse("toolu_loop", ToolLoadWells, `{}`))
	}
	client := &scriptedClient{responses: responses}
	o := NewOrchestrator(client, newTestRegistry(t, nil), "claude-sonnet-4-5-20250929", 4096, "2026-01")

	var events []Event
	err := o.Send(context.Background(), "loop forever", func(e Event) { events = append(events, e) })
	require.Error(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, EventError, events[len(events)-1].Type)
	assert.Len(t, client.requests, MaxTurns)
}
