package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/oakmund/deskagent/internal/history"
	"github.com/oakmund/deskagent/internal/telemetry"
	"github.com/oakmund/deskagent/tools"
)

// DefaultTokenBudget bounds the estimated size of the outgoing conversation
// window when DESKAGENT_TOKEN_BUDGET is not set.
const DefaultTokenBudget = 80_000

// Runner drives one model exchange: prepare the window, send it, dispatch any
// requested tool calls, and hand the results back as content blocks.
type Runner struct {
	Client     *anthropic.Client
	Dispatcher *tools.Dispatcher
	Budget     int

	// OnText receives assistant text blocks as they arrive. Defaults to stdout.
	OnText func(text string)
}

func New(client *anthropic.Client, d *tools.Dispatcher) *Runner {
	return &Runner{
		Client:     client,
		Dispatcher: d,
		Budget:     budgetFromEnv(),
		OnText: func(text string) {
			fmt.Printf("\u001b[93mAgent\u001b[0m: %s\n", text)
		},
	}
}

func budgetFromEnv() int {
	v := os.Getenv("DESKAGENT_TOKEN_BUDGET")
	if v == "" {
		return DefaultTokenBudget
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return DefaultTokenBudget
	}
	return n
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	defs := r.Dispatcher.Definitions()
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, t := range defs {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// RunOneStep sends the conversation and returns the assistant message plus
// any tool results to be appended as the next user message. An empty
// toolResults slice means the assistant turn is finished.
func (r *Runner) RunOneStep(ctx context.Context, model anthropic.Model, conv []anthropic.MessageParam) (*anthropic.Message, []anthropic.ContentBlockParamUnion, error) {
	budget := r.Budget
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	window, stats := history.Window(conv, budget)

	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = telemetry.NewTurnID()
		ctx = telemetry.WithTurnID(ctx, turnID)
	}

	telemetry.Emit("window_prepared", map[string]any{
		"turn_id":          turnID,
		"model":            string(model),
		"budget":           stats.Budget,
		"total_estimated":  stats.Total,
		"included_spans":   stats.IncludedSpans,
		"skipped_spans":    stats.SkippedSpans,
		"newest_too_large": stats.NewestTooLarge,
	})

	// With tool output caps the newest span should always fit. If not, treat
	// it as a misconfiguration (too-low budget) and fail fast.
	if stats.NewestTooLarge {
		return nil, nil, fmt.Errorf("history: newest conversation span exceeds the %d-token budget; raise DESKAGENT_TOKEN_BUDGET", budget)
	}

	msg, err := r.Client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: int64(1024),
		Messages:  window,
		Tools:     r.anthropicTools(),
	})
	if err != nil {
		return nil, nil, err
	}

	toolResults := []anthropic.ContentBlockParamUnion{}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			if r.OnText != nil {
				r.OnText(v.Text)
			}
		case anthropic.ToolUseBlock:
			// Pass raw JSON input through; the dispatcher validates it.
			res := r.Dispatcher.Dispatch(ctx, tools.Call{
				Name:      v.Name,
				Arguments: json.RawMessage(v.JSON.Input.Raw()),
			})
			content := res.Value
			if !res.OK {
				content = res.Error
			}
			toolResults = append(toolResults, anthropic.NewToolResultBlock(v.ID, content, !res.OK))
		}
	}
	return msg, toolResults, nil
}
