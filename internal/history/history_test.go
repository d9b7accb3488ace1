package history_test

import (
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/oakmund/deskagent/internal/history"
)

func user(text string) anthropic.MessageParam {
	return anthropic.NewUserMessage(anthropic.NewTextBlock(text))
}

func assistant(text string) anthropic.MessageParam {
	return anthropic.NewAssistantMessage(anthropic.NewTextBlock(text))
}

func toolUse(id string) anthropic.MessageParam {
	return anthropic.NewAssistantMessage(anthropic.ContentBlockParamUnion{
		OfToolUse: &anthropic.ToolUseBlockParam{Type: "tool_use", ID: id, Name: "list_files"},
	})
}

func toolResult(id string) anthropic.MessageParam {
	return anthropic.NewUserMessage(anthropic.ContentBlockParamUnion{
		OfToolResult: &anthropic.ToolResultBlockParam{Type: "tool_result", ToolUseID: id},
	})
}

func TestWindow_Empty(t *testing.T) {
	win, stats := history.Window(nil, 100)
	if win != nil || stats.Total != 0 {
		t.Fatalf("unexpected: win=%v stats=%+v", win, stats)
	}
}

func TestWindow_AllFit(t *testing.T) {
	conv := []anthropic.MessageParam{user("hi"), assistant("hello")}
	win, stats := history.Window(conv, 1000)
	if len(win) != 2 {
		t.Fatalf("expected full window, got %d", len(win))
	}
	if stats.SkippedSpans != 0 || stats.IncludedSpans != 2 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestWindow_DropsOldestFirst(t *testing.T) {
	conv := []anthropic.MessageParam{
		user(strings.Repeat("x", 100)), // old, expensive
		user("new"),
	}
	// Budget fits only the newest message.
	win, stats := history.Window(conv, 20)
	if len(win) != 1 {
		t.Fatalf("expected only newest message, got %d", len(win))
	}
	if stats.SkippedSpans != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestWindow_KeepsToolPairTogether(t *testing.T) {
	conv := []anthropic.MessageParam{
		user("old question"),
		toolUse("a"),
		toolResult("a"),
	}
	// Budget fits the pair but not the old user message.
	win, stats := history.Window(conv, 10)
	if len(win) != 2 {
		t.Fatalf("expected the tool pair only, got %d messages", len(win))
	}
	if win[0].Role != anthropic.MessageParamRoleAssistant || win[1].Role != anthropic.MessageParamRoleUser {
		t.Fatalf("pair roles wrong: %v %v", win[0].Role, win[1].Role)
	}
	if stats.IncludedSpans != 1 || stats.SkippedSpans != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestWindow_NeverSplitsPair(t *testing.T) {
	// A pair that would only fit if split must be dropped whole.
	big := strings.Repeat("y", 50)
	conv := []anthropic.MessageParam{
		toolUse("a"),
		func() anthropic.MessageParam {
			m := anthropic.NewUserMessage(anthropic.ContentBlockParamUnion{
				OfToolResult: &anthropic.ToolResultBlockParam{
					Type:      "tool_result",
					ToolUseID: "a",
					Content: []anthropic.ToolResultBlockParamContentUnion{
						{OfText: &anthropic.TextBlockParam{Type: "text", Text: big}},
					},
				},
			})
			return m
		}(),
	}
	win, stats := history.Window(conv, 10)
	if len(win) != 0 {
		t.Fatalf("expected empty window, got %d", len(win))
	}
	if !stats.NewestTooLarge {
		t.Fatalf("expected NewestTooLarge, stats: %+v", stats)
	}
}

func TestWindow_MismatchedResultsAreSingletons(t *testing.T) {
	// tool_result id does not answer the tool_use; messages stay singletons
	// and the newest (the result) can be included alone.
	conv := []anthropic.MessageParam{
		toolUse("a"),
		toolResult("b"),
	}
	win, _ := history.Window(conv, 5)
	if len(win) != 1 {
		t.Fatalf("expected newest singleton only, got %d", len(win))
	}
}

func TestWindow_ZeroBudget(t *testing.T) {
	conv := []anthropic.MessageParam{user("hi")}
	win, stats := history.Window(conv, 0)
	if len(win) != 0 || !stats.NewestTooLarge {
		t.Fatalf("expected empty window with NewestTooLarge: win=%d stats=%+v", len(win), stats)
	}
}
