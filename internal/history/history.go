// Package history prepares the outgoing conversation window. It trims old
// messages to fit a token budget while never splitting an assistant tool_use
// message from the user message carrying its tool_result blocks.
package history

import (
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
)

// span is a contiguous run of messages [start, end) that must be kept or
// dropped together.
type span struct {
	start, end int
}

// Stats summarizes the result of window preparation.
type Stats struct {
	Total          int // estimated tokens for included messages
	Budget         int
	IncludedSpans  int
	SkippedSpans   int
	NewestTooLarge bool // the newest span alone exceeds the budget
}

// Window returns a suffix of msgs (oldest to newest) whose estimated cost
// fits within budget, walking spans newest to oldest. When the newest span
// alone exceeds the budget an empty window is returned and NewestTooLarge is
// set, so the caller can fail fast instead of sending a request that the
// provider will reject.
func Window(msgs []anthropic.MessageParam, budget int) ([]anthropic.MessageParam, Stats) {
	if len(msgs) == 0 {
		return nil, Stats{Budget: budget}
	}
	spans := groupSpans(msgs)
	if budget <= 0 {
		return nil, Stats{Budget: budget, SkippedSpans: len(spans), NewestTooLarge: true}
	}

	total := 0
	included := 0
	startSpan := len(spans)
	for i := len(spans) - 1; i >= 0; i-- {
		cost := spanCost(spans[i], msgs)
		if included == 0 && cost > budget {
			return nil, Stats{Budget: budget, SkippedSpans: len(spans), NewestTooLarge: true}
		}
		if total+cost > budget {
			break
		}
		total += cost
		included++
		startSpan = i
	}
	if included == 0 {
		return nil, Stats{Budget: budget, SkippedSpans: len(spans)}
	}

	return msgs[spans[startSpan].start:], Stats{
		Total:         total,
		Budget:        budget,
		IncludedSpans: included,
		SkippedSpans:  len(spans) - included,
	}
}

// groupSpans pairs each assistant message containing tool_use blocks with the
// immediately following user message when that user message carries matching
// tool_result blocks. Everything else is a singleton span.
func groupSpans(msgs []anthropic.MessageParam) []span {
	spans := make([]span, 0, len(msgs))
	for i := 0; i < len(msgs); {
		if msgs[i].Role == anthropic.MessageParamRoleAssistant {
			useIDs := toolUseIDs(msgs[i])
			if len(useIDs) > 0 && i+1 < len(msgs) && msgs[i+1].Role == anthropic.MessageParamRoleUser &&
				resultsCover(msgs[i+1], useIDs) {
				spans = append(spans, span{start: i, end: i + 2})
				i += 2
				continue
			}
		}
		spans = append(spans, span{start: i, end: i + 1})
		i++
	}
	return spans
}

func toolUseIDs(m anthropic.MessageParam) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, blk := range m.Content {
		if tu := blk.OfToolUse; tu != nil && tu.ID != "" {
			ids[tu.ID] = struct{}{}
		}
	}
	return ids
}

// resultsCover reports whether the user message's tool_result blocks match
// the tool_use ids exactly: every id answered, no extras, and no tool_result
// appearing after a non-result block.
func resultsCover(m anthropic.MessageParam, useIDs map[string]struct{}) bool {
	resultIDs := make(map[string]struct{})
	seenNonResult := false
	for _, blk := range m.Content {
		if tr := blk.OfToolResult; tr != nil {
			if seenNonResult {
				return false
			}
			if tr.ToolUseID != "" {
				resultIDs[tr.ToolUseID] = struct{}{}
			}
			continue
		}
		seenNonResult = true
	}
	if len(resultIDs) != len(useIDs) {
		return false
	}
	for id := range useIDs {
		if _, ok := resultIDs[id]; !ok {
			return false
		}
	}
	return true
}

// Fixed per-block overhead for deterministic counts.
const blockOverhead = 4

func spanCost(s span, msgs []anthropic.MessageParam) int {
	total := 0
	for i := s.start; i < s.end && i < len(msgs); i++ {
		for _, blk := range msgs[i].Content {
			total += blockCost(blk)
		}
	}
	return total
}

func blockCost(blk anthropic.ContentBlockParamUnion) int {
	if tb := blk.OfText; tb != nil {
		return utf8.RuneCountInString(tb.Text) + blockOverhead
	}
	if tr := blk.OfToolResult; tr != nil {
		subtotal := 0
		for _, nb := range tr.Content {
			if nt := nb.OfText; nt != nil {
				subtotal += utf8.RuneCountInString(nt.Text)
			}
		}
		return subtotal + blockOverhead
	}
	// tool_use, thinking, images: overhead only in this minimal heuristic.
	return blockOverhead
}
