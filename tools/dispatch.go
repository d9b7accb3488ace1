package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oakmund/deskagent/internal/metrics"
	"github.com/oakmund/deskagent/internal/sandbox"
	"github.com/oakmund/deskagent/internal/telemetry"
)

// Call is a structured tool invocation as emitted by the model driver.
type Call struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Result is the uniform response envelope. Exactly one of Value or Error is
// populated; the caller always receives a well-formed result regardless of
// what happened inside the tool.
type Result struct {
	OK    bool   `json:"ok"`
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// Dispatcher routes validated calls to their tool definitions. It is the only
// path from the model to the filesystem code; unknown names and malformed
// arguments never reach a handler.
type Dispatcher struct {
	defs   []ToolDefinition
	byName map[string]int
}

func NewDispatcher(defs []ToolDefinition) *Dispatcher {
	byName := make(map[string]int, len(defs))
	for i, d := range defs {
		byName[d.Name] = i
	}
	return &Dispatcher{defs: defs, byName: byName}
}

// Definitions returns the tool definitions in declaration order, for
// advertising to the model.
func (d *Dispatcher) Definitions() []ToolDefinition { return d.defs }

// Dispatch validates and executes one call, converting every failure mode
// into the result envelope. Internal faults are recovered; nothing escapes to
// terminate the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) (res Result) {
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	start := time.Now()
	inSize := len(call.Arguments)

	emit := func(outSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   call.Name,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  inSize,
			"output_size": outSize,
			"turn_id":     turnID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	defer func() {
		if r := recover(); r != nil {
			emit(0, "tool panic")
			res = failure(sandbox.Errf(sandbox.CodeInvalidArgument, "tool %q panicked: %v", call.Name, r))
		}
	}()

	if call.Name == "" {
		emit(0, "missing tool name")
		return failure(sandbox.Errf(sandbox.CodeInvalidArgument, "tool name is required"))
	}
	idx, ok := d.byName[call.Name]
	if !ok {
		emit(0, "tool not found")
		return failure(sandbox.Errf(sandbox.CodeUnknownTool, "unknown tool %q", call.Name))
	}
	if len(call.Arguments) > 0 && !json.Valid(call.Arguments) {
		emit(0, "invalid arguments json")
		return failure(sandbox.Errf(sandbox.CodeInvalidArgument, "arguments for %q are not valid JSON", call.Name))
	}
	args := call.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	out, err := d.defs[idx].Function(args)
	if err != nil {
		// Emit a generic error string to avoid leaking raw payloads in telemetry;
		// the detailed message still goes back to the caller in the envelope.
		emit(0, "tool error")
		return failure(err)
	}

	f := metrics.CountFeatures(out)
	emit(f.Bytes, "")
	return Result{OK: true, Value: out}
}

func failure(err error) Result {
	return Result{OK: false, Error: err.Error()}
}
