// Package runner owns the model exchange loop: window preparation, the
// Messages API call, and dispatching tool_use blocks through the tool
// dispatcher. Tool failures become is_error tool_result blocks; they never
// abort the turn.
package runner
