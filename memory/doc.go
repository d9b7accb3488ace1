// Package memory provides minimal conversation persistence.
//
// Persistence model:
//   - Only text messages are stored (role + text). Tool blocks are transient.
//   - The file lives under the sandbox root's state directory so the agent's
//     own bookkeeping never mixes with workspace files.
package memory
