// Package tools defines the tool contracts exposed to the model driver.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - File tools: read_file, list_files, edit_file, each bound to an explicit
//     workspace instance.
//   - Dispatcher: validates calls and wraps every outcome in a Result
//     envelope; no tool error or panic propagates to the caller.
package tools
