// Package server implements the MCP (Model Context Protocol) server for label
// detection and cropping.
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - label_detect: Find label boxes in reading order, optionally with a preview
//   - label_crop: Cut captioned crops out of one image
//   - label_edge_map: Show the binary edge map used by the detector
//   - label_batch: Crop a set of images into a directory with a manifest
//
// Every call decodes its own image; nothing is cached between calls.
// Threshold defaults come from the configuration the server was created
// with and can be overridden per call.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for invalid arguments, -32000 for any other tool failure
//   - message: Human-readable error description
//   - data: The error string
package server
