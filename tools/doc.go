// Package tools defines the Tool interface, its registration with an MCP server,
// and the common execution path with metrics and callback events.
package tools
