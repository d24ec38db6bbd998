package tools

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/expressmcp/utils"
	mcp "github.com/metoro-io/mcp-golang"
)

// ErrFailedUnmarshalInput is returned when the tool input does not match the schema.
var ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")

type McpServerRegistrator interface {
	RegisterTool(name string, description string, handler any) error
}

// ITool is a tool exposed to the MCP clients.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool.
	Description() string
	// Parameters returns the JSON schema of the tool arguments.
	Parameters() any

	// Call executes the tool with the given JSON input and returns the text result.
	// If the tool fails to parse the input, it should return ErrFailedUnmarshalInput error.
	Call(context.Context, string) (string, error)
}

type Callback interface {
	OnToolStart(context.Context, ITool, string)
	OnToolEnd(context.Context, ITool, string, string)
	OnToolError(context.Context, ITool, string, error)
}

type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// IMCPTool is an interface that extends ITool to include functionality for
// registering the tool with an MCP server.
type IMCPTool interface {
	ITool
	RegisterMCP(registrator McpServerRegistrator) error
}

type MCPTool[I any] interface {
	IMCPTool
	RunMCP(context.Context, *I) (*mcp.ToolResponse, error)
}

type toolDescription struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Parameters  any    `json:"parameters" yaml:"parameters"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"tools" yaml:"tools"`
}

// GetDescriptions returns the JSON description of the tools.
func GetDescriptions(list ...ITool) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return utils.ToJSONIndent(d)
}
