// Package localtransport provides an in-process MCP server transport,
// the messages are passed to HandleMessage instead of a network connection.
package localtransport

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/metoro-io/mcp-golang/transport"
)

type Transport struct {
	*Base
}

func New() *Transport {
	return &Transport{
		Base: NewBase(),
	}
}

func (s *Transport) Start(ctx context.Context) error {
	// Does nothing in the stateless local transport
	return nil
}

// Call sends the request to the server and returns the JSON result,
// a JSON-RPC error response is returned as an error with the server message.
func (s *Transport) Call(ctx context.Context, id int64, method string, params any) (json.RawMessage, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal params")
	}
	body, err := json.Marshal(&transport.BaseJSONRPCRequest{
		Jsonrpc: "2.0",
		Id:      transport.RequestId(id),
		Method:  method,
		Params:  raw,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	res, err := s.HandleMessage(ctx, body)
	if err != nil {
		return nil, err
	}
	switch {
	case res.JsonRpcError != nil:
		return nil, errors.Errorf("%s: %s", method, res.JsonRpcError.Error.Message)
	case res.JsonRpcResponse != nil:
		return json.RawMessage(res.JsonRpcResponse.Result), nil
	default:
		return nil, errors.Errorf("%s: empty response", method)
	}
}
