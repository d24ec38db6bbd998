package localtransport

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/metoro-io/mcp-golang/transport"
)

// ErrNoResponseChannel is returned by Send when no request waits for the message.
var ErrNoResponseChannel = errors.New("no response channel found")

// Base implements the common functionality for the in-process MCP transports.
// Each request handled by HandleMessage gets a local id, the server
// replies with Send and the original id is restored in the response.
type Base struct {
	messageHandler func(ctx context.Context, message *transport.BaseJsonRpcMessage)
	errorHandler   func(error)
	closeHandler   func()
	mu             sync.RWMutex
	responseMap    map[int64]chan *transport.BaseJsonRpcMessage
	atomicCounter  int64
}

func NewBase() *Base {
	return &Base{
		responseMap: make(map[int64]chan *transport.BaseJsonRpcMessage),
	}
}

// messageID returns the id of the response or the error message.
func messageID(message *transport.BaseJsonRpcMessage) (int64, bool) {
	switch {
	case message == nil:
		return 0, false
	case message.JsonRpcResponse != nil:
		return int64(message.JsonRpcResponse.Id), true
	case message.JsonRpcError != nil:
		return int64(message.JsonRpcError.Id), true
	default:
		return 0, false
	}
}

// Send implements Transport.Send
func (t *Base) Send(_ context.Context, message *transport.BaseJsonRpcMessage) error {
	key, ok := messageID(message)
	if !ok {
		// server initiated notifications have no one to deliver to
		return nil
	}

	t.mu.RLock()
	responseChannel := t.responseMap[key]
	t.mu.RUnlock()

	if responseChannel == nil {
		return errors.Wrapf(ErrNoResponseChannel, "key %d", key)
	}
	select {
	case responseChannel <- message:
		return nil
	default:
		return errors.Errorf("response already sent for key %d", key)
	}
}

// Close implements Transport.Close
func (t *Base) Close() error {
	t.mu.RLock()
	handler := t.closeHandler
	t.mu.RUnlock()

	if handler != nil {
		handler()
	}
	return nil
}

// SetCloseHandler implements Transport.SetCloseHandler
func (t *Base) SetCloseHandler(handler func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeHandler = handler
}

// SetErrorHandler implements Transport.SetErrorHandler
func (t *Base) SetErrorHandler(handler func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errorHandler = handler
}

// SetMessageHandler implements Transport.SetMessageHandler
func (t *Base) SetMessageHandler(handler func(ctx context.Context, message *transport.BaseJsonRpcMessage)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messageHandler = handler
}

func (t *Base) handle(ctx context.Context, message *transport.BaseJsonRpcMessage) {
	t.mu.RLock()
	handler := t.messageHandler
	t.mu.RUnlock()

	if handler != nil {
		handler(ctx, message)
	}
}

func (t *Base) reportError(err error) {
	t.mu.RLock()
	handler := t.errorHandler
	t.mu.RUnlock()

	if handler != nil {
		handler(err)
	}
}

// HandleMessage processes an incoming JSON-RPC message.
// For a request it blocks until the response is sent or ctx is done,
// for a notification it returns an empty response.
func (t *Base) HandleMessage(ctx context.Context, body []byte) (*transport.BaseJsonRpcMessage, error) {
	var request transport.BaseJSONRPCRequest
	if err := json.Unmarshal(body, &request); err == nil {
		return t.handleRequest(ctx, &request)
	}

	var notification transport.BaseJSONRPCNotification
	if err := json.Unmarshal(body, &notification); err == nil {
		t.handle(ctx, transport.NewBaseMessageNotification(&notification))
		return &transport.BaseJsonRpcMessage{
			Type: transport.BaseMessageTypeJSONRPCNotificationType,
		}, nil
	}

	err := errors.New("invalid JSON-RPC message")
	t.reportError(err)
	return nil, err
}

func (t *Base) handleRequest(ctx context.Context, request *transport.BaseJSONRPCRequest) (*transport.BaseJsonRpcMessage, error) {
	key := atomic.AddInt64(&t.atomicCounter, 1)
	ch := make(chan *transport.BaseJsonRpcMessage, 1)

	t.mu.Lock()
	t.responseMap[key] = ch
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.responseMap, key)
		t.mu.Unlock()
	}()

	prevID := request.Id
	request.Id = transport.RequestId(key)
	t.handle(ctx, transport.NewBaseMessageRequest(request))

	select {
	case response := <-ch:
		switch {
		case response.JsonRpcResponse != nil:
			response.JsonRpcResponse.Id = prevID
		case response.JsonRpcError != nil:
			response.JsonRpcError.Id = prevID
		}
		return response, nil
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "request canceled")
	}
}
