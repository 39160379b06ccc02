package node

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// Dial opens the shared JSON-RPC session. endpoint is an HTTP(S) or WebSocket
// URL, or the path of an IPC socket. apiKey, when set, is sent as x-api-key.
func Dial(ctx context.Context, endpoint, apiKey string) (*rpc.Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("dial node: empty endpoint")
	}
	var opts []rpc.ClientOption
	if apiKey != "" {
		opts = append(opts, rpc.WithHeader("x-api-key", apiKey))
	}
	client, err := rpc.DialOptions(ctx, endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial node %s: %w", endpoint, err)
	}
	return client, nil
}
