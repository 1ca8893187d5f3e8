// Package metadata is the local key/value store of the console. It
// persists the session token across restarts.
package metadata

import (
	"context"
)

// Repository is a byte-valued key/value table. Get on a missing key
// returns (nil, nil).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
