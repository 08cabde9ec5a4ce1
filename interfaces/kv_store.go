package interfaces

import "context"

// KeyValueStore is the persistence collaborator; each logical entity owns one key
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
}
