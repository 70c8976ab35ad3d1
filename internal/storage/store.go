package storage

import "errors"

var ErrKeyNotFound = errors.New("key not found")

// Store is the durable local state behind the session. Two fixed keys
// are enough: the Identity snapshot and the bearer token.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
