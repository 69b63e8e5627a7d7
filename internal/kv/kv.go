// Package kv is the byte store the todo records are mirrored into. Any
// key-enumerable store with get/set/remove semantics satisfies Store.
package kv

import "errors"

var ErrEmptyPath = errors.New("db path is empty")

type Store interface {
	// Get returns ok=false when the key does not exist.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	// Remove is a no-op for a missing key.
	Remove(key string) error
	// Keys lists every key starting with prefix, in ascending order.
	Keys(prefix string) ([]string, error)
	Close() error
}
