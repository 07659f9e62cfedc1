// Package history provides file and SQLite backed forecast run logs.
package history

import (
	"fmt"

	corehistory "github.com/kilianp07/regcast/core/history"
)

// Open returns the store for backend ("jsonl", "sqlite" or "none").
func Open(backend, path string) (corehistory.Store, error) {
	switch backend {
	case "jsonl":
		return NewJSONLStore(path)
	case "sqlite":
		return NewSQLiteStore(path)
	case "none", "":
		return corehistory.NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown history backend %s", backend)
	}
}
