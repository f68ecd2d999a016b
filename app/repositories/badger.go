package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	// Dir is the database directory. Ignored when InMemory is set.
	Dir      string
	InMemory bool
	// Logger receives badger's internal messages. Nil silences them.
	Logger badger.Logger
}

// OpenBadger opens (or initializes) a badger database.
func OpenBadger(o BadgerOptions) (*badger.DB, error) {
	opts := badger.DefaultOptions(o.Dir).
		WithLogger(o.Logger).
		WithNumVersionsToKeep(1)
	if o.InMemory {
		opts = opts.WithDir("").WithValueDir("").WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", o.Dir, err)
	}
	return db, nil
}
