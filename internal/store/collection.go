package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Collection is a typed view over one named collection of a Store.
type Collection[T any] struct {
	store Store
	name  string
}

// NewCollection binds the collection name to s.
func NewCollection[T any](s Store, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

// Load decodes every record of the collection in stored order. A collection
// that was never saved loads as an empty slice.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	data, err := c.store.Load(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c.name, err)
	}

	records := []T{}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.name, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save encodes records and replaces the stored collection.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.name, err)
	}
	if err := c.store.Save(ctx, c.name, append(data, '\n')); err != nil {
		return fmt.Errorf("saving %s: %w", c.name, err)
	}
	return nil
}

// Index maps each record key to its position in records. When keys repeat,
// the first position wins.
func Index[T any, K comparable](records []T, key func(*T) K) map[K]int {
	idx := make(map[K]int, len(records))
	for i := range records {
		k := key(&records[i])
		if _, ok := idx[k]; !ok {
			idx[k] = i
		}
	}
	return idx
}
