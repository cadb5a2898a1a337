// Package queue persists the ordered list of mutations the remote store has
// not confirmed yet.
package queue

import (
	"context"
	"encoding/json"
	"time"
)

// Kind names the entity a queue item targets.
type Kind string

const (
	KindSheet    Kind = "sheet"
	KindCategory Kind = "category"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Item is one pending mutation. Payload is the full draft for a create, the
// patch for an update and empty for a delete.
type Item struct {
	Seq        int64
	Kind       Kind
	TargetID   string
	Action     Action
	Payload    json.RawMessage
	EnqueuedAt time.Time
}

type Repository interface {
	// Append stores it at the tail and sets it.Seq.
	Append(ctx context.Context, it *Item) error

	// List returns all items in FIFO order.
	List(ctx context.Context) ([]Item, error)

	// Remove deletes the item with the given seq; absent seqs are ignored.
	Remove(ctx context.Context, seq int64) error

	Count(ctx context.Context) (int, error)
}
