package snapshot

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=snapshotmock mapforge/pkg/game/snapshot Repository

// SaveInput contains the snapshot to store.
type SaveInput struct {
	Snapshot *Snapshot
}

// SaveOutput contains the stored id and when the record expires, if ever.
type SaveOutput struct {
	ID        string
	ExpiresAt *time.Time
}

type GetInput struct {
	ID string
}

type GetOutput struct {
	Snapshot *Snapshot
}

type DeleteInput struct {
	ID string
}

// ListBySeedInput selects the snapshots generated from one seed.
type ListBySeedInput struct {
	Seed int64
}

// ListBySeedOutput lists live snapshot ids in lexical order.
type ListBySeedOutput struct {
	IDs []string
}

// Repository persists snapshots.
type Repository interface {
	// Save stores the snapshot under its id, replacing any earlier record.
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Get returns NotFound when no record exists for the id.
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// Delete returns NotFound when no record exists for the id.
	Delete(ctx context.Context, input *DeleteInput) error

	ListBySeed(ctx context.Context, input *ListBySeedInput) (*ListBySeedOutput, error)
}
