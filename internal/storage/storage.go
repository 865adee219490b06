package storage

import (
	"context"

	"binscope/internal/model"
)

// Storage defines a sink for sampled bin snapshots.
type Storage interface {
	PutSnapshots(ctx context.Context, snapshots []model.BinSnapshot) error
}
