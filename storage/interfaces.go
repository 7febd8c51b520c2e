package storage

import (
	"context"

	"github.com/VigneshAMPT001/kind-ui/models"
)

// SnapshotWriter is the interface any snapshot sink must satisfy.
type SnapshotWriter interface {
	Write(ctx context.Context, snap *models.Snapshot) error
	Close() error
}

// FamilyReader loads previously persisted families, e.g. to rebuild the
// summary without re-running normalization.
type FamilyReader interface {
	FetchFamilies(ctx context.Context) ([]*models.ProductFamily, error)
}
