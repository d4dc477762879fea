package preferences

import (
	"context"

	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

type Repository interface {
	// Get returns common.ErrNotFound when the singleton row is missing.
	Get(ctx context.Context) (*models.Preferences, error)

	// Save upserts the singleton row with every field of p.
	Save(ctx context.Context, p models.Preferences) error
}
