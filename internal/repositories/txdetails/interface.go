package txdetails

import (
	"context"

	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

type Repository interface {
	Save(ctx context.Context, d models.TransactionDetail) error
	List(ctx context.Context) ([]models.TransactionDetail, error)
	// Hashes returns the distinct hashes that have details attached.
	Hashes(ctx context.Context) ([]string, error)
}
