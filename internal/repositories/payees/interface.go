package payees

import (
	"context"

	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

type Repository interface {
	Add(ctx context.Context, p models.Payee) error
	RemoveByNickname(ctx context.Context, nickname string) error
	// List returns stored columns only; preview fields are left empty.
	List(ctx context.Context) ([]models.Payee, error)
	Clear(ctx context.Context) error
}
