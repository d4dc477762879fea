package blob

import "context"

// Repository persists the single wallet blob slot.
type Repository interface {
	// Save replaces the whole blob atomically.
	Save(ctx context.Context, payload string) error

	// Load returns the stored payload, or common.ErrNotFound when the slot
	// is absent or empty. The empty payload does not round-trip: after
	// Save(ctx, "") Load reports ErrNotFound, the same as a fresh store.
	Load(ctx context.Context) (string, error)
}
