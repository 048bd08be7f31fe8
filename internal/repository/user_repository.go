package repository

import (
	"context"

	"github.com/vytor/ezexam/internal/models"
)

// UserRepository handles user data access
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	// Ensure inserts the user unless one with the same username exists and
	// returns the stored row.
	Ensure(ctx context.Context, user models.User) (*models.User, error)
	ListIDs(ctx context.Context) ([]int64, error)
	// RebuildStats resets total_xp to the ledger sum and returns the new value.
	RebuildStats(ctx context.Context, userID int64) (int, error)
}
