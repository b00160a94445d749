package user

import "context"

type Repository interface {
	// List orders by creation time, then id. Standings inherit this order
	// for ties.
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, userID string) (User, bool, error)
	// Create fails with ErrUsernameTaken on a duplicate username.
	Create(ctx context.Context, u User) error
}
