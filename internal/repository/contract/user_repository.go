package contract

import (
	"context"

	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/repository/specification"
)

type UserRepository interface {
	// CreateIfAbsent inserts the user unless a row with the same id exists.
	// It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, user *entity.User) (bool, error)
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
}
