package contract

import (
	"context"
	"errors"

	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/repository/specification"

	"github.com/google/uuid"
)

var (
	ErrBalanceExists   = errors.New("token balance already initialized")
	ErrBalanceNotFound = errors.New("token balance not found")

	ErrSignupAlreadyGranted = errors.New("signup tokens already granted")
)

type TokenBalanceRepository interface {
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.TokenBalance, error)
	// Initialize creates the balance row. Returns ErrBalanceExists when one is already present.
	Initialize(ctx context.Context, userId uuid.UUID, initial int) (*entity.TokenBalance, error)
	// EnsureExists creates a zero balance row if none exists.
	EnsureExists(ctx context.Context, userId uuid.UUID) error
	// Credit atomically adds amount and returns the new balance.
	Credit(ctx context.Context, userId uuid.UUID, amount int) (int, error)
	// DebitOne atomically subtracts one token when the balance is positive.
	// ok is false when the guard rejected the update.
	DebitOne(ctx context.Context, userId uuid.UUID) (newBalance int, ok bool, err error)
}

type TokenTransactionRepository interface {
	Create(ctx context.Context, tx *entity.TokenTransaction) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TokenTransaction, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type BillingEventRepository interface {
	// MarkProcessed records the event id. It returns false when the id was already recorded.
	MarkProcessed(ctx context.Context, event *entity.BillingEvent) (bool, error)
}
