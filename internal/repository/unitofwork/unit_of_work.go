package unitofwork

import (
	"context"

	"ai-storyboard-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository

	TokenBalanceRepository() contract.TokenBalanceRepository
	TokenTransactionRepository() contract.TokenTransactionRepository
	BillingEventRepository() contract.BillingEventRepository

	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
	SceneRepository() contract.SceneRepository
}
