// FILE: internal/service/token_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"ai-storyboard-be/internal/constant"
	"ai-storyboard-be/internal/dto"
	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/pkg/apperror"
	"ai-storyboard-be/internal/pkg/logger"
	"ai-storyboard-be/internal/pkg/metrics"
	"ai-storyboard-be/internal/repository/contract"
	"ai-storyboard-be/internal/repository/specification"
	"ai-storyboard-be/internal/repository/unitofwork"
	"ai-storyboard-be/pkg/events"

	"github.com/google/uuid"
)

type ITokenService interface {
	GrantSignupTokens(ctx context.Context, userId uuid.UUID) (int, error)
	GetTokenBalance(ctx context.Context, userId uuid.UUID) (int, error)
	ConsumeToken(ctx context.Context, userId, conversationId uuid.UUID) (int, error)
	RefundToken(ctx context.Context, userId, conversationId uuid.UUID) (int, error)
	CreditPurchasedTokens(ctx context.Context, userId uuid.UUID, packId, invoiceId string) (int, error)
	ApplyPurchaseEvent(ctx context.Context, event *dto.PurchaseEvent) (*dto.PurchaseResult, error)
	GetTransactionHistory(ctx context.Context, userId uuid.UUID, page, pageSize int) (*dto.TransactionHistoryResponse, error)
}

type TokenServiceConfig struct {
	SignupBonus         int
	LowBalanceThreshold int
}

type tokenService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
	cfg        TokenServiceConfig
}

func NewTokenService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, log logger.ILogger, cfg TokenServiceConfig) ITokenService {
	return &tokenService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
		cfg:        cfg,
	}
}

func (s *tokenService) GrantSignupTokens(ctx context.Context, userId uuid.UUID) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	// A concurrent first request may already have created a zero row, so the
	// bonus is credited onto whatever row exists.
	balances := uow.TokenBalanceRepository()
	if err := balances.EnsureExists(ctx, userId); err != nil {
		return 0, err
	}

	granted, err := uow.TokenTransactionRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByTransactionType{Type: string(entity.TransactionTypeSignupBonus)},
	)
	if err != nil {
		return 0, err
	}
	if granted > 0 {
		return 0, contract.ErrSignupAlreadyGranted
	}

	newBalance, err := balances.Credit(ctx, userId, s.cfg.SignupBonus)
	if err != nil {
		return 0, err
	}

	if err := s.record(ctx, uow, userId, s.cfg.SignupBonus, entity.TransactionTypeSignupBonus, nil,
		constant.TransactionDescriptionSignup, newBalance); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	s.committed(ctx, events.SignupTokensGranted, entity.TransactionTypeSignupBonus, s.cfg.SignupBonus, map[string]interface{}{
		"user_id": userId.String(),
		"tokens":  s.cfg.SignupBonus,
		"balance": newBalance,
	})
	return newBalance, nil
}

// GetTokenBalance never reports "absent": a missing row is created with zero.
func (s *tokenService) GetTokenBalance(ctx context.Context, userId uuid.UUID) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.TokenBalanceRepository()

	balance, err := repo.FindByUserId(ctx, userId)
	if err != nil {
		return 0, err
	}
	if balance != nil {
		return balance.Balance, nil
	}

	created, err := repo.Initialize(ctx, userId, 0)
	if err == nil {
		return created.Balance, nil
	}
	if !errors.Is(err, contract.ErrBalanceExists) {
		return 0, err
	}

	// Lost the race to a concurrent creator.
	balance, err = repo.FindByUserId(ctx, userId)
	if err != nil {
		return 0, err
	}
	if balance == nil {
		return 0, nil
	}
	return balance.Balance, nil
}

func (s *tokenService) ConsumeToken(ctx context.Context, userId, conversationId uuid.UUID) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	newBalance, ok, err := uow.TokenBalanceRepository().DebitOne(ctx, userId)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apperror.InsufficientTokens()
	}

	ref := conversationId.String()
	if err := s.record(ctx, uow, userId, -1, entity.TransactionTypeConsumption, &ref,
		constant.TransactionDescriptionConsumption, newBalance); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	s.committed(ctx, events.TokensConsumed, entity.TransactionTypeConsumption, 1, map[string]interface{}{
		"user_id":         userId.String(),
		"conversation_id": ref,
		"balance":         newBalance,
	})
	if newBalance <= s.cfg.LowBalanceThreshold {
		publishEvent(ctx, s.publisher, s.logger, events.TokenBalanceLow, map[string]interface{}{
			"user_id": userId.String(),
			"balance": newBalance,
		})
	}
	return newBalance, nil
}

// RefundToken credits one token unconditionally. Callers own idempotency.
func (s *tokenService) RefundToken(ctx context.Context, userId, conversationId uuid.UUID) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	newBalance, err := uow.TokenBalanceRepository().Credit(ctx, userId, 1)
	if err != nil {
		return 0, err
	}

	ref := conversationId.String()
	if err := s.record(ctx, uow, userId, 1, entity.TransactionTypeRefund, &ref,
		constant.TransactionDescriptionRefund, newBalance); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	s.committed(ctx, events.TokenRefunded, entity.TransactionTypeRefund, 1, map[string]interface{}{
		"user_id":         userId.String(),
		"conversation_id": ref,
		"balance":         newBalance,
	})
	return newBalance, nil
}

func (s *tokenService) CreditPurchasedTokens(ctx context.Context, userId uuid.UUID, packId, invoiceId string) (int, error) {
	pack, ok := constant.FindTokenPack(packId)
	if !ok {
		return 0, apperror.InvalidPack(packId)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	newBalance, err := s.creditPack(ctx, uow, userId, pack, invoiceId)
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	s.purchased(ctx, userId, pack, invoiceId, newBalance)
	return newBalance, nil
}

// ApplyPurchaseEvent credits a purchase at most once per provider event id.
// The processed marker and the credit commit together.
func (s *tokenService) ApplyPurchaseEvent(ctx context.Context, event *dto.PurchaseEvent) (*dto.PurchaseResult, error) {
	pack, ok := constant.FindTokenPack(event.PackId)
	if !ok {
		return nil, apperror.InvalidPack(event.PackId)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	fresh, err := uow.BillingEventRepository().MarkProcessed(ctx, &entity.BillingEvent{
		EventId:   event.EventId,
		Provider:  event.Provider,
		EventType: event.EventType,
		Payload:   event.Payload,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if !fresh {
		return &dto.PurchaseResult{Applied: false}, nil
	}

	newBalance, err := s.creditPack(ctx, uow, event.UserId, pack, event.InvoiceId)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.purchased(ctx, event.UserId, pack, event.InvoiceId, newBalance)
	return &dto.PurchaseResult{Applied: true, NewBalance: newBalance}, nil
}

func (s *tokenService) GetTransactionHistory(ctx context.Context, userId uuid.UUID, page, pageSize int) (*dto.TransactionHistoryResponse, error) {
	page, pageSize = clampPage(page, pageSize)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.TokenTransactionRepository()

	total, err := repo.Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	transactions, err := repo.FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		res = append(res, &dto.TransactionResponse{
			Id:           t.Id,
			Amount:       t.Amount,
			Type:         string(t.Type),
			ReferenceId:  t.ReferenceId,
			Description:  t.Description,
			BalanceAfter: t.BalanceAfter,
			CreatedAt:    t.CreatedAt,
		})
	}

	return &dto.TransactionHistoryResponse{
		Transactions: res,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func (s *tokenService) creditPack(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, pack constant.TokenPack, invoiceId string) (int, error) {
	balances := uow.TokenBalanceRepository()
	if err := balances.EnsureExists(ctx, userId); err != nil {
		return 0, err
	}

	newBalance, err := balances.Credit(ctx, userId, pack.Tokens)
	if err != nil {
		return 0, err
	}

	ref := invoiceId
	if err := s.record(ctx, uow, userId, pack.Tokens, entity.TransactionTypePurchase, &ref,
		fmt.Sprintf(constant.TransactionDescriptionPurchaseFmt, pack.Name), newBalance); err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (s *tokenService) record(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amount int, txType entity.TransactionType, referenceId *string, description string, balanceAfter int) error {
	return uow.TokenTransactionRepository().Create(ctx, &entity.TokenTransaction{
		Id:           uuid.New(),
		UserId:       userId,
		Amount:       amount,
		Type:         txType,
		ReferenceId:  referenceId,
		Description:  description,
		BalanceAfter: balanceAfter,
		CreatedAt:    time.Now(),
	})
}

func (s *tokenService) purchased(ctx context.Context, userId uuid.UUID, pack constant.TokenPack, invoiceId string, newBalance int) {
	s.committed(ctx, events.TokensPurchased, entity.TransactionTypePurchase, pack.Tokens, map[string]interface{}{
		"user_id":    userId.String(),
		"pack_id":    pack.Id,
		"pack_name":  pack.Name,
		"tokens":     pack.Tokens,
		"invoice_id": invoiceId,
		"balance":    newBalance,
	})
}

func (s *tokenService) committed(ctx context.Context, eventType string, txType entity.TransactionType, tokens int, data map[string]interface{}) {
	metrics.LedgerMutations.WithLabelValues(string(txType)).Inc()
	metrics.LedgerTokens.WithLabelValues(string(txType)).Add(float64(tokens))

	s.logger.Info("TOKEN", "Ledger mutation committed", data)
	publishEvent(ctx, s.publisher, s.logger, eventType, data)
}

// clampPage bounds page so the row offset stays within an int32.
func clampPage(page, pageSize int) (int, int) {
	if pageSize < 1 {
		pageSize = constant.DefaultHistoryPageSize
	}
	if pageSize > constant.MaxHistoryPageSize {
		pageSize = constant.MaxHistoryPageSize
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt32/pageSize + 1; page > maxPage {
		page = maxPage
	}
	return page, pageSize
}
