package implementation

import (
	"context"
	"errors"

	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/mapper"
	"ai-storyboard-be/internal/model"
	"ai-storyboard-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	creditBalanceSQL = `UPDATE token_balances SET balance = balance + ?, updated_at = NOW() WHERE user_id = ? RETURNING balance`
	// The balance > 0 guard is the only thing keeping concurrent turns from overdrawing.
	debitBalanceSQL = `UPDATE token_balances SET balance = balance - 1, updated_at = NOW() WHERE user_id = ? AND balance > 0 RETURNING balance`
)

type TokenBalanceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TokenMapper
}

func NewTokenBalanceRepository(db *gorm.DB) contract.TokenBalanceRepository {
	return &TokenBalanceRepositoryImpl{
		db:     db,
		mapper: mapper.NewTokenMapper(),
	}
}

func (r *TokenBalanceRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.TokenBalance, error) {
	var m model.TokenBalance
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.BalanceToEntity(&m), nil
}

func (r *TokenBalanceRepositoryImpl) Initialize(ctx context.Context, userId uuid.UUID, initial int) (*entity.TokenBalance, error) {
	m := &model.TokenBalance{UserId: userId, Balance: initial}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, contract.ErrBalanceExists
		}
		return nil, err
	}
	return r.mapper.BalanceToEntity(m), nil
}

func (r *TokenBalanceRepositoryImpl) EnsureExists(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&model.TokenBalance{UserId: userId}).Error
}

func (r *TokenBalanceRepositoryImpl) Credit(ctx context.Context, userId uuid.UUID, amount int) (int, error) {
	var balance int
	res := r.db.WithContext(ctx).Raw(creditBalanceSQL, amount, userId).Scan(&balance)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, contract.ErrBalanceNotFound
	}
	return balance, nil
}

func (r *TokenBalanceRepositoryImpl) DebitOne(ctx context.Context, userId uuid.UUID) (int, bool, error) {
	var balance int
	res := r.db.WithContext(ctx).Raw(debitBalanceSQL, userId).Scan(&balance)
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	return balance, true, nil
}
