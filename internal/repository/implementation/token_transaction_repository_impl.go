package implementation

import (
	"context"

	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/mapper"
	"ai-storyboard-be/internal/model"
	"ai-storyboard-be/internal/repository/contract"
	"ai-storyboard-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TokenTransactionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TokenMapper
}

func NewTokenTransactionRepository(db *gorm.DB) contract.TokenTransactionRepository {
	return &TokenTransactionRepositoryImpl{
		db:     db,
		mapper: mapper.NewTokenMapper(),
	}
}

func (r *TokenTransactionRepositoryImpl) Create(ctx context.Context, tx *entity.TokenTransaction) error {
	m := r.mapper.TransactionToModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tx = *r.mapper.TransactionToEntity(m)
	return nil
}

func (r *TokenTransactionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TokenTransaction, error) {
	var models []*model.TokenTransaction
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.TransactionsToEntities(models), nil
}

func (r *TokenTransactionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.TokenTransaction{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type BillingEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TokenMapper
}

func NewBillingEventRepository(db *gorm.DB) contract.BillingEventRepository {
	return &BillingEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewTokenMapper(),
	}
}

func (r *BillingEventRepositoryImpl) MarkProcessed(ctx context.Context, event *entity.BillingEvent) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(r.mapper.BillingEventToModel(event))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
