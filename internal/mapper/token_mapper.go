package mapper

import (
	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/model"

	"gorm.io/datatypes"
)

type TokenMapper struct{}

func NewTokenMapper() *TokenMapper {
	return &TokenMapper{}
}

func (m *TokenMapper) BalanceToEntity(b *model.TokenBalance) *entity.TokenBalance {
	if b == nil {
		return nil
	}
	return &entity.TokenBalance{
		UserId:    b.UserId,
		Balance:   b.Balance,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (m *TokenMapper) TransactionToEntity(t *model.TokenTransaction) *entity.TokenTransaction {
	if t == nil {
		return nil
	}
	return &entity.TokenTransaction{
		Id:           t.Id,
		UserId:       t.UserId,
		Amount:       t.Amount,
		Type:         entity.TransactionType(t.Type),
		ReferenceId:  t.ReferenceId,
		Description:  t.Description,
		BalanceAfter: t.BalanceAfter,
		CreatedAt:    t.CreatedAt,
	}
}

func (m *TokenMapper) TransactionToModel(t *entity.TokenTransaction) *model.TokenTransaction {
	if t == nil {
		return nil
	}
	return &model.TokenTransaction{
		Id:           t.Id,
		UserId:       t.UserId,
		Amount:       t.Amount,
		Type:         string(t.Type),
		ReferenceId:  t.ReferenceId,
		Description:  t.Description,
		BalanceAfter: t.BalanceAfter,
		CreatedAt:    t.CreatedAt,
	}
}

func (m *TokenMapper) TransactionsToEntities(models []*model.TokenTransaction) []*entity.TokenTransaction {
	entities := make([]*entity.TokenTransaction, len(models))
	for i, t := range models {
		entities[i] = m.TransactionToEntity(t)
	}
	return entities
}

func (m *TokenMapper) BillingEventToModel(e *entity.BillingEvent) *model.ProcessedBillingEvent {
	if e == nil {
		return nil
	}
	var payload datatypes.JSON
	if len(e.Payload) > 0 {
		payload = datatypes.JSON(e.Payload)
	}
	return &model.ProcessedBillingEvent{
		EventId:   e.EventId,
		Provider:  e.Provider,
		EventType: e.EventType,
		Payload:   payload,
		CreatedAt: e.CreatedAt,
	}
}
