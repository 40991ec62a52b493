package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TokenBalance struct {
	UserId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Balance   int       `gorm:"not null;default:0;check:chk_token_balances_non_negative,balance >= 0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (TokenBalance) TableName() string {
	return "token_balances"
}

// TokenTransaction is append-only. Rows are never updated or deleted by the application.
type TokenTransaction struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index:idx_token_transactions_user_created,priority:1"`
	Amount       int       `gorm:"not null"`
	Type         string    `gorm:"type:varchar(32);not null"`
	ReferenceId  *string   `gorm:"type:varchar(255)"`
	Description  string    `gorm:"type:text;not null"`
	BalanceAfter int       `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_token_transactions_user_created,priority:2,sort:desc"`
}

func (TokenTransaction) TableName() string {
	return "token_transactions"
}

// ProcessedBillingEvent marks a provider webhook event as applied. The unique
// event id is what makes purchase credits idempotent.
type ProcessedBillingEvent struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventId   string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Provider  string         `gorm:"type:varchar(50);not null"`
	EventType string         `gorm:"type:varchar(100);not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (ProcessedBillingEvent) TableName() string {
	return "processed_billing_events"
}
