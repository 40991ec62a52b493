package entity

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeSignupBonus TransactionType = "signup_bonus"
	TransactionTypeConsumption TransactionType = "consumption"
	TransactionTypeRefund      TransactionType = "refund"
	TransactionTypePurchase    TransactionType = "purchase"
)

type TokenBalance struct {
	UserId    uuid.UUID
	Balance   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TokenTransaction struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Amount       int
	Type         TransactionType
	ReferenceId  *string
	Description  string
	BalanceAfter int
	CreatedAt    time.Time
}

type BillingEvent struct {
	EventId   string
	Provider  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}
