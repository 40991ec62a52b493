package dto

import (
	"time"

	"github.com/google/uuid"
)

type BalanceResponse struct {
	Balance int `json:"balance"`
}

type TransactionHistoryRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"pageSize"`
}

type TransactionResponse struct {
	Id           uuid.UUID `json:"id"`
	Amount       int       `json:"amount"`
	Type         string    `json:"type"`
	ReferenceId  *string   `json:"referenceId,omitempty"`
	Description  string    `json:"description"`
	BalanceAfter int       `json:"balanceAfter"`
	CreatedAt    time.Time `json:"createdAt"`
}

type TransactionHistoryResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	PageSize     int                    `json:"pageSize"`
	TotalPages   int                    `json:"totalPages"`
}

type CheckoutRequest struct {
	PackId string `json:"packId" validate:"required,oneof=pack-50 pack-150 pack-500"`
}

type RedirectResponse struct {
	Url string `json:"url"`
}

// PurchaseEvent is a provider-neutral "payment succeeded" notification.
type PurchaseEvent struct {
	EventId   string
	Provider  string
	EventType string
	UserId    uuid.UUID
	PackId    string
	InvoiceId string
	Payload   []byte
}

type PurchaseResult struct {
	Applied    bool
	NewBalance int
}

// BillingWebhookEvent is the hosted billing provider's webhook envelope.
type BillingWebhookEvent struct {
	Id        string                `json:"id"`
	EventType string                `json:"event_type"`
	Content   BillingWebhookContent `json:"content"`
}

type BillingWebhookContent struct {
	Invoice  *BillingWebhookInvoice  `json:"invoice,omitempty"`
	Customer *BillingWebhookCustomer `json:"customer,omitempty"`
}

type BillingWebhookInvoice struct {
	Id         string                   `json:"id"`
	CustomerId string                   `json:"customer_id"`
	LineItems  []BillingWebhookLineItem `json:"line_items"`
}

type BillingWebhookCustomer struct {
	Id string `json:"id"`
}

type BillingWebhookLineItem struct {
	EntityId string `json:"entity_id"`
	Quantity int    `json:"quantity"`
}

type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	SignatureKey      string `json:"signature_key"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	CustomField1      string `json:"custom_field1"`
	CustomField2      string `json:"custom_field2"`
}

type WebhookAckResponse struct {
	Status string `json:"status"`
}
