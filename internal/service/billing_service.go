// FILE: internal/service/billing_service.go
package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"ai-storyboard-be/internal/constant"
	"ai-storyboard-be/internal/dto"
	"ai-storyboard-be/internal/pkg/apperror"
	"ai-storyboard-be/internal/pkg/logger"
	"ai-storyboard-be/internal/pkg/mailer"
	"ai-storyboard-be/internal/pkg/metrics"
	"ai-storyboard-be/internal/repository/memory"
	"ai-storyboard-be/internal/repository/specification"
	"ai-storyboard-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

const (
	ProviderChargebee = "chargebee"
	ProviderMidtrans  = "midtrans"

	EventPaymentSucceeded = "payment_succeeded"
)

// SnapClient is the part of the Midtrans Snap API used for checkout.
type SnapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// NewSnapClient builds a Snap client for the sandbox or production environment.
func NewSnapClient(serverKey string, production bool) SnapClient {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	var client snap.Client
	client.New(serverKey, env)
	return &client
}

type IBillingService interface {
	GetBalance(ctx context.Context, userId uuid.UUID) (*dto.BalanceResponse, error)
	GetTransactions(ctx context.Context, userId uuid.UUID, req *dto.TransactionHistoryRequest) (*dto.TransactionHistoryResponse, error)
	ListPacks() []constant.TokenPack
	CreateCheckout(ctx context.Context, userId uuid.UUID, email string, req *dto.CheckoutRequest) (*dto.RedirectResponse, error)
	CreatePortalSession(ctx context.Context, userId uuid.UUID) (*dto.RedirectResponse, error)
	HandleBillingWebhook(ctx context.Context, event *dto.BillingWebhookEvent, payload []byte) error
	HandleMidtransNotification(ctx context.Context, req *dto.MidtransWebhookRequest, payload []byte) error
}

type BillingServiceConfig struct {
	MidtransServerKey string
	ClientURL         string
	PortalURL         string
}

type billingService struct {
	uowFactory   unitofwork.RepositoryFactory
	tokenService ITokenService
	snapClient   SnapClient
	emailService mailer.IEmailService
	eventCache   *memory.BillingEventCache
	cfg          BillingServiceConfig
	logger       logger.ILogger
}

func NewBillingService(
	uowFactory unitofwork.RepositoryFactory,
	tokenService ITokenService,
	snapClient SnapClient,
	emailService mailer.IEmailService,
	eventCache *memory.BillingEventCache,
	cfg BillingServiceConfig,
	log logger.ILogger,
) IBillingService {
	return &billingService{
		uowFactory:   uowFactory,
		tokenService: tokenService,
		snapClient:   snapClient,
		emailService: emailService,
		eventCache:   eventCache,
		cfg:          cfg,
		logger:       log,
	}
}

func (s *billingService) GetBalance(ctx context.Context, userId uuid.UUID) (*dto.BalanceResponse, error) {
	balance, err := s.tokenService.GetTokenBalance(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{Balance: balance}, nil
}

func (s *billingService) GetTransactions(ctx context.Context, userId uuid.UUID, req *dto.TransactionHistoryRequest) (*dto.TransactionHistoryResponse, error) {
	return s.tokenService.GetTransactionHistory(ctx, userId, req.Page, req.PageSize)
}

func (s *billingService) ListPacks() []constant.TokenPack {
	return constant.TokenPacks
}

func (s *billingService) CreateCheckout(ctx context.Context, userId uuid.UUID, email string, req *dto.CheckoutRequest) (*dto.RedirectResponse, error) {
	pack, ok := constant.FindTokenPack(req.PackId)
	if !ok {
		return nil, apperror.InvalidPack(req.PackId)
	}

	s.logger.Info("BILLING", "Checkout started", map[string]interface{}{
		"user_id": userId.String(),
		"pack_id": pack.Id,
	})

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  uuid.New().String(),
			GrossAmt: pack.PriceIdr,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: s.cfg.ClientURL + "/billing/success",
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    pack.ItemPriceId,
				Price: pack.PriceIdr,
				Qty:   1,
				Name:  pack.Name,
			},
		},
		CustomField1:    userId.String(),
		CustomField2:    pack.Id,
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := s.snapClient.CreateTransaction(snapReq)
	if midErr != nil {
		s.logger.Error("BILLING", "Checkout failed", map[string]interface{}{
			"user_id": userId.String(),
			"error":   midErr.GetMessage(),
		})
		return nil, apperror.BillingProvider(fmt.Errorf("midtrans error: %s", midErr.GetMessage()))
	}

	s.logger.Info("BILLING", "Checkout completed", map[string]interface{}{
		"user_id":  userId.String(),
		"order_id": snapReq.TransactionDetails.OrderID,
	})
	return &dto.RedirectResponse{Url: snapResp.RedirectURL}, nil
}

func (s *billingService) CreatePortalSession(ctx context.Context, userId uuid.UUID) (*dto.RedirectResponse, error) {
	url := s.cfg.PortalURL
	if url == "" {
		url = s.cfg.ClientURL + "/billing"
	}
	s.logger.Info("BILLING", "Portal session created", map[string]interface{}{
		"user_id": userId.String(),
	})
	return &dto.RedirectResponse{Url: url}, nil
}

// HandleBillingWebhook processes a hosted-billing webhook. Events that cannot
// be matched to a user or pack are acknowledged and logged; only storage
// failures are returned.
func (s *billingService) HandleBillingWebhook(ctx context.Context, event *dto.BillingWebhookEvent, payload []byte) error {
	s.logger.Info("WEBHOOK", "Billing event received", map[string]interface{}{
		"event_id":   event.Id,
		"event_type": event.EventType,
	})

	// Dedup is keyed on the event id, so an id-less event is acknowledged untouched.
	if strings.TrimSpace(event.Id) == "" {
		s.logger.Warn("WEBHOOK", "Billing event without id ignored", map[string]interface{}{
			"event_type": event.EventType,
		})
		metrics.WebhookEvents.WithLabelValues(ProviderChargebee, "missing_id").Inc()
		return nil
	}

	if s.eventCache.Seen(event.Id) {
		metrics.WebhookEvents.WithLabelValues(ProviderChargebee, "duplicate").Inc()
		return nil
	}

	if event.EventType == EventPaymentSucceeded {
		if err := s.applyBillingPayment(ctx, event, payload); err != nil {
			metrics.WebhookEvents.WithLabelValues(ProviderChargebee, "error").Inc()
			return err
		}
	} else {
		metrics.WebhookEvents.WithLabelValues(ProviderChargebee, "ignored").Inc()
	}

	s.eventCache.Remember(event.Id)
	return nil
}

func (s *billingService) applyBillingPayment(ctx context.Context, event *dto.BillingWebhookEvent, payload []byte) error {
	var userRef, invoiceId string
	var lineItems []dto.BillingWebhookLineItem
	if inv := event.Content.Invoice; inv != nil {
		userRef = inv.CustomerId
		invoiceId = inv.Id
		lineItems = inv.LineItems
	}
	if userRef == "" && event.Content.Customer != nil {
		userRef = event.Content.Customer.Id
	}
	if invoiceId == "" {
		invoiceId = event.Id
	}

	pack, found := resolvePackFromLineItems(lineItems)
	userId, err := uuid.Parse(userRef)

	switch {
	case err == nil && found:
		return s.applyPurchase(ctx, &dto.PurchaseEvent{
			EventId:   event.Id,
			Provider:  ProviderChargebee,
			EventType: event.EventType,
			UserId:    userId,
			PackId:    pack.Id,
			InvoiceId: invoiceId,
			Payload:   payload,
		})
	case err == nil && len(lineItems) == 0:
		s.logger.Info("WEBHOOK", "Free plan payment acknowledged", map[string]interface{}{
			"event_id": event.Id,
			"user_id":  userId.String(),
		})
		metrics.WebhookEvents.WithLabelValues(ProviderChargebee, "free_plan").Inc()
	default:
		s.logger.Warn("WEBHOOK", "No matching pack or user for payment", map[string]interface{}{
			"event_id":        event.Id,
			"user_ref":        userRef,
			"line_item_count": len(lineItems),
		})
		metrics.WebhookEvents.WithLabelValues(ProviderChargebee, "unmatched").Inc()
	}
	return nil
}

func resolvePackFromLineItems(items []dto.BillingWebhookLineItem) (constant.TokenPack, bool) {
	for _, item := range items {
		if pack, ok := constant.FindTokenPackByItemPrice(item.EntityId); ok {
			return pack, true
		}
	}
	return constant.TokenPack{}, false
}

// VerifyMidtransSignature checks signature_key = SHA512(order_id + status_code + gross_amount + server_key).
func VerifyMidtransSignature(req *dto.MidtransWebhookRequest, serverKey string) bool {
	sum := sha512.Sum512([]byte(req.OrderId + req.StatusCode + req.GrossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(req.SignatureKey)) == 1
}

func (s *billingService) HandleMidtransNotification(ctx context.Context, req *dto.MidtransWebhookRequest, payload []byte) error {
	if s.cfg.MidtransServerKey == "" {
		return apperror.Internal(fmt.Errorf("midtrans server key not configured"))
	}
	if !VerifyMidtransSignature(req, s.cfg.MidtransServerKey) {
		s.logger.Warn("WEBHOOK", "Midtrans signature mismatch", map[string]interface{}{
			"order_id": req.OrderId,
		})
		metrics.WebhookEvents.WithLabelValues(ProviderMidtrans, "bad_signature").Inc()
		return apperror.Unauthorized("Invalid signature")
	}

	s.logger.Info("WEBHOOK", "Midtrans notification received", map[string]interface{}{
		"order_id": req.OrderId,
		"status":   req.TransactionStatus,
	})

	if strings.TrimSpace(req.OrderId) == "" {
		metrics.WebhookEvents.WithLabelValues(ProviderMidtrans, "missing_id").Inc()
		return nil
	}

	if s.eventCache.Seen(req.OrderId) {
		metrics.WebhookEvents.WithLabelValues(ProviderMidtrans, "duplicate").Inc()
		return nil
	}

	switch req.TransactionStatus {
	case "settlement":
	case "capture":
		if req.FraudStatus != "" && req.FraudStatus != "accept" {
			metrics.WebhookEvents.WithLabelValues(ProviderMidtrans, "ignored").Inc()
			return nil
		}
	default:
		// pending, deny, cancel, expire: nothing to credit yet
		metrics.WebhookEvents.WithLabelValues(ProviderMidtrans, "ignored").Inc()
		return nil
	}

	userId, err := uuid.Parse(req.CustomField1)
	if err != nil {
		s.logger.Warn("WEBHOOK", "Midtrans order without a user", map[string]interface{}{
			"order_id": req.OrderId,
		})
		metrics.WebhookEvents.WithLabelValues(ProviderMidtrans, "unmatched").Inc()
		return nil
	}
	if _, ok := constant.FindTokenPack(req.CustomField2); !ok {
		s.logger.Warn("WEBHOOK", "Midtrans order with unknown pack", map[string]interface{}{
			"order_id": req.OrderId,
			"pack_id":  req.CustomField2,
		})
		metrics.WebhookEvents.WithLabelValues(ProviderMidtrans, "unmatched").Inc()
		return nil
	}

	if err := s.applyPurchase(ctx, &dto.PurchaseEvent{
		EventId:   req.OrderId,
		Provider:  ProviderMidtrans,
		EventType: req.TransactionStatus,
		UserId:    userId,
		PackId:    req.CustomField2,
		InvoiceId: req.OrderId,
		Payload:   payload,
	}); err != nil {
		metrics.WebhookEvents.WithLabelValues(ProviderMidtrans, "error").Inc()
		return err
	}

	s.eventCache.Remember(req.OrderId)
	return nil
}

func (s *billingService) applyPurchase(ctx context.Context, event *dto.PurchaseEvent) error {
	result, err := s.tokenService.ApplyPurchaseEvent(ctx, event)
	if err != nil {
		s.logger.Error("WEBHOOK", "Failed to credit purchase", map[string]interface{}{
			"event_id": event.EventId,
			"provider": event.Provider,
			"error":    err.Error(),
		})
		return err
	}
	if !result.Applied {
		metrics.WebhookEvents.WithLabelValues(event.Provider, "duplicate").Inc()
		return nil
	}

	metrics.WebhookEvents.WithLabelValues(event.Provider, "credited").Inc()
	s.logger.Info("WEBHOOK", "Tokens credited", map[string]interface{}{
		"event_id":    event.EventId,
		"user_id":     event.UserId.String(),
		"pack_id":     event.PackId,
		"new_balance": result.NewBalance,
	})

	s.sendReceipt(ctx, event, result.NewBalance)
	return nil
}

// sendReceipt mails the buyer in the background; failures are logged by the mailer.
func (s *billingService) sendReceipt(ctx context.Context, event *dto.PurchaseEvent, newBalance int) {
	if s.emailService == nil {
		return
	}
	pack, _ := constant.FindTokenPack(event.PackId)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: event.UserId})
	if err != nil || user == nil || user.Email == "" {
		s.logger.Warn("WEBHOOK", "No email for purchase receipt", map[string]interface{}{
			"user_id": event.UserId.String(),
		})
		return
	}

	receipt := mailer.PurchaseReceipt{
		PackName:   pack.Name,
		Tokens:     pack.Tokens,
		NewBalance: newBalance,
		InvoiceId:  event.InvoiceId,
	}
	go func(to string) {
		_ = s.emailService.SendPurchaseReceipt(to, receipt)
	}(user.Email)
}
