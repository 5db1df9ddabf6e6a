package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/domain"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/ports"
	"github.com/yoga-nditya/ALO-MONTIR-API/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// reconcileLeaseTTL bounds how long an advisory per-order lease is held
// around a reconcile attempt. The lease only reduces lock contention
// between the callback and polling paths; the row lock stays authoritative.
const reconcileLeaseTTL = 30 * time.Second

// TopUpServiceImpl implements ports.TopUpService. It is the only component
// that credits wallets: a credit happens exactly once per order, inside the
// same transaction that flips the intent to success and appends the ledger
// entry.
type TopUpServiceImpl struct {
	topUpRepo  ports.TopUpRepository
	userRepo   ports.UserRepository
	ledgerRepo ports.LedgerRepository
	gateway    ports.GatewayClient
	verifier   ports.SignatureVerifier
	orderLock  ports.OrderLock
	transactor ports.DBTransactor
	audit      ports.AuditService
	log        zerolog.Logger
}

// NewTopUpService creates a new TopUpServiceImpl.
func NewTopUpService(
	topUpRepo ports.TopUpRepository,
	userRepo ports.UserRepository,
	ledgerRepo ports.LedgerRepository,
	gateway ports.GatewayClient,
	verifier ports.SignatureVerifier,
	orderLock ports.OrderLock,
	transactor ports.DBTransactor,
	audit ports.AuditService,
	log zerolog.Logger,
) *TopUpServiceImpl {
	return &TopUpServiceImpl{
		topUpRepo:  topUpRepo,
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		gateway:    gateway,
		verifier:   verifier,
		orderLock:  orderLock,
		transactor: transactor,
		audit:      audit,
		log:        log,
	}
}

// Create opens a new top-up intent and requests a hosted payment page from
// the gateway. The intent row and the gateway result commit atomically: a
// gateway failure rolls everything back, so no orphan intents are left
// behind.
func (s *TopUpServiceImpl) Create(ctx context.Context, req ports.CreateTopUpRequest) (*domain.TopUp, error) {
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, apperror.ErrInvalidAmount(domain.MinTopUpAmount, domain.MaxTopUpAmount)
	}
	if !req.PaymentMethod.IsValid() {
		return nil, apperror.ErrInvalidPaymentMethod()
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("User")
	}

	now := time.Now().UTC()
	topUp := &domain.TopUp{
		ID:            uuid.New(),
		UserID:        user.ID,
		OrderID:       domain.NewOrderID(user.ID, now),
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentType:   req.PaymentMethod.GatewayType(),
		Status:        domain.TopUpStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.topUpRepo.Create(ctx, dbTx, topUp); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create top up: %w", err))
	}

	phone := ""
	if user.Phone != nil {
		phone = *user.Phone
	}
	snap, err := s.gateway.CreateTransaction(ctx, ports.SnapRequest{
		OrderID:       topUp.OrderID,
		Amount:        topUp.Amount,
		PaymentMethod: topUp.PaymentMethod,
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
		CustomerPhone: phone,
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.ErrGateway(err)
	}

	if err := s.topUpRepo.AttachGatewayResult(ctx, dbTx, topUp.OrderID, snap.Token, snap.RedirectURL); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("attach gateway result: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	topUp.SnapToken = &snap.Token
	topUp.RedirectURL = &snap.RedirectURL

	s.audit.Log(ctx, &domain.AuditLog{
		ID:        uuid.New(),
		UserID:    &user.ID,
		Action:    domain.AuditActionTopUpCreated,
		OrderID:   topUp.OrderID,
		Details:   fmt.Sprintf(`{"amount":%d,"payment_method":%q}`, topUp.Amount, topUp.PaymentMethod),
		IPAddress: req.ClientIP,
		CreatedAt: now,
	})

	s.log.Info().
		Str("order_id", topUp.OrderID).
		Int64("user_id", user.ID).
		Int64("amount", topUp.Amount).
		Str("payment_method", string(topUp.PaymentMethod)).
		Msg("top up created")

	return topUp, nil
}

// HandleNotification authenticates an inbound gateway callback and applies
// it. Verification happens before any intent lookup, so unauthenticated
// callers cannot probe for order existence.
func (s *TopUpServiceImpl) HandleNotification(ctx context.Context, n ports.GatewayNotification) (*ports.ReconcileResult, error) {
	if !s.verifier.Verify(n.OrderID, n.TransactionStatus, n.GrossAmount, n.SignatureKey) {
		s.audit.Log(ctx, &domain.AuditLog{
			ID:        uuid.New(),
			Action:    domain.AuditActionSignatureRejected,
			OrderID:   n.OrderID,
			Details:   fmt.Sprintf(`{"transaction_status":%q}`, n.TransactionStatus),
			IPAddress: n.ClientIP,
			CreatedAt: time.Now().UTC(),
		})
		s.log.Warn().
			Str("order_id", n.OrderID).
			Str("ip", n.ClientIP).
			Msg("notification signature rejected")
		return nil, apperror.ErrInvalidSignature()
	}

	s.audit.Log(ctx, &domain.AuditLog{
		ID:        uuid.New(),
		Action:    domain.AuditActionNotificationOK,
		OrderID:   n.OrderID,
		Details:   fmt.Sprintf(`{"transaction_status":%q,"fraud_status":%q,"payment_type":%q}`, n.TransactionStatus, n.FraudStatus, n.PaymentType),
		IPAddress: n.ClientIP,
		CreatedAt: time.Now().UTC(),
	})

	return s.Reconcile(ctx, n.OrderID, n.TransactionStatus, n.FraudStatus)
}

// Reconcile applies a gateway status event to a top-up intent. The whole
// apply step (status flip, balance credit, ledger append) runs in one
// transaction behind a SELECT ... FOR UPDATE on the intent row, so
// concurrent deliveries of the same event serialize and at most one of
// them credits the wallet.
func (s *TopUpServiceImpl) Reconcile(ctx context.Context, orderID, transactionStatus, fraudStatus string) (*ports.ReconcileResult, error) {
	acquired, err := s.orderLock.Acquire(ctx, orderID, reconcileLeaseTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", orderID).Msg("order lease unavailable, relying on row lock")
	} else if acquired {
		defer s.orderLock.Release(context.WithoutCancel(ctx), orderID) //nolint:errcheck
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrReconciliation(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	topUp, err := s.topUpRepo.GetByOrderIDForUpdate(ctx, dbTx, orderID)
	if err != nil {
		return nil, apperror.ErrReconciliation(fmt.Errorf("lock top up: %w", err))
	}
	if topUp == nil {
		return nil, apperror.ErrNotFound("Top up")
	}

	// A successful intent is terminal. Whatever the event says, report the
	// duplicate and leave every balance untouched.
	if topUp.IsSuccessful() {
		s.log.Info().Str("order_id", orderID).Msg("top up already processed, skipping")
		reconcileOutcomes.WithLabelValues("already_processed").Inc()
		return &ports.ReconcileResult{TopUp: topUp, AlreadyProcessed: true}, nil
	}

	target, ok := domain.MapGatewayStatus(transactionStatus, fraudStatus)
	if !ok {
		s.audit.Log(ctx, &domain.AuditLog{
			ID:        uuid.New(),
			UserID:    &topUp.UserID,
			Action:    domain.AuditActionUnknownStatus,
			OrderID:   orderID,
			Details:   fmt.Sprintf(`{"transaction_status":%q,"fraud_status":%q}`, transactionStatus, fraudStatus),
			CreatedAt: time.Now().UTC(),
		})
		s.log.Warn().
			Str("order_id", orderID).
			Str("transaction_status", transactionStatus).
			Str("fraud_status", fraudStatus).
			Msg("unknown gateway status, no transition applied")
		reconcileOutcomes.WithLabelValues("unknown_status").Inc()
		return &ports.ReconcileResult{TopUp: topUp}, nil
	}

	if target == topUp.Status {
		reconcileOutcomes.WithLabelValues("no_change").Inc()
		return &ports.ReconcileResult{TopUp: topUp}, nil
	}

	now := time.Now().UTC()

	if target != domain.TopUpStatusSuccess {
		if err := s.topUpRepo.UpdateStatus(ctx, dbTx, orderID, target, nil); err != nil {
			return nil, apperror.ErrReconciliation(fmt.Errorf("update status: %w", err))
		}
		if err := dbTx.Commit(ctx); err != nil {
			return nil, apperror.ErrReconciliation(fmt.Errorf("commit tx: %w", err))
		}
		topUp.Status = target
		topUp.UpdatedAt = now
		s.log.Info().
			Str("order_id", orderID).
			Str("status", string(target)).
			Msg("top up status updated")
		reconcileOutcomes.WithLabelValues(string(target)).Inc()
		return &ports.ReconcileResult{TopUp: topUp, Transitioned: true}, nil
	}

	// Success path: flip the intent, credit the wallet and append the
	// ledger entry atomically.
	if err := s.topUpRepo.UpdateStatus(ctx, dbTx, orderID, domain.TopUpStatusSuccess, &now); err != nil {
		return nil, apperror.ErrReconciliation(fmt.Errorf("update status: %w", err))
	}

	user, err := s.userRepo.GetByIDForUpdate(ctx, dbTx, topUp.UserID)
	if err != nil {
		return nil, apperror.ErrReconciliation(fmt.Errorf("lock user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("User")
	}

	if err := s.userRepo.IncrementBalance(ctx, dbTx, user.ID, topUp.Amount); err != nil {
		return nil, apperror.ErrReconciliation(fmt.Errorf("credit balance: %w", err))
	}

	orderRef := topUp.OrderID
	entry := &domain.LedgerEntry{
		ID:            uuid.New(),
		UserID:        user.ID,
		Type:          domain.LedgerTypeTopup,
		Amount:        topUp.Amount,
		Description:   fmt.Sprintf("Top up via %s", topUp.PaymentMethod),
		Status:        domain.LedgerStatusSuccess,
		ReferenceID:   &orderRef,
		BalanceBefore: user.Saldo,
		BalanceAfter:  user.Saldo + topUp.Amount,
		CreatedAt:     now,
	}
	if err := s.ledgerRepo.Create(ctx, dbTx, entry); err != nil {
		if errors.Is(err, ports.ErrDuplicateLedgerEntry) {
			s.log.Warn().Str("order_id", orderID).Msg("duplicate ledger entry blocked by unique constraint")
			return nil, apperror.ErrDuplicateLedgerEntry()
		}
		return nil, apperror.ErrReconciliation(fmt.Errorf("append ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrReconciliation(fmt.Errorf("commit tx: %w", err))
	}

	topUp.Status = domain.TopUpStatusSuccess
	topUp.PaidAt = &now
	topUp.UpdatedAt = now

	s.audit.Log(ctx, &domain.AuditLog{
		ID:        uuid.New(),
		UserID:    &user.ID,
		Action:    domain.AuditActionTopUpCompleted,
		OrderID:   orderID,
		Details:   fmt.Sprintf(`{"amount":%d,"balance_after":%d}`, topUp.Amount, entry.BalanceAfter),
		CreatedAt: now,
	})

	s.log.Info().
		Str("order_id", orderID).
		Int64("user_id", user.ID).
		Int64("amount", topUp.Amount).
		Int64("balance_after", entry.BalanceAfter).
		Msg("top up completed, wallet credited")

	reconcileOutcomes.WithLabelValues("credited").Inc()
	creditedAmount.Add(float64(topUp.Amount))

	return &ports.ReconcileResult{TopUp: topUp, Transitioned: true}, nil
}

// CheckStatus returns the current state of a top-up intent. When the
// intent is still in flight it refreshes from the gateway first; a gateway
// failure degrades to returning the stored row.
func (s *TopUpServiceImpl) CheckStatus(ctx context.Context, orderID string) (*domain.TopUp, error) {
	topUp, err := s.topUpRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get top up: %w", err))
	}
	if topUp == nil {
		return nil, apperror.ErrNotFound("Top up")
	}
	if !topUp.IsRefreshable() {
		return topUp, nil
	}

	status, err := s.gateway.GetStatus(ctx, orderID)
	if err != nil {
		s.audit.Log(ctx, &domain.AuditLog{
			ID:        uuid.New(),
			UserID:    &topUp.UserID,
			Action:    domain.AuditActionGatewayQueryFailed,
			OrderID:   orderID,
			CreatedAt: time.Now().UTC(),
		})
		s.log.Warn().Err(err).Str("order_id", orderID).Msg("gateway status query failed, returning stored state")
		return topUp, nil
	}

	result, err := s.Reconcile(ctx, orderID, status.TransactionStatus, status.FraudStatus)
	if err != nil {
		return nil, err
	}
	return result.TopUp, nil
}

// GetBalance returns the user's current wallet balance in minor units.
func (s *TopUpServiceImpl) GetBalance(ctx context.Context, userID int64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return 0, apperror.ErrNotFound("User")
	}
	return user.Saldo, nil
}
