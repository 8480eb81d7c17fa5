package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"github.com/kaushlendrathe1710/lelekart-api/pricing"
)

// state tracks a checkout attempt through the assembler.
type state string

const (
	stateDraft         state = "draft"
	stateStockVerified state = "stock_verified"
	statePriceLocked   state = "price_locked"
	stateWalletDebited state = "wallet_debited"
	stateOrderCreated  state = "order_created"
	stateCommitted     state = "committed"
	stateRolledBack    state = "rolled_back"
)

// Store is the persistence surface the assembler drives. ReserveStock must be
// atomic and all-or-nothing: a reservation that would take any line's stock
// negative reserves nothing and reports the shortages.
type Store interface {
	// OrderByRequestID returns a previously committed order for an
	// idempotency key, nil when none exists.
	OrderByRequestID(ctx context.Context, requestID string) (*models.Order, error)
	LoadCart(ctx context.Context, userID string) ([]pricing.Line, error)
	WalletBalance(ctx context.Context, userID string) (int, error)
	WalletSettings(ctx context.Context) (pricing.Settings, error)
	ReserveStock(ctx context.Context, lines []pricing.Line) error
	ReleaseStock(ctx context.Context, lines []pricing.Line) error
	DebitCoins(ctx context.Context, userID string, coins int, reason string) error
	CreditCoins(ctx context.Context, userID string, coins int, reason string) error
	// CreateOrder persists the order and consumes the cart atomically.
	CreateOrder(ctx context.Context, order *models.Order) error
}

// Service assembles orders from carts. The flow is
// draft -> stock_verified -> price_locked -> wallet_debited -> order_created
// -> committed, with compensating actions on any failure after a side effect.
type Service struct {
	store    Store
	autoShip func(order models.Order)
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// OnCommit registers a hook run after a successful checkout, used for
// autoShip dispatch. The hook must not fail the checkout.
func (s *Service) OnCommit(hook func(order models.Order)) {
	s.autoShip = hook
}

// Checkout converts the user's cart into a pending order. requestID is the
// client idempotency key: replaying a committed request returns the original
// order. redeemCoins above the policy cap is clamped, not rejected; an actual
// shortfall at debit time (concurrent spend) is an error. paymentMethod is
// snapshotted onto the order, the shipping dispatcher reads it for the COD
// flag; empty means prepaid.
func (s *Service) Checkout(ctx context.Context, userID, requestID string, addr models.Address, redeemCoins int, paymentMethod string) (*models.Order, error) {
	if userID == "" {
		return nil, ErrInvalidRequest
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	if paymentMethod == "" {
		paymentMethod = "prepaid"
	}
	if redeemCoins < 0 {
		return nil, ErrInvalidRequest
	}
	if !addr.Complete() {
		return nil, ErrInvalidAddress
	}

	if prior, err := s.store.OrderByRequestID(ctx, requestID); err != nil {
		return nil, err
	} else if prior != nil {
		return prior, nil
	}

	st := stateDraft

	lines, err := s.store.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, ErrInvalidRequest
		}
	}

	// Reserve stock first: the conditional decrement is the commit-time
	// verification, there is no separate read-then-check pass.
	if err := s.store.ReserveStock(ctx, lines); err != nil {
		return nil, err
	}
	st = stateStockVerified

	rollback := func(cause error, undo ...func() error) {
		for _, fn := range undo {
			if err := fn(); err != nil {
				log.Printf("❌ checkout rollback from %s failed: %v (cause: %v)", st, err, cause)
			}
		}
		st = stateRolledBack
	}
	releaseStock := func() error { return s.store.ReleaseStock(ctx, lines) }

	balance, err := s.store.WalletBalance(ctx, userID)
	if err != nil {
		rollback(err, releaseStock)
		return nil, err
	}
	settings, err := s.store.WalletSettings(ctx)
	if err != nil {
		rollback(err, releaseStock)
		return nil, err
	}

	quote := pricing.Resolve(lines, balance, settings)
	coins := redeemCoins
	if coins > quote.MaxRedeemableCoins {
		coins = quote.MaxRedeemableCoins
	}
	discount := pricing.CoinValue(coins, settings)
	st = statePriceLocked

	order := &models.Order{
		OrderRef:        time.Now().Format("20060102150405") + "-" + uuid.NewString(),
		RequestID:       requestID,
		UserID:          userID,
		Subtotal:        quote.Subtotal,
		ShippingCost:    quote.ShippingCost,
		CoinsRedeemed:   coins,
		CoinDiscount:    discount,
		TotalAmount:     quote.Subtotal + quote.ShippingCost - discount,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   paymentMethod,
		ShippingAddress: addr,
	}
	for _, l := range quote.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   l.ProductID,
			VariantID:   l.VariantID,
			ProductName: l.Name,
			Category:    l.Category,
			UnitPrice:   l.UnitPrice,
			Weight:      l.Weight,
			Quantity:    l.Quantity,
		})
	}

	if coins > 0 {
		if err := s.store.DebitCoins(ctx, userID, coins, "redeemed on order "+order.OrderRef); err != nil {
			rollback(err, releaseStock)
			return nil, err
		}
	}
	st = stateWalletDebited

	if err := s.store.CreateOrder(ctx, order); err != nil {
		// Past wallet_debited every failure must reverse the debit before
		// returning.
		undo := []func() error{releaseStock}
		if coins > 0 {
			undo = append(undo, func() error {
				return s.store.CreditCoins(ctx, userID, coins, "refund: order "+order.OrderRef+" failed")
			})
		}
		rollback(err, undo...)
		// ErrConflict means a concurrent checkout with the same request id
		// won the insert race; honor idempotency by returning its order.
		if errors.Is(err, ErrConflict) {
			if prior, lookupErr := s.store.OrderByRequestID(ctx, requestID); lookupErr == nil && prior != nil {
				return prior, nil
			}
		}
		return nil, err
	}
	st = stateOrderCreated

	st = stateCommitted
	log.Printf("✅ order %s committed for user %s (%s)", order.OrderRef, userID, st)

	if s.autoShip != nil {
		s.autoShip(*order)
	}
	return order, nil
}
