package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kaushlendrathe1710/lelekart-api/models"
	"github.com/kaushlendrathe1710/lelekart-api/pricing"
	"github.com/kaushlendrathe1710/lelekart-api/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore is a mutex-guarded in-memory Store so the assembler's
// compensation and concurrency behavior can be exercised directly.
type mockStore struct {
	mu       sync.Mutex
	stock    map[uint]int
	wallets  map[string]int
	carts    map[string][]pricing.Line
	orders   map[string]*models.Order
	settings pricing.Settings

	failCreateOrder bool
	failDebit       bool
	// raceWinner simulates a concurrent checkout committing the same
	// request id first: the insert fails with ErrConflict and the winner
	// becomes visible to the replay lookup.
	raceWinner  *models.Order
	nextOrderID uint
}

func newMockStore() *mockStore {
	return &mockStore{
		stock:    make(map[uint]int),
		wallets:  make(map[string]int),
		carts:    make(map[string][]pricing.Line),
		orders:   make(map[string]*models.Order),
		settings: pricing.Settings{MaxUsagePercent: 20, ConversionRate: 10},
	}
}

func (m *mockStore) OrderByRequestID(ctx context.Context, requestID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[requestID]; ok {
		return o, nil
	}
	return nil, nil
}

func (m *mockStore) LoadCart(ctx context.Context, userID string) ([]pricing.Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[userID], nil
}

func (m *mockStore) WalletBalance(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wallets[userID], nil
}

func (m *mockStore) WalletSettings(ctx context.Context) (pricing.Settings, error) {
	return m.settings, nil
}

func (m *mockStore) ReserveStock(ctx context.Context, lines []pricing.Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var shortages []StockShortage
	for _, l := range lines {
		if m.stock[l.ProductID] < l.Quantity {
			shortages = append(shortages, StockShortage{
				ProductID: l.ProductID,
				Requested: l.Quantity,
				Available: m.stock[l.ProductID],
			})
		}
	}
	if len(shortages) > 0 {
		return &InsufficientStockError{Shortages: shortages}
	}
	for _, l := range lines {
		m.stock[l.ProductID] -= l.Quantity
	}
	return nil
}

func (m *mockStore) ReleaseStock(ctx context.Context, lines []pricing.Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range lines {
		m.stock[l.ProductID] += l.Quantity
	}
	return nil
}

func (m *mockStore) DebitCoins(ctx context.Context, userID string, coins int, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDebit {
		return wallet.ErrInsufficientFunds
	}
	if m.wallets[userID] < coins {
		return wallet.ErrInsufficientFunds
	}
	m.wallets[userID] -= coins
	return nil
}

func (m *mockStore) CreditCoins(ctx context.Context, userID string, coins int, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[userID] += coins
	return nil
}

func (m *mockStore) CreateOrder(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateOrder {
		return errors.New("simulated insert failure")
	}
	if m.raceWinner != nil {
		m.orders[order.RequestID] = m.raceWinner
		m.raceWinner = nil
		return ErrConflict
	}
	m.nextOrderID++
	order.ID = m.nextOrderID
	m.orders[order.RequestID] = order
	delete(m.carts, order.UserID)
	return nil
}

var testAddr = models.Address{
	Name: "A Buyer", Phone: "9999999999", Street: "1 MG Road",
	City: "Bengaluru", State: "KA", PostalCode: "560001", Country: "IN",
}

func TestCheckout_WorkedExample(t *testing.T) {
	// cart 2x₹500, wallet 100 coins at 10 coins/₹, 20% cap
	// => redeem 100 coins (₹10), payable ₹990.
	store := newMockStore()
	store.stock[1] = 5
	store.wallets["u1"] = 100
	store.carts["u1"] = []pricing.Line{{ProductID: 1, Name: "Kettle", UnitPrice: 500, Quantity: 2}}

	svc := NewService(store)
	order, err := svc.Checkout(context.Background(), "u1", "req-1", testAddr, 1000, "")
	require.NoError(t, err)

	assert.Equal(t, 100, order.CoinsRedeemed) // clamped to wallet balance
	assert.Equal(t, 10.0, order.CoinDiscount)
	assert.Equal(t, 990.0, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 3, store.stock[1])
	assert.Zero(t, store.wallets["u1"])
	assert.Empty(t, store.carts["u1"], "cart consumed on success")
}

func TestCheckout_IdempotentReplay(t *testing.T) {
	store := newMockStore()
	store.stock[1] = 5
	store.carts["u1"] = []pricing.Line{{ProductID: 1, UnitPrice: 100, Quantity: 1}}

	svc := NewService(store)
	first, err := svc.Checkout(context.Background(), "u1", "req-1", testAddr, 0, "")
	require.NoError(t, err)

	replay, err := svc.Checkout(context.Background(), "u1", "req-1", testAddr, 0, "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, replay.ID)
	assert.Equal(t, 4, store.stock[1], "replay must not decrement stock again")
}

func TestCheckout_InsufficientStockKeepsCart(t *testing.T) {
	store := newMockStore()
	store.stock[1] = 1
	store.wallets["u1"] = 50
	store.carts["u1"] = []pricing.Line{{ProductID: 1, UnitPrice: 100, Quantity: 3}}

	svc := NewService(store)
	_, err := svc.Checkout(context.Background(), "u1", "req-1", testAddr, 0, "")

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, uint(1), stockErr.Shortages[0].ProductID)
	assert.Equal(t, 3, stockErr.Shortages[0].Requested)
	assert.Equal(t, 1, stockErr.Shortages[0].Available)

	assert.Len(t, store.carts["u1"], 1, "cart untouched on stock failure")
	assert.Equal(t, 50, store.wallets["u1"], "wallet untouched on stock failure")
	assert.Equal(t, 1, store.stock[1])
}

func TestCheckout_DebitFailureReleasesStock(t *testing.T) {
	store := newMockStore()
	store.stock[1] = 5
	store.wallets["u1"] = 100
	store.failDebit = true
	store.carts["u1"] = []pricing.Line{{ProductID: 1, UnitPrice: 500, Quantity: 2}}

	svc := NewService(store)
	_, err := svc.Checkout(context.Background(), "u1", "req-1", testAddr, 100, "")
	require.ErrorIs(t, err, wallet.ErrInsufficientFunds)

	assert.Equal(t, 5, store.stock[1], "reserved stock released after debit failure")
	assert.Len(t, store.carts["u1"], 1)
}

func TestCheckout_CreateFailureRefundsWallet(t *testing.T) {
	store := newMockStore()
	store.stock[1] = 5
	store.wallets["u1"] = 100
	store.failCreateOrder = true
	store.carts["u1"] = []pricing.Line{{ProductID: 1, UnitPrice: 500, Quantity: 2}}

	svc := NewService(store)
	_, err := svc.Checkout(context.Background(), "u1", "req-1", testAddr, 100, "")
	require.Error(t, err)

	assert.Equal(t, 100, store.wallets["u1"], "wallet debit reversed")
	assert.Equal(t, 5, store.stock[1], "stock reservation reversed")
}

func TestCheckout_ValidationBeforeStateChange(t *testing.T) {
	store := newMockStore()
	store.stock[1] = 5
	store.carts["u1"] = []pricing.Line{{ProductID: 1, UnitPrice: 100, Quantity: 1}}
	svc := NewService(store)

	_, err := svc.Checkout(context.Background(), "u1", "r", models.Address{City: "X"}, 0, "")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = svc.Checkout(context.Background(), "u1", "r", testAddr, -1, "")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Checkout(context.Background(), "nobody", "r", testAddr, 0, "")
	assert.ErrorIs(t, err, ErrEmptyCart)

	assert.Equal(t, 5, store.stock[1], "no state changed by rejected requests")
}

func TestCheckout_ConcurrentNoOversell(t *testing.T) {
	const initialStock = 20
	const attempts = 50

	store := newMockStore()
	store.stock[1] = initialStock
	for i := 0; i < attempts; i++ {
		user := fmt.Sprintf("u%d", i)
		store.carts[user] = []pricing.Line{{ProductID: 1, UnitPrice: 100, Quantity: 1}}
	}

	svc := NewService(store)
	var success, fail atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("u%d", i)
			_, err := svc.Checkout(context.Background(), user, "req-"+user, testAddr, 0, "")
			if err == nil {
				success.Add(1)
			} else {
				fail.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(initialStock), success.Load())
	assert.Equal(t, int32(attempts-initialStock), fail.Load())
	assert.Zero(t, store.stock[1])
}

func TestCheckout_LastUnitRace(t *testing.T) {
	store := newMockStore()
	store.stock[1] = 1
	store.carts["u1"] = []pricing.Line{{ProductID: 1, UnitPrice: 100, Quantity: 1}}
	store.carts["u2"] = []pricing.Line{{ProductID: 1, UnitPrice: 100, Quantity: 1}}

	svc := NewService(store)
	errs := make(chan error, 2)
	for _, user := range []string{"u1", "u2"} {
		go func(user string) {
			_, err := svc.Checkout(context.Background(), user, "req-"+user, testAddr, 0, "")
			errs <- err
		}(user)
	}

	var successes, stockFails int
	for i := 0; i < 2; i++ {
		err := <-errs
		if err == nil {
			successes++
			continue
		}
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		stockFails++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, stockFails)
	assert.Zero(t, store.stock[1])
}

func TestCheckout_RequestIDRaceReturnsWinner(t *testing.T) {
	store := newMockStore()
	store.stock[1] = 5
	store.wallets["u1"] = 100
	store.carts["u1"] = []pricing.Line{{ProductID: 1, UnitPrice: 100, Quantity: 1}}
	winner := &models.Order{ID: 99, OrderRef: "winner-ref", RequestID: "req-1", UserID: "u1"}
	store.raceWinner = winner

	svc := NewService(store)
	order, err := svc.Checkout(context.Background(), "u1", "req-1", testAddr, 10, "")
	require.NoError(t, err)

	// The losing attempt compensates its own reservation and debit, then
	// hands back the committed order.
	assert.Equal(t, "winner-ref", order.OrderRef)
	assert.Equal(t, 5, store.stock[1])
	assert.Equal(t, 100, store.wallets["u1"])
}

func TestCheckout_CarriesPaymentMethod(t *testing.T) {
	store := newMockStore()
	store.stock[1] = 5
	store.carts["u1"] = []pricing.Line{{ProductID: 1, UnitPrice: 100, Quantity: 1}}

	svc := NewService(store)
	order, err := svc.Checkout(context.Background(), "u1", "req-1", testAddr, 0, "cod")
	require.NoError(t, err)

	// The dispatcher reads this for the carrier's COD flag.
	assert.Equal(t, "cod", order.PaymentMethod)
	assert.Equal(t, "cod", store.orders["req-1"].PaymentMethod)
}

func TestCheckout_DefaultPaymentMethodPrepaid(t *testing.T) {
	store := newMockStore()
	store.stock[1] = 5
	store.carts["u1"] = []pricing.Line{{ProductID: 1, UnitPrice: 100, Quantity: 1}}

	svc := NewService(store)
	order, err := svc.Checkout(context.Background(), "u1", "req-1", testAddr, 0, "")
	require.NoError(t, err)

	assert.Equal(t, "prepaid", order.PaymentMethod)
}

func TestCheckout_CommitHookFires(t *testing.T) {
	store := newMockStore()
	store.stock[1] = 5
	store.carts["u1"] = []pricing.Line{{ProductID: 1, UnitPrice: 100, Quantity: 1}}

	svc := NewService(store)
	var hooked *models.Order
	svc.OnCommit(func(o models.Order) { hooked = &o })

	order, err := svc.Checkout(context.Background(), "u1", "req-1", testAddr, 0, "")
	require.NoError(t, err)
	require.NotNil(t, hooked)
	assert.Equal(t, order.OrderRef, hooked.OrderRef)
}
