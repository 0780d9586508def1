package memory

import (
	"context"
	"sync"

	"github.com/posterman/orderbot/pkg/domain"
)

// OrderBook implements ports.OrderSink by keeping confirmed orders in memory.
type OrderBook struct {
	mu     sync.RWMutex
	orders []domain.Order
}

// NewOrderBook creates an empty order book.
func NewOrderBook() *OrderBook {
	return &OrderBook{}
}

// Record appends a confirmed order.
func (b *OrderBook) Record(ctx context.Context, order domain.Order) error {
	order.Items = append([]domain.CartItem(nil), order.Items...)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = append(b.orders, order)
	return nil
}

// Orders returns the recorded orders in confirmation order.
func (b *OrderBook) Orders() []domain.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Order(nil), b.orders...)
}

// Find returns the most recent order matching a tracking ID ("1792" or "ID1792").
func (b *OrderBook) Find(orderID string) (domain.Order, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for i := len(b.orders) - 1; i >= 0; i-- {
		if b.orders[i].MatchesRef(orderID) {
			return b.orders[i], nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

// Status implements ports.OrderTracker over the recorded orders.
// Recorded orders await payment verification; unknown IDs yield domain.ErrOrderNotFound.
func (b *OrderBook) Status(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	if _, err := b.Find(orderID); err != nil {
		return "", err
	}
	return domain.OrderPaymentPending, nil
}
