package dialogue

import (
	"context"

	"github.com/posterman/orderbot/pkg/domain"
)

// MockTracker is the canned order tracker: "1234" has shipped, every other ID is processing.
type MockTracker struct{}

// Status implements ports.OrderTracker.
func (MockTracker) Status(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	if orderID == "1234" {
		return domain.OrderShipped, nil
	}
	return domain.OrderProcessing, nil
}
