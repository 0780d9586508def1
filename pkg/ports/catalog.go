package ports

import (
	"context"

	"github.com/posterman/orderbot/pkg/domain"
)

// Catalog lists the products offered on the website.
type Catalog interface {
	Products(ctx context.Context) ([]domain.ProductCard, error)
}

// OrderTracker resolves the status of an order by its numeric ID.
type OrderTracker interface {
	Status(ctx context.Context, orderID string) (domain.OrderStatus, error)
}

// OrderSink receives confirmed orders.
type OrderSink interface {
	Record(ctx context.Context, order domain.Order) error
}
