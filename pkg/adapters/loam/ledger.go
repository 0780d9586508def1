package loam

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/posterman/orderbot/pkg/domain"
)

// Ledger implements ports.OrderSink by writing one Markdown document per order.
type Ledger struct {
	repo core.Repository
}

// NewLedger journals into an existing repository.
func NewLedger(repo core.Repository) *Ledger {
	return &Ledger{repo: repo}
}

// OpenLedger opens (or creates) dir as a writable order journal.
func OpenLedger(dir string) (*Ledger, error) {
	repo, err := loam.Init(dir,
		loam.WithVersioning(false),
		loam.WithForceTemp(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return NewLedger(repo), nil
}

// maxRefClashes bounds the suffixes tried when a reference is already journaled.
const maxRefClashes = 100

// DocumentID returns the document name used for an order reference.
func DocumentID(ref string) string {
	return "order-" + ref
}

// Record saves the order as "order-<ref>.md". References are short, so when that
// document already exists the order is written as "order-<ref>-2.md", "-3" and so on.
func (l *Ledger) Record(ctx context.Context, order domain.Order) error {
	id, err := l.freeID(ctx, order.Ref)
	if err != nil {
		return err
	}

	items := make([]map[string]any, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, map[string]any{
			"type":         string(it.Type),
			"product_name": it.ProductName,
			"details":      it.Details,
			"size":         it.Size,
			"qty":          it.Qty,
		})
	}

	doc := core.Document{
		ID:      id + ".md",
		Content: fmt.Sprintf("Order #%s for %s (%d items).", order.Ref, order.Name, len(order.Items)),
		Metadata: core.Metadata{
			"ref":        order.Ref,
			"session_id": order.Session,
			"name":       order.Name,
			"address":    order.Address,
			"phone":      order.Phone,
			"placed_at":  order.PlacedAt.UTC().Format(time.RFC3339),
			"items":      items,
		},
	}
	if err := l.repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to record order %s: %w", order.Ref, err)
	}
	return nil
}

func (l *Ledger) freeID(ctx context.Context, ref string) (string, error) {
	base := DocumentID(ref)
	id := base
	for n := 2; n <= maxRefClashes+1; n++ {
		_, err := l.repo.Get(ctx, id)
		if errors.Is(err, os.ErrNotExist) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check order %s: %w", id, err)
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("order reference %s used %d times", ref, maxRefClashes)
}

// Orders lists every journaled order.
func (l *Ledger) Orders(ctx context.Context) ([]OrderMetadata, error) {
	docs, err := loam.NewTypedRepository[OrderMetadata](l.repo).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}
	orders := make([]OrderMetadata, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, doc.Data)
	}
	return orders, nil
}

// Status implements ports.OrderTracker over the journal.
// Journaled orders await payment verification; unknown IDs yield domain.ErrOrderNotFound.
func (l *Ledger) Status(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	orders, err := l.Orders(ctx)
	if err != nil {
		return "", err
	}
	for _, o := range orders {
		if (domain.Order{Ref: o.Ref}).MatchesRef(orderID) {
			return domain.OrderPaymentPending, nil
		}
	}
	return "", domain.ErrOrderNotFound
}
