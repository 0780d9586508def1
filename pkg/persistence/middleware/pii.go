package middleware

import (
	"context"
	"strings"

	"github.com/posterman/orderbot/pkg/domain"
	"github.com/posterman/orderbot/pkg/ports"
)

const mask = "***"

// piiSink masks customer contact details before orders leave the process.
type piiSink struct {
	next ports.OrderSink
}

// NewPIISink wraps an order sink so that addresses are masked and phone
// numbers keep only their last four digits. Names are kept for support lookups.
func NewPIISink(next ports.OrderSink) ports.OrderSink {
	return &piiSink{next: next}
}

func (s *piiSink) Record(ctx context.Context, order domain.Order) error {
	order.Items = append([]domain.CartItem(nil), order.Items...)
	order.Address = MaskAddress(order.Address)
	order.Phone = MaskPhone(order.Phone)
	return s.next.Record(ctx, order)
}

// MaskPhone hides all but the last four digits.
func MaskPhone(phone string) string {
	var digits []rune
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		if len(digits) == 0 {
			return ""
		}
		return mask
	}
	return mask + string(digits[len(digits)-4:])
}

// MaskAddress hides the address entirely.
func MaskAddress(address string) string {
	if strings.TrimSpace(address) == "" {
		return ""
	}
	return mask
}
