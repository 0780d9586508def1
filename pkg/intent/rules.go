package intent

import (
	"strings"

	"github.com/posterman/orderbot/pkg/domain"
)

// MenuMarker is the back-to-menu quick reply, compared after normalization.
const MenuMarker = "🔙 main menu"

// UploadMarker prefixes messages produced by the upload widget: "[Image Uploaded] <url>".
const UploadMarker = "[image uploaded]"

// ResetPhrases are the exact phrases that return any conversation to IDLE.
func ResetPhrases() []string {
	return []string{"hi", "hello", "hey", "menu", "start", "restart", "main menu", MenuMarker}
}

// DefaultRules is the PosterBot rule table, in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Intent: domain.IntentReset, Scope: ScopeGlobal, Exact: ResetPhrases()},
		{
			Intent:   domain.IntentTrackOrder,
			Scope:    ScopeIdle,
			Keywords: []string{"track", "order status", "where is my order", "status"},
		},
		{
			Intent:   domain.IntentBrowseProducts,
			Scope:    ScopeIdle,
			Keywords: []string{"anime", "marvel", "cars", "gift", "collection"},
			Extract:  extractCategory,
		},
		{
			Intent:   domain.IntentCustomPrint,
			Scope:    ScopeIdle,
			Keywords: []string{"custom", "personal", "my own photo", "print", "image uploaded"},
			Extract:  extractAttachment,
		},
		{
			Intent:   domain.IntentPolicy,
			Scope:    ScopeIdle,
			Keywords: []string{"return", "broken", "refund", "shipping", "policy"},
		},
		{
			Intent:   domain.IntentCheckout,
			Scope:    ScopeIdle,
			Keywords: []string{"checkout", "buy", "cart"},
		},
		{
			Intent:   domain.IntentHandoff,
			Scope:    ScopeIdle,
			Keywords: []string{"chat on whatsapp", "chat upon whatsapp"},
		},
		{
			Intent:   domain.IntentPlaceOrder,
			Scope:    ScopeIdle,
			Keywords: []string{"place an order", "place another order"},
		},
	}
}

func extractCategory(normalized, _ string, m *domain.Match) {
	m.Category = domain.CategoryAll
	for _, c := range []string{domain.CategoryAnime, domain.CategoryMarvel, domain.CategoryCars} {
		if strings.Contains(normalized, c) {
			m.Category = c
			return
		}
	}
}

func extractAttachment(normalized, raw string, m *domain.Match) {
	if !strings.Contains(normalized, UploadMarker) {
		return
	}
	m.Attachment = Attachment(raw)
}

// Attachment returns the reference following the upload marker,
// or the whole text when the marker carries no separate reference.
func Attachment(raw string) string {
	if _, after, ok := strings.Cut(raw, "] "); ok {
		return strings.TrimSpace(after)
	}
	return raw
}

// HasUpload reports whether the utterance came from the upload widget.
func HasUpload(utterance string) bool {
	return strings.Contains(Normalize(utterance), UploadMarker)
}
