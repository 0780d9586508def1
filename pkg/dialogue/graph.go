package dialogue

import "github.com/posterman/orderbot/pkg/domain"

// Edge is one documented transition of the flow graph.
type Edge struct {
	From  domain.StateID
	To    domain.StateID
	Label string
}

// ResetLabel marks the edge every state has back to IDLE on a reset phrase.
const ResetLabel = "reset"

// Edges returns the transition table Advance implements, excluding the
// implicit reset edge every state has to IDLE and self-loops on IDLE.
func Edges() []Edge {
	return []Edge{
		{domain.StateIdle, domain.StateCheckStatus, "track order"},
		{domain.StateIdle, domain.StateAskOrderCategory, "place order"},
		{domain.StateIdle, domain.StateCustomAskQty, "upload"},
		{domain.StateCheckStatus, domain.StateIdle, "order id"},
		{domain.StateAskOrderCategory, domain.StateWebsiteSelectProduct, "website"},
		{domain.StateAskOrderCategory, domain.StateCustomUploadDetails, "custom"},
		{domain.StateAskOrderCategory, domain.StateAskOrderCategory, "other"},
		{domain.StateWebsiteSelectProduct, domain.StateIdle, "main menu"},
		{domain.StateWebsiteSelectProduct, domain.StateWebsiteAskQty, "product"},
		{domain.StateCustomUploadDetails, domain.StateCustomAskQty, "details"},
		{domain.StateWebsiteAskQty, domain.StateAskAddMore, "qty"},
		{domain.StateCustomAskQty, domain.StateAskAddMore, "qty"},
		{domain.StateAskAddMore, domain.StateAskOrderCategory, "yes"},
		{domain.StateAskAddMore, domain.StateAskName, "no"},
		{domain.StateAskName, domain.StateAskAddress, "name"},
		{domain.StateAskAddress, domain.StateAskPhone, "address"},
		{domain.StateAskPhone, domain.StateIdle, "phone (confirm)"},
	}
}
