package domain

// Intent is the classified purpose of a single utterance. It is never persisted.
type Intent string

const (
	IntentReset          Intent = "reset"
	IntentTrackOrder     Intent = "track_order"
	IntentBrowseProducts Intent = "browse_products"
	IntentCustomPrint    Intent = "custom_print"
	IntentPolicy         Intent = "policy"
	IntentCheckout       Intent = "checkout"
	IntentHandoff        Intent = "handoff"
	IntentPlaceOrder     Intent = "place_order"

	// IntentNoMatch is returned when nothing matched while idle.
	IntentNoMatch Intent = "no_match"
	// IntentFreeText is returned outside IDLE when no global phrase matched;
	// the active state interprets the text itself.
	IntentFreeText Intent = "free_text"
)

// Product categories extracted by the browse rule.
const (
	CategoryAll    = "all"
	CategoryAnime  = "anime"
	CategoryMarvel = "marvel"
	CategoryCars   = "cars"
)

// Match is the outcome of classifying one utterance.
type Match struct {
	Intent Intent

	// Category is set for IntentBrowseProducts.
	Category string

	// Attachment holds the uploaded file reference for custom prints, if any.
	Attachment string
}

// Matched reports whether a rule recognised the utterance.
func (m Match) Matched() bool {
	return m.Intent != IntentNoMatch && m.Intent != IntentFreeText
}
