package domain

// StateID names a node in the conversation flow graph.
type StateID string

const (
	StateIdle                 StateID = "IDLE"
	StateCheckStatus          StateID = "CHECK_STATUS"
	StateAskOrderCategory     StateID = "ASK_ORDER_CATEGORY"
	StateWebsiteSelectProduct StateID = "WEBSITE_SELECT_PRODUCT"
	StateWebsiteAskQty        StateID = "WEBSITE_ASK_QTY"
	StateCustomUploadDetails  StateID = "CUSTOM_UPLOAD_DETAILS"
	StateCustomAskQty         StateID = "CUSTOM_ASK_QTY"
	StateAskAddMore           StateID = "ASK_ADD_MORE"
	StateAskName              StateID = "ASK_NAME"
	StateAskAddress           StateID = "ASK_ADDRESS"
	StateAskPhone             StateID = "ASK_PHONE"
)

// States lists the closed set of flow states in declaration order.
func States() []StateID {
	return []StateID{
		StateIdle,
		StateCheckStatus,
		StateAskOrderCategory,
		StateWebsiteSelectProduct,
		StateWebsiteAskQty,
		StateCustomUploadDetails,
		StateCustomAskQty,
		StateAskAddMore,
		StateAskName,
		StateAskAddress,
		StateAskPhone,
	}
}

// Valid reports whether s belongs to the closed state set.
func (s StateID) Valid() bool {
	for _, known := range States() {
		if s == known {
			return true
		}
	}
	return false
}

func (s StateID) String() string {
	return string(s)
}
