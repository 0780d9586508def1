package domain

// Turn is the outcome of one orchestrated exchange.
type Turn struct {
	Reply  Reply  `json:"reply"`
	Source Source `json:"source"`

	// RemoteErr is why the remote reply was not used, nil when Source is remote
	// or no remote is configured.
	RemoteErr error `json:"-"`
}
