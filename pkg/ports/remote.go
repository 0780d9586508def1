package ports

import (
	"context"

	"github.com/posterman/orderbot/pkg/domain"
)

// RemoteDialogue is the remote dialogue service. Implementations must return
// an error wrapping domain.ErrRemoteUnavailable or domain.ErrMalformedPayload
// whenever they cannot produce a well-formed reply.
type RemoteDialogue interface {
	Send(ctx context.Context, sessionID, message string) (domain.Reply, error)
}
