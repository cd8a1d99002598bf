package session

import (
	"context"

	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
)

// Repository stores the domains a session has touched.
type Repository interface {
	AddDomain(ctx context.Context, id string, d domainname.Name) error
}
