// Package session keeps per-browser domain bookkeeping in Valkey hashes.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
)

// fieldPrefix prefixes every domain field in a session hash.
const fieldPrefix = "domain_name_"

// store is the consumer interface for session storage (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Repo stores session hashes under {prefix}session:{id}.
type Repo struct {
	store  store
	prefix string
	ttl    time.Duration
}

// New creates a session repository. A zero ttl keeps sessions forever.
func New(s store, keyPrefix string, ttl time.Duration) *Repo {
	return &Repo{store: s, prefix: keyPrefix, ttl: ttl}
}

// AddDomain records d in the session and refreshes its expiry.
func (r *Repo) AddDomain(ctx context.Context, id string, d domainname.Name) error {
	key := r.key(id)
	if err := r.store.HSet(ctx, key, map[string]string{fieldPrefix + d.String(): d.String()}); err != nil {
		return fmt.Errorf("hset session: %w", err)
	}
	if r.ttl > 0 {
		if err := r.store.Expire(ctx, key, r.ttl, false); err != nil {
			return fmt.Errorf("expire session: %w", err)
		}
	}
	return nil
}

func (r *Repo) key(id string) string {
	return r.prefix + "session:" + id
}
