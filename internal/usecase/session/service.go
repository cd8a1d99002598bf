// Package session tracks which domains a browser session has used.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
)

// Service records domains against opaque session ids.
type Service struct {
	repo Repository
}

// New creates a session service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewID issues a fresh session id.
func (s *Service) NewID() string {
	return uuid.NewString()
}

// Valid reports whether id looks like one issued by NewID.
func (s *Service) Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Remember records d in the session.
func (s *Service) Remember(ctx context.Context, id string, d domainname.Name) error {
	if id == "" {
		return errors.New("session id is required")
	}
	if err := s.repo.AddDomain(ctx, id, d); err != nil {
		return fmt.Errorf("remember domain %s: %w", d, err)
	}
	return nil
}
