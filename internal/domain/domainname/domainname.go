// Package domainname holds the validated identifier that partitions chunks,
// indexes and sessions into independent namespaces.
package domainname

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/ragdesk/internal/domain"
)

// MaxLen is the longest accepted domain name.
const MaxLen = 64

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Name is a validated domain identifier (immutable value object).
type Name struct {
	value string
}

// New validates s: 1-64 chars of ^[a-zA-Z0-9_-]+$.
func New(s string) (Name, error) {
	if s == "" {
		return Name{}, fmt.Errorf("%w: domain name is required", domain.ErrInvalidDomain)
	}
	if len(s) > MaxLen {
		return Name{}, fmt.Errorf("%w: domain name too long (max %d)", domain.ErrInvalidDomain, MaxLen)
	}
	if !nameRegex.MatchString(s) {
		return Name{}, fmt.Errorf("%w: domain name must be alphanumeric with underscores and hyphens",
			domain.ErrInvalidDomain)
	}
	return Name{value: s}, nil
}

// Parse accepts a decoded JSON value: a string, or a single-element list
// holding a string (legacy clients send ["name"]). Anything else is rejected.
func Parse(raw any) (Name, error) {
	switch v := raw.(type) {
	case string:
		return New(v)
	case []any:
		if len(v) != 1 {
			return Name{}, fmt.Errorf("%w: expected a single domain, got %d", domain.ErrInvalidDomain, len(v))
		}
		s, ok := v[0].(string)
		if !ok {
			return Name{}, fmt.Errorf("%w: domain list element must be a string", domain.ErrInvalidDomain)
		}
		return New(s)
	case []string:
		if len(v) != 1 {
			return Name{}, fmt.Errorf("%w: expected a single domain, got %d", domain.ErrInvalidDomain, len(v))
		}
		return New(v[0])
	case nil:
		return Name{}, fmt.Errorf("%w: domain name is required", domain.ErrInvalidDomain)
	default:
		return Name{}, fmt.Errorf("%w: unsupported domain type %T", domain.ErrInvalidDomain, raw)
	}
}

// String returns the raw identifier.
func (n Name) String() string { return n.value }

// IsZero reports whether n was never set.
func (n Name) IsZero() bool { return n.value == "" }
