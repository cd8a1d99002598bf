// Package corpus describes the searchable collection of chunks behind one domain.
package corpus

import "github.com/kailas-cloud/ragdesk/internal/domain/domainname"

// Index identifies a domain index that is known to exist.
type Index struct {
	Domain     domainname.Name
	Dimensions int
	CreatedAt  int64 // unix millis
}
