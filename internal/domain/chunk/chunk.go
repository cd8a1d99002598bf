// Package chunk describes passages cut from submitted documents.
package chunk

import (
	"strconv"

	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
)

// Piece is a contiguous substring of one submitted document.
// Start and End are rune offsets into that document, End exclusive.
type Piece struct {
	DocIndex int
	Start    int
	End      int
	Content  string
}

// Len returns the piece length in runes.
func (p Piece) Len() int { return p.End - p.Start }

// Record is a piece ready for the index: identity, owning domain and embedding.
type Record struct {
	ID     string
	Domain domainname.Name
	Piece  Piece
	Vector []float32
}

// ID formats the sequential chunk identifier "{domain}_{seq}".
func ID(d domainname.Name, seq int64) string {
	return d.String() + "_" + strconv.FormatInt(seq, 10)
}
