package chunk

import (
	"testing"

	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
)

func TestID(t *testing.T) {
	d, err := domainname.New("facts")
	if err != nil {
		t.Fatal(err)
	}
	if got := ID(d, 0); got != "facts_0" {
		t.Errorf("ID(facts, 0) = %q", got)
	}
	if got := ID(d, 12); got != "facts_12" {
		t.Errorf("ID(facts, 12) = %q", got)
	}
}

func TestPiece_Len(t *testing.T) {
	p := Piece{Start: 10, End: 25}
	if p.Len() != 15 {
		t.Errorf("Len() = %d, want 15", p.Len())
	}
}
