package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
)

type mockStore struct {
	hashes  map[string]map[string]string
	expires map[string]time.Duration
	hsetErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		hashes:  make(map[string]map[string]string),
		expires: make(map[string]time.Duration),
	}
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.hsetErr != nil {
		return m.hsetErr
	}
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *mockStore) Expire(_ context.Context, key string, ttl time.Duration, _ bool) error {
	m.expires[key] = ttl
	return nil
}

func mustName(t *testing.T, s string) domainname.Name {
	t.Helper()
	d, err := domainname.New(s)
	if err != nil {
		t.Fatalf("domainname.New(%q): %v", s, err)
	}
	return d
}

func TestAddDomain_WritesFieldAndTTL(t *testing.T) {
	ms := newMockStore()
	repo := New(ms, "rag:", 24*time.Hour)

	if err := repo.AddDomain(context.Background(), "abc", mustName(t, "facts")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h := ms.hashes["rag:session:abc"]
	if h["domain_name_facts"] != "facts" {
		t.Errorf("unexpected hash %v", h)
	}
	if ms.expires["rag:session:abc"] != 24*time.Hour {
		t.Errorf("ttl = %v", ms.expires["rag:session:abc"])
	}
}

func TestAddDomain_NoTTL(t *testing.T) {
	ms := newMockStore()
	repo := New(ms, "rag:", 0)

	if err := repo.AddDomain(context.Background(), "abc", mustName(t, "facts")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ms.expires["rag:session:abc"]; ok {
		t.Error("expire should not be called without ttl")
	}
}

func TestAddDomain_StoreError(t *testing.T) {
	ms := newMockStore()
	ms.hsetErr = errors.New("conn reset")
	repo := New(ms, "rag:", time.Hour)

	if err := repo.AddDomain(context.Background(), "abc", mustName(t, "facts")); err == nil {
		t.Fatal("expected error")
	}
}
