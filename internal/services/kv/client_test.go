package kv

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type memStore struct {
	data    map[string]string
	failing bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(ctx context.Context, key string) (string, error) {
	if s.failing {
		return "", errors.New("down")
	}
	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *memStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.failing {
		return errors.New("down")
	}
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	if s.failing {
		return errors.New("down")
	}
	delete(s.data, key)
	return nil
}

func (s *memStore) Ping(ctx context.Context) error { return nil }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestClientRoundTrip(t *testing.T) {
	client := NewClientWithStore(newMemStore(), testLogger(), nil)
	ctx := context.Background()

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := client.Set(ctx, "k1", doc{Name: "ara", Count: 3}, time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got doc
	found, err := client.Get(ctx, "k1", &got)
	if err != nil || !found {
		t.Fatalf("Get failed: found=%v err=%v", found, err)
	}
	if got.Name != "ara" || got.Count != 3 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestClientMissingKey(t *testing.T) {
	client := NewClientWithStore(newMemStore(), testLogger(), nil)

	var dest map[string]string
	found, err := client.Get(context.Background(), "nope", &dest)
	if err != nil {
		t.Fatalf("missing key must not be an error, got %v", err)
	}
	if found {
		t.Error("missing key reported as found")
	}
}

func TestClientTransportFailure(t *testing.T) {
	store := newMemStore()
	store.failing = true
	client := NewClientWithStore(store, testLogger(), nil)
	ctx := context.Background()

	var dest map[string]string
	found, err := client.Get(ctx, "k", &dest)
	if err == nil || found {
		t.Error("transport failure should surface as an error with found=false")
	}

	if err := client.Set(ctx, "k", map[string]string{}, time.Hour); err == nil {
		t.Error("Set should report transport failure")
	}
	if err := client.Delete(ctx, "k"); err == nil {
		t.Error("Delete should report transport failure")
	}
}

func TestClientMalformedValue(t *testing.T) {
	store := newMemStore()
	store.data["bad"] = "{not json"
	client := NewClientWithStore(store, testLogger(), nil)

	var dest map[string]string
	found, err := client.Get(context.Background(), "bad", &dest)
	if err == nil || found {
		t.Error("malformed stored JSON should surface as an error")
	}
}
