package kv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kyartuvzgo/kyartu-bot/internal/config"
)

// mockKVServer simulates the HTTP key-value backend
func mockKVServer(t *testing.T) (*httptest.Server, map[string]string) {
	data := make(map[string]string)

	mux := http.NewServeMux()
	mux.HandleFunc("/get", func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		if value, ok := data[key]; ok {
			json.NewEncoder(w).Encode(map[string]interface{}{"value": value})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"value": nil})
	})
	mux.HandleFunc("/set", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Key   string `json:"key"`
			Value string `json:"value"`
			TTL   int64  `json:"ttl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.TTL <= 0 {
			t.Errorf("set without a positive ttl: %+v", req)
		}
		data[req.Key] = req.Value
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})
	mux.HandleFunc("/delete", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Key string `json:"key"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		delete(data, req.Key)
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})

	return httptest.NewServer(mux), data
}

func TestRESTStoreContract(t *testing.T) {
	server, data := mockKVServer(t)
	defer server.Close()

	store := NewRESTStore(&config.RestConfig{BaseURL: server.URL}, testLogger())
	ctx := context.Background()

	if err := store.Set(ctx, "respect:user:u1", `{"respectScore":3}`, time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if data["respect:user:u1"] != `{"respectScore":3}` {
		t.Errorf("value not stored: %q", data["respect:user:u1"])
	}

	value, err := store.Get(ctx, "respect:user:u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != `{"respectScore":3}` {
		t.Errorf("unexpected value: %q", value)
	}

	if _, err := store.Get(ctx, "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := store.Delete(ctx, "respect:user:u1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := data["respect:user:u1"]; ok {
		t.Error("key not deleted")
	}
}

func TestRESTStoreServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := NewRESTStore(&config.RestConfig{BaseURL: server.URL}, testLogger())

	if _, err := store.Get(context.Background(), "k"); err == nil || err == ErrNotFound {
		t.Errorf("expected transport error, got %v", err)
	}
	if err := store.Set(context.Background(), "k", "v", time.Hour); err == nil {
		t.Error("expected transport error on set")
	}
}
