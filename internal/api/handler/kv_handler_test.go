package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/wildcloud/starter-api/internal/core/domain"
)

type stubKVStore struct {
	data    map[string]string
	lastTTL time.Duration
	fail    bool
}

func newStubKVStore() *stubKVStore {
	return &stubKVStore{data: make(map[string]string)}
}

func (s *stubKVStore) Get(_ context.Context, key string) (string, bool, error) {
	if s.fail {
		return "", false, errors.New("connection refused")
	}
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *stubKVStore) Put(_ context.Context, key, value string, ttl time.Duration) error {
	if s.fail {
		return errors.New("connection refused")
	}
	s.data[key] = value
	s.lastTTL = ttl
	return nil
}

func (s *stubKVStore) Delete(_ context.Context, key string) error {
	if s.fail {
		return errors.New("connection refused")
	}
	delete(s.data, key)
	return nil
}

func TestKVHandler_PutThenGet(t *testing.T) {
	kv := newStubKVStore()
	handler := NewKVHandler(kv)

	c, rec := newJSONContext(http.MethodPost, "/api/kv",
		`{"key":"greeting","value":{"text":"hello"},"ttl":60}`)
	if err := handler.Put(c); err != nil {
		t.Fatalf("put error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if kv.lastTTL != time.Minute {
		t.Fatalf("expected 60s ttl, got %v", kv.lastTTL)
	}

	c, rec = newJSONContext(http.MethodGet, "/api/kv?key=greeting", "")
	if err := handler.Get(c); err != nil {
		t.Fatalf("get error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["found"] != true {
		t.Fatalf("expected found, got %+v", resp)
	}
	value, ok := resp["value"].(map[string]any)
	if !ok || value["text"] != "hello" {
		t.Fatalf("expected structured value back, got %+v", resp["value"])
	}
}

func TestKVHandler_Get_Miss(t *testing.T) {
	handler := NewKVHandler(newStubKVStore())

	c, rec := newJSONContext(http.MethodGet, "/api/kv?key=absent", "")
	if err := handler.Get(c); err != nil {
		t.Fatalf("get error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["found"] != false {
		t.Fatalf("expected miss, got %+v", resp)
	}
}

func TestKVHandler_Get_NonJSONValue(t *testing.T) {
	kv := newStubKVStore()
	kv.data["legacy"] = "plain text"
	handler := NewKVHandler(kv)

	c, rec := newJSONContext(http.MethodGet, "/api/kv?key=legacy", "")
	if err := handler.Get(c); err != nil {
		t.Fatalf("get error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["value"] != "plain text" {
		t.Fatalf("expected raw string fallback, got %v", resp["value"])
	}
}

func TestKVHandler_Get_MissingKey(t *testing.T) {
	handler := NewKVHandler(newStubKVStore())

	c, _ := newJSONContext(http.MethodGet, "/api/kv", "")
	if code := errCode(t, handler.Get(c)); code != domain.CodeMissingParams {
		t.Fatalf("expected REQUEST_MISSING_PARAMS, got %s", code)
	}
}

func TestKVHandler_Put_MissingValue(t *testing.T) {
	handler := NewKVHandler(newStubKVStore())

	c, _ := newJSONContext(http.MethodPost, "/api/kv", `{"key":"only"}`)
	if code := errCode(t, handler.Put(c)); code != domain.CodeMissingParams {
		t.Fatalf("expected REQUEST_MISSING_PARAMS, got %s", code)
	}
}

func TestKVHandler_Put_NoTTLMeansNoExpiry(t *testing.T) {
	kv := newStubKVStore()
	handler := NewKVHandler(kv)

	c, _ := newJSONContext(http.MethodPost, "/api/kv", `{"key":"pinned","value":1}`)
	if err := handler.Put(c); err != nil {
		t.Fatalf("put error: %v", err)
	}
	if kv.lastTTL != 0 {
		t.Fatalf("expected zero ttl, got %v", kv.lastTTL)
	}
}

func TestKVHandler_Delete(t *testing.T) {
	kv := newStubKVStore()
	kv.data["doomed"] = `"bye"`
	handler := NewKVHandler(kv)

	c, rec := newJSONContext(http.MethodDelete, "/api/kv?key=doomed", "")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, ok := kv.data["doomed"]; ok {
		t.Fatalf("key should be gone")
	}
}

func TestKVHandler_StoreFailure(t *testing.T) {
	kv := newStubKVStore()
	kv.fail = true
	handler := NewKVHandler(kv)

	c, _ := newJSONContext(http.MethodGet, "/api/kv?key=any", "")
	if code := errCode(t, handler.Get(c)); code != domain.CodeCacheServiceError {
		t.Fatalf("expected SERVICE_KV_ERROR, got %s", code)
	}
}
