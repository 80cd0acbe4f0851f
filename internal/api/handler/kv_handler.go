package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wildcloud/starter-api/internal/core/domain"
	"github.com/wildcloud/starter-api/internal/core/ports"
)

// KVHandler exposes the raw key-value pass-through endpoints.
type KVHandler struct {
	kv ports.KVStore
}

func NewKVHandler(kv ports.KVStore) *KVHandler {
	return &KVHandler{kv: kv}
}

type kvGetResponse struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	Found bool   `json:"found"`
}

type kvPutRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	TTL   int64  `json:"ttl,omitempty"` // seconds
}

type kvResponse struct {
	Success bool   `json:"success"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Get handles GET /api/kv?key=...
//
// @Summary      Read a raw cache key
// @Tags         kv
// @Produce      json
// @Param        key  query     string  true  "Key"
// @Success      200  {object}  kvGetResponse
// @Failure      400  {object}  errorResponse
// @Router       /api/kv [get]
func (h *KVHandler) Get(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return domain.NewError(domain.CodeMissingParams, "key parameter is required").WithDetails([]string{"key"})
	}

	raw, found, err := h.kv.Get(c.Request().Context(), key)
	if err != nil {
		return domain.CacheError("get", err)
	}

	// Stored values are JSON; fall back to the raw string for entries
	// written by other producers.
	var value any
	if found {
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
	}

	return c.JSON(http.StatusOK, kvGetResponse{Key: key, Value: value, Found: found})
}

// Put handles POST /api/kv with a JSON body {key, value, ttl?}.
//
// @Summary      Store a raw cache value
// @Tags         kv
// @Accept       json
// @Produce      json
// @Param        body  body      kvPutRequest  true  "Entry"
// @Success      200   {object}  kvResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/kv [post]
func (h *KVHandler) Put(c echo.Context) error {
	var req kvPutRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.CodeBadRequest, "malformed request, please send valid JSON")
	}
	if req.Key == "" || req.Value == nil {
		return domain.NewError(domain.CodeMissingParams, "key and value are required")
	}

	raw, err := json.Marshal(req.Value)
	if err != nil {
		return domain.NewError(domain.CodeInvalidParams, "value is not serializable")
	}

	var ttl time.Duration
	if req.TTL > 0 {
		ttl = time.Duration(req.TTL) * time.Second
	}

	if err := h.kv.Put(c.Request().Context(), req.Key, string(raw), ttl); err != nil {
		return domain.CacheError("put", err)
	}

	return c.JSON(http.StatusOK, kvResponse{Success: true, Key: req.Key, Message: "value stored successfully"})
}

// Delete handles DELETE /api/kv?key=...
//
// @Summary      Delete a raw cache key
// @Tags         kv
// @Produce      json
// @Param        key  query     string  true  "Key"
// @Success      200  {object}  kvResponse
// @Failure      400  {object}  errorResponse
// @Router       /api/kv [delete]
func (h *KVHandler) Delete(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return domain.NewError(domain.CodeMissingParams, "key parameter is required").WithDetails([]string{"key"})
	}

	if err := h.kv.Delete(c.Request().Context(), key); err != nil {
		return domain.CacheError("delete", err)
	}

	return c.JSON(http.StatusOK, kvResponse{Success: true, Key: key, Message: "key deleted successfully"})
}
