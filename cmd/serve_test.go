package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/siret-cli/internal/model"
	"github.com/facturio/siret-cli/internal/validator"
)

func testRouter() http.Handler {
	return newRouter(validator.New())
}

func TestServeHealth(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeValidate(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate",
		strings.NewReader(`{"identifier": "652 014 051"}`))
	testRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res model.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "652014051", res.Cleaned)
	assert.True(t, res.StructuralValid)
	assert.Equal(t, model.RegistryNotAttempted, res.RegistryStatus)
}

func TestServeValidate_BadRequests(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"", "{", `{"identifier": ""}`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(body))
		testRouter().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestServeValidateBatch(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate/batch",
		strings.NewReader(`{"inputs": [{"identifier": "652014051"}, {"identifier": "12345"}]}`))
	testRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Results []*model.ValidationResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.False(t, resp.Results[0].ExportBlocked)
	assert.True(t, resp.Results[1].ExportBlocked)
}

func TestServeValidateBatch_Empty(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate/batch", strings.NewReader(`{"inputs": []}`))
	testRouter().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
