package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ireporter/ireporter-api/api/handlers"
)

func TestHealthCheckHandler(t *testing.T) {
	a := &handlers.App{}
	router := a.New()

	req, err := http.NewRequest("GET", "/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"alive": true}`, rr.Body.String())
}

func TestRouterRequiresAuth(t *testing.T) {
	a := &handlers.App{}
	router := a.New()

	req, err := http.NewRequest("GET", "/api/v1/reports", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
