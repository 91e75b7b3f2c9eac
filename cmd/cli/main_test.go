package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/balances" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"balances":{"cash_lyd":"100"}}`))
	}))
	defer srv.Close()

	origURL := baseURL
	baseURL = srv.URL
	defer func() { baseURL = origURL }()

	body := get("/api/v1/balances")
	if string(body) != `{"balances":{"cash_lyd":"100"}}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestPostSetsContentType(t *testing.T) {
	var gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	origURL := baseURL
	baseURL = srv.URL
	defer func() { baseURL = origURL }()

	post("/api/v1/import", []byte(`{}`))

	if gotCT != "application/json" {
		t.Fatalf("expected JSON content type, got %q", gotCT)
	}
}
