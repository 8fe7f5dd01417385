package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONIntoDecodesTypedValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"a"},{"id":"b"}]}`))
	}))
	defer srv.Close()

	var got struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := JSONInto(context.Background(), srv.URL, 0, 0, &got); err != nil {
		t.Fatalf("JSONInto: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].ID != "a" {
		t.Fatalf("décodage inattendu : %+v", got)
	}
}

func TestStatusErrorCarriesBody(t *testing.T) {
	// le corps d'erreur doit se retrouver dans le message : c'est là que le
	// service distant annonce un quota épuisé
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"errors":[{"reason":"quotaExceeded"}]}}`))
	}))
	defer srv.Close()

	var dst map[string]any
	err := JSONInto(context.Background(), srv.URL, 0, 0, &dst)
	if err == nil {
		t.Fatal("erreur attendue sur un statut 403")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "quota") {
		t.Fatalf("le message devrait contenir le corps d'erreur, got %q", err)
	}
}

func TestBytesRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	if _, err := Bytes(context.Background(), srv.URL, 0, 10); err == nil {
		t.Fatal("erreur attendue quand le corps dépasse maxBytes")
	}
}
