package oauth_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"uplink/internal/services"
	"uplink/internal/services/oauth"
)

func TestTokenSendsBasicCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/access_token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-1" || pass != "secret-1" {
			t.Errorf("missing basic credentials: %q %q %v", user, pass, ok)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Form.Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected grant_type %q", r.Form.Get("grant_type"))
		}
		fmt.Fprint(w, `{"access_token":"tok-123"}`)
	}))
	defer server.Close()

	client := oauth.NewClient(server.URL)
	token, err := client.Token(context.Background(), "client-1", "secret-1")
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestTokenNonSuccessIsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := oauth.NewClient(server.URL)
	_, err := client.Token(context.Background(), "client-1", "wrong")
	if !errors.Is(err, services.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestTokenTransportFailureIsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := oauth.NewClient(server.URL)
	_, err := client.Token(context.Background(), "client-1", "secret-1")
	if !errors.Is(err, services.ErrAuth) {
		t.Fatalf("network failure must classify as ErrAuth, got %v", err)
	}
}

func TestTokenRejectsEmptyCredentials(t *testing.T) {
	client := oauth.NewClient("https://oauth.example.com")
	_, err := client.Token(context.Background(), "", "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTokenRejectsEmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":""}`)
	}))
	defer server.Close()

	client := oauth.NewClient(server.URL)
	if _, err := client.Token(context.Background(), "client-1", "secret-1"); !errors.Is(err, services.ErrAuth) {
		t.Fatalf("expected ErrAuth for empty token, got %v", err)
	}
}
