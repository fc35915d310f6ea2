package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestMockResolveKnownUser(t *testing.T) {
	m := NewMock(map[string]string{"alice@example.com": "correct-horse"})

	first, err := m.Resolve(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if first.Value == "" {
		t.Fatal("empty token value")
	}
	if first.Subject != "alice@example.com" {
		t.Fatalf("subject = %q", first.Subject)
	}

	second, err := m.Resolve(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if second.Value == first.Value {
		t.Fatal("two logins minted the same token")
	}
}

func TestMockResolveRejections(t *testing.T) {
	m := NewMock(map[string]string{"alice@example.com": "correct-horse"})

	if _, err := m.Resolve(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v", err)
	}
	if _, err := m.Resolve(context.Background(), "bob@example.com", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: err = %v", err)
	}
}

func TestMockPutUser(t *testing.T) {
	m := NewMock(nil)
	m.PutUser("bob@example.com", "hunter2")

	if _, err := m.Resolve(context.Background(), "bob@example.com", "hunter2"); err != nil {
		t.Fatalf("resolve after PutUser failed: %v", err)
	}
}

func signedTestJWT(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return token
}

func TestAuth0ResolveSuccess(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	access := signedTestJWT(t, "auth0|12345", expiry)

	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"grant_type":    r.PostFormValue("grant_type"),
			"client_id":     r.PostFormValue("client_id"),
			"client_secret": r.PostFormValue("client_secret"),
			"username":      r.PostFormValue("username"),
			"password":      r.PostFormValue("password"),
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": access})
	}))
	defer server.Close()

	r := NewAuth0(Auth0Config{
		ClientID:     "cid",
		ClientSecret: "csecret",
		TokenURL:     server.URL,
	})

	token, err := r.Resolve(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if token.Value != access {
		t.Fatalf("token value = %q", token.Value)
	}
	if token.Subject != "auth0|12345" {
		t.Fatalf("subject = %q", token.Subject)
	}
	if !token.ExpiresAt.Equal(expiry) {
		t.Fatalf("expiry = %v, want %v", token.ExpiresAt, expiry)
	}

	want := map[string]string{
		"grant_type":    "password",
		"client_id":     "cid",
		"client_secret": "csecret",
		"username":      "alice@example.com",
		"password":      "correct-horse",
	}
	for k, v := range want {
		if gotForm[k] != v {
			t.Fatalf("form %s = %q, want %q", k, gotForm[k], v)
		}
	}
}

func TestAuth0ResolveOpaqueToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "not-a-jwt"})
	}))
	defer server.Close()

	r := NewAuth0(Auth0Config{TokenURL: server.URL})

	token, err := r.Resolve(context.Background(), "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if token.Value != "not-a-jwt" {
		t.Fatalf("token value = %q", token.Value)
	}
	if token.Subject != "" || !token.ExpiresAt.IsZero() {
		t.Fatalf("claims surfaced for an opaque token: %+v", token)
	}
}

func TestAuth0ResolveStatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"wrong user credentials", http.StatusForbidden, ErrInvalidCredentials},
		{"wrong client credentials", http.StatusUnauthorized, ErrClientCredentials},
		{"provider fault", http.StatusInternalServerError, ErrProviderUnavailable},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		r := NewAuth0(Auth0Config{TokenURL: server.URL})
		_, err := r.Resolve(context.Background(), "alice@example.com", "pw")
		server.Close()

		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestAuth0ResolveMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token": ""}`))
	}))
	defer server.Close()

	r := NewAuth0(Auth0Config{TokenURL: server.URL})
	if _, err := r.Resolve(context.Background(), "alice@example.com", "pw"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestAuth0ResolveConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	r := NewAuth0(Auth0Config{TokenURL: server.URL})
	if _, err := r.Resolve(context.Background(), "alice@example.com", "pw"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}
