// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"portfolio/internal/models"
	"portfolio/internal/session"
)

// fakeUsers holds a single account with a plaintext password.
type fakeUsers struct {
	user     *models.User
	password string
	err      error
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user != nil && strings.EqualFold(strings.TrimSpace(email), f.user.Email) {
		return f.user, nil
	}
	return nil, nil
}

func (f *fakeUsers) CheckPassword(_ *models.User, password string) bool {
	return password == f.password
}

// fakeSessions records created and destroyed sessions.
type fakeSessions struct {
	created   *session.Data
	destroyed bool
	err       error
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = data
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "sid"})
	return "sid", nil
}

func (f *fakeSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	f.destroyed = true
	return f.err
}

func newAdminUser(secret *string) *models.User {
	return &models.User{
		ID:          uuid.New(),
		Email:       "admin@portfolio.local",
		DisplayName: "Admin",
		Role:        models.RoleAdmin,
		TOTPSecret:  secret,
	}
}

func TestLoginPassword(t *testing.T) {
	tests := []struct {
		name        string
		body        map[string]string
		wantCode    int
		wantSession bool
	}{
		{"valid credentials", map[string]string{"email": "ADMIN@portfolio.local", "password": "admin"}, http.StatusOK, true},
		{"wrong password", map[string]string{"email": "admin@portfolio.local", "password": "nope"}, http.StatusUnauthorized, false},
		{"unknown email", map[string]string{"email": "ghost@portfolio.local", "password": "admin"}, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &fakeSessions{}
			a := NewAuth(sessions, &fakeUsers{user: newAdminUser(nil), password: "admin"})

			rr := serve(a.Login, jsonRequest(t, http.MethodPost, "/api/auth/login", tt.body))
			if rr.Code != tt.wantCode {
				t.Fatalf("status: got %d, want %d: %s", rr.Code, tt.wantCode, rr.Body.String())
			}
			if (sessions.created != nil) != tt.wantSession {
				t.Errorf("session created: got %v, want %v", sessions.created != nil, tt.wantSession)
			}
			if tt.wantSession {
				if sessions.created.Role != "admin" || sessions.created.Email != "admin@portfolio.local" {
					t.Errorf("session data: %+v", sessions.created)
				}
				if strings.Contains(rr.Body.String(), "passwordHash") {
					t.Error("response leaks the password hash")
				}
			}
		})
	}
}

func TestLoginTOTP(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "Portfolio", AccountName: "admin@portfolio.local"})
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	secret := key.Secret()
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	t.Run("code required", func(t *testing.T) {
		sessions := &fakeSessions{}
		a := NewAuth(sessions, &fakeUsers{user: newAdminUser(&secret), password: "admin"})

		rr := serve(a.Login, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "admin@portfolio.local", "password": "admin",
		}))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status: got %d, want 401", rr.Code)
		}
		var body map[string]any
		decodeBody(t, rr, &body)
		if body["totpRequired"] != true {
			t.Errorf("expected totpRequired flag, got %v", body)
		}
		if sessions.created != nil {
			t.Error("session created before the second factor")
		}
	})

	t.Run("wrong code", func(t *testing.T) {
		sessions := &fakeSessions{}
		a := NewAuth(sessions, &fakeUsers{user: newAdminUser(&secret), password: "admin"})

		rr := serve(a.Login, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "admin@portfolio.local", "password": "admin", "code": "000000x",
		}))
		if rr.Code != http.StatusUnauthorized || sessions.created != nil {
			t.Errorf("status %d, session %v", rr.Code, sessions.created)
		}
	})

	t.Run("valid code", func(t *testing.T) {
		sessions := &fakeSessions{}
		a := NewAuth(sessions, &fakeUsers{user: newAdminUser(&secret), password: "admin"})

		rr := serve(a.Login, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "admin@portfolio.local", "password": "admin", "code": code,
		}))
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200: %s", rr.Code, rr.Body.String())
		}
		if sessions.created == nil {
			t.Error("expected a session")
		}
	})
}

func TestLoginFailures(t *testing.T) {
	t.Run("lookup error", func(t *testing.T) {
		a := NewAuth(&fakeSessions{}, &fakeUsers{err: errors.New("db down")})
		rr := serve(a.Login, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "a", "password": "b"}))
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status: got %d, want 500", rr.Code)
		}
	})

	t.Run("session error", func(t *testing.T) {
		a := NewAuth(&fakeSessions{err: errors.New("valkey down")}, &fakeUsers{user: newAdminUser(nil), password: "admin"})
		rr := serve(a.Login, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "admin@portfolio.local", "password": "admin",
		}))
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status: got %d, want 500", rr.Code)
		}
	})

	t.Run("bad body", func(t *testing.T) {
		a := NewAuth(&fakeSessions{}, &fakeUsers{})
		rr := serve(a.Login, jsonRequest(t, http.MethodPost, "/api/auth/login", "email=a"))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})
}

func TestLogoutAndMe(t *testing.T) {
	sessions := &fakeSessions{}
	a := NewAuth(sessions, &fakeUsers{})

	rr := serve(a.Me, jsonRequest(t, http.MethodGet, "/api/auth/me", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("me without session: got %d, want 401", rr.Code)
	}

	sess := &session.Data{UserID: uuid.New(), Email: "admin@portfolio.local", DisplayName: "Admin", Role: "admin"}
	req := jsonRequest(t, http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rr = serve(a.Me, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("me: got %d, want 200", rr.Code)
	}
	var me map[string]any
	decodeBody(t, rr, &me)
	if me["email"] != sess.Email || me["role"] != "admin" {
		t.Errorf("me: got %v", me)
	}

	rr = serve(a.Logout, jsonRequest(t, http.MethodPost, "/api/auth/logout", nil))
	if rr.Code != http.StatusOK || !sessions.destroyed {
		t.Errorf("logout: status %d, destroyed %v", rr.Code, sessions.destroyed)
	}
}
