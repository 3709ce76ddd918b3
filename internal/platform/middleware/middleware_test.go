// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sitecms/internal/platform/ctxutil"
	"github.com/taibuivan/sitecms/internal/platform/middleware"
	"github.com/taibuivan/sitecms/internal/platform/sec"
)

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixedVerifier struct{ claims *sec.AuthClaims }

func (verifier fixedVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, errors.New("bad signature")
	}
	return verifier.claims, nil
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "upstream-42")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "upstream-42", seen)
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	chain := func(role sec.UserRole) http.Handler {
		verifier := fixedVerifier{claims: &sec.AuthClaims{UserID: "u-1", Role: string(role)}}
		return middleware.Authenticate(verifier)(middleware.RequireRole(sec.RoleEditor)(okHandler))
	}

	tests := []struct {
		name   string
		role   sec.UserRole
		header string
		want   int
	}{
		{"anonymous", sec.RoleAdmin, "", http.StatusUnauthorized},
		{"wrong_scheme", sec.RoleAdmin, "Basic good", http.StatusUnauthorized},
		{"missing_token", sec.RoleAdmin, "Bearer ", http.StatusUnauthorized},
		{"invalid_token", sec.RoleAdmin, "Bearer forged", http.StatusUnauthorized},
		{"author_forbidden", sec.RoleAuthor, "Bearer good", http.StatusForbidden},
		{"unknown_role_forbidden", sec.UserRole("owner"), "Bearer good", http.StatusForbidden},
		{"editor_allowed", sec.RoleEditor, "Bearer good", http.StatusOK},
		{"admin_allowed", sec.RoleAdmin, "bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			chain(tt.role).ServeHTTP(recorder, request)
			assert.Equal(t, tt.want, recorder.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.NewRateLimiter(ctx, 1, 2).Handler(okHandler)

	send := func(ip string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Real-IP", ip)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)

	limited := send("10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.RealIP(request))
}

func TestExtendDeadline_OutlivesServerReadTimeout(t *testing.T) {
	var deadline time.Time
	handler := middleware.ExtendDeadline(5 * time.Second)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		deadline, _ = request.Context().Deadline()
		body, err := io.ReadAll(request.Body)
		if err != nil {
			http.Error(writer, err.Error(), http.StatusRequestTimeout)
			return
		}
		_, _ = writer.Write(body)
	}))

	server := httptest.NewUnstartedServer(middleware.StructuredLogger(discardLogger())(handler))
	server.Config.ReadTimeout = 100 * time.Millisecond
	server.Start()
	defer server.Close()

	// The body arrives after the server-wide read timeout has passed.
	reader, writer := io.Pipe()
	go func() {
		_, _ = writer.Write([]byte("part-1 "))
		time.Sleep(300 * time.Millisecond)
		_, _ = writer.Write([]byte("part-2"))
		_ = writer.Close()
	}()

	response, err := http.Post(server.URL, "application/octet-stream", reader)
	require.NoError(t, err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "part-1 part-2", string(body))
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, 2*time.Second)
}
