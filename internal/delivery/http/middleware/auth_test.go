package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"expomeet/internal/delivery/http/helpers"
	"expomeet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	actor domain.Actor
	err   error
}

func (f *fakeTokenVerifier) Verify(_ string) (domain.Actor, error) {
	if f.err != nil {
		return domain.Actor{}, f.err
	}
	return f.actor, nil
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	tests := []struct {
		name         string
		authHeader   string
		verifier     domain.TokenVerifier
		wantStatus   int
		wantBodyCode string
		nextCalled   bool
		wantActor    domain.Actor
	}{
		{
			name:       "valid token sets actor and calls next",
			authHeader: "Bearer valid-token",
			verifier:   &fakeTokenVerifier{actor: domain.Actor{UserID: "user-123", Role: domain.RoleUser}},
			wantStatus: http.StatusOK,
			nextCalled: true,
			wantActor:  domain.Actor{UserID: "user-123", Role: domain.RoleUser},
		},
		{
			name:         "missing authorization header",
			authHeader:   "",
			verifier:     &fakeTokenVerifier{actor: domain.Actor{UserID: "user-123"}},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
		{
			name:         "invalid authorization format no Bearer prefix",
			authHeader:   "Basic abc",
			verifier:     &fakeTokenVerifier{actor: domain.Actor{UserID: "user-123"}},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
		{
			name:         "empty token after Bearer",
			authHeader:   "Bearer ",
			verifier:     &fakeTokenVerifier{actor: domain.Actor{UserID: "user-123"}},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
		{
			name:         "verifier returns error",
			authHeader:   "Bearer bad-token",
			verifier:     &fakeTokenVerifier{err: errors.New("invalid or expired token")},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedActor domain.Actor
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if a, ok := ActorFromContext(r.Context()); ok {
					capturedActor = a
				}
				w.WriteHeader(http.StatusOK)
			})
			wrap := RequireAuth(tt.verifier, logger)
			handler := wrap(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled {
				assert.Equal(t, tt.wantActor, capturedActor, "actor in context")
			}
			if tt.wantStatus != http.StatusOK && tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestRequireAuth_LogsRejectedToken(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	wrap := RequireAuth(&fakeTokenVerifier{err: errors.New("signature mismatch")}, logger)
	handler := wrap(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "http://test/me/schedule", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rr := httptest.NewRecorder()

	handler(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, buf.String(), "token rejected")
	assert.Contains(t, buf.String(), "signature mismatch")
}

func TestRequireAdmin(t *testing.T) {
	next := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

	t.Run("admin passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://test/admin/events", nil)
		req = req.WithContext(SetActor(req.Context(), domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}))
		rr := httptest.NewRecorder()

		RequireAdmin(next)(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("non-admin gets 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://test/admin/events", nil)
		req = req.WithContext(SetActor(req.Context(), domain.Actor{UserID: "user-1", Role: domain.RoleUser}))
		rr := httptest.NewRecorder()

		RequireAdmin(next)(rr, req)
		require.Equal(t, http.StatusForbidden, rr.Code)

		var envelope helpers.APIResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeForbidden, envelope.Error.Code)
	})

	t.Run("missing actor gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://test/admin/events", nil)
		rr := httptest.NewRecorder()

		RequireAdmin(next)(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
