package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"instituteweb/admin-console/internal"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *HTTPStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPStore(zap.NewNop(), srv.URL, "test-token", 5*time.Second)
}

func TestHTTPStore_List(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/content/mou", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "a", "sortOrder": 2, "fields": map[string]any{"title": "Second"}},
			{"id": "b", "sortOrder": 1, "fields": map[string]any{"title": "First"}},
		})
	})

	records, err := s.List(context.Background(), "mou")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "a", records[0].ID)
	require.Equal(t, "Second", records[0].Fields["title"])
}

func TestHTTPStore_CreateSendsFields(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body struct {
			Fields map[string]any `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "T", body.Fields["title"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "new-1", "fields": body.Fields})
	})

	created, err := s.Create(context.Background(), "mou", map[string]any{"title": "T"})
	require.NoError(t, err)
	require.Equal(t, "new-1", created.ID)
}

func TestHTTPStore_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedErr error
	}{
		{
			name:        "Should map 404 to record not found",
			status:      http.StatusNotFound,
			expectedErr: internal.ErrRecordNotFound,
		},
		{
			name:        "Should map 500 to backend unavailable",
			status:      http.StatusInternalServerError,
			expectedErr: internal.ErrBackendUnavailable,
		},
		{
			name:        "Should map bare 422 to remote rejection",
			status:      http.StatusUnprocessableEntity,
			expectedErr: internal.ErrRemoteRejected,
		},
		{
			name:        "Should map field rejection to validation error",
			status:      http.StatusUnprocessableEntity,
			body:        `{"field":"title","reason":"too long"}`,
			expectedErr: internal.ErrDraftInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			})

			_, err := s.Update(context.Background(), "mou", "x", map[string]any{})
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestHTTPStore_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	s := NewHTTPStore(zap.NewNop(), srv.URL, "", time.Second)
	_, err := s.List(context.Background(), "news")
	require.Error(t, err)
	require.True(t, errors.Is(err, internal.ErrBackendUnavailable))
}
