package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *FileTokenStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := NewFileTokenStore(filepath.Join(t.TempDir(), "tcgen", "token"))
	return New(srv.URL+"/", store, time.Second), store
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestLoginCachesToken(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "a@example.com", body["email"])
			writeJSON(w, http.StatusOK, map[string]any{
				"token": "tok-123",
				"user":  map[string]string{"id": "u1", "username": "alice"},
			})
		case "/api/auth/me":
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{"user": map[string]string{"id": "u1", "username": "alice"}})
		default:
			http.NotFound(w, r)
		}
	})

	user, err := c.Login(context.Background(), "a@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
}

func TestRequestsWithoutTokenFailLocally(t *testing.T) {
	called := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.ListTestCases(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.False(t, called)
}

func TestRejectedTokenIsCleared(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, map[string]string{"message": "Token is not valid"})
		})
		require.NoError(t, store.Save("stale"))

		_, err := c.ListTestCases(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotLoggedIn)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, status, apiErr.Status)
		assert.Equal(t, "Token is not valid", apiErr.Message)

		_, err = store.Load()
		assert.ErrorIs(t, err, ErrNotLoggedIn)
	}
}

func TestAPIErrorCarriesDetail(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"message": "Error generating test cases. Please try again.",
			"error":   "quota exceeded",
		})
	})
	require.NoError(t, store.Save("tok"))

	_, err := c.Generate(context.Background(), GenerateRequest{Code: "def f(): pass"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "quota exceeded", apiErr.Detail)
	assert.Equal(t, "Error generating test cases. Please try again. (502): quota exceeded", apiErr.Error())
	assert.NotErrorIs(t, err, ErrNotLoggedIn)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := New(addr, NewFileTokenStore(filepath.Join(t.TempDir(), "token")), time.Second)
	_, err := c.Register(context.Background(), "alice", "a@example.com", "secret1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServerUnreachable)
	assert.Contains(t, err.Error(), addr)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestSlowServerTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(300 * time.Millisecond):
		case <-r.Context().Done():
		}
		writeJSON(w, http.StatusOK, map[string]any{})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, NewFileTokenStore(filepath.Join(t.TempDir(), "token")), 50*time.Millisecond)
	_, err := c.Register(context.Background(), "alice", "a@example.com", "secret1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestTimeout)
	assert.NotErrorIs(t, err, ErrServerUnreachable)
	assert.Contains(t, err.Error(), srv.URL)
}

func TestTestCaseRequests(t *testing.T) {
	var gotUpdate map[string]json.RawMessage
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/api/testcase/abc":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotUpdate))
			writeJSON(w, http.StatusOK, map[string]any{"_id": "abc", "functionName": "renamed"})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/testcase/abc":
			writeJSON(w, http.StatusOK, map[string]string{"message": "TestCase deleted successfully"})
		case r.Method == http.MethodGet && r.URL.Path == "/api/testcase":
			writeJSON(w, http.StatusOK, []map[string]any{{"_id": "abc", "input": []int{1, 2}, "expectedOutput": 3}})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Route not found"})
		}
	})
	require.NoError(t, store.Save("tok"))
	ctx := context.Background()

	list, err := c.ListTestCases(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.JSONEq(t, `[1,2]`, string(list[0].Input))

	name := "renamed"
	updated, err := c.UpdateTestCase(ctx, "abc", UpdateTestCase{FunctionName: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.FunctionName)
	assert.Len(t, gotUpdate, 1)
	assert.JSONEq(t, `"renamed"`, string(gotUpdate["functionName"]))

	require.NoError(t, c.DeleteTestCase(ctx, "abc"))

	err = c.DeleteTestCase(ctx, "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestLogoutRemovesToken(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token"))
	c := New("http://localhost:0", store, 0)

	require.NoError(t, store.Save("tok"))
	require.NoError(t, c.Logout())
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, c.Logout())
}
