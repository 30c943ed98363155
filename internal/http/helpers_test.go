package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"testcase-generator/internal/auth"
	"testcase-generator/internal/generator"
	"testcase-generator/internal/repository/sqlite"
	"testcase-generator/internal/service"
	"testcase-generator/internal/storage"
)

const testSecret = "handler-test-secret"

type fakeGenerator struct {
	result *generator.Result
	err    error
	calls  int
	code   string
}

func (f *fakeGenerator) Generate(_ context.Context, code string) (*generator.Result, error) {
	f.calls++
	f.code = code
	return f.result, f.err
}

type fakeExports struct {
	result  *service.ExportResult
	objects []storage.ObjectInfo
	err     error
	owner   string
	deleted bool
}

func (f *fakeExports) Export(_ context.Context, ownerID string) (*service.ExportResult, error) {
	f.owner = ownerID
	return f.result, f.err
}

func (f *fakeExports) List(_ context.Context, ownerID string) ([]storage.ObjectInfo, error) {
	f.owner = ownerID
	return f.objects, f.err
}

func (f *fakeExports) DeleteAll(_ context.Context, ownerID string) error {
	f.owner = ownerID
	if f.err == nil {
		f.deleted = true
	}
	return f.err
}

type testServer struct {
	router  *gin.Engine
	gen     *fakeGenerator
	exports *fakeExports
	tokens  *auth.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	users := sqlite.NewUserRepository(db)
	cases := sqlite.NewTestCaseRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, cases.Init(ctx))

	tokens, err := auth.NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ts := &testServer{
		router:  gin.New(),
		gen:     &fakeGenerator{},
		exports: &fakeExports{},
		tokens:  tokens,
	}
	handler := NewHandler(
		service.NewUserService(users),
		service.NewTestCaseService(cases),
		ts.exports,
		ts.gen,
		tokens,
		logger,
	)
	handler.RegisterRoutes(ts.router)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

// signup registers a user and returns its id and a token.
func (ts *testServer) signup(t *testing.T, name string) (string, string) {
	t.Helper()
	email := name + "@example.com"
	rec := ts.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": name, "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.User.ID, resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decode(t, rec, &body)
	msg, _ := body["message"].(string)
	return msg
}
