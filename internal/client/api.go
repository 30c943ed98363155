package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type TestCase struct {
	ID             string          `json:"_id"`
	User           string          `json:"user"`
	FunctionName   string          `json:"functionName"`
	Input          json.RawMessage `json:"input"`
	ExpectedOutput json.RawMessage `json:"expectedOutput"`
	Description    string          `json:"description"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

type CreateTestCase struct {
	FunctionName   string          `json:"functionName"`
	Input          json.RawMessage `json:"input"`
	ExpectedOutput json.RawMessage `json:"expectedOutput"`
	Description    string          `json:"description,omitempty"`
}

// UpdateTestCase sends only the fields that are set.
type UpdateTestCase struct {
	FunctionName   *string         `json:"functionName,omitempty"`
	Input          json.RawMessage `json:"input,omitempty"`
	ExpectedOutput json.RawMessage `json:"expectedOutput,omitempty"`
	Description    *string         `json:"description,omitempty"`
}

type GenerateRequest struct {
	Code         string `json:"code"`
	Save         bool   `json:"save,omitempty"`
	FunctionName string `json:"functionName,omitempty"`
}

type Generation struct {
	TestCases []json.RawMessage `json:"testCases"`
	Language  string            `json:"language"`
	Saved     *TestCase         `json:"saved,omitempty"`
}

type Export struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	URL      string `json:"url"`
	Count    int    `json:"count"`
}

type ExportObject struct {
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	LastModified string `json:"lastModified,omitempty"`
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &resp, false)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login authenticates and caches the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp, false)
	if err != nil {
		return nil, err
	}
	if err := c.tokens.Save(resp.Token); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout forgets the cached token. Tokens are stateless, so the server is not called.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*Generation, error) {
	var resp Generation
	if err := c.do(ctx, http.MethodPost, "/api/testcase/generate", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListTestCases(ctx context.Context) ([]TestCase, error) {
	var resp []TestCase
	if err := c.do(ctx, http.MethodGet, "/api/testcase", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreateTestCase(ctx context.Context, req CreateTestCase) (*TestCase, error) {
	var resp TestCase
	if err := c.do(ctx, http.MethodPost, "/api/testcase/create", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateTestCase(ctx context.Context, id string, req UpdateTestCase) (*TestCase, error) {
	var resp TestCase
	if err := c.do(ctx, http.MethodPut, "/api/testcase/"+url.PathEscape(id), req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteTestCase(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/testcase/"+url.PathEscape(id), nil, nil, true)
}

func (c *Client) Export(ctx context.Context) (*Export, error) {
	var resp Export
	if err := c.do(ctx, http.MethodPost, "/api/testcase/export", nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListExports(ctx context.Context) ([]ExportObject, error) {
	var resp []ExportObject
	if err := c.do(ctx, http.MethodGet, "/api/testcase/exports", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) DeleteExports(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/testcase/exports", nil, nil, true)
}
