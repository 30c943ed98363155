package http

import (
	"encoding/json"
	"time"

	"testcase-generator/internal/domain"
	"testcase-generator/internal/storage"
)

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type TestCaseResponse struct {
	ID             string          `json:"_id"`
	User           string          `json:"user"`
	FunctionName   string          `json:"functionName"`
	Input          json.RawMessage `json:"input"`
	ExpectedOutput json.RawMessage `json:"expectedOutput"`
	Description    string          `json:"description"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"lastModified,omitempty"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func testCaseToResponse(tc domain.TestCase) TestCaseResponse {
	return TestCaseResponse{
		ID:             tc.ID,
		User:           tc.UserID,
		FunctionName:   tc.FunctionName,
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
		Description:    tc.Description,
		CreatedAt:      tc.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      tc.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.UTC().Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
