package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// TestCase is a saved test case owned by exactly one user. Input and
// ExpectedOutput hold arbitrary JSON values.
type TestCase struct {
	ID             string
	UserID         string
	FunctionName   string
	Input          json.RawMessage
	ExpectedOutput json.RawMessage
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TestCaseFields describes a partial update. Nil fields are left untouched.
type TestCaseFields struct {
	FunctionName   *string
	Input          json.RawMessage
	ExpectedOutput json.RawMessage
	Description    *string
}

// Empty reports whether no field is set.
func (f TestCaseFields) Empty() bool {
	return f.FunctionName == nil && f.Input == nil && f.ExpectedOutput == nil && f.Description == nil
}

// GeneratedCase is a single case produced by the generator before it is saved.
type GeneratedCase struct {
	Input          any    `json:"input"`
	ExpectedOutput any    `json:"expectedOutput"`
	Description    string `json:"description"`
}

// IsBlankJSON reports whether raw is missing, null or an empty string.
func IsBlankJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", `""`:
		return true
	}
	return false
}
