package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"testcase-generator/internal/apperr"
	"testcase-generator/internal/domain"
	"testcase-generator/internal/repository"
)

const (
	// GeneratedFunctionName and GeneratedDescription label a saved generation.
	GeneratedFunctionName = "Generated Test Cases"
	GeneratedDescription  = "AI-generated test cases"
)

var errTestCaseNotFound = apperr.NotFound("TestCase not found")

// CreateTestCaseInput carries the fields of a new test case.
type CreateTestCaseInput struct {
	FunctionName   string
	Input          json.RawMessage
	ExpectedOutput json.RawMessage
	Description    string
}

// TestCaseService exposes owner-scoped test case operations. The owner id
// always comes from the verified token, never from the request body.
type TestCaseService interface {
	Create(ctx context.Context, ownerID string, in CreateTestCaseInput) (*domain.TestCase, error)
	Get(ctx context.Context, ownerID, id string) (*domain.TestCase, error)
	List(ctx context.Context, ownerID string) ([]domain.TestCase, error)
	Update(ctx context.Context, ownerID, id string, fields domain.TestCaseFields) (*domain.TestCase, error)
	Delete(ctx context.Context, ownerID, id string) error
	SaveGenerated(ctx context.Context, ownerID, functionName, code string, cases []json.RawMessage) (*domain.TestCase, error)
}

type testCaseService struct {
	cases repository.TestCaseRepository
}

func NewTestCaseService(cases repository.TestCaseRepository) TestCaseService {
	return &testCaseService{cases: cases}
}

func (s *testCaseService) Create(ctx context.Context, ownerID string, in CreateTestCaseInput) (*domain.TestCase, error) {
	if strings.TrimSpace(in.FunctionName) == "" || domain.IsBlankJSON(in.Input) || domain.IsBlankJSON(in.ExpectedOutput) {
		return nil, apperr.Validation("functionName, input and expectedOutput are required")
	}
	if !json.Valid(in.Input) || !json.Valid(in.ExpectedOutput) {
		return nil, apperr.Validation("input and expectedOutput must be valid JSON values")
	}

	tc := &domain.TestCase{
		ID:             uuid.NewString(),
		UserID:         ownerID,
		FunctionName:   in.FunctionName,
		Input:          compactJSON(in.Input),
		ExpectedOutput: compactJSON(in.ExpectedOutput),
		Description:    in.Description,
	}
	if err := s.cases.Create(ctx, tc); err != nil {
		return nil, apperr.Internal(err, "create test case")
	}
	return tc, nil
}

func (s *testCaseService) Get(ctx context.Context, ownerID, id string) (*domain.TestCase, error) {
	if !validID(id) {
		return nil, errTestCaseNotFound
	}
	tc, err := s.cases.GetByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, translateRepoError(err, "get test case")
	}
	return tc, nil
}

func (s *testCaseService) List(ctx context.Context, ownerID string) ([]domain.TestCase, error) {
	cases, err := s.cases.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal(err, "list test cases")
	}
	return cases, nil
}

func (s *testCaseService) Update(ctx context.Context, ownerID, id string, fields domain.TestCaseFields) (*domain.TestCase, error) {
	if !validID(id) {
		return nil, errTestCaseNotFound
	}
	if fields.FunctionName != nil && strings.TrimSpace(*fields.FunctionName) == "" {
		return nil, apperr.Validation("functionName cannot be empty")
	}
	if fields.Input != nil {
		if domain.IsBlankJSON(fields.Input) || !json.Valid(fields.Input) {
			return nil, apperr.Validation("input cannot be empty")
		}
		fields.Input = compactJSON(fields.Input)
	}
	if fields.ExpectedOutput != nil {
		if domain.IsBlankJSON(fields.ExpectedOutput) || !json.Valid(fields.ExpectedOutput) {
			return nil, apperr.Validation("expectedOutput cannot be empty")
		}
		fields.ExpectedOutput = compactJSON(fields.ExpectedOutput)
	}

	if fields.Empty() {
		return s.Get(ctx, ownerID, id)
	}

	tc, err := s.cases.UpdateByOwner(ctx, ownerID, id, fields)
	if err != nil {
		return nil, translateRepoError(err, "update test case")
	}
	return tc, nil
}

func (s *testCaseService) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return errTestCaseNotFound
	}
	if err := s.cases.DeleteByOwner(ctx, ownerID, id); err != nil {
		return translateRepoError(err, "delete test case")
	}
	return nil
}

// SaveGenerated stores a whole generation as one test case: the code is the
// input and the list of cases is the expected output.
func (s *testCaseService) SaveGenerated(ctx context.Context, ownerID, functionName, code string, cases []json.RawMessage) (*domain.TestCase, error) {
	if len(cases) == 0 {
		return nil, apperr.Validation("No test cases to save.")
	}
	if strings.TrimSpace(functionName) == "" {
		functionName = GeneratedFunctionName
	}
	input, err := json.Marshal(code)
	if err != nil {
		return nil, apperr.Internal(err, "encode generated input")
	}
	output, err := json.Marshal(cases)
	if err != nil {
		return nil, apperr.Internal(err, "encode generated cases")
	}
	return s.Create(ctx, ownerID, CreateTestCaseInput{
		FunctionName:   functionName,
		Input:          input,
		ExpectedOutput: output,
		Description:    GeneratedDescription,
	})
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func translateRepoError(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errTestCaseNotFound
	}
	return apperr.Internal(err, op)
}

func compactJSON(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return json.RawMessage(buf.Bytes())
}
