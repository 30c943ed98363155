package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"testcase-generator/internal/domain"
	"testcase-generator/internal/repository"
)

const createTestCasesTable = `
CREATE TABLE IF NOT EXISTS test_cases (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	function_name TEXT NOT NULL,
	input TEXT NOT NULL,
	expected_output TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_test_cases_user_id ON test_cases(user_id);
`

const testCaseColumns = `id, user_id, function_name, input, expected_output, description, created_at, updated_at`

type TestCaseRepository struct {
	db *sql.DB
}

func NewTestCaseRepository(db *sql.DB) repository.TestCaseRepository {
	return &TestCaseRepository{db: db}
}

func (r *TestCaseRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTestCasesTable); err != nil {
		return fmt.Errorf("create test_cases table: %w", err)
	}
	return nil
}

func (r *TestCaseRepository) Create(ctx context.Context, tc *domain.TestCase) error {
	now := time.Now().UTC()
	tc.CreatedAt = now
	tc.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO test_cases (`+testCaseColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tc.ID,
		tc.UserID,
		tc.FunctionName,
		string(tc.Input),
		string(tc.ExpectedOutput),
		tc.Description,
		tc.CreatedAt,
		tc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert test case: %w", err)
	}
	return nil
}

func (r *TestCaseRepository) GetByOwner(ctx context.Context, ownerID, id string) (*domain.TestCase, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+testCaseColumns+`
FROM test_cases
WHERE id = ? AND user_id = ?`,
		id,
		ownerID,
	)
	return scanTestCase(row)
}

func (r *TestCaseRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.TestCase, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+testCaseColumns+`
FROM test_cases
WHERE user_id = ?
ORDER BY rowid ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query test cases: %w", err)
	}
	defer rows.Close()

	cases := make([]domain.TestCase, 0)
	for rows.Next() {
		tc, err := scanTestCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, *tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test cases: %w", err)
	}
	return cases, nil
}

func (r *TestCaseRepository) UpdateByOwner(ctx context.Context, ownerID, id string, fields domain.TestCaseFields) (*domain.TestCase, error) {
	var (
		sets []string
		args []any
	)
	if fields.FunctionName != nil {
		sets = append(sets, "function_name=?")
		args = append(args, *fields.FunctionName)
	}
	if fields.Input != nil {
		sets = append(sets, "input=?")
		args = append(args, string(fields.Input))
	}
	if fields.ExpectedOutput != nil {
		sets = append(sets, "expected_output=?")
		args = append(args, string(fields.ExpectedOutput))
	}
	if fields.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *fields.Description)
	}
	sets = append(sets, "updated_at=?")
	args = append(args, time.Now().UTC(), id, ownerID)

	res, err := r.db.ExecContext(ctx, `
UPDATE test_cases
SET `+strings.Join(sets, ", ")+`
WHERE id = ? AND user_id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update test case: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update test case rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("test case %s: %w", id, repository.ErrNotFound)
	}
	return r.GetByOwner(ctx, ownerID, id)
}

func (r *TestCaseRepository) DeleteByOwner(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM test_cases WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete test case: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete test case rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("test case %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func scanTestCase(scanner interface {
	Scan(dest ...any) error
}) (*domain.TestCase, error) {
	var (
		tc             domain.TestCase
		input          string
		expectedOutput string
	)
	if err := scanner.Scan(
		&tc.ID,
		&tc.UserID,
		&tc.FunctionName,
		&input,
		&expectedOutput,
		&tc.Description,
		&tc.CreatedAt,
		&tc.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("test case: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan test case: %w", err)
	}
	tc.Input = json.RawMessage(input)
	tc.ExpectedOutput = json.RawMessage(expectedOutput)
	return &tc, nil
}
