// Package generator turns a code snippet into model-written test cases:
// validate, detect language, build the prompt, call the model, then sanitize,
// extract and parse the answer. Every step that can fail has its own error kind.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"testcase-generator/internal/apperr"
)

// MinCodeLength is the minimum number of non-whitespace characters accepted.
const MinCodeLength = 5

// DefaultTimeout bounds a single model call when none is configured.
const DefaultTimeout = 30 * time.Second

// Model is a generative text service.
type Model interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of one generation. TestCases are passed through
// exactly as the model produced them.
type Result struct {
	TestCases []json.RawMessage `json:"testCases"`
	Language  string            `json:"language"`
}

// Pipeline runs generations against a Model. A nil model means the upstream
// credential is not configured.
type Pipeline struct {
	model   Model
	timeout time.Duration
	logger  logrus.FieldLogger
}

func NewPipeline(model Model, timeout time.Duration, logger logrus.FieldLogger) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Pipeline{
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

func (p *Pipeline) Generate(ctx context.Context, code string) (*Result, error) {
	if countNonSpace(code) < MinCodeLength {
		return nil, apperr.Validation("Please enter a valid code.")
	}
	if p.model == nil {
		return nil, apperr.New(apperr.KindUpstreamUnavailable,
			"Gemini API key not configured. Please add your API key to the server configuration.")
	}

	language := DetectLanguage(code)
	prompt := BuildPrompt(language, code)
	log := p.logger.WithFields(logrus.Fields{
		"language":     language,
		"prompt_bytes": len(prompt),
	})

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	started := time.Now()
	raw, err := p.model.GenerateText(callCtx, prompt)
	elapsed := time.Since(started)
	if err != nil {
		appErr := apperr.Wrap(err, apperr.KindUpstreamError, "Error generating test cases. Please try again.")
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			appErr = appErr.WithDetail(fmt.Sprintf("model call timed out after %s", p.timeout))
		}
		log.WithError(err).WithField("elapsed", elapsed).Warn("model call failed")
		return nil, appErr
	}
	log = log.WithField("elapsed", elapsed)

	payload, ok := ExtractArray(Sanitize(raw))
	if !ok {
		log.WithField("response_bytes", len(raw)).Warn("model response has no json array")
		return nil, apperr.New(apperr.KindNoStructuredOutput, "AI did not return valid JSON.")
	}

	cases, err := ParseCases(payload)
	if err != nil {
		log.WithError(err).Warn("model response is not parseable")
		return nil, apperr.Wrap(err, apperr.KindUnparsableOutput, "Failed to parse AI response as JSON.")
	}

	log.WithField("cases", len(cases)).Info("generated test cases")
	return &Result{TestCases: cases, Language: language}, nil
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
