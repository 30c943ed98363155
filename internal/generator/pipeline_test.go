package generator

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testcase-generator/internal/apperr"
)

type fakeModel struct {
	response string
	err      error
	delay    time.Duration
	calls    int
	prompt   string
}

func (m *fakeModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.prompt = prompt
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.response, m.err
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestPipeline_Success(t *testing.T) {
	model := &fakeModel{response: "```json\n[{\"input\":[1,2],\"expectedOutput\":3,\"description\":\"adds\"}]\n```"}
	p := NewPipeline(model, time.Second, quietLogger())

	res, err := p.Generate(context.Background(), "def add(a, b): return a + b")
	require.NoError(t, err)
	assert.Equal(t, "python", res.Language)
	require.Len(t, res.TestCases, 1)
	assert.JSONEq(t, `{"input":[1,2],"expectedOutput":3,"description":"adds"}`, string(res.TestCases[0]))
	assert.Equal(t, 1, model.calls)
	assert.Contains(t, model.prompt, "def add(a, b): return a + b")
}

func TestPipeline_ShortInputNeverCallsModel(t *testing.T) {
	for _, code := range []string{"", "    ", "a b c d", "\n\t1 2\n3 4 \t"} {
		model := &fakeModel{response: "[]"}
		p := NewPipeline(model, time.Second, quietLogger())

		_, err := p.Generate(context.Background(), code)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "code=%q err=%v", code, err)
		assert.Zero(t, model.calls, "code=%q", code)
	}
}

func TestPipeline_NotConfigured(t *testing.T) {
	p := NewPipeline(nil, time.Second, quietLogger())

	_, err := p.Generate(context.Background(), "function f() {}")
	assert.True(t, apperr.Is(err, apperr.KindUpstreamUnavailable))
}

func TestPipeline_ShortInputCheckedBeforeConfiguration(t *testing.T) {
	p := NewPipeline(nil, time.Second, quietLogger())

	_, err := p.Generate(context.Background(), "x")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestPipeline_UpstreamError(t *testing.T) {
	model := &fakeModel{err: errors.New("quota exceeded")}
	p := NewPipeline(model, time.Second, quietLogger())

	_, err := p.Generate(context.Background(), "function f() {}")
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindUpstreamError, appErr.Kind)
	assert.Equal(t, "quota exceeded", appErr.Detail)
}

func TestPipeline_Timeout(t *testing.T) {
	model := &fakeModel{response: "[]", delay: time.Second}
	p := NewPipeline(model, 20*time.Millisecond, quietLogger())

	_, err := p.Generate(context.Background(), "function f() {}")

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindUpstreamError, appErr.Kind)
	assert.Contains(t, appErr.Detail, "timed out")
}

func TestPipeline_NoStructuredOutput(t *testing.T) {
	model := &fakeModel{response: "I'm sorry, I can only describe the tests in prose."}
	p := NewPipeline(model, time.Second, quietLogger())

	_, err := p.Generate(context.Background(), "function f() {}")
	assert.True(t, apperr.Is(err, apperr.KindNoStructuredOutput))
}

func TestPipeline_UnparsableOutput(t *testing.T) {
	model := &fakeModel{response: `[{"input": 1, "expectedOutput": }]`}
	p := NewPipeline(model, time.Second, quietLogger())

	_, err := p.Generate(context.Background(), "function f() {}")
	assert.True(t, apperr.Is(err, apperr.KindUnparsableOutput))
}

func TestPipeline_NoCaching(t *testing.T) {
	model := &fakeModel{response: "[]"}
	p := NewPipeline(model, time.Second, quietLogger())

	for i := 0; i < 3; i++ {
		res, err := p.Generate(context.Background(), "function f() {}")
		require.NoError(t, err)
		assert.Empty(t, res.TestCases)
		assert.Equal(t, "javascript", res.Language)
	}
	assert.Equal(t, 3, model.calls)
}
