package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"testcase-generator/internal/apperr"
	"testcase-generator/internal/domain"
	"testcase-generator/internal/service"
)

type createTestCaseRequest struct {
	FunctionName   string          `json:"functionName"`
	Input          json.RawMessage `json:"input"`
	ExpectedOutput json.RawMessage `json:"expectedOutput"`
	Description    string          `json:"description"`
}

// updateTestCaseRequest keeps every field raw so a missing field can be told
// apart from an explicit null.
type updateTestCaseRequest struct {
	FunctionName   json.RawMessage `json:"functionName"`
	Input          json.RawMessage `json:"input"`
	ExpectedOutput json.RawMessage `json:"expectedOutput"`
	Description    json.RawMessage `json:"description"`
}

type generateRequest struct {
	Code         string `json:"code"`
	Save         bool   `json:"save"`
	FunctionName string `json:"functionName"`
}

func (h *Handler) createTestCase(c *gin.Context) {
	var req createTestCaseRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	tc, err := h.testCases.Create(c.Request.Context(), currentUserID(c), service.CreateTestCaseInput{
		FunctionName:   req.FunctionName,
		Input:          req.Input,
		ExpectedOutput: req.ExpectedOutput,
		Description:    req.Description,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, testCaseToResponse(*tc))
}

func (h *Handler) listTestCases(c *gin.Context) {
	cases, err := h.testCases.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]TestCaseResponse, len(cases))
	for i := range cases {
		resp[i] = testCaseToResponse(cases[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getTestCase(c *gin.Context) {
	tc, err := h.testCases.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, testCaseToResponse(*tc))
}

func (h *Handler) updateTestCase(c *gin.Context) {
	var req updateTestCaseRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	fields, err := req.fields()
	if err != nil {
		h.writeError(c, err)
		return
	}

	tc, err := h.testCases.Update(c.Request.Context(), currentUserID(c), c.Param("id"), fields)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, testCaseToResponse(*tc))
}

func (h *Handler) deleteTestCase(c *gin.Context) {
	if err := h.testCases.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "TestCase deleted successfully"})
}

func (h *Handler) generateTestCases(c *gin.Context) {
	var req generateRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), req.Code)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := gin.H{
		"testCases": result.TestCases,
		"language":  result.Language,
	}
	// An empty generation has nothing to save; the result is still returned.
	if req.Save && len(result.TestCases) > 0 {
		saved, err := h.testCases.SaveGenerated(c.Request.Context(), currentUserID(c), req.FunctionName, req.Code, result.TestCases)
		if err != nil {
			h.writeError(c, err)
			return
		}
		resp["saved"] = testCaseToResponse(*saved)
	}
	c.JSON(http.StatusOK, resp)
}

func (r updateTestCaseRequest) fields() (domain.TestCaseFields, error) {
	var fields domain.TestCaseFields
	if r.FunctionName != nil {
		name, err := optionalString(r.FunctionName, "functionName")
		if err != nil {
			return fields, err
		}
		fields.FunctionName = &name
	}
	if r.Description != nil {
		desc, err := optionalString(r.Description, "description")
		if err != nil {
			return fields, err
		}
		fields.Description = &desc
	}
	fields.Input = r.Input
	fields.ExpectedOutput = r.ExpectedOutput
	return fields, nil
}

// optionalString decodes a JSON string, treating null as empty.
func optionalString(raw json.RawMessage, field string) (string, error) {
	if domain.IsBlankJSON(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", apperr.Validation(field + " must be a string")
	}
	return s, nil
}
