package http

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"testcase-generator/internal/apperr"
)

const internalErrorMessage = "Internal server error"

var kindStatus = map[apperr.Kind]int{
	apperr.KindUnauthenticated:     http.StatusUnauthorized,
	apperr.KindInvalidCredentials:  http.StatusUnauthorized,
	apperr.KindForbidden:           http.StatusForbidden,
	apperr.KindValidation:          http.StatusBadRequest,
	apperr.KindNotFound:            http.StatusNotFound,
	apperr.KindConflict:            http.StatusConflict,
	apperr.KindUpstreamUnavailable: http.StatusInternalServerError,
	apperr.KindUpstreamError:       http.StatusBadGateway,
	apperr.KindNoStructuredOutput:  http.StatusBadGateway,
	apperr.KindUnparsableOutput:    http.StatusBadGateway,
	apperr.KindFeatureDisabled:     http.StatusServiceUnavailable,
	apperr.KindPayloadTooLarge:     http.StatusRequestEntityTooLarge,
}

// upstream kinds carry the underlying detail to the caller for diagnostics
var detailKinds = map[apperr.Kind]bool{
	apperr.KindUpstreamError:      true,
	apperr.KindNoStructuredOutput: true,
	apperr.KindUnparsableOutput:   true,
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeError is the single place where errors become HTTP responses.
func (h *Handler) writeError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperr.KindInternal {
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": internalErrorMessage})
		return
	}

	body := gin.H{"message": appErr.Message}
	if detailKinds[appErr.Kind] && appErr.Detail != "" {
		body["error"] = appErr.Detail
	}
	c.AbortWithStatusJSON(StatusFor(appErr.Kind), body)
}

// bindJSON decodes the request body into dst and turns binding failures into
// Validation errors.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.New(apperr.KindPayloadTooLarge, "Request body too large")
		}
		return apperr.Validation(bindingMessage(err))
	}
	return nil
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "min":
			msgs = append(msgs, fe.Field()+" must be at least "+fe.Param()+" characters")
		case "max":
			msgs = append(msgs, fe.Field()+" must be at most "+fe.Param()+" characters")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

var tagNamesOnce sync.Once

// registerValidatorTagNames makes validation messages use json field names.
func registerValidatorTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
	})
}
