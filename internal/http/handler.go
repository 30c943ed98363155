package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"testcase-generator/internal/auth"
	"testcase-generator/internal/generator"
	"testcase-generator/internal/service"
)

// Generator produces test cases for a code snippet.
type Generator interface {
	Generate(ctx context.Context, code string) (*generator.Result, error)
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	testCases service.TestCaseService
	exports   service.ExportService
	generator Generator
	tokens    *auth.TokenManager
	logger    logrus.FieldLogger
}

func NewHandler(
	users service.UserService,
	testCases service.TestCaseService,
	exports service.ExportService,
	gen Generator,
	tokens *auth.TokenManager,
	logger logrus.FieldLogger,
) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	registerValidatorTagNames()
	return &Handler{
		users:     users,
		testCases: testCases,
		exports:   exports,
		generator: gen,
		tokens:    tokens,
		logger:    logger,
	}
}

// RegisterRoutes installs middleware and every API route on router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.recovery(), h.requestLogger(), corsMiddleware(), limitBody(MaxBodyBytes))
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		authGroup := api.Group("/auth")
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.GET("/me", h.requireAuth(), h.me)

		testCases := api.Group("/testcase", h.requireAuth())
		testCases.POST("/create", h.createTestCase)
		testCases.POST("/generate", h.generateTestCases)
		testCases.POST("/export", h.createExport)
		testCases.GET("/exports", h.listExports)
		testCases.DELETE("/exports", h.deleteExports)
		testCases.GET("", h.listTestCases)
		testCases.GET("/:id", h.getTestCase)
		testCases.PUT("/:id", h.updateTestCase)
		testCases.DELETE("/:id", h.deleteTestCase)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
