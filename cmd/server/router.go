package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phonebook-api/internal/api"
	"phonebook-api/internal/auth"
	"phonebook-api/internal/resolver"
	"phonebook-api/internal/store"
	apperrors "phonebook-api/pkg/errors"
)

const authContextKey = "authContext"

// queryRequest is the envelope for the operation dispatch endpoint.
// Operation names and variable shapes follow the declared API surface.
type queryRequest struct {
	Operation string          `json:"operation" binding:"required"`
	Variables json.RawMessage `json:"variables"`
}

// setupRouter wires the HTTP surface: health, schema, and the operation
// dispatch endpoint with auth-context middleware.
func setupRouter(res *resolver.Resolver, authRes *auth.Resolver, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Contract text for clients
	router.GET("/schema", func(c *gin.Context) {
		c.String(http.StatusOK, api.Schema)
	})

	// Every request gets an auth context, possibly anonymous. An invalid
	// bearer token fails the whole request rather than degrading to
	// anonymous.
	router.POST("/query", func(c *gin.Context) {
		authCtx, err := authRes.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			writeError(c, log, err)
			c.Abort()
			return
		}
		c.Set(authContextKey, authCtx)
		c.Next()
	}, dispatch(res, log))

	return router
}

// dispatch routes an operation envelope to its resolver
func dispatch(res *resolver.Resolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req queryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		authCtx := c.MustGet(authContextKey).(*auth.Context)

		result, err := runOperation(ctx, res, authCtx, req)
		if err != nil {
			writeError(c, log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": result})
	}
}

func runOperation(ctx context.Context, res *resolver.Resolver, authCtx *auth.Context, req queryRequest) (interface{}, error) {
	switch req.Operation {
	case api.OpContactCount:
		return res.ContactCount(ctx)

	case api.OpListContacts:
		var vars struct {
			Phone store.PhoneFilter `json:"phone"`
		}
		if err := bindVariables(req.Variables, &vars); err != nil {
			return nil, err
		}
		return res.ListContacts(ctx, vars.Phone)

	case api.OpFindContact:
		var vars struct {
			Name string `json:"name"`
		}
		if err := bindVariables(req.Variables, &vars); err != nil {
			return nil, err
		}
		if vars.Name == "" {
			return nil, missingVariable("name")
		}
		return res.FindContact(ctx, vars.Name)

	case api.OpListAccounts:
		return res.ListAccounts(ctx)

	case api.OpMe:
		return res.Me(ctx, authCtx)

	case api.OpCreateContact:
		var vars struct {
			Name   string `json:"name"`
			Phone  string `json:"phone"`
			Street string `json:"street"`
			City   string `json:"city"`
		}
		if err := bindVariables(req.Variables, &vars); err != nil {
			return nil, err
		}
		return res.CreateContact(ctx, authCtx, vars.Name, vars.Phone, vars.Street, vars.City)

	case api.OpUpdateContactPhone:
		var vars struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
		}
		if err := bindVariables(req.Variables, &vars); err != nil {
			return nil, err
		}
		if vars.Name == "" {
			return nil, missingVariable("name")
		}
		if vars.Phone == "" {
			return nil, missingVariable("phone")
		}
		return res.UpdateContactPhone(ctx, vars.Name, vars.Phone)

	case api.OpCreateAccount:
		var vars struct {
			Username string `json:"username"`
		}
		if err := bindVariables(req.Variables, &vars); err != nil {
			return nil, err
		}
		return res.CreateAccount(ctx, vars.Username)

	case api.OpLogin:
		var vars struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := bindVariables(req.Variables, &vars); err != nil {
			return nil, err
		}
		if vars.Username == "" {
			return nil, missingVariable("username")
		}
		if vars.Password == "" {
			return nil, missingVariable("password")
		}
		return res.Login(ctx, vars.Username, vars.Password)

	case api.OpAddFriend:
		var vars struct {
			Name string `json:"name"`
		}
		if err := bindVariables(req.Variables, &vars); err != nil {
			return nil, err
		}
		if vars.Name == "" {
			return nil, missingVariable("name")
		}
		return res.AddFriend(ctx, authCtx, vars.Name)

	default:
		return nil, apperrors.NewValidationError("unknown operation", map[string]string{
			"operation": req.Operation,
		})
	}
}

func bindVariables(raw json.RawMessage, target interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return apperrors.NewValidationError("malformed variables", map[string]string{
			"variables": err.Error(),
		})
	}
	return nil
}

func missingVariable(name string) error {
	return apperrors.NewValidationError("missing required variable", map[string]string{
		name: "required",
	})
}

// writeError maps the error taxonomy onto HTTP statuses
func writeError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case apperrors.IsAuthentication(err), apperrors.IsInvalidToken(err), apperrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case apperrors.IsValidation(err):
		body := gin.H{"error": err.Error()}
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) && len(verr.InvalidArgs) > 0 {
			body["invalidArgs"] = verr.InvalidArgs
		}
		c.JSON(http.StatusBadRequest, body)
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error("Operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
