package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aishumaj/express-messagely/internal/pkg/apperror"
	"github.com/aishumaj/express-messagely/internal/pkg/response"
)

// CallerKey holds the authenticated username in the gin context
const CallerKey = "username"

// TokenField is the body or query field accepted in place of an Authorization header
const TokenField = "_token"

const maxTokenPeek = 64 << 10

// TokenAuthenticator resolves a bearer token to a username
type TokenAuthenticator interface {
	Authenticate(token string) (string, error)
}

// Authenticate attaches the caller when a valid token is presented.
// Missing or invalid tokens leave the request anonymous.
func Authenticate(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			username, err := auth.Authenticate(token)
			if err != nil {
				slog.Debug("Ignoring invalid token",
					slog.String("request_id", c.GetString(RequestIDKey)),
					slog.Any("error", err))
			} else {
				c.Set(CallerKey, username)
			}
		}
		c.Next()
	}
}

// Caller returns the authenticated username, if any
func Caller(c *gin.Context) (string, bool) {
	username := c.GetString(CallerKey)
	return username, username != ""
}

// RequireAuth rejects anonymous requests
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := Caller(c); !ok {
			response.Error(c, apperror.UnauthorizedError("Authentication required", "Log in and send the token as a Bearer header"))
			return
		}
		c.Next()
	}
}

// EnsureCorrectUser allows only the user named by the :username path parameter
func EnsureCorrectUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := Caller(c)
		if !ok || caller != c.Param("username") {
			response.Error(c, apperror.UnauthorizedError("Unauthorized", "You may only access your own account"))
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if token := c.Query(TokenField); token != "" {
		return token
	}
	return bodyToken(c)
}

// bodyToken reads _token from a JSON body and restores the body for the handler
func bodyToken(c *gin.Context) string {
	if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), "application/json") {
		return ""
	}

	body := c.Request.Body
	peek, err := io.ReadAll(io.LimitReader(body, maxTokenPeek))
	c.Request.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(peek), body), body}
	if err != nil || len(peek) == maxTokenPeek {
		return ""
	}

	var payload struct {
		Token string `json:"_token"`
	}
	if err := json.Unmarshal(peek, &payload); err != nil {
		return ""
	}
	return payload.Token
}
