package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextActor    = "actor"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{
				Code: "missing_authorization_header", Message: "bearer token required",
			})
			return
		}

		actor, code := parseBearer(cfg, authHeader)
		if code != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{Code: code, Message: "invalid credentials"})
			return
		}

		setActor(c, actor)
		c.Next()
	}
}

// OptionalAuth sets the actor when a valid token is sent and lets
// anonymous requests through. Invalid tokens are still rejected.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		actor, code := parseBearer(cfg, authHeader)
		if code != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{Code: code, Message: "invalid credentials"})
			return
		}

		setActor(c, actor)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, httperr.HTTPError{Code: "forbidden", Message: "role not allowed"})
	}
}

// ActorFrom returns the authenticated caller, or a zero Actor for
// anonymous requests.
func ActorFrom(c *gin.Context) (bookingdomain.Actor, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return bookingdomain.Actor{}, false
	}
	actor, ok := v.(bookingdomain.Actor)
	return actor, ok
}

func setActor(c *gin.Context, actor bookingdomain.Actor) {
	c.Set(ContextUserID, actor.ID)
	c.Set(ContextUserRole, actor.Role)
	c.Set(ContextActor, actor)
}

func parseBearer(cfg *config.Config, authHeader string) (bookingdomain.Actor, string) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return bookingdomain.Actor{}, "invalid_authorization_header"
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return bookingdomain.Actor{}, "invalid_token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return bookingdomain.Actor{}, "invalid_token_claims"
	}

	userID, ok1 := claims["sub"].(float64)
	role, ok2 := claims["role"].(string)
	email, _ := claims["email"].(string)
	if !ok1 || !ok2 || userID <= 0 || role == "" {
		return bookingdomain.Actor{}, "invalid_token_payload"
	}

	return bookingdomain.Actor{
		ID:    uint(userID),
		Role:  role,
		Email: strings.ToLower(strings.TrimSpace(email)),
	}, ""
}
