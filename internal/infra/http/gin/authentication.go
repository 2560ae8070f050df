package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	domainactor "roomly/internal/domain/actor"
)

const principalContextKey = "roomly.principal"

// PrincipalMiddleware verifies externally issued HS256 access tokens and
// attaches the actor identity. An absent or invalid token leaves the request
// anonymous; individual routes decide whether that is acceptable.
type PrincipalMiddleware struct {
	Secret []byte
	Logger *slog.Logger
}

func (m PrincipalMiddleware) Handle(c *gin.Context) {
	raw := extractBearerToken(c.GetHeader("Authorization"))
	if raw == "" || len(m.Secret) == 0 {
		c.Next()
		return
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		if m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.Next()
		return
	}
	subject, _ := claims.GetSubject()
	roleClaim, _ := claims["role"].(string)
	role, err := domainactor.ParseRole(roleClaim)
	if subject == "" || err != nil {
		if m.Logger != nil {
			m.Logger.Debug("token missing identity claims", "subject", subject, "role", roleClaim)
		}
		c.Next()
		return
	}
	setActor(c, domainactor.Actor{ID: domainactor.ID(subject), Role: role})
	c.Next()
}

func setActor(c *gin.Context, a domainactor.Actor) {
	c.Set(principalContextKey, a)
}

func currentActor(c *gin.Context) (domainactor.Actor, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return domainactor.Actor{}, false
	}
	a, ok := val.(domainactor.Actor)
	return a, ok
}

func requireActor(c *gin.Context) (domainactor.Actor, bool) {
	a, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return domainactor.Actor{}, false
	}
	return a, true
}

func requireRole(c *gin.Context, roles ...domainactor.Role) (domainactor.Actor, bool) {
	a, ok := requireActor(c)
	if !ok {
		return domainactor.Actor{}, false
	}
	for _, role := range roles {
		if a.Role == role {
			return a, true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	return domainactor.Actor{}, false
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
