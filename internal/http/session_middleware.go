package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"daily-diet/internal/service"
)

const sessionIDKey = "session_id"

// SessionAuthMiddleware valida la presencia de la cookie de sesión y guarda
// el id en el contexto. Nunca crea sesiones: una petición sin cookie falla
// con 401 sin excepciones.
func SessionAuthMiddleware(cookieName string, sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)
		sessionID, err := sessions.Require(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			c.Abort()
			return
		}

		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID obtiene el id de sesión desde el contexto.
func GetSessionID(c *gin.Context) (string, bool) {
	val, ok := c.Get(sessionIDKey)
	if !ok {
		return "", false
	}
	sessionID, ok := val.(string)
	return sessionID, ok
}
