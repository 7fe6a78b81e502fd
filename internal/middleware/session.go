package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the client's session ID.
const SessionCookie = "shop_session"

const sessionKey = "sessionID"

// cookieMaxAge matches the session TTL in Redis (7 days).
const cookieMaxAge = 7 * 24 * 60 * 60

// Session ensures every client has a session ID: reuse the cookie when
// present, mint a fresh UUID otherwise. The session body itself is lazily
// created by the session store on first read.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(SessionCookie, sid, cookieMaxAge, "/", "", false, true)
		}
		c.Set(sessionKey, sid)
		c.Next()
	}
}

// SessionID returns the session ID attached by the Session middleware.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
