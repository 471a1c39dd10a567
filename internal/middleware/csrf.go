package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"altheia/internal/views"
)

const (
	CSRFCookie    = "altheia_csrf"
	CSRFField     = "csrf_token"
	CSRFHeader    = "X-CSRF-Token"
	ctxKeyCSRF    = "CSRFToken"
	csrfTokenSize = 32
)

// EnsureCSRF issues the double-submit token cookie on first contact and
// makes the token available to views through CSRFToken.
func EnsureCSRF(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(CSRFCookie)
		token = strings.TrimSpace(token)
		if token == "" {
			token = randomToken(csrfTokenSize)
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     CSRFCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(ctxKeyCSRF, token)
		c.Next()
	}
}

// RequireCSRF rejects state-changing requests whose form field or header
// does not match the token cookie.
func RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		cookieToken, _ := c.Cookie(CSRFCookie)
		cookieToken = strings.TrimSpace(cookieToken)
		if cookieToken == "" {
			abortHTML(c, http.StatusForbidden, views.Error("Request rejected", "Missing CSRF token cookie. Reload the page and try again."))
			return
		}

		formToken := strings.TrimSpace(c.GetHeader(CSRFHeader))
		if formToken == "" {
			formToken = strings.TrimSpace(c.PostForm(CSRFField))
		}

		if subtle.ConstantTimeCompare([]byte(cookieToken), []byte(formToken)) != 1 {
			abortHTML(c, http.StatusForbidden, views.Error("Request rejected", "Invalid or missing CSRF token. Reload the page and try again."))
			return
		}
		c.Next()
	}
}

func CSRFToken(c *gin.Context) string {
	return c.GetString(ctxKeyCSRF)
}

func randomToken(size int) string {
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
