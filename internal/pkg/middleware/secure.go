package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureHeaders aplica os headers de segurança. Em produção também força HTTPS
// atrás do proxy (X-Forwarded-Proto).
func SecureHeaders(production bool) func(http.Handler) http.Handler {
	s := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !production,
	})
	return s.Handler
}
