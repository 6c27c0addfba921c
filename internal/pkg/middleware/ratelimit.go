package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"saborstock/internal/pkg/cache"
	"saborstock/internal/pkg/logger"
)

const rateLimitTimeout = 200 * time.Millisecond

// RateLimiter limita requisições por IP numa janela fixa guardada no Redis.
// Se o Redis falhar a requisição segue (fail-open) e o erro vai para o log.
func RateLimiter(client cache.Client, limit int, window time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + ip

			ctx, cancel := context.WithTimeout(r.Context(), rateLimitTimeout)
			defer cancel()

			count, err := client.GetInt(ctx, key)
			switch {
			case err == cache.ErrCacheMiss:
				if err := client.Set(ctx, key, 1, window); err != nil {
					log.Warn("Falha ao iniciar janela do rate limit.", map[string]interface{}{"ip": ip, "error": err.Error()})
				}
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-1))
			case err != nil:
				log.Warn("Rate limit indisponível; requisição liberada.", map[string]interface{}{"ip": ip, "error": err.Error()})
			case count >= limit:
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				w.Header().Set("X-RateLimit-Remaining", "0")
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			default:
				n, err := client.Incr(ctx, key)
				if err != nil {
					log.Warn("Falha ao incrementar rate limit.", map[string]interface{}{"ip": ip, "error": err.Error()})
					n = int64(count + 1)
				}
				remaining := limit - int(n)
				if remaining < 0 {
					remaining = 0
				}
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			}
			next.ServeHTTP(w, r)
		})
	}
}
