package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/Prabalranjan/Power-BI-Data-Download/internal/config"
	apperrors "github.com/Prabalranjan/Power-BI-Data-Download/internal/errors"
)

// APIKeyAuth checks the export API key when cfg.APIKeyRequired is set.
// The key is read from the apikey query parameter, then the X-API-Key
// header. It matches either the plain key or the bcrypt hash, whichever is
// configured. A mismatch is answered with 401 before any database work.
func APIKeyAuth(cfg config.SecurityConfig, errs *apperrors.ErrorHandler, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.APIKeyRequired {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			presented := r.URL.Query().Get(config.QueryParamAPIKey)
			if presented == "" {
				presented = r.Header.Get(config.HeaderAPIKey)
			}

			if !validAPIKey(cfg, presented) {
				reason := "API key mismatch"
				if presented == "" {
					reason = "API key missing"
				}
				logger.WarnContext(ctx, "invalid API key",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"key_present", presented != "",
				)
				errs.HandleError(w, r, apperrors.NewAuthError(reason))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func validAPIKey(cfg config.SecurityConfig, presented string) bool {
	if presented == "" {
		return false
	}
	if cfg.APIKeyHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(cfg.APIKeyHash), []byte(presented)) == nil
	}
	if cfg.APIKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cfg.APIKey), []byte(presented)) == 1
}
