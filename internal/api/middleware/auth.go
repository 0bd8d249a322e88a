package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/readstack/library-system/internal/api/metrics"
	"github.com/readstack/library-system/internal/core/domain"
	"github.com/readstack/library-system/internal/core/ports"
)

// Context keys set by the Auth middleware on success.
const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

// TimeoutHeader optionally overrides the issued token's TTL in seconds.
const TimeoutHeader = "Timeout"

// Auth authenticates a request from its Authorization header.
//
// The header is split into exactly two whitespace-separated fields: a scheme
// ("Basic" or "Bearer", exact match) and its payload. A resolved identity is
// attached to the request context together with a freshly issued session
// token; every failure is terminal for the request.
//
// When optional is true, every failure branch instead proceeds anonymously —
// one consistent policy across missing, malformed, unsupported-scheme and
// rejected-credential cases.
func Auth(decoder ports.CredentialDecoder, optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				if optional {
					return next(c)
				}
				metrics.AuthAttemptsTotal.WithLabelValues("none", "rejected").Inc()
				return echo.NewHTTPError(http.StatusBadRequest, "Missing request headers!")
			}

			parts := strings.Fields(header)
			if len(parts) != 2 {
				if optional {
					return next(c)
				}
				metrics.AuthAttemptsTotal.WithLabelValues("none", "rejected").Inc()
				return echo.NewHTTPError(http.StatusBadRequest, "Incorrect format of request header")
			}

			scheme, data := parts[0], parts[1]

			var user *domain.User
			var err error
			switch scheme {
			case "Basic":
				user, err = decoder.DecodeBasic(c.Request().Context(), data)
			case "Bearer":
				user, err = decoder.DecodeBearer(c.Request().Context(), data)
			default:
				if optional {
					return next(c)
				}
				metrics.AuthAttemptsTotal.WithLabelValues(scheme, "rejected").Inc()
				return echo.NewHTTPError(http.StatusBadRequest, "Neither Basic nor Bearer request header")
			}

			if err != nil {
				if !errors.Is(err, domain.ErrInvalidCredentials) {
					// Store unreachable is not an authentication failure.
					return err
				}
				if optional {
					return next(c)
				}
				metrics.AuthAttemptsTotal.WithLabelValues(scheme, "rejected").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found from credentials")
			}

			token, err := decoder.IssueToken(user, c.Request().Header.Get(TimeoutHeader))
			if err != nil {
				if optional {
					return next(c)
				}
				metrics.AuthAttemptsTotal.WithLabelValues(scheme, "rejected").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found from credentials")
			}

			metrics.AuthAttemptsTotal.WithLabelValues(scheme, "accepted").Inc()
			metrics.TokensIssuedTotal.Inc()
			c.Set(ContextUserKey, user)
			c.Set(ContextTokenKey, token)

			return next(c)
		}
	}
}
