package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/MikhailRaia/shortify/internal/auth"
)

type contextKey string

// ClientIDKey is the context key used to store the browser's client id.
const ClientIDKey contextKey = "clientID"

// SessionCookieName names the cookie carrying the session token.
const SessionCookieName = "shortify_session"

// AuthMiddleware gives every browser a stable client id through a signed cookie.
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates an AuthMiddleware with the provided JWT service.
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Session ensures a client id is present, issuing a token and cookie if needed.
func (a *AuthMiddleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var clientID string

		cookie, err := r.Cookie(SessionCookieName)
		if err == nil {
			claims, err := a.jwtService.ValidateToken(cookie.Value)
			if err == nil {
				clientID = claims.ClientID
			} else {
				log.Debug().Err(err).Msg("Invalid session token, starting new session")
			}
		}

		if clientID == "" {
			newClientID := a.jwtService.NewClientID()

			token, err := a.jwtService.GenerateToken(newClientID)
			if err != nil {
				log.Error().Err(err).Msg("Failed to generate session token")
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(a.jwtService.TTL().Seconds()),
			})

			clientID = newClientID
			log.Debug().Str("client_id", clientID).Msg("Started new session")
		}

		next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), clientID)))
	})
}

// WithClientID stores clientID in ctx.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ClientIDKey, clientID)
}

// GetClientIDFromContext extracts the client id from context.
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(ClientIDKey).(string)
	return clientID, ok && clientID != ""
}
