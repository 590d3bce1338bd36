package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/service"
)

const profileCookie = "profile"

type contextKey string

const (
	profileContextKey contextKey = "profile"
	sessionContextKey contextKey = "session"
)

// ProfileFromContext returns the profile resolved by WithProfile.
func ProfileFromContext(ctx context.Context) domain.ProfileID {
	p, _ := ctx.Value(profileContextKey).(domain.ProfileID)
	return p
}

// SessionFromContext returns the signed-in session, or nil when the
// profile is signed out.
func SessionFromContext(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(sessionContextKey).(*domain.Session)
	return s
}

// WithProfile resolves the request's profile from its signed cookie,
// issuing a fresh profile when the cookie is missing or invalid, and loads
// that profile's session into the context.
func WithProfile(tokens *service.ProfileTokens, accounts *service.AccountService, cookieSecure bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, ok := profileFromCookie(r, tokens)
		if !ok {
			profile = tokens.NewProfile()
			token, err := tokens.Issue(profile)
			if err != nil {
				slog.Error("issue profile token", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     profileCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   cookieSecure,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(service.ProfileTokenTTL.Seconds()),
			})
		}

		session, err := accounts.CurrentUser(r.Context(), profile)
		if err != nil {
			slog.Error("load session", "profile", profile, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), profileContextKey, profile)
		if session != nil {
			ctx = context.WithValue(ctx, sessionContextKey, session)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func profileFromCookie(r *http.Request, tokens *service.ProfileTokens) (domain.ProfileID, bool) {
	cookie, err := r.Cookie(profileCookie)
	if err != nil {
		return "", false
	}
	profile, err := tokens.Parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return profile, true
}

// RateLimit rejects requests with 429 once the client IP's bucket is empty.
func RateLimit(limiter *service.TokenBucket, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "2")
			writeError(w, http.StatusTooManyRequests, "Too many attempts. Please wait and try again.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SecurityHeaders sets conservative browser security headers on every
// response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
