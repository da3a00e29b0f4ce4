/*
auth.go - Bearer-token authentication middleware

PURPOSE:
  Resolves the calling user before any handler runs. Two credential kinds
  share the Authorization header:
    1. JWT bearer tokens (HS256), subject = user id - issued by the
       identity provider in production, by IssueToken in development
    2. Personal access tokens - opaque values stored in the database,
       used by scripts and integrations

RESOLUTION ORDER:
  A credential that parses as a JWT is treated as one; anything else is
  looked up as a personal access token. Unknown or expired credentials
  yield 401 without reaching a handler.

SEE ALSO:
  - handlers.go: reads the authenticated user from the request context
  - store/sqlite: token storage and lookup
*/
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SSotonass/alvtime/timesheet"
)

type contextKey string

const userContextKey contextKey = "user"

// Authenticator resolves Authorization headers into users.
type Authenticator struct {
	Secret []byte
	Users  timesheet.UserStore
}

// Middleware rejects unauthenticated requests with 401 and stores the
// resolved user in the request context for handlers.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
			return
		}
		credential := strings.TrimPrefix(header, "Bearer ")

		user, err := a.resolve(r.Context(), credential)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), userContextKey, user)))
	})
}

func (a *Authenticator) resolve(ctx context.Context, credential string) (timesheet.User, error) {
	if userID, err := a.parseJWT(credential); err == nil {
		return a.Users.UserByID(ctx, userID)
	}
	// not a JWT; try it as a personal access token
	return a.Users.UserByAccessToken(ctx, credential)
}

func (a *Authenticator) parseJWT(credential string) (int, error) {
	token, err := jwt.Parse(credential, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.Secret, nil
	})
	if err != nil {
		return 0, err
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(subject)
}

// IssueToken mints a signed JWT for the user. Development convenience;
// production tokens come from the identity provider.
func (a *Authenticator) IssueToken(userID int, lifetime time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.Secret)
}

// userFrom returns the authenticated user stored by the middleware.
func userFrom(r *http.Request) timesheet.User {
	user, _ := r.Context().Value(userContextKey).(timesheet.User)
	return user
}
