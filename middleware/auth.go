// Package middleware holds the echo stages that run before a handler (the
// auth guard and body validation) and the error handler that ends every
// failed request.
package middleware

import (
	"errors"
	"strings"

	"github.com/Maxbrain0/echo_posts/apperr"
	"github.com/Maxbrain0/echo_posts/logger"
	"github.com/Maxbrain0/echo_posts/store"
	"github.com/Maxbrain0/echo_posts/util"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNoCredential               = errors.New("no token cookie or authorization header")
	ErrInvalidAuthorizationHeader = errors.New("authorization header is not a bearer token")
	ErrInvalidUserID              = errors.New("token does not carry a valid user id")
)

// Claims is the payload of tokens issued by the credential service.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Guard resolves the caller of a request from an HS256 token, read from the
// cookie named CookieName or else from an "Authorization: Bearer" header.
type Guard struct {
	Secret     []byte
	CookieName string
	Users      store.UserStore
}

// Authenticate is route middleware. On success the full caller is available
// through util.CurrentUser.
func (g *Guard) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := g.credential(c)
		if err != nil {
			return apperr.Unauthenticated("authentication required", err)
		}

		claims, err := g.parse(raw)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return apperr.Unauthenticated("token expired", err)
			}
			return apperr.Unauthenticated("invalid token", err)
		}

		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return apperr.Unauthenticated("invalid token", ErrInvalidUserID)
		}

		user, err := g.Users.FindByID(c.Request().Context(), id)
		if err != nil {
			// a verified token for a deleted user is still a bad credential
			if errors.Is(err, store.ErrNotFound) {
				return apperr.Unauthenticated("unknown user", err)
			}
			return apperr.Persistence("resolve caller", err)
		}

		logger.FromEcho(c).Debug().Str("user_id", id.Hex()).Msg("caller authenticated")
		util.SetCurrentUser(c, user)
		return next(c)
	}
}

func (g *Guard) credential(c echo.Context) (string, error) {
	if cookie, err := c.Cookie(g.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", ErrNoCredential
	}
	return tokenFromHeader(header)
}

func tokenFromHeader(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidAuthorizationHeader
	}
	return token, nil
}

func (g *Guard) parse(raw string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return g.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

