package echoapi

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/core/user"
)

const jwtContextKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"` // -> ADMIN PORTAL
}

func (c Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parsing claims subject")
	}
	return uint(id), nil
}

func GetUserClaims(conf *core.Config, usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    conf.AppName,
			Subject:   strconv.FormatUint(uint64(usr.ID), 10),
			Audience:  "Agents",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:    usr.Name,
		Email:   usr.Email,
		IsAdmin: usr.IsAdmin,
	}
}

func authenticate(ctx echo.Context, email, pwd string, svc *user.Service) (user.User, error) {
	usr, err := svc.GetByEmail(ctx.Request().Context(), email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errAuthenticationFailed
		}
		return user.User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return user.User{}, errAuthenticationFailed
	}
	if !usr.IsActive {
		return user.User{}, errAccountDeactivated
	}
	usr, err = svc.SetLastLogin(ctx.Request().Context(), usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "setting lastLogin")
	}
	return usr, nil
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUserID(ctx echo.Context) (uint, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return 0, err
	}
	return claims.UserID()
}
