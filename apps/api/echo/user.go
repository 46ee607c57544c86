package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/core/agency"
	"github.com/ajuagency/collegia/core/user"
)

type userApi struct {
	svc       *user.Service
	agencySvc *agency.Service
	conf      *core.Config
	validate  *validator.Validate
}

func registerUserAPI(e *echo.Echo, jwt echo.MiddlewareFunc, opts *Options) {
	api := userApi{
		svc:       opts.UserSvc,
		agencySvc: opts.AgencySvc,
		conf:      opts.Conf,
		validate:  opts.Validate,
	}

	ug := e.Group("/users")
	ug.POST("/login", api.login)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.POST("/register", api.create, adminMiddleware())
}

type (
	LoginRequest struct {
		Email    string `json:"email" form:"email" validate:"required,email"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)

func (r *LoginRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := authenticate(ctx, data.Email, data.Password, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

// create registers a new staff account. The default agent profile is created
// here as an explicit step so the dashboard subsystem carries no hidden
// coupling to account creation.
func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	if _, err := api.agencySvc.CreateDefaultProfile(ctx.Request().Context(), usr.ID); err != nil {
		return errors.Wrap(err, "creating default agent profile")
	}

	return ctx.JSON(http.StatusCreated, usr)
}
