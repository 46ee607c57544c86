package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/core/agency"
	"github.com/ajuagency/collegia/core/catalog"
	"github.com/ajuagency/collegia/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc    *user.Service
		CatalogSvc *catalog.Service
		AgencySvc  *agency.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(
		s.opts.Logger,
		func(fe validator.FieldError) string { return fe.Translate(s.opts.Translator) },
		func() { _ = s.Stop(context.Background()) },
	)
	s.app.Debug = conf.Debug

	jwt := middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	})

	registerCatalogAPI(s.app, s.opts.CatalogSvc, s.opts.AgencySvc)
	registerUserAPI(s.app, jwt, s.opts)
	registerAgencyAPI(s.app, jwt, s.opts)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
