package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	. "github.com/ajuagency/collegia/apps/api/echo"
	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/core/agency"
	"github.com/ajuagency/collegia/core/catalog"
	"github.com/ajuagency/collegia/core/user"
	emailsvc "github.com/ajuagency/collegia/services/email"
	logsvc "github.com/ajuagency/collegia/services/logger"
	"github.com/ajuagency/collegia/storage/database"
	gormrepos "github.com/ajuagency/collegia/storage/database/gorm"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

var (
	db   *gorm.DB
	app  Server
	conf *core.Config

	usrRepo    user.Repository
	agencyRepo agency.Repository
	agencySvc  *agency.Service
	mailMock   *emailsvc.ServiceMock

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	var err error

	conf = &core.Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "Collegia",
		SecretKey:        "secret",
		DefaultFromName:  "Aju Agency",
		DefaultFromEmail: "noreply@ajuagency.in",
		Server:           core.ServerConfig{JWTExpirationDelta: time.Hour},
	}

	// set up DB & repos
	db, err = gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		fmt.Printf("gorm.Open(): %v", err)
		os.Exit(1)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err = database.Migrate(db); err != nil {
		fmt.Printf("database.Migrate(): %v", err)
		os.Exit(1)
	}
	usrRepo = gormrepos.NewUserRepository(db)
	agencyRepo = gormrepos.NewAgencyRepository(db)

	// set up validators
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	// set up services
	mailMock = emailsvc.NewServiceMock()
	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	usrSvc := user.NewService(usrRepo)
	catalogSvc := catalog.NewService(gormrepos.NewCatalogRepository(db))
	agencySvc = agency.NewService(agencyRepo, catalogSvc, mailMock, conf, logger)

	// set up server
	app = NewServer(
		&Options{
			DisableReqLogs: true,
			Conf:           conf,
			Logger:         logger,
			Validate:       validate,
			Translator:     translator,
			UserSvc:        usrSvc,
			CatalogSvc:     catalogSvc,
			AgencySvc:      agencySvc,
		},
	)

	// run tests
	code := m.Run()

	database.Close(db)
	os.Exit(code)
}

// resetDB wipes all rows; the schema stays.
func resetDB(t *testing.T) {
	t.Helper()
	for _, table := range []string{
		"inquiries", "agent_profiles", "college_reviews", "courses", "colleges", "users", "facilities",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("resetDB(%s): %v", table, err)
		}
	}
	mailMock.Reset()
}

type httpErr struct {
	Error string `json:"error"`
}

type actionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// newFormRequest simulates a browser form submission. Pass structured=true to
// request a machine-readable response instead of a redirect.
func newFormRequest(method, path, token string, form url.Values, structured bool) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if structured {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(conf, GetUserClaims(conf, usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decodeBody(): %v; body: %s", err, rec.Body.String())
	}
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("code = %v, want %v; body: %s", rec.Code, want, rec.Body.String())
	}
}
