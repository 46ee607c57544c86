package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/core/agency"
	"github.com/ajuagency/collegia/core/catalog"
)

// ordering fields accepted on the college list endpoint
var collegeOrderingFields = map[string]bool{
	"name":                 true,
	"overall_rating":       true,
	"placement_percentage": true,
	"average_package":      true,
	"nirf_rank":            true,
}

type catalogApi struct {
	svc       *catalog.Service
	agencySvc *agency.Service
}

func registerCatalogAPI(e *echo.Echo, svc *catalog.Service, agencySvc *agency.Service) {
	api := catalogApi{svc: svc, agencySvc: agencySvc}

	e.GET("/", api.home)
	e.GET("/colleges", api.query)
	e.GET("/colleges/:id", api.retrieve)
	e.GET("/courses", api.queryCourses)
	e.GET("/stats", api.stats)
}

// Handlers

func (api *catalogApi) home(ctx echo.Context) error {
	colleges, err := api.svc.CountActive(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting colleges")
	}
	inquiries, err := api.agencySvc.CountInquiries(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting inquiries")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"total_colleges":  colleges,
		"total_inquiries": inquiries,
	})
}

func (api *catalogApi) query(ctx echo.Context) error {
	var filter catalog.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	var ord Ordering
	ord.Bind(ctx)
	orderings := make([]core.DBOrdering, 0, len(ord.Orderings))
	for _, o := range ord.Orderings {
		if collegeOrderingFields[o.Field] {
			orderings = append(orderings, o)
		}
	}

	colleges, err := api.svc.Query(ctx.Request().Context(), &filter, orderings)
	if err != nil {
		return errors.Wrap(err, "querying colleges")
	}
	return ctx.JSON(http.StatusOK, colleges)
}

func (api *catalogApi) retrieve(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return errHttpNotFound
	}
	college, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, college)
}

func (api *catalogApi) queryCourses(ctx echo.Context) error {
	var collegeID uint
	if raw := ctx.QueryParam("college_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid college_id")
		}
		collegeID = uint(id)
	}
	courses, err := api.svc.Courses(ctx.Request().Context(), collegeID)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *catalogApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "aggregating college stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func parseUintParam(ctx echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
