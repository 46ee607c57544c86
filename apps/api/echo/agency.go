package echoapi

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/core/agency"
)

// action markers; a submission carries exactly one
const (
	actionUpdateConfig = "update_config"
	actionUpdateStatus = "update_status"
	actionSendEmail    = "send_email"
)

type agencyApi struct {
	svc      *agency.Service
	validate *validator.Validate
}

func registerAgencyAPI(e *echo.Echo, jwt echo.MiddlewareFunc, opts *Options) {
	api := agencyApi{
		svc:      opts.AgencySvc,
		validate: opts.Validate,
	}

	// un-authed endpoint: anonymous visitors submit inquiries
	e.POST("/submit/:collegeID", api.submitInquiry)

	// staff endpoints
	dg := e.Group("/dashboard", jwt)
	dg.GET("", api.dashboard)
	dg.POST("", api.dashboardActions)

	ig := e.Group("/inquiry", jwt)
	ig.GET("/:id", api.inquiryDetail)
	ig.POST("/:id", api.inquiryActions)
}

type dashboardResponse struct {
	agency.Dashboard
	Message string `json:"message,omitempty"`
}

// Handlers

func (api *agencyApi) submitInquiry(ctx echo.Context) error {
	collegeID, err := parseUintParam(ctx, "collegeID")
	if err != nil {
		return errHttpNotFound
	}
	collegePath := "/colleges/" + strconv.FormatUint(uint64(collegeID), 10)

	var data agency.NewInquiry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInquiry")
	}
	if err := data.Validate(api.validate); err != nil {
		if isStructuredRequest(ctx) {
			return err
		}
		// plain form path redirects back without surfacing field errors
		return ctx.Redirect(http.StatusSeeOther, collegePath)
	}

	if _, err := api.svc.SubmitInquiry(ctx.Request().Context(), collegeID, data); err != nil {
		var vErr *core.ValidationError
		if errors.As(errors.Cause(err), &vErr) && !isStructuredRequest(ctx) {
			return ctx.Redirect(http.StatusSeeOther, collegePath)
		}
		return err
	}

	if isStructuredRequest(ctx) {
		return ctx.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Inquiry sent successfully!"})
	}
	setFlash(ctx, "Your inquiry has been sent! An agent will contact you soon.")
	return ctx.Redirect(http.StatusSeeOther, collegePath)
}

func (api *agencyApi) dashboard(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}
	dash, err := api.svc.Dashboard(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, dashboardResponse{Dashboard: dash, Message: popFlash(ctx)})
}

// dashboardActions dispatches exactly one action per submission, checked in
// fixed precedence order; a submission with no action marker falls through
// to the read path.
func (api *agencyApi) dashboardActions(ctx echo.Context) error {
	form, err := ctx.FormParams()
	if err != nil {
		return errors.Wrap(err, "parsing form")
	}

	switch {
	case hasFormKey(form, actionUpdateConfig):
		return api.updateConfig(ctx, form)
	case hasFormKey(form, actionUpdateStatus):
		return api.updateStatus(ctx, "/dashboard")
	case hasFormKey(form, actionSendEmail):
		return api.sendEmail(ctx, "/dashboard")
	default:
		return api.dashboard(ctx)
	}
}

func (api *agencyApi) inquiryDetail(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return errHttpNotFound
	}
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	inq, err := api.svc.GetInquiry(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	profile, err := api.svc.GetOrCreateProfile(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "getting agent profile")
	}
	prefill, err := api.svc.ResponsePrefill(ctx.Request().Context(), id, profile)
	if err != nil {
		return errors.Wrap(err, "building response prefill")
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"inquiry":    inq,
		"email_form": prefill,
		"message":    popFlash(ctx),
	})
}

func (api *agencyApi) inquiryActions(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return errHttpNotFound
	}
	detailPath := "/inquiry/" + strconv.FormatUint(uint64(id), 10)

	form, err := ctx.FormParams()
	if err != nil {
		return errors.Wrap(err, "parsing form")
	}

	switch {
	case hasFormKey(form, actionSendEmail):
		return api.sendEmail(ctx, detailPath)
	case hasFormKey(form, actionUpdateStatus):
		return api.updateStatus(ctx, detailPath)
	default:
		return api.inquiryDetail(ctx)
	}
}

// Actions

// updateConfig applies checkbox semantics: a toggle is true iff its control
// is present in the submitted payload.
func (api *agencyApi) updateConfig(ctx echo.Context, form url.Values) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	cfg := agency.DashboardConfig{
		ShowStats:   hasFormKey(form, "show_stats"),
		ShowRecent:  hasFormKey(form, "show_recent"),
		CompactView: hasFormKey(form, "compact_view"),
	}
	if _, err := api.svc.UpdateDashboardConfig(ctx.Request().Context(), userID, cfg); err != nil {
		return errors.Wrap(err, "updating dashboard config")
	}
	return respondAction(ctx, "/dashboard", "success", "Dashboard layout updated.")
}

func (api *agencyApi) updateStatus(ctx echo.Context, redirectTo string) error {
	var data agency.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	inq, err := api.svc.UpdateStatus(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondAction(ctx, redirectTo, "success", "Inquiry status updated to "+inq.Status)
}

func (api *agencyApi) sendEmail(ctx echo.Context, redirectTo string) error {
	var data agency.ResponseEmail
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResponseEmail")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	inq, err := api.svc.SendResponse(ctx.Request().Context(), data)
	if err != nil {
		var terr *core.TransportError
		if errors.As(errors.Cause(err), &terr) {
			// transport failure is recovered: the inquiry is left unmodified
			// and the error is surfaced to the caller
			return respondAction(ctx, redirectTo, "error", "Failed to send email: "+terr.Err.Error())
		}
		return err
	}
	return respondAction(ctx, redirectTo, "success", "Email sent successfully to "+inq.StudentName)
}

// helpers

func hasFormKey(form url.Values, key string) bool {
	_, ok := form[key]
	return ok
}

func respondAction(ctx echo.Context, redirectTo, status, msg string) error {
	if isStructuredRequest(ctx) {
		return ctx.JSON(http.StatusOK, echo.Map{"status": status, "message": msg})
	}
	setFlash(ctx, msg)
	return ctx.Redirect(http.StatusSeeOther, redirectTo)
}
