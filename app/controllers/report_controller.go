package controllers

import (
	"errors"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/fixmyward/fixmyward/app/repository"
	"github.com/fixmyward/fixmyward/internal/pkg/apperror"
	"github.com/fixmyward/fixmyward/internal/pkg/reporting"
	"github.com/fixmyward/fixmyward/internal/pkg/upload"
	"github.com/fixmyward/fixmyward/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

// ReportController serves the report API.
type ReportController struct {
	reports *reporting.Service
}

func NewReportController(reports *reporting.Service) *ReportController {
	return &ReportController{reports: reports}
}

// readSubmission accepts either a multipart form with an "image" file or a JSON body with a data URI.
func readSubmission(c *fiber.Ctx) (reporting.Submission, error) {
	var req SubmitReportRequest
	var img *upload.Image

	if isMultipart(c) {
		req.Description = c.FormValue("description")
		if err := validateRequest(&req); err != nil {
			return reporting.Submission{}, err
		}
		fh, err := c.FormFile("image")
		if err != nil {
			return reporting.Submission{}, apperror.Validation("image is required")
		}
		if img, err = upload.FromMultipart(fh); err != nil {
			return reporting.Submission{}, err
		}
	} else {
		if err := parseRequest(c, &req); err != nil {
			return reporting.Submission{}, err
		}
		var err error
		if img, err = upload.FromDataURI(req.Image); err != nil {
			return reporting.Submission{}, err
		}
	}

	return reporting.Submission{Description: req.Description, Image: img}, nil
}

// redactFor hides submitter contact details from anyone but a councillor.
func redactFor(u usercontext.UserContext, reports []models.Report) {
	if u.IsCouncillor() {
		return
	}
	for i := range reports {
		reports[i].SubmitterPhone = ""
	}
}

// HandleSubmit screens and stores a citizen's report.
func (ctl *ReportController) HandleSubmit(c *fiber.Ctx) error {
	sub, err := readSubmission(c)
	if err != nil {
		return respondError(c, err)
	}

	u := usercontext.GetUserContext(c)
	result, err := ctl.reports.Submit(c.UserContext(), u.Account(), sub)
	if errors.Is(err, apperror.ErrRejected) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":    string(apperror.KindRejected),
			"message":  result.Verdict.Reason,
			"category": result.Verdict.Category,
		})
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result.Report)
}

// HandleList lists reports. Without filters it returns the caller's ward feed.
// Only councillors may list another account's reports, and then only within their own ward.
func (ctl *ReportController) HandleList(c *fiber.Ctx) error {
	u := usercontext.GetUserContext(c)
	filter := repository.ReportFilter{
		WardID: c.Query("wardId"),
		Status: c.Query("status"),
	}

	if userID := c.Query("userId"); userID != "" {
		if userID != u.AccountID {
			if !u.IsCouncillor() {
				return errorJSON(c, fiber.StatusForbidden, string(apperror.KindForbidden), "you can only list your own reports")
			}
			filter.WardID = u.WardID
		}
		filter.SubmitterID = userID
	}
	if filter.WardID == "" && filter.SubmitterID == "" {
		filter.WardID = u.WardID
	}

	reports, err := ctl.reports.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	redactFor(u, reports)
	return c.JSON(reports)
}

// HandleGet returns a single report.
func (ctl *ReportController) HandleGet(c *fiber.Ctx) error {
	report, err := ctl.reports.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if !usercontext.GetUserContext(c).IsCouncillor() {
		report.SubmitterPhone = ""
	}
	return c.JSON(report)
}

// HandleVerify marks a report verified on behalf of the ward's councillor.
func (ctl *ReportController) HandleVerify(c *fiber.Ctx) error {
	u := usercontext.GetUserContext(c)
	report, err := ctl.reports.Verify(c.UserContext(), u.Account(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
