package controllers

import (
	"errors"
	"strings"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/fixmyward/fixmyward/internal/pkg/accounts"
	"github.com/fixmyward/fixmyward/internal/pkg/apperror"
	"github.com/fixmyward/fixmyward/internal/pkg/hcaptcha"
	"github.com/fixmyward/fixmyward/internal/pkg/reporting"
	"github.com/fixmyward/fixmyward/internal/pkg/session"
	"github.com/fixmyward/fixmyward/internal/pkg/upload"
	"github.com/fixmyward/fixmyward/internal/pkg/usercontext"
	"github.com/fixmyward/fixmyward/internal/pkg/wards"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/sujit-baniya/flash"
)

const layout = "layouts/main"

// WebController renders the server-side pages.
type WebController struct {
	accounts *accounts.Service
	reports  *reporting.Service
	wards    *wards.Directory
	sessions *fibersession.Store
	captcha  *hcaptcha.Verifier
}

func NewWebController(
	accountService *accounts.Service,
	reports *reporting.Service,
	directory *wards.Directory,
	sessions *fibersession.Store,
	captcha *hcaptcha.Verifier,
) *WebController {
	return &WebController{
		accounts: accountService,
		reports:  reports,
		wards:    directory,
		sessions: sessions,
		captcha:  captcha,
	}
}

// page builds the data every template receives.
func (ctl *WebController) page(c *fiber.Ctx, title string) fiber.Map {
	csrfToken, _ := c.Locals("csrf").(string)
	return fiber.Map{
		"Title": title,
		"User":  usercontext.GetUserContext(c),
		"Flash": flash.Get(c),
		"CSRF":  csrfToken,
	}
}

func flashError(c *fiber.Ctx, err error, to string) error {
	fm := fiber.Map{
		"type":    "error",
		"message": apperror.MessageOf(err),
	}
	return flash.WithError(c, fm).Redirect(to)
}

func flashSuccess(c *fiber.Ctx, message, to string) error {
	fm := fiber.Map{
		"type":    "success",
		"message": message,
	}
	return flash.WithSuccess(c, fm).Redirect(to)
}

// HandleIndex renders the landing page with the ward list.
func (ctl *WebController) HandleIndex(c *fiber.Ctx) error {
	if usercontext.IsLoggedIn(c) {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	list, err := ctl.wards.List(c.UserContext())
	if err != nil {
		return err
	}
	data := ctl.page(c, "FixMyWard")
	data["Wards"] = list
	return c.Render("index", data, layout)
}

// HandleLoginForm renders the login page.
func (ctl *WebController) HandleLoginForm(c *fiber.Ctx) error {
	data := ctl.page(c, "Log in")
	data["Role"] = c.Query("role", models.ROLE_CITIZEN)
	return c.Render("login", data, layout)
}

// HandleLogin processes the login form.
func (ctl *WebController) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseRequest(c, &req); err != nil {
		return flashError(c, err, "/login")
	}

	account, err := ctl.accounts.Login(c.UserContext(), req.Phone, req.Password, req.Role)
	if err != nil {
		log.Infof("[Auth] Failed %s login from %s", req.Role, GetClientIP(c))
		return flashError(c, err, "/login?role="+req.Role)
	}

	if err := session.Start(c, ctl.sessions, account); err != nil {
		return flashError(c, apperror.Internal("something went wrong", err), "/login")
	}

	return flashSuccess(c, "Welcome back, "+account.Name+"!", "/dashboard")
}

// HandleSignupForm renders the signup page.
func (ctl *WebController) HandleSignupForm(c *fiber.Ctx) error {
	list, err := ctl.wards.List(c.UserContext())
	if err != nil {
		return err
	}
	data := ctl.page(c, "Sign up")
	data["Wards"] = list
	if ctl.captcha.Enabled() {
		data["CaptchaSiteKey"] = ctl.captcha.SiteKey
	}
	return c.Render("signup", data, layout)
}

// HandleSignup processes the signup form.
func (ctl *WebController) HandleSignup(c *fiber.Ctx) error {
	if err := ctl.captcha.Verify(c.UserContext(), c.FormValue("h-captcha-response")); err != nil {
		log.Warnf("[Auth] Captcha failed from %s: %v", GetClientIP(c), err)
		return flashError(c, apperror.Validation("please complete the captcha"), "/signup")
	}

	var req SignupRequest
	if err := parseRequest(c, &req); err != nil {
		return flashError(c, err, "/signup")
	}

	account, err := ctl.accounts.Signup(c.UserContext(), accounts.SignupInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
		WardID:   req.WardID,
	})
	if err != nil {
		return flashError(c, err, "/signup")
	}

	if err := session.Start(c, ctl.sessions, account); err != nil {
		return flashError(c, apperror.Internal("something went wrong", err), "/login")
	}

	return flashSuccess(c, "Welcome to FixMyWard, "+account.Name+"!", "/dashboard")
}

// HandleLogout ends the session.
func (ctl *WebController) HandleLogout(c *fiber.Ctx) error {
	if err := session.End(c, ctl.sessions); err != nil {
		return flashError(c, apperror.Internal("something went wrong", err), "/")
	}
	return flashSuccess(c, "You have been logged out.", "/login")
}

// HandleDashboard renders the role-specific dashboard.
func (ctl *WebController) HandleDashboard(c *fiber.Ctx) error {
	u := usercontext.GetUserContext(c)
	ctx := c.UserContext()

	ward, err := ctl.wards.Get(ctx, u.WardID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return err
	}

	data := ctl.page(c, "Dashboard")
	data["Ward"] = ward

	if u.IsCouncillor() {
		status := strings.ToUpper(c.Query("status", models.ReportStatusPending))
		if status != models.ReportStatusVerified {
			status = models.ReportStatusPending
		}
		list, err := ctl.reports.ListByWard(ctx, u.WardID, status)
		if err != nil {
			return err
		}
		summary, err := ctl.reports.WardSummary(ctx, u.WardID)
		if err != nil {
			return err
		}
		data["Status"] = status
		data["Reports"] = list
		data["Summary"] = summary
		return c.Render("councillor", data, layout)
	}

	mine, err := ctl.reports.ListBySubmitter(ctx, u.AccountID)
	if err != nil {
		return err
	}
	filed, err := ctl.reports.CountBySubmitter(ctx, u.AccountID)
	if err != nil {
		return err
	}
	feed, err := ctl.reports.ListByWard(ctx, u.WardID, "")
	if err != nil {
		return err
	}
	data["MyReports"] = mine
	data["MyReportCount"] = filed
	data["Feed"] = feed
	return c.Render("citizen", data, layout)
}

// HandleSubmitReport processes the citizen report form.
func (ctl *WebController) HandleSubmitReport(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return flashError(c, apperror.Validation("please attach a photo"), "/dashboard")
	}
	img, err := upload.FromMultipart(fh)
	if err != nil {
		return flashError(c, err, "/dashboard")
	}

	u := usercontext.GetUserContext(c)
	result, err := ctl.reports.Submit(c.UserContext(), u.Account(), reporting.Submission{
		Description: c.FormValue("description"),
		Image:       img,
	})
	if err != nil {
		return flashError(c, err, "/dashboard")
	}

	return flashSuccess(c, "Report "+result.Report.Reference+" submitted: "+result.Verdict.Reason, "/dashboard")
}

// HandleVerifyReport processes the councillor verify button.
func (ctl *WebController) HandleVerifyReport(c *fiber.Ctx) error {
	u := usercontext.GetUserContext(c)
	report, err := ctl.reports.Verify(c.UserContext(), u.Account(), c.Params("id"))
	if err != nil {
		return flashError(c, err, "/dashboard")
	}
	return flashSuccess(c, "Report "+report.Reference+" marked as verified.", "/dashboard?status=PENDING")
}
