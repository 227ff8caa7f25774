package controllers

import (
	"github.com/fixmyward/fixmyward/internal/pkg/reporting"
	"github.com/fixmyward/fixmyward/internal/pkg/wards"
	"github.com/gofiber/fiber/v2"
)

// WardController serves the ward directory.
type WardController struct {
	wards   *wards.Directory
	reports *reporting.Service
}

func NewWardController(directory *wards.Directory, reports *reporting.Service) *WardController {
	return &WardController{wards: directory, reports: reports}
}

// HandleList returns all wards.
func (ctl *WardController) HandleList(c *fiber.Ctx) error {
	list, err := ctl.wards.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// HandleGet returns one ward with its report counts.
func (ctl *WardController) HandleGet(c *fiber.Ctx) error {
	ward, err := ctl.wards.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	summary, err := ctl.reports.WardSummary(c.UserContext(), ward.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"ward":    ward,
		"summary": summary,
	})
}
