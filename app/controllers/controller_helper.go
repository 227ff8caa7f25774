package controllers

import (
	"strings"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/gofiber/fiber/v2"
)

func toAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:     a.ID,
		Name:   a.Name,
		Phone:  a.Phone,
		Role:   a.Role,
		WardID: a.WardID,
	}
}

// GetClientIP determines the client IP address considering Cloudflare and standard proxy headers
func GetClientIP(c *fiber.Ctx) string {
	if cfIP := strings.TrimSpace(c.Get("CF-Connecting-IP")); cfIP != "" {
		return cfIP
	}
	// X-Forwarded-For can contain a list of IPs - the first one is the original client IP
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return c.IP()
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}
