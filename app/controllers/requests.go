package controllers

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fixmyward/fixmyward/internal/pkg/apperror"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// SignupRequest is the body of POST /api/auth/signup and the web signup form.
type SignupRequest struct {
	Name     string `json:"name" form:"name" validate:"required,min=2,max=150"`
	Phone    string `json:"phone" form:"phone" validate:"required,min=4,max=20"`
	Password string `json:"password" form:"password" validate:"required,min=4,max=72"`
	Role     string `json:"role" form:"role" validate:"required,oneof=citizen councillor"`
	WardID   string `json:"wardId" form:"wardId" validate:"required,max=16"`
}

// LoginRequest is the body of POST /api/auth/login and the web login form.
type LoginRequest struct {
	Phone    string `json:"phone" form:"phone" validate:"required,max=20"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
	Role     string `json:"role" form:"role" validate:"required,oneof=citizen councillor"`
}

// SubmitReportRequest is the JSON body of POST /api/reports. Image is a data URI or bare base64.
type SubmitReportRequest struct {
	Description string `json:"description" form:"description" validate:"required,max=2000"`
	Image       string `json:"image" form:"-"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	WardID string `json:"wardId"`
}

// parseRequest decodes the body into req and validates it.
func parseRequest(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperror.Validation("malformed request body")
	}
	return validateRequest(req)
}

func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.Validation(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperror.Validation(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
