package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ArgumentError reports a request argument that could not be parsed.
type ArgumentError struct {
	Param string
	Value string
	Err   error
}

func (e *ArgumentError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %v", e.Param, e.Err)
	}
	return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Param, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// Violation is a single failed constraint.
type Violation struct {
	Field string
	Rule  string
	Param string
}

func (v Violation) String() string {
	switch v.Rule {
	case "min":
		return fmt.Sprintf("%s must be greater than or equal to %s", v.Field, v.Param)
	case "excludesall":
		return fmt.Sprintf("%s must not contain any of %q", v.Field, v.Param)
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", v.Field, v.Rule)
	}
}

// ValidationError reports parsed arguments that violate a constraint.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "; ")
}

// newValidationError converts validator output. Errors that are not
// validation failures are returned unchanged.
func newValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Violations: make([]Violation, 0, len(verrs))}
	for _, e := range verrs {
		out.Violations = append(out.Violations, Violation{Field: e.Field(), Rule: e.Tag(), Param: e.Param()})
	}
	return out
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ErrorHandler is the Fiber error handler shaping every failure into an
// ErrorEnvelope. Client input errors carry their message; everything else
// is reported as a 500 with the error name only.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		argErr   *ArgumentError
		valErr   *ValidationError
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &argErr):
		return writeError(c, fiber.StatusBadRequest, errorName(argErr), argErr.Error())
	case errors.As(err, &valErr):
		return writeError(c, fiber.StatusBadRequest, errorName(valErr), valErr.Error())
	case errors.As(err, &fiberErr):
		return writeError(c, fiberErr.Code, errorName(fiberErr), fiberErr.Message)
	}

	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", c.Locals("requestid"),
		"error", err,
	)
	return writeError(c, fiber.StatusInternalServerError, errorName(err), "")
}

func writeError(c *fiber.Ctx, status int, name, message string) error {
	return c.Status(status).JSON(ErrorEnvelope{
		Status:  status,
		Error:   name,
		Message: message,
	})
}

// errorName returns the type name of the first exported error type in err's
// chain, so wrapping with fmt.Errorf does not hide a typed error.
func errorName(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if name := typeName(e); name != "" && unicode.IsUpper(rune(name[0])) {
			return name
		}
	}
	return "Error"
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
