package http

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

var validate = validator.New()

func init() {
	// decimal.Decimal se valida como número (gt=0, min=0).
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// errorMapping código HTTP y código de error por error de dominio.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrMaterialsNotFound, fiber.StatusNotFound, "MATERIALS_NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusUnprocessableEntity, "VALIDATION"},
	{domain.ErrMissingClient, fiber.StatusUnprocessableEntity, "MISSING_CLIENT"},
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
	{domain.ErrInvalidTransition, fiber.StatusBadRequest, "INVALID_TRANSITION"},
	{domain.ErrOrderNotEditable, fiber.StatusBadRequest, "ORDER_NOT_EDITABLE"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeError traduce un error de los casos de uso a la respuesta HTTP.
// Los errores no reconocidos se registran y devuelven 500 sin detalle interno.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	if log != nil {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// bindAndValidate parsea el body JSON y aplica las etiquetas validate.
// Si falla escribe la respuesta y devuelve false; el handler debe retornar sin escribir otra.
func bindAndValidate(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido: " + err.Error()})
	}
	return validateStruct(c, req)
}

// bindQuery parsea y valida los query params.
func bindQuery(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.QueryParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos: " + err.Error()})
	}
	return validateStruct(c, req)
}

func validateStruct(c *fiber.Ctx, req interface{}) (bool, error) {
	err := validate.Struct(req)
	if err == nil {
		return true, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return false, c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: "datos inválidos",
		Fields:  fields,
	})
}

// validateID rechaza ids de ruta que no son UUID.
func validateID(c *fiber.Ctx) (string, bool, error) {
	id := c.Params("id")
	if err := validate.Var(id, "required,uuid"); err != nil {
		return "", false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	return id, true, nil
}
