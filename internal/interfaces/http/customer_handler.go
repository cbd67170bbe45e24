package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// ClientHandler maneja las peticiones HTTP de clientes.
type ClientHandler struct {
	uc  *usecase.ClientUseCase
	log *logger.Logger
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *usecase.ClientUseCase, log *logger.Logger) *ClientHandler {
	return &ClientHandler{uc: uc, log: log}
}

// Create POST /api/v1/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/v1/clients?name=&limit=20&offset=0
func (h *ClientHandler) List(c *fiber.Ctx) error {
	var q dto.NameListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/v1/clients/:id
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	var in dto.UpdateClientRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/v1/clients/:id (lógico)
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ProviderHandler maneja las peticiones HTTP de proveedores.
type ProviderHandler struct {
	uc  *usecase.ProviderUseCase
	log *logger.Logger
}

// NewProviderHandler construye el handler.
func NewProviderHandler(uc *usecase.ProviderUseCase, log *logger.Logger) *ProviderHandler {
	return &ProviderHandler{uc: uc, log: log}
}

// Create POST /api/v1/providers
func (h *ProviderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProviderRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/v1/providers?name=&limit=20&offset=0
func (h *ProviderHandler) List(c *fiber.Ctx) error {
	var q dto.NameListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/v1/providers/:id
func (h *ProviderHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update PUT /api/v1/providers/:id
func (h *ProviderHandler) Update(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	var in dto.UpdateProviderRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/v1/providers/:id (lógico)
func (h *ProviderHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
