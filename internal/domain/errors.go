package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso agregan detalle con fmt.Errorf("%w: ...") y los adaptadores
// los distinguen con errors.Is.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrMaterialsNotFound  = errors.New("algunos materiales para la producción no existen")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrOrderNotEditable   = errors.New("la orden de producción no se puede editar")
	ErrMissingClient      = errors.New("no se puede registrar una venta sin un cliente")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
)
