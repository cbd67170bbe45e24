package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

const (
	minDescription = 20
	maxDescription = 300
)

// StockMovementUseCase cargas y descargas manuales de stock (fuera del ciclo de las órdenes).
// Cada movimiento bloquea la fila del producto (SELECT FOR UPDATE), ajusta la existencia
// y registra una fila de historial en la misma transacción. Nunca toca la existencia reservada.
type StockMovementUseCase struct {
	txRunner     TxRunner
	clientRepo   repository.ClientRepository
	providerRepo repository.ProviderRepository
	now          func() time.Time
	log          *logger.Logger
}

// NewStockMovementUseCase construye el caso de uso. Si now es nil usa time.Now.
func NewStockMovementUseCase(
	txRunner TxRunner,
	clientRepo repository.ClientRepository,
	providerRepo repository.ProviderRepository,
	now func() time.Time,
	log *logger.Logger,
) *StockMovementUseCase {
	if now == nil {
		now = time.Now
	}
	return &StockMovementUseCase{
		txRunner:     txRunner,
		clientRepo:   clientRepo,
		providerRepo: providerRepo,
		now:          now,
		log:          log,
	}
}

// movementInput entrada común de carga y descarga ya validada.
type movementInput struct {
	productID   string
	quantity    decimal.Decimal // siempre > 0
	sign        int             // +1 carga, -1 descarga
	action      entity.HistorialAction
	description string
	clientID    *string
	providerID  *string
}

// Charge suma quantity a la existencia del producto (acciones INGRESO o VARIOS).
func (uc *StockMovementUseCase) Charge(ctx context.Context, productID string, in dto.ChargeRequest) (*dto.StockMovementResponse, error) {
	action, err := parseAction(in.Action, entity.ChargeActions)
	if err != nil {
		return nil, err
	}
	if err := validateMovement(in.Quantity, in.Description); err != nil {
		return nil, err
	}
	providerID := optionalID(in.ProviderID)
	if providerID != nil {
		p, err := uc.providerRepo.GetByID(ctx, *providerID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, *providerID)
		}
	}
	return uc.register(ctx, movementInput{
		productID:   productID,
		quantity:    in.Quantity,
		sign:        1,
		action:      action,
		description: strings.TrimSpace(in.Description),
		providerID:  providerID,
	})
}

// Discharge resta quantity de la existencia libre del producto (acciones EGRESO, VENTA o VARIOS).
// VENTA exige cliente (ErrMissingClient). No se puede descargar stock reservado por órdenes abiertas.
func (uc *StockMovementUseCase) Discharge(ctx context.Context, productID string, in dto.DischargeRequest) (*dto.StockMovementResponse, error) {
	action, err := parseAction(in.Action, entity.DischargeActions)
	if err != nil {
		return nil, err
	}
	if err := validateMovement(in.Quantity, in.Description); err != nil {
		return nil, err
	}
	clientID := optionalID(in.ClientID)
	if action == entity.ActionVenta && clientID == nil {
		return nil, fmt.Errorf("%w: la acción VENTA requiere un cliente", domain.ErrMissingClient)
	}
	if clientID != nil {
		c, err := uc.clientRepo.GetByID(ctx, *clientID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, *clientID)
		}
	}
	return uc.register(ctx, movementInput{
		productID:   productID,
		quantity:    in.Quantity,
		sign:        -1,
		action:      action,
		description: strings.TrimSpace(in.Description),
		clientID:    clientID,
	})
}

// ChargeActions acciones válidas para cargas.
func (uc *StockMovementUseCase) ChargeActions() []dto.ActionResponse {
	return dto.ToActionResponses(entity.ChargeActions)
}

// DischargeActions acciones válidas para descargas.
func (uc *StockMovementUseCase) DischargeActions() []dto.ActionResponse {
	return dto.ToActionResponses(entity.DischargeActions)
}

// register bloquea la fila del producto, verifica la existencia libre en descargas,
// aplica el ajuste y guarda la fila de historial. Commit o Rollback lo hace TxRunner.Run.
func (uc *StockMovementUseCase) register(ctx context.Context, in movementInput) (*dto.StockMovementResponse, error) {
	now := uc.now()
	var (
		product *entity.Product
		entry   *entity.Historial
	)
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.ProductionOrderRepository,
		historialRepo repository.HistorialRepository,
	) error {
		locked, err := productRepo.GetForUpdate(ctx, []string{in.productID})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.productID)
		}
		p := locked[0]
		delta := in.quantity
		if in.sign < 0 {
			if p.Disponible().LessThan(in.quantity) {
				return fmt.Errorf("%w: el producto %s tiene %s disponible (existencia %s, reservada %s) y se solicitan %s",
					domain.ErrInsufficientStock, p.Label(), p.Disponible(), p.Existencia, p.ExistenciaReservada, in.quantity)
			}
			delta = in.quantity.Neg()
		}
		updated, err := productRepo.AdjustStock(ctx, p.ID, delta, decimal.Zero)
		if err != nil {
			return err
		}
		product = updated
		entry = &entity.Historial{
			ID:          uuid.New().String(),
			Action:      in.action,
			Cantidad:    in.quantity,
			Description: in.description,
			ProductID:   &updated.ID,
			ClientID:    in.clientID,
			ProviderID:  in.providerID,
			CreatedAt:   now,
		}
		return historialRepo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", product.ID).
		Str("action", in.action.Key()).
		Str("cantidad", in.quantity.String()).
		Str("existencia", product.Existencia.String()).
		Msg("movimiento de stock registrado")
	return &dto.StockMovementResponse{
		Product:   *dto.ToProductResponse(product, nil, nil),
		Historial: dto.ToHistorialResponse(entry),
	}, nil
}

func parseAction(s string, allowed []entity.HistorialAction) (entity.HistorialAction, error) {
	action, err := entity.ParseHistorialAction(s)
	if err != nil {
		return "", err
	}
	if !action.In(allowed) {
		keys := make([]string, 0, len(allowed))
		for _, a := range allowed {
			keys = append(keys, a.Key())
		}
		return "", fmt.Errorf("%w: acción %s no permitida. Los valores válidos son: %s",
			domain.ErrInvalidInput, action.Key(), strings.Join(keys, ", "))
	}
	return action, nil
}

func validateMovement(qty decimal.Decimal, description string) error {
	if !qty.IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if !entity.FitsQuantityScale(qty) {
		return fmt.Errorf("%w: la cantidad admite hasta %d decimales", domain.ErrInvalidInput, entity.QuantityScale)
	}
	n := utf8.RuneCountInString(strings.TrimSpace(description))
	if n < minDescription || n > maxDescription {
		return fmt.Errorf("%w: la descripción debe tener entre %d y %d caracteres", domain.ErrInvalidInput, minDescription, maxDescription)
	}
	return nil
}

func optionalID(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	v := strings.TrimSpace(*id)
	return &v
}
