package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var (
	_ repository.ClientRepository   = (*ClientRepo)(nil)
	_ repository.ProviderRepository = (*ProviderRepo)(nil)
)

const clientColumns = `id, nombre_contacto, nombre_empresa, empresa_telefono, email_empresa, email_contacto,
	ci_rif, direccion_fiscal, created_at, updated_at, deleted_at`

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.NombreContacto, &c.NombreEmpresa, &c.EmpresaTelefono, &c.EmailEmpresa, &c.EmailContacto,
		&c.CiRif, &c.DireccionFiscal, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, nombre_contacto, nombre_empresa, empresa_telefono, email_empresa, email_contacto, ci_rif, direccion_fiscal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.NombreContacto, c.NombreEmpresa, c.EmpresaTelefono, c.EmailEmpresa, c.EmailContacto,
		c.CiRif, c.DireccionFiscal, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un cliente con ciRif %s", domain.ErrDuplicate, c.CiRif)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepo) getBy(ctx context.Context, column, value string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE `+column+` = $1 AND deleted_at IS NULL`, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// GetByID obtiene un cliente activo por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return r.getBy(ctx, "id", id)
}

// GetByCiRif obtiene un cliente activo por cédula/RIF.
func (r *ClientRepo) GetByCiRif(ctx context.Context, ciRif string) (*entity.Client, error) {
	return r.getBy(ctx, "ci_rif", ciRif)
}

// List lista clientes activos ordenados por nombre de empresa.
func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, int, error) {
	base := psql.Select(clientColumns).From("clients").Where("deleted_at IS NULL")
	if f.NombreEmpresa != "" {
		base = base.Where(squirrel.ILike{"nombre_empresa": likePattern(f.NombreEmpresa)})
	}
	total, err := count(ctx, r.q, base)
	if err != nil {
		return nil, 0, err
	}
	sql, args, err := paginate(base.OrderBy("nombre_empresa", "id"), f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Update actualiza un cliente activo.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET nombre_contacto = $2, nombre_empresa = $3, empresa_telefono = $4, email_empresa = $5,
		    email_contacto = $6, ci_rif = $7, direccion_fiscal = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.NombreContacto, c.NombreEmpresa, c.EmpresaTelefono, c.EmailEmpresa,
		c.EmailContacto, c.CiRif, c.DireccionFiscal, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un cliente con ciRif %s", domain.ErrDuplicate, c.CiRif)
		}
		return fmt.Errorf("update client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca deleted_at.
func (r *ClientRepo) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE clients SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const providerColumns = `id, enterprise_name, person_contact, enterprise_phone, description, email, ci_rif,
	tax_address, address, website, instagram, created_at, updated_at, deleted_at`

// ProviderRepo implementación de ProviderRepository (usable con pool o tx).
type ProviderRepo struct {
	q Querier
}

// NewProviderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProviderRepository(q Querier) *ProviderRepo {
	return &ProviderRepo{q: q}
}

func scanProvider(row pgx.Row) (*entity.Provider, error) {
	var p entity.Provider
	err := row.Scan(&p.ID, &p.EnterpriseName, &p.PersonContact, &p.EnterprisePhone, &p.Description, &p.Email, &p.CiRif,
		&p.TaxAddress, &p.Address, &p.Website, &p.Instagram, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo proveedor.
func (r *ProviderRepo) Create(ctx context.Context, p *entity.Provider) error {
	query := `
		INSERT INTO providers (id, enterprise_name, person_contact, enterprise_phone, description, email, ci_rif, tax_address, address, website, instagram, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.EnterpriseName, p.PersonContact, p.EnterprisePhone, p.Description, p.Email, p.CiRif,
		p.TaxAddress, p.Address, p.Website, p.Instagram, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un proveedor con ciRif %s", domain.ErrDuplicate, p.CiRif)
		}
		return fmt.Errorf("insert provider: %w", err)
	}
	return nil
}

func (r *ProviderRepo) getBy(ctx context.Context, column, value string) (*entity.Provider, error) {
	p, err := scanProvider(r.q.QueryRow(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE `+column+` = $1 AND deleted_at IS NULL`, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return p, nil
}

// GetByID obtiene un proveedor activo por ID.
func (r *ProviderRepo) GetByID(ctx context.Context, id string) (*entity.Provider, error) {
	return r.getBy(ctx, "id", id)
}

// GetByCiRif obtiene un proveedor activo por cédula/RIF.
func (r *ProviderRepo) GetByCiRif(ctx context.Context, ciRif string) (*entity.Provider, error) {
	return r.getBy(ctx, "ci_rif", ciRif)
}

// GetByIDs obtiene los proveedores activos de la lista.
func (r *ProviderRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Provider, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sql, args, err := psql.Select(providerColumns).From("providers").
		Where(squirrel.Eq{"id": ids}).Where("deleted_at IS NULL").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.query(ctx, sql, args...)
}

func (r *ProviderRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Provider, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query providers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// List lista proveedores activos ordenados por nombre de empresa.
func (r *ProviderRepo) List(ctx context.Context, f repository.ProviderFilter) ([]*entity.Provider, int, error) {
	base := psql.Select(providerColumns).From("providers").Where("deleted_at IS NULL")
	if f.EnterpriseName != "" {
		base = base.Where(squirrel.ILike{"enterprise_name": likePattern(f.EnterpriseName)})
	}
	total, err := count(ctx, r.q, base)
	if err != nil {
		return nil, 0, err
	}
	sql, args, err := paginate(base.OrderBy("enterprise_name", "id"), f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}
	list, err := r.query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Update actualiza un proveedor activo.
func (r *ProviderRepo) Update(ctx context.Context, p *entity.Provider) error {
	query := `
		UPDATE providers SET enterprise_name = $2, person_contact = $3, enterprise_phone = $4, description = $5,
		    email = $6, ci_rif = $7, tax_address = $8, address = $9, website = $10, instagram = $11, updated_at = $12
		WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.EnterpriseName, p.PersonContact, p.EnterprisePhone, p.Description,
		p.Email, p.CiRif, p.TaxAddress, p.Address, p.Website, p.Instagram, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un proveedor con ciRif %s", domain.ErrDuplicate, p.CiRif)
		}
		return fmt.Errorf("update provider: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca deleted_at.
func (r *ProviderRepo) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE providers SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete provider: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
