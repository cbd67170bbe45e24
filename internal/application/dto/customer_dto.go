package dto

import "time"

// CreateClientRequest body para POST /api/v1/clients.
type CreateClientRequest struct {
	NombreContacto  string `json:"nombre_contacto" validate:"required,min=3,max=100"`
	NombreEmpresa   string `json:"nombre_empresa" validate:"required,min=3,max=100"`
	EmpresaTelefono string `json:"empresa_telefono" validate:"required,min=7,max=20"`
	EmailEmpresa    string `json:"email_empresa" validate:"required,email"`
	EmailContacto   string `json:"email_contacto" validate:"required,email"`
	CiRif           string `json:"ci_rif" validate:"required,min=6,max=15"`
	DireccionFiscal string `json:"direccion_fiscal" validate:"required,min=10,max=300"`
}

// UpdateClientRequest body para PUT /api/v1/clients/:id.
type UpdateClientRequest struct {
	NombreContacto  *string `json:"nombre_contacto" validate:"omitempty,min=3,max=100"`
	NombreEmpresa   *string `json:"nombre_empresa" validate:"omitempty,min=3,max=100"`
	EmpresaTelefono *string `json:"empresa_telefono" validate:"omitempty,min=7,max=20"`
	EmailEmpresa    *string `json:"email_empresa" validate:"omitempty,email"`
	EmailContacto   *string `json:"email_contacto" validate:"omitempty,email"`
	CiRif           *string `json:"ci_rif" validate:"omitempty,min=6,max=15"`
	DireccionFiscal *string `json:"direccion_fiscal" validate:"omitempty,min=10,max=300"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID              string    `json:"id"`
	NombreContacto  string    `json:"nombre_contacto"`
	NombreEmpresa   string    `json:"nombre_empresa"`
	EmpresaTelefono string    `json:"empresa_telefono"`
	EmailEmpresa    string    `json:"email_empresa"`
	EmailContacto   string    `json:"email_contacto"`
	CiRif           string    `json:"ci_rif"`
	DireccionFiscal string    `json:"direccion_fiscal"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// CreateProviderRequest body para POST /api/v1/providers.
type CreateProviderRequest struct {
	EnterpriseName  string `json:"enterprise_name" validate:"required,min=3,max=100"`
	PersonContact   string `json:"person_contact" validate:"required,min=3,max=100"`
	EnterprisePhone string `json:"enterprise_phone" validate:"required,min=7,max=20"`
	Description     string `json:"description" validate:"required,min=10,max=300"`
	Email           string `json:"email" validate:"required,email"`
	CiRif           string `json:"ci_rif" validate:"required,min=6,max=15"`
	TaxAddress      string `json:"tax_address" validate:"omitempty,max=300"`
	Address         string `json:"address" validate:"omitempty,max=300"`
	Website         string `json:"website" validate:"omitempty,url"`
	Instagram       string `json:"instagram" validate:"omitempty,max=100"`
}

// UpdateProviderRequest body para PUT /api/v1/providers/:id.
type UpdateProviderRequest struct {
	EnterpriseName  *string `json:"enterprise_name" validate:"omitempty,min=3,max=100"`
	PersonContact   *string `json:"person_contact" validate:"omitempty,min=3,max=100"`
	EnterprisePhone *string `json:"enterprise_phone" validate:"omitempty,min=7,max=20"`
	Description     *string `json:"description" validate:"omitempty,min=10,max=300"`
	Email           *string `json:"email" validate:"omitempty,email"`
	CiRif           *string `json:"ci_rif" validate:"omitempty,min=6,max=15"`
	TaxAddress      *string `json:"tax_address" validate:"omitempty,max=300"`
	Address         *string `json:"address" validate:"omitempty,max=300"`
	Website         *string `json:"website" validate:"omitempty,url"`
	Instagram       *string `json:"instagram" validate:"omitempty,max=100"`
}

// ProviderResponse proveedor en respuestas.
type ProviderResponse struct {
	ID              string    `json:"id"`
	EnterpriseName  string    `json:"enterprise_name"`
	PersonContact   string    `json:"person_contact"`
	EnterprisePhone string    `json:"enterprise_phone"`
	Description     string    `json:"description"`
	Email           string    `json:"email"`
	CiRif           string    `json:"ci_rif"`
	TaxAddress      string    `json:"tax_address,omitempty"`
	Address         string    `json:"address,omitempty"`
	Website         string    `json:"website,omitempty"`
	Instagram       string    `json:"instagram,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProviderListResponse lista paginada de proveedores.
type ProviderListResponse struct {
	Items []ProviderResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NameListQuery filtro por nombre de empresa + paginación (clientes y proveedores).
type NameListQuery struct {
	PageRequest
	Name string `query:"name"`
}
