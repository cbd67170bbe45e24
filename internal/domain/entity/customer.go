package entity

import "time"

// Client representa un cliente (empresa o persona) al que se le registran ventas.
type Client struct {
	ID              string
	NombreContacto  string
	NombreEmpresa   string
	EmpresaTelefono string
	EmailEmpresa    string
	EmailContacto   string
	CiRif           string // único
	DireccionFiscal string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// Provider representa un proveedor de insumos.
type Provider struct {
	ID              string
	EnterpriseName  string
	PersonContact   string
	EnterprisePhone string
	Description     string
	Email           string
	CiRif           string // único
	TaxAddress      string
	Address         string
	Website         string
	Instagram       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}
