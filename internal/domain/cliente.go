package domain

import "strings"

// Column limits for clientes / Limites des colonnes clientes
const (
	ClienteNombreMax   = 100
	ClienteApellidoMax = 100
	ClienteEmailMax    = 200
	ClienteTelefonoMax = 20
)

// Cliente represents a customer / Représente un client
type Cliente struct {
	BaseEntity
	Nombre   string
	Apellido string
	Email    string // Unique, case-insensitive / Unique, insensible à la casse
	Telefono *string
}

// NewCliente creates an active cliente / Crée un client actif
func NewCliente(nombre, apellido, email string, telefono *string) *Cliente {
	return &Cliente{
		BaseEntity: NewBaseEntity(),
		Nombre:     nombre,
		Apellido:   apellido,
		Email:      email,
		Telefono:   telefono,
	}
}

// NombreCompleto joins nombre and apellido / Joint nom et prénom
func (c *Cliente) NombreCompleto() string {
	return strings.TrimSpace(c.Nombre + " " + c.Apellido)
}

// Validate checks required fields and column limits / Vérifie les champs requis et les limites de colonnes
func (c *Cliente) Validate() error {
	if err := requireText("nombre", c.Nombre, ClienteNombreMax); err != nil {
		return err
	}
	if err := requireText("apellido", c.Apellido, ClienteApellidoMax); err != nil {
		return err
	}
	if err := requireText("email", c.Email, ClienteEmailMax); err != nil {
		return err
	}
	if c.Telefono != nil && tooLong(*c.Telefono, ClienteTelefonoMax) {
		return InvalidArgumentf("telefono must be at most %d characters", ClienteTelefonoMax)
	}
	return nil
}
