package dto

import "github.com/OtoGahona/Evaluation/internal/domain"

// ClienteDTO is the transfer shape for clientes / Forme de transfert des clients
type ClienteDTO struct {
	BaseDTO
	Apellido string  `json:"apellido"`
	Email    string  `json:"email"`
	Telefono *string `json:"telefono,omitempty"`
	IsActive bool    `json:"isActive"`
}

// ClientePartialDTO carries only the fields to change / Ne transporte que les champs à modifier
type ClientePartialDTO struct {
	ID       int64   `json:"id"`
	Nombre   *string `json:"nombre,omitempty"`
	Apellido *string `json:"apellido,omitempty"`
	Email    *string `json:"email,omitempty"`
	Telefono *string `json:"telefono,omitempty"`
}

// ClienteToDTO converts domain.Cliente to ClienteDTO / Convertit domain.Cliente en ClienteDTO
func ClienteToDTO(c *domain.Cliente) *ClienteDTO {
	if c == nil {
		return nil
	}
	return &ClienteDTO{
		BaseDTO: BaseDTO{
			ID:       c.ID,
			Nombre:   c.Nombre,
			CreateAt: c.CreatedAt,
			UpdateAt: c.UpdatedAt,
		},
		Apellido: c.Apellido,
		Email:    c.Email,
		Telefono: c.Telefono,
		IsActive: c.IsActive,
	}
}

// ClienteFromDTO converts ClienteDTO to a new domain.Cliente, ignoring audit fields
// Convertit ClienteDTO en domain.Cliente en ignorant les champs d'audit
func ClienteFromDTO(d *ClienteDTO) *domain.Cliente {
	c := domain.NewCliente(d.Nombre, d.Apellido, d.Email, d.Telefono)
	c.ID = d.ID
	return c
}

// ClientesToDTO converts a slice / Convertit une slice
func ClientesToDTO(cs []*domain.Cliente) []*ClienteDTO {
	out := make([]*ClienteDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, ClienteToDTO(c))
	}
	return out
}

// MergeCliente applies the non-nil fields of p to c / Applique les champs non nuls de p à c
func MergeCliente(c *domain.Cliente, p *ClientePartialDTO) {
	if p.Nombre != nil {
		c.Nombre = *p.Nombre
	}
	if p.Apellido != nil {
		c.Apellido = *p.Apellido
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Telefono != nil {
		c.Telefono = p.Telefono
	}
}
