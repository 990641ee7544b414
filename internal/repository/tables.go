package repository

import (
	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/repository/store"
)

// clienteTable maps domain.Cliente onto the clientes table / Associe domain.Cliente à la table clientes
var clienteTable = &store.Table[*domain.Cliente]{
	Name:    "clientes",
	Columns: []string{"nombre", "apellido", "email", "telefono"},
	New:     func() *domain.Cliente { return &domain.Cliente{} },
	Fields: func(c *domain.Cliente) []any {
		return []any{&c.Nombre, &c.Apellido, &c.Email, &c.Telefono}
	},
	Values: func(c *domain.Cliente) []any {
		return []any{c.Nombre, c.Apellido, c.Email, c.Telefono}
	},
}

// productoTable maps domain.Producto onto the productos table / Associe domain.Producto à la table productos
var productoTable = &store.Table[*domain.Producto]{
	Name:    "productos",
	Columns: []string{"nombre", "descripcion", "precio", "stock"},
	New:     func() *domain.Producto { return &domain.Producto{} },
	Fields: func(p *domain.Producto) []any {
		return []any{&p.Nombre, &p.Descripcion, &p.Precio, &p.Stock}
	},
	Values: func(p *domain.Producto) []any {
		return []any{p.Nombre, p.Descripcion, p.Precio, p.Stock}
	},
}

// ClienteTable exposes the cliente mapping for raw queries / Expose le mapping client pour les requêtes brutes
func ClienteTable() *store.Table[*domain.Cliente] { return clienteTable }

// ProductoTable exposes the producto mapping for raw queries / Expose le mapping produit pour les requêtes brutes
func ProductoTable() *store.Table[*domain.Producto] { return productoTable }
