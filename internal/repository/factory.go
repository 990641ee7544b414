package repository

import (
	"github.com/OtoGahona/Evaluation/internal/repository/store"
)

// DatabaseFactory must be implemented by each database package / Doit être implémenté par chaque package de BD
// It provides the SQL dialect every repository runs through; adding a capability
// to store.Dialect forces an implementation in sqlite, mysql and postgres.
// Fournit le dialecte SQL utilisé par tous les repositories ; ajouter une capacité
// à store.Dialect impose son implémentation dans sqlite, mysql et postgres.
type DatabaseFactory interface {
	// Dialect returns the SQL dialect / Retourne le dialecte SQL
	Dialect() store.Dialect
}
