package domain

import "time"

// Auditable exposes audit timestamps to the persistence layer / Expose les horodatages d'audit à la couche de persistance
type Auditable interface {
	GetCreatedAt() time.Time
	SetCreatedAt(t time.Time)
	GetUpdatedAt() *time.Time
	SetUpdatedAt(t time.Time)
	RestoreAudit(createdAt time.Time, updatedAt *time.Time)
}

// Entity is any persisted row identified by a surrogate key / Toute ligne persistée identifiée par une clé technique
type Entity interface {
	Auditable
	GetID() int64
	SetID(id int64)
	GetIsActive() bool
	SetIsActive(active bool)
}

// BaseEntity provides common fields for persisted entities / Fournit les champs communs aux entités persistées
type BaseEntity struct {
	ID        int64      // Store-assigned identifier / Identifiant attribué par la base
	IsActive  bool       // Logical activation flag / Indicateur d'activation logique
	CreatedAt time.Time  // Set once on insert / Défini une seule fois à l'insertion
	UpdatedAt *time.Time // Set on every mutation / Défini à chaque modification
}

// NewBaseEntity returns an active base entity / Retourne une entité de base active
func NewBaseEntity() BaseEntity {
	return BaseEntity{IsActive: true}
}

func (b *BaseEntity) GetID() int64 { return b.ID }

func (b *BaseEntity) SetID(id int64) { b.ID = id }

func (b *BaseEntity) GetIsActive() bool { return b.IsActive }

func (b *BaseEntity) SetIsActive(active bool) { b.IsActive = active }

func (b *BaseEntity) GetCreatedAt() time.Time { return b.CreatedAt }

func (b *BaseEntity) SetCreatedAt(t time.Time) { b.CreatedAt = t }

func (b *BaseEntity) GetUpdatedAt() *time.Time { return b.UpdatedAt }

// SetUpdatedAt stores a copy of t / Stocke une copie de t
func (b *BaseEntity) SetUpdatedAt(t time.Time) {
	b.UpdatedAt = &t
}

// RestoreAudit puts back timestamps captured before a failed save / Remet les horodatages capturés avant un échec
func (b *BaseEntity) RestoreAudit(createdAt time.Time, updatedAt *time.Time) {
	b.CreatedAt = createdAt
	b.UpdatedAt = updatedAt
}

// IsNew reports whether the entity was never persisted / Indique si l'entité n'a jamais été persistée
func (b *BaseEntity) IsNew() bool {
	return b.ID == 0
}
