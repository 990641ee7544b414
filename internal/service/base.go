package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/dto"
	"github.com/OtoGahona/Evaluation/internal/ports"
	"github.com/OtoGahona/Evaluation/internal/repository/db"
	"github.com/OtoGahona/Evaluation/internal/repository/store"
)

// Operation names used in logs and metrics / Noms d'opérations pour les logs et métriques
const (
	OpGetAll         = "get_all"
	OpGetByID        = "get_by_id"
	OpCreate         = "create"
	OpUpdate         = "update"
	OpUpdatePartial  = "update_partial"
	OpDelete         = "delete"
	OpSetActive      = "set_active"
	OpValidateUnique = "validate_unique"
	OpGetPaged       = "get_paged"
)

// OutcomeSuccess labels operations that returned no error / Libellé des opérations sans erreur
const OutcomeSuccess = "success"

// OperationRecorder records business operation outcomes / Enregistre le résultat des opérations métier
type OperationRecorder interface {
	RecordOperation(entity, op, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordOperation(string, string, string) {}

// UniqueField describes the business key of an entity / Décrit la clé métier d'une entité
type UniqueField[T domain.Entity] struct {
	Name   string
	Value  func(T) string
	Exists func(ctx context.Context, value string, excludeID int64) (bool, error)
}

// Hooks inject entity-specific behavior into Base / Injecte le comportement propre à l'entité dans Base
type Hooks[T domain.Entity, D any, P any] struct {
	Entity    string
	ToDTO     func(T) *D
	ToEntity  func(*D) T
	DTOID     func(*D) int64
	PartialID func(*P) int64
	Merge     func(T, *P)
	Validate  func(T) error
	Unique    *UniqueField[T]
}

// Option configures a service / Configure un service
type Option func(*options)

type options struct {
	maxPageSize int
	now         func() time.Time
	recorder    OperationRecorder
}

// WithMaxPageSize caps the page size accepted by GetPaged / Plafonne la taille de page de GetPaged
func WithMaxPageSize(n int) Option {
	return func(o *options) { o.maxPageSize = n }
}

// WithClock replaces time.Now / Remplace time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRecorder registers an operation recorder / Enregistre un recorder d'opérations
func WithRecorder(r OperationRecorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, recorder: noopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Base implements the generic business operations / Implémente les opérations métier génériques
//
// T is the entity, D its transfer object and P the partial update payload.
type Base[T domain.Entity, D any, P any] struct {
	repo  ports.Repository[T]
	hooks Hooks[T, D, P]
	opts  options
}

// NewBase creates a generic service / Crée un service générique
func NewBase[T domain.Entity, D any, P any](repo ports.Repository[T], hooks Hooks[T, D, P], opts ...Option) *Base[T, D, P] {
	return &Base[T, D, P]{repo: repo, hooks: hooks, opts: newOptions(opts)}
}

func (s *Base[T, D, P]) GetAll(ctx context.Context) (out []*D, err error) {
	defer func() { err = s.finish(OpGetAll, err) }()

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(items), nil
}

// GetByID returns a NotFound error for a missing id / Retourne NotFound si l'id est absent
func (s *Base[T, D, P]) GetByID(ctx context.Context, id int64) (out *D, err error) {
	defer func() { err = s.finish(OpGetByID, err, "id", id) }()

	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.hooks.ToDTO(entity), nil
}

// Create validates, checks the business key and inserts / Valide, vérifie la clé métier et insère
func (s *Base[T, D, P]) Create(ctx context.Context, in *D) (out *D, err error) {
	defer func() { err = s.finish(OpCreate, err) }()

	if in == nil {
		return nil, domain.InvalidArgumentf("%s is required", s.hooks.Entity)
	}
	entity := s.hooks.ToEntity(in)
	entity.SetID(0)
	entity.SetIsActive(true)

	if err := s.validate(ctx, entity, 0); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return nil, err
	}
	return s.hooks.ToDTO(created), nil
}

// Update replaces the mutable fields of an existing row; activation and CreatedAt are kept
// Remplace les champs modifiables d'une ligne existante ; l'activation et CreatedAt sont conservés
func (s *Base[T, D, P]) Update(ctx context.Context, in *D) (out *D, err error) {
	defer func() { err = s.finish(OpUpdate, err) }()

	if in == nil {
		return nil, domain.InvalidArgumentf("%s is required", s.hooks.Entity)
	}
	id := s.hooks.DTOID(in)
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	entity := s.hooks.ToEntity(in)
	entity.SetID(id)
	entity.SetIsActive(existing.GetIsActive())
	entity.SetCreatedAt(existing.GetCreatedAt())

	if err := s.validate(ctx, entity, id); err != nil {
		return nil, err
	}
	return s.save(ctx, entity)
}

// UpdatePartial merges the non-nil fields into the stored row / Fusionne les champs non nuls dans la ligne existante
func (s *Base[T, D, P]) UpdatePartial(ctx context.Context, in *P) (out *D, err error) {
	defer func() { err = s.finish(OpUpdatePartial, err) }()

	if in == nil {
		return nil, domain.InvalidArgumentf("%s is required", s.hooks.Entity)
	}
	id := s.hooks.PartialID(in)
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.hooks.Merge(entity, in)
	if err := s.validate(ctx, entity, id); err != nil {
		return nil, err
	}
	return s.save(ctx, entity)
}

// SetActive toggles the activation flag; setting the current value is a no-op
// Bascule l'activation ; redonner la valeur courante ne fait rien
func (s *Base[T, D, P]) SetActive(ctx context.Context, id int64, active bool) (out *D, err error) {
	defer func() { err = s.finish(OpSetActive, err, "id", id) }()

	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.GetIsActive() == active {
		return s.hooks.ToDTO(entity), nil
	}
	entity.SetIsActive(active)
	return s.save(ctx, entity)
}

func (s *Base[T, D, P]) Delete(ctx context.Context, id int64) (err error) {
	defer func() { err = s.finish(OpDelete, err, "id", id) }()

	if id <= 0 {
		return domain.InvalidArgumentf("id must be greater than 0")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return s.notFound(id)
	}
	return nil
}

// ValidateUnique reports whether value is free; blank values are never free
// Indique si value est libre ; une valeur vide ne l'est jamais
func (s *Base[T, D, P]) ValidateUnique(ctx context.Context, value string, excludeID int64) (ok bool, err error) {
	defer func() { err = s.finish(OpValidateUnique, err) }()

	if domain.IsBlank(value) {
		return false, nil
	}
	if s.hooks.Unique == nil {
		return true, nil
	}
	exists, err := s.hooks.Unique.Exists(ctx, value, excludeID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// GetPaged returns one page ordered by id / Retourne une page triée par id
func (s *Base[T, D, P]) GetPaged(ctx context.Context, page, pageSize int) (out *dto.Page[*D], err error) {
	defer func() { err = s.finish(OpGetPaged, err) }()

	page, pageSize = store.NormalizePage(page, pageSize)
	if s.opts.maxPageSize > 0 && pageSize > s.opts.maxPageSize {
		pageSize = s.opts.maxPageSize
	}

	items, total, err := s.repo.GetPaged(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &dto.Page[*D]{
		Items:      s.toDTOs(items),
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}

func (s *Base[T, D, P]) load(ctx context.Context, id int64) (T, error) {
	var zero T
	if id <= 0 {
		return zero, domain.InvalidArgumentf("id must be greater than 0")
	}
	entity, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, s.notFound(id)
	}
	return entity, nil
}

func (s *Base[T, D, P]) save(ctx context.Context, entity T) (*D, error) {
	updated, err := s.repo.Update(ctx, entity)
	if errors.Is(err, db.ErrNoRecord) {
		return nil, s.notFound(entity.GetID())
	}
	if err != nil {
		return nil, err
	}
	return s.hooks.ToDTO(updated), nil
}

func (s *Base[T, D, P]) validate(ctx context.Context, entity T, excludeID int64) error {
	if s.hooks.Validate != nil {
		if err := s.hooks.Validate(entity); err != nil {
			return err
		}
	}
	u := s.hooks.Unique
	if u == nil {
		return nil
	}
	value := u.Value(entity)
	exists, err := u.Exists(ctx, value, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.Conflictf("%s with %s %q already exists", s.hooks.Entity, u.Name, value)
	}
	return nil
}

func (s *Base[T, D, P]) notFound(id int64) error {
	return domain.NotFoundf("%s %d not found", s.hooks.Entity, id)
}

func (s *Base[T, D, P]) toDTOs(items []T) []*D {
	out := make([]*D, 0, len(items))
	for _, item := range items {
		out = append(out, s.hooks.ToDTO(item))
	}
	return out
}

func (s *Base[T, D, P]) now() time.Time {
	return s.opts.now()
}

// finish classifies err, logs unexpected failures and records the outcome
// Classe err, journalise les échecs inattendus et enregistre le résultat
func (s *Base[T, D, P]) finish(op string, err error, attrs ...any) error {
	err = classify(err)
	outcome := OutcomeSuccess
	if err != nil {
		kind := domain.KindOf(err)
		outcome = kind.String()
		if kind == domain.KindUnknown {
			args := append([]any{"entity", s.hooks.Entity, "op", op, "err", err}, attrs...)
			slog.Error("service operation failed", args...)
		}
	}
	s.opts.recorder.RecordOperation(s.hooks.Entity, op, outcome)
	return err
}

// classify maps store sentinels onto business kinds, leaving other errors untouched
// Associe les sentinelles du store aux types métier, sans toucher aux autres erreurs
func classify(err error) error {
	if err == nil || domain.KindOf(err) != domain.KindUnknown {
		return err
	}
	switch {
	case errors.Is(err, db.ErrDuplicate):
		return &domain.Error{Kind: domain.KindConflict, Message: "duplicate value", Err: err}
	case errors.Is(err, db.ErrNoRecord):
		return &domain.Error{Kind: domain.KindNotFound, Message: "record not found", Err: err}
	case errors.Is(err, db.ErrCheckViolation):
		return &domain.Error{Kind: domain.KindInvalidArgument, Message: "value out of range", Err: err}
	}
	return err
}
