package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind classifies business errors / Classe les erreurs métier
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindNotFound
	KindConflict
)

// String returns the kind name / Retourne le nom du type
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Sentinels usable with errors.Is / Sentinelles utilisables avec errors.Is
var (
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
)

// Error is a typed business error / Erreur métier typée
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return strings.ReplaceAll(e.Kind.String(), "_", " ")
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind / Correspond à toute *Error du même type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// InvalidArgumentf builds an InvalidArgument error / Construit une erreur InvalidArgument
func InvalidArgumentf(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFound error / Construit une erreur NotFound
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a Conflict error / Construit une erreur Conflict
func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind carried by err, KindUnknown otherwise / Retourne le type porté par err
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// IsBlank reports whether s is empty after trimming / Indique si s est vide après trim
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func requireText(field, value string, max int) error {
	if IsBlank(value) {
		return InvalidArgumentf("%s is required", field)
	}
	if tooLong(value, max) {
		return InvalidArgumentf("%s must be at most %d characters", field, max)
	}
	return nil
}

// tooLong counts characters, not bytes, like the VARCHAR and length() limits
func tooLong(value string, max int) bool {
	return utf8.RuneCountInString(value) > max
}
