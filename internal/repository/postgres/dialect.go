package postgres

import (
	"strconv"
	"strings"

	"github.com/OtoGahona/Evaluation/internal/repository/store"
)

// Dialect is the PostgreSQL flavour of store.Dialect / Variante PostgreSQL de store.Dialect
type Dialect struct{}

var _ store.Dialect = Dialect{}

func (Dialect) Name() string { return "postgres" }

// Rebind turns '?' into $1, $2... outside quoted literals / Convertit '?' en $1, $2... hors des littéraux
func (Dialect) Rebind(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	var quote rune
	for _, r := range query {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (Dialect) InsertReturningID() bool { return true }

func (Dialect) SupportsStoredProcedures() bool { return true }

func (Dialect) TranslateError(err error) error { return handleError(err) }
