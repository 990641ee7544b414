package service

import (
	"net/mail"
	"strings"
	"time"

	"github.com/OtoGahona/Evaluation/internal/domain"
)

// isValidEmail validates an email address format.
// It checks:
//   - Valid RFC 5322 format using net/mail.ParseAddress
//   - A bare address, without display name
//   - Non-empty string
//
// Returns true if the email is valid.
func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}

	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// requireTerm rejects blank search terms / Rejette les termes de recherche vides
func requireTerm(term string) (string, error) {
	if domain.IsBlank(term) {
		return "", domain.InvalidArgumentf("search term is required")
	}
	return strings.TrimSpace(term), nil
}

// since returns the instant days before now / Retourne l'instant situé days jours avant now
func since(now time.Time, days int) (time.Time, error) {
	if days < 0 {
		return time.Time{}, domain.InvalidArgumentf("days must be greater than or equal to 0")
	}
	return now.UTC().AddDate(0, 0, -days), nil
}
