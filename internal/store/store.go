// Package store persists users, wallets and transactions through GORM.
// Every ledger query is scoped to the owning user; a row owned by someone
// else is reported exactly like a missing one.
package store

import (
	"errors"

	"gorm.io/gorm"
)

// notFound maps gorm.ErrRecordNotFound to the given domain error.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
