package repositories

import (
	"strings"

	"gorm.io/gorm"
)

// GormTransaction is the callback run inside db.Transaction.
type GormTransaction func(tx *gorm.DB) error

type Transactor interface {
	Transaction(fn GormTransaction) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) Transaction(fn GormTransaction) error {
	return t.db.Transaction(fn)
}

// likeEscaper escapes LIKE wildcards so user input only matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern builds a case-insensitive substring pattern for
// LOWER(col) LIKE ? ESCAPE '\'.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
