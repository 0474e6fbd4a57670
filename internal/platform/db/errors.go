package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation は PostgreSQL の一意制約違反コードです。
const pgUniqueViolation = "23505"

// IsUniqueViolation は一意制約違反かどうかを判定します。
// TranslateError 有効時の gorm.ErrDuplicatedKey と、生の pgconn.PgError の両方を扱います。
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
