// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"nutritrack/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store groups the per-table repositories over one connection or transaction.
type Store interface {
	Users() UserRepository
	Logins() LoginRepository
	Logs() LogRepository
	Summaries() SummaryRepository
	Catalog() CatalogRepository
	// Transaction runs fn against a Store bound to a single database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository        { return &userRepository{db: s.db} }
func (s *gormStore) Logins() LoginRepository      { return &loginRepository{db: s.db} }
func (s *gormStore) Logs() LogRepository          { return &logRepository{db: s.db} }
func (s *gormStore) Summaries() SummaryRepository { return &summaryRepository{db: s.db} }
func (s *gormStore) Catalog() CatalogRepository   { return &catalogRepository{db: s.db} }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func dbSystem(db *gorm.DB) string {
	if db.Dialector == nil {
		return "unknown"
	}
	return db.Dialector.Name()
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// notFoundOrInternal maps gorm.ErrRecordNotFound to a NOT_FOUND AppError.
func notFoundOrInternal(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}
