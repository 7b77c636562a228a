// Package store is the transactional record store behind the catalog, the
// schedules, appointments and payments. It hides gorm from the rest of the
// code and turns driver failures into apperror values.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"salon-backend/internal/apperror"
	"salon-backend/internal/models"
)

// MySQL server error numbers.
const (
	errDuplicateEntry = 1062
	errLockWait       = 1205
	errDeadlock       = 1213
)

type Store struct {
	db       *gorm.DB
	rowLocks bool
}

func New(db *gorm.DB) *Store {
	name := db.Dialector.Name()
	return &Store{
		db:       db,
		rowLocks: name == "mysql" || name == "postgres",
	}
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Staff{},
		&models.StaffService{},
		&models.Schedule{},
		&models.Appointment{},
		&models.Payment{},
	)
}

// Transaction runs fn inside one database transaction. The Store passed to fn
// is bound to that transaction; any error rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, rowLocks: s.rowLocks})
	})
	return translate(err)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// forUpdate adds SELECT ... FOR UPDATE where the dialect supports row locks.
func (s *Store) forUpdate(db *gorm.DB) *gorm.DB {
	if !s.rowLocks {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// translate maps driver and gorm failures onto the apperror taxonomy.
// Errors that already carry a Kind pass through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("Record already exists.")
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDuplicateEntry:
			return apperror.Conflict("Record already exists.")
		case errDeadlock, errLockWait:
			return &apperror.Error{Kind: apperror.KindConflict, Message: "The record is busy, please retry.", Err: err}
		}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return apperror.Conflict("Record already exists.")
	}
	return apperror.Internal(err, "Internal server error")
}

func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(msg)
	}
	return translate(err)
}
