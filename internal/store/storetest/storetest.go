// Package storetest opens a throwaway in-memory database with the full schema
// and seeds fixtures for package tests.
package storetest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"salon-backend/internal/models"
	"salon-backend/internal/policy"
	"salon-backend/internal/store"
)

// NewDB returns a migrated in-memory database. A single connection is used so
// every goroutine sees the same database and transactions are serialized.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func NewStore(t testing.TB) *store.Store {
	t.Helper()
	return store.New(NewDB(t))
}

// CreateUser inserts a user with the given role. The password hash is a
// placeholder; tests that log in hash their own.
func CreateUser(t testing.TB, db *gorm.DB, username string, role policy.Role) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FirstName:    username,
		Role:         role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func CreateService(t testing.TB, db *gorm.DB, name string, price float64) *models.Service {
	t.Helper()
	svc := &models.Service{Name: name, Price: price, Duration: 60, IsActive: true}
	if err := db.Create(svc).Error; err != nil {
		t.Fatalf("create service %s: %v", name, err)
	}
	return svc
}

// CreateStaff creates a Staff user and an available profile for it.
func CreateStaff(t testing.TB, db *gorm.DB, username string) *models.Staff {
	t.Helper()
	u := CreateUser(t, db, username, policy.RoleStaff)
	st := &models.Staff{UserID: u.ID, Specialization: "Hair", IsAvailable: true}
	if err := db.Omit("User", "Services").Create(st).Error; err != nil {
		t.Fatalf("create staff %s: %v", username, err)
	}
	return st
}

func CreateSchedule(t testing.TB, db *gorm.DB, staffID uint64, date, timeSlot string) *models.Schedule {
	t.Helper()
	sch := &models.Schedule{StaffID: staffID, Date: date, TimeSlot: timeSlot, AvailabilityStatus: true}
	if err := db.Omit("Staff").Create(sch).Error; err != nil {
		t.Fatalf("create schedule %s %s: %v", date, timeSlot, err)
	}
	return sch
}

// Available reads the current availability flag of a schedule.
func Available(t testing.TB, db *gorm.DB, scheduleID uint64) bool {
	t.Helper()
	var sch models.Schedule
	if err := db.First(&sch, scheduleID).Error; err != nil {
		t.Fatalf("load schedule %d: %v", scheduleID, err)
	}
	return sch.AvailabilityStatus
}

// AssertInvariant fails the test when any schedule's flag disagrees with the
// appointments that reference it.
func AssertInvariant(t testing.TB, db *gorm.DB) {
	t.Helper()
	var schedules []models.Schedule
	if err := db.Find(&schedules).Error; err != nil {
		t.Fatalf("list schedules: %v", err)
	}
	for _, sch := range schedules {
		var active int64
		err := db.Model(&models.Appointment{}).
			Where("schedule_id = ? AND status IN ?", sch.ID, models.ActiveStatuses).
			Count(&active).Error
		if err != nil {
			t.Fatalf("count appointments: %v", err)
		}
		if active > 1 {
			t.Fatalf("schedule %d has %d active appointments", sch.ID, active)
		}
		if want := active == 0; sch.AvailabilityStatus != want {
			t.Fatalf("schedule %d: available=%v, active appointments=%d", sch.ID, sch.AvailabilityStatus, active)
		}
	}
}
