package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"

	"salon-backend/internal/apperror"
	"salon-backend/internal/models"
	"salon-backend/internal/policy"
	"salon-backend/internal/store"
	"salon-backend/internal/store/storetest"
)

func TestClaimScheduleIsCompareAndSwap(t *testing.T) {
	db := storetest.NewDB(t)
	st := store.New(db)
	ctx := context.Background()
	staff := storetest.CreateStaff(t, db, "stylist")
	sch := storetest.CreateSchedule(t, db, staff.ID, "2026-03-01", "10:00-11:00")

	ok, err := st.ClaimSchedule(ctx, sch.ID)
	if err != nil || !ok {
		t.Fatalf("first claim: ok=%v err=%v", ok, err)
	}
	ok, err = st.ClaimSchedule(ctx, sch.ID)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if ok {
		t.Fatal("second claim must lose")
	}
}

func TestSyncAvailability(t *testing.T) {
	db := storetest.NewDB(t)
	st := store.New(db)
	ctx := context.Background()
	staff := storetest.CreateStaff(t, db, "stylist")
	svc := storetest.CreateService(t, db, "Cut", 40)
	user := storetest.CreateUser(t, db, "alice", policy.RoleCustomer)
	sch := storetest.CreateSchedule(t, db, staff.ID, "2026-03-01", "10:00-11:00")

	appt := &models.Appointment{UserID: user.ID, ServiceID: svc.ID, StaffID: staff.ID, ScheduleID: sch.ID, Status: models.StatusConfirmed}
	if err := st.CreateAppointment(ctx, appt); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	if err := st.SyncAvailability(ctx, sch.ID); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if storetest.Available(t, db, sch.ID) {
		t.Fatal("confirmed appointment must hold the slot")
	}

	if err := st.UpdateAppointmentStatus(ctx, appt.ID, models.StatusCompleted); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := st.SyncAvailability(ctx, sch.ID); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !storetest.Available(t, db, sch.ID) {
		t.Fatal("completed appointment must release the slot")
	}

	if err := st.SyncAvailability(ctx, 9999); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("sync missing schedule: got %v", err)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	db := storetest.NewDB(t)
	st := store.New(db)
	ctx := context.Background()

	boom := apperror.Conflict("boom")
	err := st.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.CreateService(ctx, &models.Service{Name: "Temp", Price: 1, Duration: 30, IsActive: true}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("transaction error = %v, want the callback's error", err)
	}
	all, _ := st.ListServices(ctx, false)
	if len(all) != 0 {
		t.Fatalf("rolled back insert is visible: %+v", all)
	}
}

func TestUniqueViolationIsConflict(t *testing.T) {
	db := storetest.NewDB(t)
	st := store.New(db)
	ctx := context.Background()
	staff := storetest.CreateStaff(t, db, "stylist")
	storetest.CreateSchedule(t, db, staff.ID, "2026-03-01", "10:00-11:00")

	err := st.CreateSchedule(ctx, &models.Schedule{StaffID: staff.ID, Date: "2026-03-01", TimeSlot: "10:00-11:00", AvailabilityStatus: true})
	if !apperror.Is(err, apperror.KindConflict) {
		t.Fatalf("duplicate schedule: got %v", err)
	}
}

func TestMySQLErrorTranslation(t *testing.T) {
	cases := []struct {
		number uint16
		kind   apperror.Kind
	}{
		{1062, apperror.KindConflict},
		{1213, apperror.KindConflict},
		{1205, apperror.KindConflict},
		{1146, apperror.KindInternal},
	}
	db := storetest.NewDB(t)
	st := store.New(db)
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.number), func(t *testing.T) {
			driverErr := &mysql.MySQLError{Number: tc.number, Message: "driver says no"}
			err := st.Transaction(context.Background(), func(*store.Store) error {
				return fmt.Errorf("exec: %w", driverErr)
			})
			if got := apperror.KindOf(err); got != tc.kind {
				t.Fatalf("kind = %s, want %s", got, tc.kind)
			}
			if tc.kind == apperror.KindInternal && apperror.Message(err) == driverErr.Message {
				t.Fatal("internal cause leaked into the message")
			}
		})
	}
}

func TestNotFoundErrors(t *testing.T) {
	st := storetest.NewStore(t)
	ctx := context.Background()

	if _, err := st.GetAppointment(ctx, 1); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("appointment: got %v", err)
	}
	if _, err := st.FindSlot(ctx, 1, "2026-03-01", "10:00-11:00", true); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("slot: got %v", err)
	}
	if err := st.DeleteSchedule(ctx, 1); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("delete schedule: got %v", err)
	}
}
