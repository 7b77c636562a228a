package booking

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"salon-backend/internal/apperror"
	"salon-backend/internal/models"
	"salon-backend/internal/policy"
	"salon-backend/internal/store"
	"salon-backend/internal/store/storetest"
)

const testDate = "2026-03-01"

type fixture struct {
	db     *gorm.DB
	engine *Engine
	svc    *models.Service
	staff  *models.Staff
	slot   *models.Schedule
	alice  policy.Actor
	bob    policy.Actor
	admin  policy.Actor
	staffA policy.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storetest.NewDB(t)
	st := store.New(db)

	f := &fixture{db: db, engine: NewEngine(st, st, nil, zap.NewNop())}
	f.svc = storetest.CreateService(t, db, "Haircut", 45.00)
	f.staff = storetest.CreateStaff(t, db, "stylist")
	f.slot = storetest.CreateSchedule(t, db, f.staff.ID, testDate, "10:00-11:00")

	alice := storetest.CreateUser(t, db, "alice", policy.RoleCustomer)
	bob := storetest.CreateUser(t, db, "bob", policy.RoleCustomer)
	admin := storetest.CreateUser(t, db, "boss", policy.RoleAdmin)
	f.alice = policy.Actor{UserID: alice.ID, Role: policy.RoleCustomer}
	f.bob = policy.Actor{UserID: bob.ID, Role: policy.RoleCustomer}
	f.admin = policy.Actor{UserID: admin.ID, Role: policy.RoleAdmin}
	f.staffA = policy.Actor{UserID: f.staff.UserID, Role: policy.RoleStaff}
	return f
}

func (f *fixture) input(timeSlot string) models.CreateAppointmentInput {
	return models.CreateAppointmentInput{
		ServiceID: f.svc.ID,
		StaffID:   f.staff.ID,
		Date:      testDate,
		TimeSlot:  timeSlot,
	}
}

func (f *fixture) book(t *testing.T, actor policy.Actor, timeSlot string) *models.Appointment {
	t.Helper()
	a, err := f.engine.Book(context.Background(), actor, f.input(timeSlot))
	if err != nil {
		t.Fatalf("book %s: %v", timeSlot, err)
	}
	return a
}

func wantKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperror.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

func TestBookCancelRebookScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.book(t, f.alice, "10:00-11:00")
	if a.Status != models.StatusPending {
		t.Fatalf("status = %s, want Pending", a.Status)
	}
	if a.Service == nil || a.Service.Price != 45.00 || a.Schedule == nil || a.Staff == nil {
		t.Fatalf("appointment not returned with its details: %+v", a)
	}
	if storetest.Available(t, f.db, f.slot.ID) {
		t.Fatal("slot still available after booking")
	}
	storetest.AssertInvariant(t, f.db)

	_, err := f.engine.Book(ctx, f.bob, f.input("10:00-11:00"))
	wantKind(t, err, apperror.KindConflict)
	if apperror.Message(err) != msgSlotUnavailable {
		t.Fatalf("message = %q", apperror.Message(err))
	}

	cancelled, err := f.engine.Cancel(ctx, f.alice, a.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Fatalf("status = %s, want Cancelled", cancelled.Status)
	}
	if !storetest.Available(t, f.db, f.slot.ID) {
		t.Fatal("slot not released by cancel")
	}
	storetest.AssertInvariant(t, f.db)

	again := f.book(t, f.bob, "10:00-11:00")
	if again.ScheduleID != f.slot.ID {
		t.Fatalf("rebooked schedule = %d, want %d", again.ScheduleID, f.slot.ID)
	}
	storetest.AssertInvariant(t, f.db)
}

func TestConcurrentBookingHasOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 8
	actors := []policy.Actor{f.alice, f.bob}
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(actor policy.Actor) {
			defer wg.Done()
			_, err := f.engine.Book(ctx, actor, f.input("10:00-11:00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case apperror.Is(err, apperror.KindConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(actors[i%len(actors)])
	}
	wg.Wait()

	if wins != 1 || conflicts != attempts-1 {
		t.Fatalf("wins=%d conflicts=%d, want 1 and %d", wins, conflicts, attempts-1)
	}
	var n int64
	f.db.Model(&models.Appointment{}).Where("schedule_id = ?", f.slot.ID).Count(&n)
	if n != 1 {
		t.Fatalf("appointments on slot = %d, want 1", n)
	}
	storetest.AssertInvariant(t, f.db)
}

func TestBookValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inactive := storetest.CreateService(t, f.db, "Retired", 10)
	f.db.Model(inactive).Update("is_active", false)
	busy := storetest.CreateStaff(t, f.db, "busy")
	f.db.Model(busy).Update("is_available", false)

	cases := []struct {
		name string
		edit func(*models.CreateAppointmentInput)
		kind apperror.Kind
	}{
		{"unknown service", func(in *models.CreateAppointmentInput) { in.ServiceID = 999 }, apperror.KindNotFound},
		{"inactive service", func(in *models.CreateAppointmentInput) { in.ServiceID = inactive.ID }, apperror.KindValidation},
		{"unknown staff", func(in *models.CreateAppointmentInput) { in.StaffID = 999 }, apperror.KindNotFound},
		{"unavailable staff", func(in *models.CreateAppointmentInput) { in.StaffID = busy.ID }, apperror.KindValidation},
		{"bad date", func(in *models.CreateAppointmentInput) { in.Date = "01/03/2026" }, apperror.KindValidation},
		{"no schedule", func(in *models.CreateAppointmentInput) { in.TimeSlot = "23:00-24:00" }, apperror.KindNotFound},
		{"customer books for someone else", func(in *models.CreateAppointmentInput) { in.UserID = f.bob.UserID }, apperror.KindAuthorization},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := f.input("10:00-11:00")
			tc.edit(&in)
			_, err := f.engine.Book(ctx, f.alice, in)
			wantKind(t, err, tc.kind)
		})
	}
	if !storetest.Available(t, f.db, f.slot.ID) {
		t.Fatal("failed bookings must not touch the slot")
	}
}

func TestBookRejectsSlotWithActiveAppointment(t *testing.T) {
	f := newFixture(t)

	// Simulate drift: an active appointment exists while the flag says available.
	f.db.Omit("User", "Service", "Staff", "Schedule", "Payment").Create(&models.Appointment{
		UserID: f.bob.UserID, ServiceID: f.svc.ID, StaffID: f.staff.ID,
		ScheduleID: f.slot.ID, Status: models.StatusConfirmed,
	})

	_, err := f.engine.Book(context.Background(), f.alice, f.input("10:00-11:00"))
	wantKind(t, err, apperror.KindConflict)
	if apperror.Message(err) != msgSlotBooked {
		t.Fatalf("message = %q", apperror.Message(err))
	}
}

func TestAdminBooksOnBehalf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.input("10:00-11:00")
	in.UserID = f.alice.UserID
	a, err := f.engine.Book(ctx, f.admin, in)
	if err != nil {
		t.Fatalf("admin book: %v", err)
	}
	if a.UserID != f.alice.UserID {
		t.Fatalf("owner = %d, want %d", a.UserID, f.alice.UserID)
	}

	in.UserID = 424242
	in.TimeSlot = "10:00-11:00"
	_, err = f.engine.Book(ctx, f.admin, in)
	wantKind(t, err, apperror.KindNotFound)
}

func TestCancelIsNotIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, f.alice, "10:00-11:00")

	if _, err := f.engine.Cancel(ctx, f.alice, a.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err := f.engine.Cancel(ctx, f.alice, a.ID)
	wantKind(t, err, apperror.KindConflict)
	if apperror.Message(err) != msgAlreadyCancelled {
		t.Fatalf("message = %q", apperror.Message(err))
	}
	storetest.AssertInvariant(t, f.db)
}

func TestCancelAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, f.alice, "10:00-11:00")

	_, err := f.engine.Cancel(ctx, f.bob, a.ID)
	wantKind(t, err, apperror.KindAuthorization)
	_, err = f.engine.Cancel(ctx, f.staffA, a.ID)
	wantKind(t, err, apperror.KindAuthorization)
	if storetest.Available(t, f.db, f.slot.ID) {
		t.Fatal("rejected cancel released the slot")
	}

	if _, err := f.engine.Cancel(ctx, f.admin, a.ID); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
	_, err = f.engine.Cancel(ctx, f.admin, 9999)
	wantKind(t, err, apperror.KindNotFound)
}

func TestRescheduleMovesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	next := storetest.CreateSchedule(t, f.db, f.staff.ID, testDate, "11:00-12:00")
	a := f.book(t, f.alice, "10:00-11:00")

	moved, err := f.engine.Reschedule(ctx, f.alice, a.ID, models.RescheduleInput{
		StaffID: f.staff.ID, Date: testDate, TimeSlot: "11:00-12:00",
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if moved.ScheduleID != next.ID {
		t.Fatalf("schedule = %d, want %d", moved.ScheduleID, next.ID)
	}
	if !storetest.Available(t, f.db, f.slot.ID) {
		t.Fatal("old slot not released")
	}
	if storetest.Available(t, f.db, next.ID) {
		t.Fatal("new slot not claimed")
	}
	storetest.AssertInvariant(t, f.db)
}

func TestRescheduleToOtherStaff(t *testing.T) {
	f := newFixture(t)
	other := storetest.CreateStaff(t, f.db, "colorist")
	target := storetest.CreateSchedule(t, f.db, other.ID, "2026-03-02", "10:00-11:00")
	a := f.book(t, f.alice, "10:00-11:00")

	moved, err := f.engine.Reschedule(context.Background(), f.admin, a.ID, models.RescheduleInput{
		StaffID: other.ID, Date: "2026-03-02", TimeSlot: "10:00-11:00",
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if moved.StaffID != other.ID || moved.ScheduleID != target.ID {
		t.Fatalf("moved to staff=%d schedule=%d", moved.StaffID, moved.ScheduleID)
	}
	storetest.AssertInvariant(t, f.db)
}

func TestRescheduleToSameSlotIsNoop(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, f.alice, "10:00-11:00")

	same, err := f.engine.Reschedule(context.Background(), f.alice, a.ID, models.RescheduleInput{
		StaffID: f.staff.ID, Date: testDate, TimeSlot: "10:00-11:00",
	})
	if err != nil {
		t.Fatalf("reschedule to own slot: %v", err)
	}
	if same.ScheduleID != f.slot.ID || same.Status != models.StatusPending {
		t.Fatalf("appointment changed: %+v", same)
	}
	if storetest.Available(t, f.db, f.slot.ID) {
		t.Fatal("same-slot reschedule released the slot")
	}
	storetest.AssertInvariant(t, f.db)
}

func TestRescheduleFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	taken := storetest.CreateSchedule(t, f.db, f.staff.ID, testDate, "11:00-12:00")
	a := f.book(t, f.alice, "10:00-11:00")
	f.book(t, f.bob, "11:00-12:00")

	_, err := f.engine.Reschedule(ctx, f.alice, a.ID, models.RescheduleInput{
		StaffID: f.staff.ID, Date: testDate, TimeSlot: "11:00-12:00",
	})
	wantKind(t, err, apperror.KindConflict)

	_, err = f.engine.Reschedule(ctx, f.alice, a.ID, models.RescheduleInput{
		StaffID: f.staff.ID, Date: testDate, TimeSlot: "15:00-16:00",
	})
	wantKind(t, err, apperror.KindNotFound)

	var reloaded models.Appointment
	f.db.First(&reloaded, a.ID)
	if reloaded.ScheduleID != f.slot.ID || reloaded.Status != models.StatusPending {
		t.Fatalf("appointment changed after failed reschedule: %+v", reloaded)
	}
	if storetest.Available(t, f.db, f.slot.ID) || storetest.Available(t, f.db, taken.ID) {
		t.Fatal("availability flags changed after failed reschedule")
	}
	storetest.AssertInvariant(t, f.db)
}

func TestRescheduleRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	storetest.CreateSchedule(t, f.db, f.staff.ID, testDate, "12:00-13:00")
	a := f.book(t, f.alice, "10:00-11:00")
	in := models.RescheduleInput{StaffID: f.staff.ID, Date: testDate, TimeSlot: "12:00-13:00"}

	_, err := f.engine.Reschedule(ctx, f.bob, a.ID, in)
	wantKind(t, err, apperror.KindAuthorization)

	if _, err := f.engine.Cancel(ctx, f.alice, a.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err = f.engine.Reschedule(ctx, f.alice, a.ID, in)
	wantKind(t, err, apperror.KindValidation)
	if apperror.Message(err) != msgNotReschedulable {
		t.Fatalf("message = %q", apperror.Message(err))
	}
	storetest.AssertInvariant(t, f.db)
}

func TestGetAndListAreScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	storetest.CreateSchedule(t, f.db, f.staff.ID, testDate, "11:00-12:00")
	mine := f.book(t, f.alice, "10:00-11:00")
	f.book(t, f.bob, "11:00-12:00")

	if _, err := f.engine.Get(ctx, f.alice, mine.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := f.engine.Get(ctx, f.staffA, mine.ID); err != nil {
		t.Fatalf("staff get: %v", err)
	}
	_, err := f.engine.Get(ctx, f.bob, mine.ID)
	wantKind(t, err, apperror.KindAuthorization)

	own, err := f.engine.List(ctx, f.alice, models.AppointmentFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(own) != 1 || own[0].ID != mine.ID {
		t.Fatalf("customer sees %d appointments", len(own))
	}
	// A customer cannot widen the scope by asking for someone else's.
	own, _ = f.engine.List(ctx, f.alice, models.AppointmentFilter{UserID: f.bob.UserID})
	if len(own) != 1 || own[0].UserID != f.alice.UserID {
		t.Fatal("customer filter escaped own scope")
	}

	all, err := f.engine.List(ctx, f.admin, models.AppointmentFilter{Date: testDate})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin sees %d appointments, want 2", len(all))
	}
	none, _ := f.engine.List(ctx, f.admin, models.AppointmentFilter{Date: "2026-04-01"})
	if len(none) != 0 {
		t.Fatalf("date filter returned %d", len(none))
	}
	pending, _ := f.engine.List(ctx, f.staffA, models.AppointmentFilter{Status: models.StatusCancelled})
	if len(pending) != 0 {
		t.Fatalf("status filter returned %d", len(pending))
	}
}
