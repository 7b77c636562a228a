// Package catalog manages the reference data customers book against:
// services, staff profiles, the services each staff member offers, and the
// schedule slots. Every write is Admin only.
package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"salon-backend/internal/apperror"
	"salon-backend/internal/models"
	"salon-backend/internal/policy"
	"salon-backend/internal/store"
)

const (
	DefaultMaxPrice = 10000
	MinDuration     = 5
	MaxDuration     = 480
	// maxBulkDays bounds a single bulk schedule request.
	maxBulkDays = 366
)

var timeSlotPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d-(([01]\d|2[0-3]):[0-5]\d|24:00)$`)

// DefaultTimeSlots are the hourly slots of a working day, 09:00 to 18:00.
func DefaultTimeSlots() []string {
	slots := make([]string, 0, 9)
	for h := 9; h < 18; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00-%02d:00", h, h+1))
	}
	return slots
}

type Manager struct {
	store    *store.Store
	maxPrice float64
	log      *zap.Logger
}

func NewManager(st *store.Store, maxPrice float64, log *zap.Logger) *Manager {
	if maxPrice <= 0 {
		maxPrice = DefaultMaxPrice
	}
	return &Manager{store: st, maxPrice: maxPrice, log: log.Named("catalog")}
}

func (m *Manager) validatePrice(p float64) error {
	if p < 0 || p > m.maxPrice {
		return apperror.Validation(fmt.Sprintf("Price must be between 0 and %.2f.", m.maxPrice))
	}
	return nil
}

func validateDuration(d int) error {
	if d < MinDuration || d > MaxDuration {
		return apperror.Validation(fmt.Sprintf("Duration must be between %d and %d minutes.", MinDuration, MaxDuration))
	}
	return nil
}

// ValidateTimeSlot checks an "HH:MM-HH:MM" label whose end is after its start.
func ValidateTimeSlot(slot string) error {
	if !timeSlotPattern.MatchString(slot) {
		return apperror.Validation("Time slot must look like HH:MM-HH:MM.")
	}
	start, end, _ := strings.Cut(slot, "-")
	if end <= start {
		return apperror.Validation("Time slot must end after it starts.")
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, apperror.Validation("Date must be in YYYY-MM-DD format.")
	}
	return d, nil
}

// Services

func (m *Manager) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	return m.store.ListServices(ctx, activeOnly)
}

func (m *Manager) GetService(ctx context.Context, id uint64) (*models.Service, error) {
	return m.store.GetService(ctx, id)
}

func (m *Manager) CreateService(ctx context.Context, actor policy.Actor, in models.ServiceInput) (*models.Service, error) {
	if err := policy.Authorize(actor, policy.ActionManageCatalog, 0); err != nil {
		return nil, err
	}
	if err := m.validatePrice(in.Price); err != nil {
		return nil, err
	}
	if err := validateDuration(in.Duration); err != nil {
		return nil, err
	}
	svc := &models.Service{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if svc.Name == "" {
		return nil, apperror.Validation("Service name is required.")
	}
	if err := m.store.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	m.log.Info("service created", zap.Uint64("service_id", svc.ID), zap.String("name", svc.Name))
	return svc, nil
}

func (m *Manager) UpdateService(ctx context.Context, actor policy.Actor, id uint64, in models.UpdateServiceInput) (*models.Service, error) {
	if err := policy.Authorize(actor, policy.ActionManageCatalog, 0); err != nil {
		return nil, err
	}
	if _, err := m.store.GetService(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperror.Validation("Service name is required.")
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		if err := m.validatePrice(*in.Price); err != nil {
			return nil, err
		}
		fields["price"] = *in.Price
	}
	if in.Duration != nil {
		if err := validateDuration(*in.Duration); err != nil {
			return nil, err
		}
		fields["duration"] = *in.Duration
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	return m.store.UpdateService(ctx, id, fields)
}

// DeactivateService is the only way a service is removed; existing
// appointments keep pointing at it.
func (m *Manager) DeactivateService(ctx context.Context, actor policy.Actor, id uint64) (*models.Service, error) {
	inactive := false
	return m.UpdateService(ctx, actor, id, models.UpdateServiceInput{IsActive: &inactive})
}

// Staff

func (m *Manager) ListStaff(ctx context.Context, availableOnly bool) ([]models.Staff, error) {
	return m.store.ListStaff(ctx, availableOnly)
}

func (m *Manager) GetStaff(ctx context.Context, id uint64) (*models.Staff, error) {
	return m.store.GetStaff(ctx, id)
}

func (m *Manager) CreateStaff(ctx context.Context, actor policy.Actor, in models.StaffInput) (*models.Staff, error) {
	if err := policy.Authorize(actor, policy.ActionManageCatalog, 0); err != nil {
		return nil, err
	}
	user, err := m.store.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != policy.RoleStaff {
		return nil, apperror.Validation("Selected user must have the Staff role.")
	}
	exists, err := m.store.StaffExistsForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("This user already has a staff profile.")
	}

	st := &models.Staff{
		UserID:         user.ID,
		Specialization: in.Specialization,
		Bio:            in.Bio,
		IsAvailable:    in.IsAvailable == nil || *in.IsAvailable,
	}
	if err := m.store.CreateStaff(ctx, st); err != nil {
		return nil, err
	}
	m.log.Info("staff profile created", zap.Uint64("staff_id", st.ID), zap.Uint64("user_id", user.ID))
	return m.store.GetStaff(ctx, st.ID)
}

func (m *Manager) UpdateStaff(ctx context.Context, actor policy.Actor, id uint64, in models.UpdateStaffInput) (*models.Staff, error) {
	if err := policy.Authorize(actor, policy.ActionManageCatalog, 0); err != nil {
		return nil, err
	}
	if _, err := m.store.GetStaff(ctx, id); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if in.Specialization != nil {
		fields["specialization"] = *in.Specialization
	}
	if in.Bio != nil {
		fields["bio"] = *in.Bio
	}
	if in.IsAvailable != nil {
		fields["is_available"] = *in.IsAvailable
	}
	return m.store.UpdateStaff(ctx, id, fields)
}

func (m *Manager) AssignService(ctx context.Context, actor policy.Actor, staffID, serviceID uint64) (*models.StaffService, error) {
	if err := policy.Authorize(actor, policy.ActionManageCatalog, 0); err != nil {
		return nil, err
	}
	if _, err := m.store.GetStaff(ctx, staffID); err != nil {
		return nil, err
	}
	svc, err := m.store.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	exists, err := m.store.StaffServiceExists(ctx, staffID, serviceID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("This staff member already offers this service.")
	}
	ss := &models.StaffService{StaffID: staffID, ServiceID: serviceID}
	if err := m.store.AssignService(ctx, ss); err != nil {
		return nil, err
	}
	ss.Service = svc
	return ss, nil
}
