package store

import (
	"context"

	"salon-backend/internal/models"
)

func (s *Store) CreateService(ctx context.Context, svc *models.Service) error {
	return translate(s.conn(ctx).Create(svc).Error)
}

func (s *Store) GetService(ctx context.Context, id uint64) (*models.Service, error) {
	var svc models.Service
	if err := s.conn(ctx).First(&svc, id).Error; err != nil {
		return nil, notFound(err, "Service not found.")
	}
	return &svc, nil
}

func (s *Store) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	q := s.conn(ctx).Order("name asc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []models.Service
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// UpdateService writes only the given columns and returns the fresh row.
func (s *Store) UpdateService(ctx context.Context, id uint64, fields map[string]interface{}) (*models.Service, error) {
	if len(fields) > 0 {
		res := s.conn(ctx).Model(&models.Service{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, translate(res.Error)
		}
	}
	return s.GetService(ctx, id)
}

func (s *Store) CreateStaff(ctx context.Context, st *models.Staff) error {
	return translate(s.conn(ctx).Omit("User", "Services").Create(st).Error)
}

func (s *Store) GetStaff(ctx context.Context, id uint64) (*models.Staff, error) {
	var st models.Staff
	err := s.conn(ctx).
		Preload("User").
		Preload("Services.Service").
		First(&st, id).Error
	if err != nil {
		return nil, notFound(err, "Staff not found.")
	}
	return &st, nil
}

func (s *Store) ListStaff(ctx context.Context, availableOnly bool) ([]models.Staff, error) {
	q := s.conn(ctx).Preload("User").Order("id asc")
	if availableOnly {
		q = q.Where("is_available = ?", true)
	}
	var out []models.Staff
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) StaffExistsForUser(ctx context.Context, userID uint64) (bool, error) {
	var n int64
	if err := s.conn(ctx).Model(&models.Staff{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (s *Store) UpdateStaff(ctx context.Context, id uint64, fields map[string]interface{}) (*models.Staff, error) {
	if len(fields) > 0 {
		if err := s.conn(ctx).Model(&models.Staff{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, translate(err)
		}
	}
	return s.GetStaff(ctx, id)
}

func (s *Store) StaffServiceExists(ctx context.Context, staffID, serviceID uint64) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&models.StaffService{}).
		Where("staff_id = ? AND service_id = ?", staffID, serviceID).
		Count(&n).Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (s *Store) AssignService(ctx context.Context, ss *models.StaffService) error {
	return translate(s.conn(ctx).Omit("Service").Create(ss).Error)
}
