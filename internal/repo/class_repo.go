// Class repository. The reschedule state machine itself lives in the booking
// service; this layer only persists whole-row snapshots and scoped updates.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
)

// CreateClass inserts a new class row. A duplicate PaymentSessionID trips the
// unique index; callers detect that with IsDuplicate.
func CreateClass(ctx context.Context, db *gorm.DB, c *domain.Class) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ReschedStatus == "" {
		c.ReschedStatus = domain.ReschedNone
	}
	c.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(c).Error
}

// GetClass fetches a class by id, or ErrNotFound.
func GetClass(ctx context.Context, db *gorm.DB, id string) (*domain.Class, error) {
	var c domain.Class
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetClassByPaymentSession fetches the class created from the given checkout
// session, or ErrNotFound.
func GetClassByPaymentSession(ctx context.Context, db *gorm.DB, sessionID string) (*domain.Class, error) {
	var c domain.Class
	if err := db.WithContext(ctx).Where("payment_session_id = ?", sessionID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListClassesByStudent returns the student's classes, soonest booking first.
func ListClassesByStudent(ctx context.Context, db *gorm.DB, studentID string) ([]domain.Class, error) {
	var out []domain.Class
	err := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListClassesByTeacher returns the teacher's classes, newest booking first.
func ListClassesByTeacher(ctx context.Context, db *gorm.DB, teacherID string) ([]domain.Class, error) {
	var out []domain.Class
	err := db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// UpdateClassSchedule overwrites the live date/timeslot together with the
// reschedule columns in one write, so an accepted proposal lands atomically.
func UpdateClassSchedule(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).Model(&domain.Class{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkClassRated flips IsRated from false to true. The WHERE clause on the
// current value makes the transition race-safe: a second caller affects zero
// rows and gets ErrNotFound.
func MarkClassRated(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Model(&domain.Class{}).
		Where("id = ? AND is_rated = ?", id, false).
		Update("is_rated", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClass removes a class row.
func DeleteClass(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Class{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
