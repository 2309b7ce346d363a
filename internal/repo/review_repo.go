// Review repository.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
)

// CreateReview inserts a review with its denormalized class snapshot.
func CreateReview(ctx context.Context, db *gorm.DB, r *domain.Review) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(r).Error
}

// ListReviewsBySubject returns all reviews about a teacher, newest first.
func ListReviewsBySubject(ctx context.Context, db *gorm.DB, subjectID string) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// RatingStat aggregates one teacher's review ratings.
type RatingStat struct {
	SubjectID string
	Count     int64
	Sum       int64
}

// RatingStatsBySubjects returns per-teacher rating count and sum for the
// given subject ids in a single aggregate query. Subjects without reviews
// are absent from the result map.
func RatingStatsBySubjects(ctx context.Context, db *gorm.DB, subjectIDs []string) (map[string]RatingStat, error) {
	out := make(map[string]RatingStat, len(subjectIDs))
	if len(subjectIDs) == 0 {
		return out, nil
	}
	var rows []RatingStat
	err := db.WithContext(ctx).Model(&domain.Review{}).
		Select("subject_id, COUNT(*) as count, SUM(rating) as sum").
		Where("subject_id IN ?", subjectIDs).
		Group("subject_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.SubjectID] = r
	}
	return out, nil
}

// CountReviewsByAuthorSubject counts reviews an author has written about a
// subject.
func CountReviewsByAuthorSubject(ctx context.Context, db *gorm.DB, authorID, subjectID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Review{}).
		Where("author_id = ? AND subject_id = ?", authorID, subjectID).
		Count(&n).Error
	return n, err
}
