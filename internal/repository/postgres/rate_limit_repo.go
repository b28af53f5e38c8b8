package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackkit/auth-starter/internal/domain"
)

type rateLimitRepository struct {
	db *gorm.DB
}

func NewRateLimitRepository(db *gorm.DB) *rateLimitRepository {
	return &rateLimitRepository{db: db}
}

// Increment applies a fixed-window count under a row lock so concurrent
// requests for the same key serialize on the counter.
func (r *rateLimitRepository) Increment(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row domain.RateLimit
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&row, "key = ?", key).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = domain.RateLimit{Key: key, Count: 1, LastRequest: now}
			count = 1
			return tx.Create(&row).Error
		case err != nil:
			return err
		}

		if now.Sub(row.LastRequest) >= window {
			row.Count = 1
			row.LastRequest = now
		} else {
			row.Count++
		}
		count = row.Count
		return tx.Save(&row).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
