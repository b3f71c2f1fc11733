package repo

import (
	"context"

	"StorySync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository stores push delivery targets.
type SubscriptionRepository interface {
	// Upsert registers a subscription, replacing any previous registration
	// of the same endpoint.
	Upsert(ctx context.Context, s *model.Subscription) error
	// Delete removes a subscription by endpoint. Returns false when the
	// endpoint was not registered.
	Delete(ctx context.Context, endpoint string) (bool, error)
}

type subscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) Upsert(ctx context.Context, s *model.Subscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		UpdateAll: true,
	}).Create(s).Error
}

func (r *subscriptionRepo) Delete(ctx context.Context, endpoint string) (bool, error) {
	tx := r.db.WithContext(ctx).Where("endpoint = ?", endpoint).Delete(&model.Subscription{})
	return tx.RowsAffected > 0, tx.Error
}
