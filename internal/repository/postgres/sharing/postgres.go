package sharing

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "wedledger/internal/domain/sharing"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, connection *domain.Connection) error {
	return r.db.WithContext(ctx).Create(connection).Error
}

func (r *PostgresRepository) Find(ctx context.Context, filter domain.Filter) (*domain.Connection, error) {
	var connection domain.Connection
	err := r.filtered(ctx, filter).
		Order("created_at desc").
		First(&connection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrConnectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &connection, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter domain.Filter) ([]domain.Connection, error) {
	var connections []domain.Connection
	if err := r.filtered(ctx, filter).
		Order("created_at desc").
		Find(&connections).Error; err != nil {
		return nil, err
	}
	return connections, nil
}

func (r *PostgresRepository) TransitionStatus(ctx context.Context, id string, from, to domain.Status, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Connection{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) UpdatePermission(ctx context.Context, id string, permission domain.Permission, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Connection{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"permission": permission,
			"updated_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrConnectionNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Connection{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrConnectionNotFound
	}
	return nil
}

func (r *PostgresRepository) filtered(ctx context.Context, filter domain.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&domain.Connection{})
	if filter.ID != "" {
		query = query.Where("id = ?", filter.ID)
	}
	if filter.Token != "" {
		query = query.Where("invite_token = ?", filter.Token)
	}
	if filter.OwnerID != "" {
		query = query.Where("child_user_id = ?", filter.OwnerID)
	}
	if filter.ViewerID != "" {
		query = query.Where("parent_user_id = ?", filter.ViewerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}
