package account

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "wedledger/internal/domain/account"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	return r.first(ctx, "phone = ?", phone)
}

func (r *PostgresRepository) first(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.WithContext(ctx).Where(query, args...).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Account, error) {
	if len(ids) == 0 {
		return []domain.Account{}, nil
	}
	var accounts []domain.Account
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(account).Error
}

func (r *PostgresRepository) SetOTPCode(ctx context.Context, id, code string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"otp_code":   code,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *PostgresRepository) ClearOTPCode(ctx context.Context, id, code string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ? AND otp_code = ?", id, code).
		Updates(map[string]interface{}{
			"otp_code":   gorm.Expr("NULL"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if update.FirstName != nil {
		updates["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		updates["last_name"] = *update.LastName
	}
	if update.Birthdate != nil {
		updates["birthdate"] = *update.Birthdate
	}
	if update.Language != nil {
		updates["language"] = *update.Language
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *PostgresRepository) CountRecords(ctx context.Context, id string) (domain.Counts, error) {
	var counts domain.Counts
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM family_members WHERE owner_id = ?) AS family_count,
			(SELECT COUNT(*) FROM gifts WHERE owner_id = ?) AS gifts_count`,
		id, id,
	).Scan(&counts).Error
	if err != nil {
		return domain.Counts{}, err
	}
	return counts, nil
}
