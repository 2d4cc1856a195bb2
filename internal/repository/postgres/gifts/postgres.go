package gifts

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "wedledger/internal/domain/gifts"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListGifts(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Gift, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if filter.From != nil {
		query = query.Where("gift_date >= ?", filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		query = query.Where("gift_date <= ?", filter.To.Format("2006-01-02"))
	}
	if filter.MemberID != "" {
		query = query.Where("from_member_id = ?", filter.MemberID)
	}

	var items []domain.Gift
	if err := query.Order("gift_date desc, created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetGift(ctx context.Context, ownerID, id string) (*domain.Gift, error) {
	var gift domain.Gift
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&gift).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGiftNotFound
		}
		return nil, err
	}
	return &gift, nil
}

func (r *PostgresRepository) CreateGift(ctx context.Context, gift *domain.Gift) error {
	return r.db.WithContext(ctx).Create(gift).Error
}

func (r *PostgresRepository) UpdateGift(ctx context.Context, gift *domain.Gift) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Gift{}).
		Where("owner_id = ? AND id = ?", gift.OwnerID, gift.ID).
		Updates(map[string]interface{}{
			"amount":         gift.Amount,
			"currency":       gift.Currency,
			"recipient_name": gift.RecipientName,
			"from_member_id": gift.FromMemberID,
			"event_name":     gift.EventName,
			"gift_date":      gift.Date,
			"memo":           gift.Memo,
			"updated_at":     gift.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrGiftNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteGift(ctx context.Context, ownerID, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&domain.Gift{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, ownerID string) ([]domain.FamilyMember, error) {
	var members []domain.FamilyMember
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, ownerID, id string) (*domain.FamilyMember, error) {
	var member domain.FamilyMember
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) CreateMember(ctx context.Context, member *domain.FamilyMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, member *domain.FamilyMember) error {
	result := r.db.WithContext(ctx).
		Model(&domain.FamilyMember{}).
		Where("owner_id = ? AND id = ?", member.OwnerID, member.ID).
		Updates(map[string]interface{}{
			"name":       member.Name,
			"color":      member.Color,
			"relation":   member.Relation,
			"updated_at": member.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, ownerID, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&domain.FamilyMember{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
