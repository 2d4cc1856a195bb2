package gifts

import "context"

type Repository interface {
	ListGifts(ctx context.Context, ownerID string, filter ListFilter) ([]Gift, error)
	GetGift(ctx context.Context, ownerID, id string) (*Gift, error)
	CreateGift(ctx context.Context, gift *Gift) error
	UpdateGift(ctx context.Context, gift *Gift) error
	DeleteGift(ctx context.Context, ownerID, id string) (bool, error)

	ListMembers(ctx context.Context, ownerID string) ([]FamilyMember, error)
	GetMember(ctx context.Context, ownerID, id string) (*FamilyMember, error)
	CreateMember(ctx context.Context, member *FamilyMember) error
	UpdateMember(ctx context.Context, member *FamilyMember) error
	DeleteMember(ctx context.Context, ownerID, id string) (bool, error)
}
