package account

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByPhone(ctx context.Context, phone string) (*Account, error)
	ListByIDs(ctx context.Context, ids []string) ([]Account, error)
	// CreateIfAbsent inserts the account unless its phone is already taken.
	CreateIfAbsent(ctx context.Context, account *Account) error
	SetOTPCode(ctx context.Context, id, code string) error
	// ClearOTPCode clears the code only if it still equals code and reports
	// whether a row was changed.
	ClearOTPCode(ctx context.Context, id, code string) (bool, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
	CountRecords(ctx context.Context, id string) (Counts, error)
}
