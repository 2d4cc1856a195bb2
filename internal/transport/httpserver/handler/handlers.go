package handler

import (
	accountdomain "wedledger/internal/domain/account"
	analyticsdomain "wedledger/internal/domain/analytics"
	giftsdomain "wedledger/internal/domain/gifts"
	notificationsdomain "wedledger/internal/domain/notifications"
	sharingdomain "wedledger/internal/domain/sharing"
	"wedledger/pkg/logger"
)

type Handlers struct {
	Accounts      *accountdomain.Service
	Sharing       *sharingdomain.Service
	Notifications *notificationsdomain.Service
	Gifts         *giftsdomain.Service
	Analytics     *analyticsdomain.Service
	log           logger.Logger
}

func New(
	accounts *accountdomain.Service,
	sharing *sharingdomain.Service,
	notifications *notificationsdomain.Service,
	gifts *giftsdomain.Service,
	analytics *analyticsdomain.Service,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Accounts:      accounts,
		Sharing:       sharing,
		Notifications: notifications,
		Gifts:         gifts,
		Analytics:     analytics,
		log:           log,
	}
}
