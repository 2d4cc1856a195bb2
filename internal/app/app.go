package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goredis "github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"wedledger/internal/auth"
	"wedledger/internal/config"
	"wedledger/internal/db"
	accountdomain "wedledger/internal/domain/account"
	analyticsdomain "wedledger/internal/domain/analytics"
	giftsdomain "wedledger/internal/domain/gifts"
	notificationsdomain "wedledger/internal/domain/notifications"
	sharingdomain "wedledger/internal/domain/sharing"
	"wedledger/internal/integrations/exchangerate"
	"wedledger/internal/integrations/sms"
	"wedledger/internal/repository/inmemory"
	accountrepo "wedledger/internal/repository/postgres/account"
	giftsrepo "wedledger/internal/repository/postgres/gifts"
	notificationsrepo "wedledger/internal/repository/postgres/notifications"
	sharingrepo "wedledger/internal/repository/postgres/sharing"
	redisrepo "wedledger/internal/repository/redis"
	"wedledger/internal/transport/httpserver"
	"wedledger/internal/transport/httpserver/handler"
	authmw "wedledger/internal/transport/httpserver/middleware"
	"wedledger/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	application := &App{cfg: cfg, db: dbConn}

	if cfg.DB.AutoMigrate {
		if err := db.Migrate(dbConn, log); err != nil {
			_ = application.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	log.Info("app: initializing services")
	var sessions *auth.Sessions
	var sessionParser authmw.SessionParser
	if cfg.Auth.SessionSecret != "" {
		sessions, err = auth.NewSessions(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
		if err != nil {
			_ = application.Close()
			return nil, err
		}
		sessionParser = sessions
	} else {
		log.Warn("app: no SESSION_SECRET, verify will not issue sessions")
	}

	sender, err := sms.New(cfg.SMS.Provider, sms.Config{
		BaseURL: cfg.SMS.BaseURL,
		APIKey:  cfg.SMS.APIKey,
		Sender:  cfg.SMS.Sender,
		Timeout: cfg.SMS.Timeout,
	}, log)
	if err != nil {
		_ = application.Close()
		return nil, err
	}

	rateSource, err := exchangerate.NewClient(exchangerate.Config{
		BaseURL: cfg.Rates.BaseURL,
		Timeout: cfg.Rates.Timeout,
	})
	if err != nil {
		_ = application.Close()
		return nil, err
	}

	rateCache, err := application.rateCache(log)
	if err != nil {
		_ = application.Close()
		return nil, err
	}

	var issuer accountdomain.SessionIssuer
	if sessions != nil {
		issuer = sessions
	}
	accounts := accountdomain.NewService(accountrepo.NewPostgres(dbConn), sender, issuer)
	notifications := notificationsdomain.NewService(notificationsrepo.NewPostgres(dbConn), log)
	sharing := sharingdomain.NewService(sharingrepo.NewPostgres(dbConn), accounts, notifications, sender, log, sharingdomain.Config{
		InviteTTL:       cfg.InviteTTL,
		PublicBaseURL:   cfg.PublicBaseURL,
		DefaultLanguage: cfg.DefaultLanguage,
	})
	gifts := giftsdomain.NewService(giftsrepo.NewPostgres(dbConn), sharing)
	analytics := analyticsdomain.NewService(gifts, rateSource, rateCache, log, analyticsdomain.Config{
		BaseCurrency:  cfg.Rates.BaseCurrency,
		RatesCacheTTL: cfg.Rates.CacheTTL,
	})

	log.Info("app: initializing router")
	handlers := handler.New(accounts, sharing, notifications, gifts, analytics, log)
	router := httpserver.NewRouter(cfg, handlers, sessionParser, log)

	log.Info("app: initializing http server")
	application.httpServer = httpserver.New(cfg, router)

	return application, nil
}

// rateCache picks the exchange-rate cache named by RATES_CACHE.
func (a *App) rateCache(log logger.Logger) (analyticsdomain.RateCache, error) {
	switch a.cfg.Rates.Cache {
	case "redis":
		client, err := redisrepo.NewClient(context.Background(), redisrepo.Config{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.redis = client
		log.Info("app: caching rates in redis", "addr", a.cfg.Redis.Addr)
		return redisrepo.NewRatesCache(client, log), nil
	case "none":
		return nil, nil
	default:
		return inmemory.NewInMemoryRatesCache(), nil
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
