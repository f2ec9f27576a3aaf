package setup

import (
	"net/http"

	"github.com/pressgate-dev/pressgate/internal/config"
	"github.com/pressgate-dev/pressgate/internal/handler"
	"github.com/pressgate-dev/pressgate/internal/jwt"
	"github.com/pressgate-dev/pressgate/internal/logger"
	"github.com/pressgate-dev/pressgate/internal/middleware"
	"github.com/pressgate-dev/pressgate/internal/notify"
	"github.com/pressgate-dev/pressgate/internal/router"
	"github.com/pressgate-dev/pressgate/internal/service"
	"github.com/pressgate-dev/pressgate/internal/storage/pg"
)

// Dependencies holds everything main needs to run and tear down.
type Dependencies struct {
	Storage    *pg.Storage
	Dispatcher *notify.Dispatcher
	Router     http.Handler
}

func Setup(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.SmtpConfigured() {
		mailer = notify.NewSmtpMailer(&cfg.Private.Smtp)
	} else {
		logger.Log.Warn("smtp not configured, notifications go to the log")
	}
	dispatcher := notify.NewDispatcher(mailer, cfg.Public.NotifyBuffer)

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	authService := service.NewAuth(storage, jwtService, cfg)
	moderationService := service.NewModeration(storage, dispatcher, cfg)
	contentService := service.NewContent(storage, cfg)
	statsService := service.NewStats(storage, cfg)

	h := handler.New(authService, moderationService, contentService, statsService, cfg)
	authMiddleware := middleware.NewAuth(jwtService, storage, cfg)

	return &Dependencies{
		Storage:    storage,
		Dispatcher: dispatcher,
		Router:     router.New(h, authMiddleware, cfg),
	}, nil
}

func (d *Dependencies) Cleanup() {
	d.Dispatcher.Close()
	if err := d.Storage.Cleanup(); err != nil {
		logger.Log.Error("storage cleanup failed", "error", err)
	}
}
