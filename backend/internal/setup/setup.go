package setup

import (
	"net/http"

	"github.com/plankhq/plank/backend/internal/events"
	"github.com/plankhq/plank/backend/internal/handler"
	"github.com/plankhq/plank/backend/internal/service"
	"github.com/plankhq/plank/backend/internal/storage/pg"
	"github.com/plankhq/plank/backend/internal/utils"
	"github.com/plankhq/plank/backend/internal/utils/email"
	"github.com/plankhq/plank/shared/config"
	"github.com/plankhq/plank/shared/jwt"
	mw "github.com/plankhq/plank/shared/middleware"
)

// Dependencies holds every initialized component the router and main need.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	Hub            *events.Hub
	WsHandler      http.HandlerFunc
	Reminder       *service.ReminderSweeper
	AuthMiddleware *mw.Auth
	Config         *config.Config
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	email := email.New(&cfg.Private.Email)
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	validator := utils.New()

	auth := service.NewAuth(storage, email, jwtService, &cfg.Public)
	project := service.NewProject(storage, &cfg.Public)
	board := service.NewBoard(storage, validator, email)
	comment := service.NewComment(storage, validator)
	chat := service.NewChat(storage, validator)
	activity := service.NewActivity(storage)
	reminder := service.NewReminderSweeper(storage, email)

	hub := events.NewHub()
	wsHandler := events.NewWebsocketHandler(hub, cfg.Public.AllowedOrigins)

	h := handler.New(auth, project, board, comment, chat, activity, &cfg.Public)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		Hub:            hub,
		WsHandler:      wsHandler,
		Reminder:       reminder,
		AuthMiddleware: mw.NewAuth(jwtService, cfg.Public.SecureCookies),
		Config:         cfg,
	}, nil
}
