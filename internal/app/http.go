package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/http"
	httpH "github.com/yungbote/scool-backend/internal/http/handlers"
	httpMW "github.com/yungbote/scool-backend/internal/http/middleware"
	"github.com/yungbote/scool-backend/internal/observability"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	Profile  *httpH.ProfileHandler
	Social   *httpH.SocialHandler
	Photo    *httpH.PhotoHandler
	Catalog  *httpH.CatalogHandler
	Academic *httpH.AcademicHandler
	Dialog   *httpH.DialogHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services, hub *realtime.SSEHub, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db),
		Auth:     httpH.NewAuthHandler(services.Auth),
		Profile:  httpH.NewProfileHandler(services.Profile),
		Social:   httpH.NewSocialHandler(services.Social),
		Photo:    httpH.NewPhotoHandler(services.Photo),
		Catalog:  httpH.NewCatalogHandler(services.Catalog),
		Academic: httpH.NewAcademicHandler(services.Group, services.Timetable, services.Certificate, services.Performance),
		Dialog:   httpH.NewDialogHandler(services.Dialog),
		Realtime: httpH.NewRealtimeHandler(log, hub, metrics),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		ServiceName:     cfg.Otel.ServiceName,
		AllowedOrigins:  cfg.AllowedOrigins,
		Metrics:         metrics,
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		AuthHandler:     handlers.Auth,
		ProfileHandler:  handlers.Profile,
		SocialHandler:   handlers.Social,
		PhotoHandler:    handlers.Photo,
		CatalogHandler:  handlers.Catalog,
		AcademicHandler: handlers.Academic,
		DialogHandler:   handlers.Dialog,
		RealtimeHandler: handlers.Realtime,
	})
}
