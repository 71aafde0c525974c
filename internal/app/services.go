package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Profile     services.ProfileService
	Social      services.SocialService
	Photo       services.PhotoService
	Catalog     services.CatalogService
	Group       services.GroupService
	Timetable   services.TimetableService
	Certificate services.CertificateService
	Performance services.PerformanceService
	Dialog      services.DialogService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r repos.Set, clients Clients, pub services.Publisher) (Services, error) {
	log.Info("Wiring services...")
	loader := services.NewLoader(r)
	bucket := clients.Bucket

	certificates, err := services.NewCertificateService(db, log, r, loader, bucket, cfg.CertificateFont)
	if err != nil {
		return Services{}, fmt.Errorf("init certificate service: %w", err)
	}

	return Services{
		Auth:        services.NewAuthService(db, log, r, bucket, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Profile:     services.NewProfileService(db, log, r, loader, bucket),
		Social:      services.NewSocialService(db, log, r, loader, bucket, pub),
		Photo:       services.NewPhotoService(db, log, r, loader, bucket),
		Catalog:     services.NewCatalogService(db, log, r, loader, bucket),
		Group:       services.NewGroupService(db, log, r, loader, bucket),
		Timetable:   services.NewTimetableService(db, log, r, loader, bucket),
		Certificate: certificates,
		Performance: services.NewPerformanceService(db, log, r),
		Dialog:      services.NewDialogService(db, log, r, loader, bucket, pub),
	}, nil
}
