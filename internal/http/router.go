package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/yungbote/scool-backend/internal/domain"
	httpH "github.com/yungbote/scool-backend/internal/http/handlers"
	httpMW "github.com/yungbote/scool-backend/internal/http/middleware"
	"github.com/yungbote/scool-backend/internal/observability"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	AuthHandler     *httpH.AuthHandler
	ProfileHandler  *httpH.ProfileHandler
	SocialHandler   *httpH.SocialHandler
	PhotoHandler    *httpH.PhotoHandler
	CatalogHandler  *httpH.CatalogHandler
	AcademicHandler *httpH.AcademicHandler
	DialogHandler   *httpH.DialogHandler
	RealtimeHandler *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "scool-backend"
	}

	r := gin.New()
	r.MaxMultipartMemory = httpH.MaxUploadBytes
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	api := r.Group("/api")
	if cfg.HealthHandler != nil {
		api.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.AuthHandler != nil {
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	protected := api.Group("")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	manager := httpMW.RequireRole(types.RoleEducationalManager)
	teacher := httpMW.RequireRole(types.RoleTeacher)
	staff := httpMW.RequireRole(types.RoleTeacher, types.RoleEducationalManager)

	if cfg.AuthHandler != nil {
		protected.POST("/refresh", cfg.AuthHandler.Refresh)
		protected.POST("/logout", cfg.AuthHandler.Logout)
		protected.DELETE("/me", cfg.AuthHandler.DeleteMe)
	}

	if cfg.RealtimeHandler != nil {
		protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
	}

	if h := cfg.ProfileHandler; h != nil {
		protected.GET("/me", h.GetMe)
		protected.GET("/profiles", h.ListProfiles)
		protected.PATCH("/profiles/me", h.UpdateMe)
		protected.PUT("/profiles/me/avatar", h.SetAvatar)
		protected.GET("/profiles/:id", h.GetProfile)
		protected.GET("/profiles/:id/detail", h.GetDetail)
		protected.POST("/staff", manager, h.CreateStaff)
	}

	if h := cfg.SocialHandler; h != nil {
		protected.GET("/profiles/:id/friends", h.ListFriends)
		protected.GET("/profiles/:id/followers", h.ListFollowers)
		protected.GET("/friend-requests", h.ListRequests)
		protected.POST("/friend-requests", h.SendRequest)
		protected.POST("/friend-requests/:from/accept", h.Accept)
		protected.POST("/friend-requests/:from/decline", h.Decline)
		protected.DELETE("/friends/:id", h.RemoveFriend)
	}

	if h := cfg.PhotoHandler; h != nil {
		protected.GET("/photos", h.ListMine)
		protected.POST("/photos", h.Upload)
		protected.GET("/profiles/:id/photos", h.ListByProfile)
		protected.POST("/photos/:id/like", h.Like)
		protected.DELETE("/photos/:id/like", h.Unlike)
		protected.DELETE("/photos/:id", h.Delete)
	}

	if h := cfg.CatalogHandler; h != nil {
		protected.GET("/categories", h.ListCategories)
		protected.POST("/categories", manager, h.CreateCategory)
		protected.GET("/courses", h.ListCourses)
		protected.POST("/courses", manager, h.CreateCourse)
		protected.GET("/courses/:id", h.GetCourse)
		protected.GET("/courses/:id/lessons", h.ListLessons)
		protected.POST("/lessons", staff, h.CreateLesson)
		protected.GET("/lessons/:id", h.GetLesson)
	}

	if h := cfg.AcademicHandler; h != nil {
		protected.GET("/groups", h.ListGroups)
		protected.POST("/groups", manager, h.CreateGroup)
		protected.GET("/groups/:id", h.GetGroup)
		protected.DELETE("/groups/:id", manager, h.DeleteGroup)
		protected.POST("/groups/:id/members/:profile", manager, h.AddMember)
		protected.DELETE("/groups/:id/members/:profile", manager, h.RemoveMember)

		protected.GET("/timetable", h.ListTimetable)
		protected.POST("/timetable", manager, h.CreateTimetable)
		protected.POST("/timetable/:id/finish", teacher, h.FinishLesson)

		protected.GET("/certificates", h.ListCertificates)
		protected.POST("/certificates", staff, h.IssueCertificate)

		protected.GET("/performance", h.ListPerformance)
		protected.POST("/performance", teacher, h.RecordPerformance)
	}

	if h := cfg.DialogHandler; h != nil {
		protected.GET("/dialogs", h.ListDialogs)
		protected.POST("/dialogs", h.CreateDialog)
		protected.GET("/dialogs/:id", h.GetDialog)
		protected.DELETE("/dialogs/:id", h.DeleteDialog)
		protected.GET("/dialogs/:id/messages", h.ListMessages)
		protected.POST("/dialogs/:id/messages", h.SendMessage)
		protected.POST("/dialogs/:id/attachments", h.UploadAttachment)
		protected.POST("/dialogs/:id/read", h.MarkRead)
	}

	return r
}
