package http

import (
	"log"
	"time"

	"github.com/JaligamRishitha/renewmart-sub000/internal/config"
	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"
	"github.com/JaligamRishitha/renewmart-sub000/internal/http/assignments"
	auditapi "github.com/JaligamRishitha/renewmart-sub000/internal/http/audit"
	"github.com/JaligamRishitha/renewmart-sub000/internal/http/auth"
	"github.com/JaligamRishitha/renewmart-sub000/internal/http/common"
	"github.com/JaligamRishitha/renewmart-sub000/internal/http/lands"
	"github.com/JaligamRishitha/renewmart-sub000/internal/http/revisions"
	"github.com/JaligamRishitha/renewmart-sub000/internal/repo/postgres"
	"github.com/JaligamRishitha/renewmart-sub000/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg           config.Config
	r             *gin.Engine
	versions      *usecase.VersionService
	reviews       *usecase.ReviewService
	summaries     *usecase.SummaryService
	trail         *usecase.AuditTrail
	authenticator common.Authenticator
	authorizer    docs.Authorizer

	rateLimiter       docs.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration
}

type ServerDeps struct {
	Versions      *usecase.VersionService
	Reviews       *usecase.ReviewService
	Summaries     *usecase.SummaryService
	Trail         *usecase.AuditTrail
	Authenticator common.Authenticator
	Authorizer    docs.Authorizer
	RateLimiter   docs.RateLimiter
}

func NewServer(cfg config.Config, store *postgres.Store, dir docs.ReviewerDirectory, limiter docs.RateLimiter) *Server {
	revisionRepo := postgres.NewRevisionRepo(store.Pool)
	assignmentRepo := postgres.NewAssignmentRepo(store.Pool)
	auditRepo := postgres.NewAuditRepo(store.Pool)
	summaryRepo := postgres.NewSummaryRepo(store.Pool)
	registry := postgres.NewLandRegistry(store.Pool, cfg.AllowedDocumentTypes)

	return NewServerWithDeps(cfg, ServerDeps{
		Versions:      usecase.NewVersionService(revisionRepo, registry),
		Reviews:       usecase.NewReviewService(assignmentRepo, dir),
		Summaries:     usecase.NewSummaryService(summaryRepo),
		Trail:         usecase.NewAuditTrail(auditRepo),
		Authenticator: auth.NewHeaderAuthenticator(),
		Authorizer:    auth.NewAuthorizer(),
		RateLimiter:   limiter,
	})
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:               cfg,
		r:                 r,
		versions:          deps.Versions,
		reviews:           deps.Reviews,
		summaries:         deps.Summaries,
		trail:             deps.Trail,
		authenticator:     deps.Authenticator,
		authorizer:        deps.Authorizer,
		rateLimiter:       deps.RateLimiter,
		rateLimitRequests: cfg.RateLimitRequests,
		rateLimitWindow:   time.Duration(cfg.RateLimitWindowSeconds) * time.Second,
	}
	if s.authenticator == nil {
		s.authenticator = auth.NewHeaderAuthenticator()
	}
	if s.authorizer == nil {
		s.authorizer = auth.NewAuthorizer()
	}
	s.routes()
	return s
}

func (s *Server) Run() error {
	addr := s.cfg.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("document service listening on %s", addr)
	return s.r.Run(addr)
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	revisionHandler := revisions.NewHandler(s.versions, s.reviews)
	assignmentHandler := assignments.NewHandler(s.reviews)
	landHandler := lands.NewHandler(s.summaries)
	auditHandler := auditapi.NewHandler(s.trail)

	v1 := s.r.Group("/v1")
	{
		auth := func(permission string, requireRequestID bool) gin.HandlerFunc {
			return common.AuthMiddleware(s.authenticator, s.authorizer, permission, requireRequestID)
		}

		v1.POST("/revisions", auth(docs.PermRevisionWrite, true), s.rateLimit("revisions:create"), revisionHandler.HandleCreateRevision)
		v1.GET("/revisions", auth(docs.PermRevisionRead, false), revisionHandler.HandleListVersions)
		v1.GET("/revisions/latest", auth(docs.PermRevisionRead, false), revisionHandler.HandleGetLatest)
		v1.GET("/revisions/:id", auth(docs.PermRevisionRead, false), revisionHandler.HandleGetRevision)
		v1.POST("/revisions/:id/archive", auth(docs.PermRevisionArchive, true), revisionHandler.HandleArchive)
		v1.POST("/revisions/:id/unlock", auth(docs.PermAdminUnlock, true), revisionHandler.HandleUnlock)

		v1.POST("/assignments", auth(docs.PermAssignmentWrite, true), s.rateLimit("assignments:create"), assignmentHandler.HandleCreateAssignment)
		v1.GET("/assignments/:id", auth(docs.PermAssignmentRead, false), assignmentHandler.HandleGetAssignment)
		v1.PATCH("/assignments/:id/start", auth(docs.PermAssignmentReview, true), assignmentHandler.HandleStart)
		v1.PATCH("/assignments/:id/complete", auth(docs.PermAssignmentReview, true), assignmentHandler.HandleComplete)
		v1.PATCH("/assignments/:id/cancel", auth(docs.PermAssignmentWrite, true), assignmentHandler.HandleCancel)

		v1.GET("/lands/:id/status-summary", auth(docs.PermSummaryRead, false), landHandler.HandleStatusSummary)
		v1.GET("/audit", auth(docs.PermAuditRead, false), auditHandler.HandleHistory)
	}
}
