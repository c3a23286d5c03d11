package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"dinehub/internal/config"
	"dinehub/internal/domain"
	"dinehub/internal/infra/auth/token"
	"dinehub/internal/infra/db"
	"dinehub/internal/infra/policyopa"
	"dinehub/internal/infra/ratelimit"
	"dinehub/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg   config.Config
	store *db.Store
	r     *gin.Engine

	resolver *usecase.SessionResolver
	applier  *usecase.ScopeApplier
	policy   *usecase.CapabilityPolicy
	audit    *usecase.AuditEmitter

	tenants     usecase.TenantRepository
	locations   usecase.LocationRepository
	devices     usecase.DeviceRepository
	memberships usecase.MembershipRepository
	users       usecase.UserRepository
	auditLog    usecase.AuditLogReader

	adminAPIKey string
	enrollOpen  bool
	authInitErr error

	rateLimiter          domain.RateLimiter
	rateLimitRequests    int
	rateLimitWindow      time.Duration
	rateLimitWithSubject bool
	rateLimitFailClosed  bool
}

func NewServer(cfg config.Config, store *db.Store) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, store: store, r: r}
	s.initDeps()
	s.routes()
	return s
}

type ServerDeps struct {
	Resolver    *usecase.SessionResolver
	Applier     *usecase.ScopeApplier
	Policy      *usecase.CapabilityPolicy
	Audit       *usecase.AuditEmitter
	Tenants     usecase.TenantRepository
	Locations   usecase.LocationRepository
	Devices     usecase.DeviceRepository
	Memberships usecase.MembershipRepository
	Users       usecase.UserRepository
	AuditLog    usecase.AuditLogReader
	RateLimiter domain.RateLimiter
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:         cfg,
		r:           r,
		resolver:    deps.Resolver,
		applier:     deps.Applier,
		policy:      deps.Policy,
		audit:       deps.Audit,
		tenants:     deps.Tenants,
		locations:   deps.Locations,
		devices:     deps.Devices,
		memberships: deps.Memberships,
		users:       deps.Users,
		auditLog:    deps.AuditLog,
		adminAPIKey: cfg.AdminAPIKey,
		enrollOpen:  cfg.DeviceEnrollOpen,
	}
	if s.policy == nil {
		s.policy = usecase.NewCapabilityPolicy()
	}
	s.initRateLimit(deps.RateLimiter)
	s.routes()
	return s
}

func (s *Server) initDeps() {
	s.adminAPIKey = s.cfg.AdminAPIKey
	s.enrollOpen = s.cfg.DeviceEnrollOpen
	s.policy = usecase.NewCapabilityPolicy()

	var (
		userRepo       *db.UserRepository
		tenantRepo     *db.TenantRepository
		membershipRepo *db.MembershipRepository
		deviceRepo     *db.DeviceRepository
		locationRepo   *db.LocationRepository
		auditRepo      *db.AuditEventRepository
	)
	if s.store != nil {
		userRepo = db.NewUserRepository(s.store.DB)
		tenantRepo = db.NewTenantRepository(s.store.DB)
		membershipRepo = db.NewMembershipRepository(s.store.DB)
		deviceRepo = db.NewDeviceRepository(s.store.DB)
		locationRepo = db.NewLocationRepository(s.store.DB)
		if s.store.DB != nil {
			auditRepo = db.NewAuditEventRepository(s.store.DB)
		}
	}

	verifier, err := token.NewVerifierFromConfig(s.cfg)
	if err != nil {
		s.authInitErr = err
	}

	memberships := usecase.NewMembershipResolver(userRepo, membershipRepo)
	binder := usecase.NewDeviceBinder(deviceRepo)
	s.resolver = usecase.NewSessionResolver(verifier, memberships, binder)
	s.applier = usecase.NewScopeApplier(locationRepo, s.policy)
	if s.cfg.OPAPolicyPath != "" {
		engine, err := policyopa.NewEngineFromPath(context.Background(), s.cfg.OPAPolicyPath, s.cfg.OPAPolicyBundleID)
		if err != nil {
			s.authInitErr = err
		} else {
			s.applier.Filter = engine
		}
	}
	if auditRepo != nil {
		s.audit = usecase.NewAuditEmitter(auditRepo, nil)
		s.auditLog = auditRepo
	}

	s.tenants = tenantRepo
	s.locations = locationRepo
	s.devices = deviceRepo
	s.memberships = membershipRepo
	s.users = userRepo

	s.initRateLimit(nil)
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	if override != nil {
		s.rateLimiter = override
	}
	if s.rateLimiter == nil && s.cfg.RateLimitRequests > 0 {
		if s.cfg.RedisAddr != "" {
			if limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil); err == nil {
				s.rateLimiter = limiter
			} else {
				log.Printf("redis rate limiter unavailable, falling back to memory: %v", err)
			}
		}
		if s.rateLimiter == nil {
			s.rateLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{
				MaxKeys: s.cfg.RateLimitMaxKeys,
			})
		}
	}
	s.rateLimitRequests = s.cfg.RateLimitRequests
	s.rateLimitWindow = s.cfg.RateLimitWindow()
	s.rateLimitWithSubject = s.cfg.RateLimitIncludeSubject
	s.rateLimitFailClosed = s.cfg.RateLimitFailClosed
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		dbMode := "no-db"
		if s.store != nil && s.store.DB != nil {
			dbMode = "db"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": dbMode})
	})

	v1 := s.r.Group("/v1")
	{
		// Tenant bootstrap is admin-key only; everything below it rides the
		// session pipeline.
		v1.POST("/tenants", s.handleCreateTenant)

		scoped := v1.Group("", s.sessionMiddleware())
		{
			scoped.GET("/session", s.handleSession)
			scoped.POST("/authorize", s.handleAuthorize)

			scoped.POST("/locations",
				s.requireCapabilities(domain.RequireAll, domain.CapLocationsCreate), s.handleCreateLocation)
			scoped.GET("/locations",
				s.requireCapabilities(domain.RequireAll, domain.CapLocationsRead), s.handleListLocations)

			scoped.POST("/devices",
				s.requireCapabilities(domain.RequireAll, domain.CapDevicesCreate), s.handleRegisterDevice)
			scoped.GET("/devices",
				s.requireCapabilities(domain.RequireAll, domain.CapDevicesRead), s.handleListDevices)
			scoped.PUT("/devices/:device_key/location",
				s.requireCapabilities(domain.RequireAll, domain.CapDevicesUpdate), s.handleAssignDevice)
			scoped.POST("/devices/:device_key/revoke",
				s.requireCapabilities(domain.RequireAll, domain.CapDevicesUpdate), s.handleRevokeDevice)

			scoped.POST("/members/invites",
				s.requireCapabilities(domain.RequireAll, domain.CapMembersCreate), s.handleInviteMember)
			scoped.GET("/members",
				s.requireCapabilities(domain.RequireAll, domain.CapMembersRead), s.handleListMembers)

			scoped.GET("/audit",
				s.requireCapabilities(domain.RequireAll, domain.CapAuditRead), s.handleListAuditEvents)
		}

		// Invite acceptance: the caller is authenticated but has no role
		// yet, so scope application would reject it as an unassigned
		// branch session.
		v1.POST("/members/invites/accept", s.authnMiddleware(), s.handleAcceptInvite)
	}

	s.r.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "route not found")
	})
}

func (s *Server) Run() error {
	if s.authInitErr != nil {
		return s.authInitErr
	}
	return s.r.Run(s.cfg.HTTPAddr)
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.r
}
