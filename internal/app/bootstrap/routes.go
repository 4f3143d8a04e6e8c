// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountsfeature "github.com/dalemusser/squadlog/internal/app/features/accounts"
	announcementsfeature "github.com/dalemusser/squadlog/internal/app/features/announcements"
	attendancefeature "github.com/dalemusser/squadlog/internal/app/features/attendance"
	checkinsfeature "github.com/dalemusser/squadlog/internal/app/features/checkins"
	commentsfeature "github.com/dalemusser/squadlog/internal/app/features/comments"
	groupsfeature "github.com/dalemusser/squadlog/internal/app/features/groups"
	healthfeature "github.com/dalemusser/squadlog/internal/app/features/health"
	logsfeature "github.com/dalemusser/squadlog/internal/app/features/logs"
	tagsfeature "github.com/dalemusser/squadlog/internal/app/features/tags"
	"github.com/dalemusser/squadlog/internal/app/service/accountsvc"
	"github.com/dalemusser/squadlog/internal/app/service/announcementsvc"
	"github.com/dalemusser/squadlog/internal/app/service/attendancesvc"
	"github.com/dalemusser/squadlog/internal/app/service/checkinsvc"
	"github.com/dalemusser/squadlog/internal/app/service/commentsvc"
	"github.com/dalemusser/squadlog/internal/app/service/groupsvc"
	"github.com/dalemusser/squadlog/internal/app/service/logsvc"
	announcementstore "github.com/dalemusser/squadlog/internal/app/store/announcements"
	attendancestore "github.com/dalemusser/squadlog/internal/app/store/attendance"
	"github.com/dalemusser/squadlog/internal/app/store/audit"
	checkinstore "github.com/dalemusser/squadlog/internal/app/store/checkins"
	commentstore "github.com/dalemusser/squadlog/internal/app/store/comments"
	groupstore "github.com/dalemusser/squadlog/internal/app/store/groups"
	logstore "github.com/dalemusser/squadlog/internal/app/store/logs"
	tagstore "github.com/dalemusser/squadlog/internal/app/store/tags"
	userstore "github.com/dalemusser/squadlog/internal/app/store/users"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auditlog"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/metrics"
	"github.com/dalemusser/squadlog/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. Stores and services are built once
// here and shared by every request.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	tokens, err := auth.NewTokenService([]byte(appCfg.SessionKey))
	if err != nil {
		logger.Error("session token service init failed", zap.Error(err))
		return nil, err
	}
	// Secure cookies are enabled in production mode.
	sessionMgr := auth.NewSessionManager(tokens, auth.SessionConfig{
		Name:   appCfg.SessionName,
		Domain: appCfg.SessionDomain,
		Secure: coreCfg.Env == "prod",
	}, userstore.NewFetcher(db), logger)

	// Stores
	users := userstore.New(db)
	groups := groupstore.New(db)
	logs := logstore.New(db)
	tags := tagstore.New(db)
	checkins := checkinstore.New(db)
	attendance := attendancestore.New(db)
	comments := commentstore.New(db)
	announcements := announcementstore.New(db)

	audits := auditlog.New(audit.New(db), logger, auditlog.Uniform(appCfg.AuditLog))
	limiter := newLimiterFactory(appCfg, deps)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if appCfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.NewHTTPMetrics(reg)
		r.Use(m.Middleware)
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	// Resolve the caller for every request; anonymous requests pass through
	// and are rejected by RequireSignedIn where a session is needed.
	r.Use(sessionMgr.LoadActor)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		apperr.Write(w, req, logger, apperr.NotFound("Not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		apperr.WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{
			"error": map[string]string{"code": "method_not_allowed", "message": "Method not allowed"},
		})
	})

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		accountsHandler := accountsfeature.NewHandler(
			accountsvc.New(users, groups, logger), sessionMgr, audits, limiter("login"), logger)
		api.Mount("/auth", accountsfeature.Routes(accountsHandler, sessionMgr, limiter("signup")))

		groupsHandler := groupsfeature.NewHandler(groupsvc.New(users, groups, logger), sessionMgr, audits, logger)
		api.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr, limiter("join")))

		checkinsHandler := checkinsfeature.NewHandler(checkinsvc.New(checkins, logger), logger)
		api.Mount("/groups/{id}/checkins", checkinsfeature.Routes(checkinsHandler, sessionMgr))

		announcementsHandler := announcementsfeature.NewHandler(announcementsvc.New(announcements, logger), logger)
		api.Mount("/groups/{id}/announcement", announcementsfeature.Routes(announcementsHandler, sessionMgr))

		logSvc := logsvc.New(users, logs, tags, int64(appCfg.LogQueryLimit), logger)
		api.Mount("/logs", logsfeature.Routes(logsfeature.NewHandler(logSvc, logger), sessionMgr))
		api.Mount("/tags", tagsfeature.Routes(tagsfeature.NewHandler(logSvc, logger), sessionMgr))

		commentsHandler := commentsfeature.NewHandler(commentsvc.New(users, logs, comments, logger), logger)
		api.Mount("/logs/{id}/comments", commentsfeature.Routes(commentsHandler, sessionMgr))

		attendanceHandler := attendancefeature.NewHandler(
			attendancesvc.New(users, checkins, attendance, logger), audits, logger)
		api.Mount("/attendance", attendancefeature.Routes(attendanceHandler, sessionMgr))
	})

	return r, nil
}

// newLimiterFactory returns a constructor for per-endpoint rate limit
// policies. Counters live in Redis when it is configured so limits hold
// across instances.
func newLimiterFactory(appCfg AppConfig, deps DBDeps) func(name string) ratelimit.Policy {
	return func(name string) ratelimit.Policy {
		if deps.Redis != nil {
			return ratelimit.NewRedis(deps.Redis, name, appCfg.RateLimitAttempts, appCfg.RateLimitWindow)
		}
		return ratelimit.New(appCfg.RateLimitAttempts, appCfg.RateLimitWindow)
	}
}
