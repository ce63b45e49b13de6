package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/wasafinance/internal/audit"
	auditdomain "github.com/smallbiznis/wasafinance/internal/audit/domain"
	"github.com/smallbiznis/wasafinance/internal/auth"
	authdomain "github.com/smallbiznis/wasafinance/internal/auth/domain"
	"github.com/smallbiznis/wasafinance/internal/auth/session"
	"github.com/smallbiznis/wasafinance/internal/authorization"
	"github.com/smallbiznis/wasafinance/internal/cache"
	"github.com/smallbiznis/wasafinance/internal/clock"
	"github.com/smallbiznis/wasafinance/internal/config"
	"github.com/smallbiznis/wasafinance/internal/customer"
	customerdomain "github.com/smallbiznis/wasafinance/internal/customer/domain"
	"github.com/smallbiznis/wasafinance/internal/dashboard"
	dashboarddomain "github.com/smallbiznis/wasafinance/internal/dashboard/domain"
	"github.com/smallbiznis/wasafinance/internal/expense"
	expensedomain "github.com/smallbiznis/wasafinance/internal/expense/domain"
	"github.com/smallbiznis/wasafinance/internal/observability"
	obsmiddleware "github.com/smallbiznis/wasafinance/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/wasafinance/internal/observability/metrics"
	obstracing "github.com/smallbiznis/wasafinance/internal/observability/tracing"
	"github.com/smallbiznis/wasafinance/internal/providers"
	"github.com/smallbiznis/wasafinance/internal/ratelimit"
	"github.com/smallbiznis/wasafinance/internal/report"
	reportdomain "github.com/smallbiznis/wasafinance/internal/report/domain"
	"github.com/smallbiznis/wasafinance/internal/servicepackage"
	packagedomain "github.com/smallbiznis/wasafinance/internal/servicepackage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	cache.Module,
	authorization.Module,
	audit.Module,
	auth.Module,
	customer.Module,
	servicepackage.Module,
	expense.Module,
	dashboard.Module,
	providers.Module,
	report.Module,
	ratelimit.Module,
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server started", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	clock        clock.Clock
	authsvc      authdomain.Service
	sessions     *session.Manager
	loginLimiter *ratelimit.LoginLimiter
	authzSvc     authorization.Service
	auditSvc     auditdomain.Service
	customerSvc  customerdomain.Service
	packageSvc   packagedomain.Service
	expenseSvc   expensedomain.Service
	dashboardSvc dashboarddomain.Service
	reportSvc    reportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Clock        clock.Clock
	Authsvc      authdomain.Service
	Sessions     *session.Manager
	LoginLimiter *ratelimit.LoginLimiter `optional:"true"`
	AuthzSvc     authorization.Service
	AuditSvc     auditdomain.Service
	CustomerSvc  customerdomain.Service
	PackageSvc   packagedomain.Service
	ExpenseSvc   expensedomain.Service
	DashboardSvc dashboarddomain.Service
	ReportSvc    reportdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		clock:        p.Clock,
		authsvc:      p.Authsvc,
		sessions:     p.Sessions,
		loginLimiter: p.LoginLimiter,
		authzSvc:     p.AuthzSvc,
		auditSvc:     p.AuditSvc,
		customerSvc:  p.CustomerSvc,
		packageSvc:   p.PackageSvc,
		expenseSvc:   p.ExpenseSvc,
		dashboardSvc: p.DashboardSvc,
		reportSvc:    p.ReportSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.SessionRequired(), s.Me)
	auth.POST("/change-password", s.SessionRequired(), s.ChangePassword)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.SessionRequired())

	// -------- Customers --------
	admin.GET("/customers", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerView), s.ListCustomers)
	admin.POST("/customers", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerCreate), s.CreateCustomer)
	admin.GET("/customers/:id", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerView), s.GetCustomerByID)
	admin.PATCH("/customers/:id", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerUpdate), s.UpdateCustomer)
	admin.DELETE("/customers/:id", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerDelete), s.DeleteCustomer)
	admin.POST("/customers/:id/mark-unpaid", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerUpdate), s.MarkCustomerUnpaid)
	admin.POST("/customers/:id/activate", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerUpdate), s.ActivateCustomer)
	admin.POST("/customers/:id/deactivate", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerUpdate), s.DeactivateCustomer)

	// -------- Packages --------
	admin.GET("/packages", s.authorize(authorization.ObjectPackage, authorization.ActionPackageView), s.ListPackages)
	admin.POST("/packages", s.authorize(authorization.ObjectPackage, authorization.ActionPackageCreate), s.CreatePackage)
	admin.GET("/packages/:id", s.authorize(authorization.ObjectPackage, authorization.ActionPackageView), s.GetPackageByID)
	admin.PATCH("/packages/:id", s.authorize(authorization.ObjectPackage, authorization.ActionPackageUpdate), s.UpdatePackage)
	admin.DELETE("/packages/:id", s.authorize(authorization.ObjectPackage, authorization.ActionPackageDelete), s.DeletePackage)

	// -------- Expenses --------
	admin.GET("/expenses", s.authorize(authorization.ObjectExpense, authorization.ActionExpenseView), s.ListExpenses)
	admin.POST("/expenses", s.authorize(authorization.ObjectExpense, authorization.ActionExpenseCreate), s.CreateExpense)
	admin.GET("/expenses/:id", s.authorize(authorization.ObjectExpense, authorization.ActionExpenseView), s.GetExpenseByID)
	admin.PATCH("/expenses/:id", s.authorize(authorization.ObjectExpense, authorization.ActionExpenseUpdate), s.UpdateExpense)
	admin.DELETE("/expenses/:id", s.authorize(authorization.ObjectExpense, authorization.ActionExpenseDelete), s.DeleteExpense)

	// -------- Dashboard & reports --------
	admin.GET("/dashboard", s.authorize(authorization.ObjectDashboard, authorization.ActionDashboardView), s.GetDashboard)
	admin.GET("/reports/:type", s.authorize(authorization.ObjectReport, authorization.ActionReportGenerate), s.GenerateReport)

	admin.GET("/audit-logs", s.authorize(authorization.ObjectAuditLog, authorization.ActionAuditLogView), s.ListAuditLogs)
}
