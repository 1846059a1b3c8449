package router

import (
	"time"

	"gravoplus/internal/config"
	"gravoplus/internal/handler"
	"gravoplus/internal/infra"
	"gravoplus/internal/middleware"
	"gravoplus/internal/repository"
	"gravoplus/internal/service"
	"gravoplus/internal/worker"
	"gravoplus/internal/ws"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns the configured Gin engine plus the
// worker pool, which main starts with its own lifecycle context.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, hub *ws.Hub) (*gin.Engine, *worker.Pool) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	employeeRepo := repository.NewEmployeeRepository(db)
	clientRepo := repository.NewClientRepository(db)
	machineRepo := repository.NewMachineRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	fixedServiceRepo := repository.NewFixedServiceRepository(db)
	devisRepo := repository.NewDevisRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	closureRepo := repository.NewClosureRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// ── Workers ──────────────────────────────────────────────────────────────
	// Dispatcher is injected into services that enqueue async jobs; the pool
	// consumes them with the handlers registered below.
	dispatcher := worker.NewDispatcher(rdb)
	pool := worker.NewPool(rdb)
	pdfWorker := worker.NewPDFWorker(invoiceRepo, dispatcher, cfg.PDFStoragePath, cfg.CompanyName)
	emailWorker := worker.NewEmailWorker(mailer)
	pool.Register("pdf", pdfWorker.Process)
	pool.Register("email", emailWorker.Process)

	// ── Services ─────────────────────────────────────────────────────────────
	notificationSvc := service.NewNotificationService(notificationRepo, ws.NewRedisPublisher(rdb))
	authSvc := service.NewAuthService(employeeRepo, cfg)
	clientSvc := service.NewClientService(clientRepo)
	catalogSvc := service.NewCatalogService(machineRepo, materialRepo, fixedServiceRepo)
	devisSvc := service.NewDevisService(devisRepo, clientRepo, machineRepo, materialRepo, fixedServiceRepo, notificationSvc)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, devisRepo, paymentRepo, dispatcher, notificationSvc)
	caisseSvc := service.NewCaisseService(paymentRepo, expenseRepo, closureRepo, invoiceRepo, devisRepo, notificationSvc)
	expenseSvc := service.NewExpenseService(expenseRepo)
	exportSvc := service.NewExportService(devisRepo, caisseSvc)
	dashboardSvc := service.NewDashboardService(statsRepo, paymentRepo, expenseRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	employeesH := handler.NewEmployeeHandler(authSvc)
	clientsH := handler.NewClientHandler(clientSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	devisH := handler.NewDevisHandler(devisSvc)
	invoicesH := handler.NewInvoiceHandler(invoiceSvc)
	caisseH := handler.NewCaisseHandler(caisseSvc)
	expensesH := handler.NewExpenseHandler(expenseSvc)
	notificationsH := handler.NewNotificationHandler(notificationSvc, dashboardSvc)
	exportsH := handler.NewExportHandler(exportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Websocket — the JWT travels in the first frame, not the header
	r.GET("/ws", hub.Handle)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: employee, manager, admin — declared per-endpoint
		allRoles := middleware.RequireRole("employee", "manager", "admin")
		managerUp := middleware.RequireRole("manager", "admin")
		adminOnly := middleware.RequireRole("admin")

		// Clients
		v1.GET("/clients", allRoles, clientsH.List)
		v1.GET("/clients/:id", allRoles, clientsH.Get)
		v1.POST("/clients", allRoles, clientsH.Create)
		v1.PUT("/clients/:id", allRoles, clientsH.Update)
		v1.DELETE("/clients/:id", managerUp, clientsH.Delete)

		// Employees — admin only
		employees := v1.Group("/employees", adminOnly)
		{
			employees.POST("", employeesH.Create)
			employees.GET("", employeesH.List)
			employees.PUT("/:id", employeesH.Update)
			employees.DELETE("/:id", employeesH.Deactivate)
			employees.PATCH("/:id/reactivate", employeesH.Reactivate)
		}

		// Catalog — everyone reads, manager/admin writes
		v1.GET("/machines", allRoles, catalogH.ListMachines)
		v1.GET("/materials", allRoles, catalogH.ListMaterials)
		v1.GET("/services", allRoles, catalogH.ListFixedServices)
		catalog := v1.Group("", managerUp)
		{
			catalog.POST("/machines", catalogH.CreateMachine)
			catalog.PUT("/machines/:id", catalogH.UpdateMachine)
			catalog.DELETE("/machines/:id", catalogH.DeactivateMachine)
			catalog.POST("/materials", catalogH.CreateMaterial)
			catalog.PUT("/materials/:id", catalogH.UpdateMaterial)
			catalog.DELETE("/materials/:id", catalogH.DeactivateMaterial)
			catalog.POST("/services", catalogH.CreateFixedService)
			catalog.PUT("/services/:id", catalogH.UpdateFixedService)
			catalog.DELETE("/services/:id", catalogH.DeactivateFixedService)
		}

		// Devis
		devis := v1.Group("/devis", allRoles)
		{
			devis.POST("", devisH.Create)
			devis.GET("", devisH.List)
			devis.GET("/:id", devisH.Get)
			devis.DELETE("/:id", devisH.Delete)
			devis.POST("/:id/lines", devisH.AddLine)
			devis.DELETE("/:id/lines/:lineId", devisH.RemoveLine)
			devis.POST("/:id/services", devisH.ToggleService)
			devis.POST("/:id/validate", devisH.Validate)
			devis.POST("/:id/cancel", devisH.Cancel)
			devis.GET("/:id/payments", caisseH.DevisStats)
		}

		// Invoices
		invoices := v1.Group("/invoices", allRoles)
		{
			invoices.POST("", invoicesH.Create)
			invoices.GET("", invoicesH.List)
			invoices.GET("/:id", invoicesH.Get)
			invoices.GET("/:id/pdf", invoicesH.DownloadPDF)
			invoices.GET("/:id/payments", caisseH.InvoiceStats)
		}

		// Caisse
		caisse := v1.Group("/caisse")
		{
			caisse.POST("/payments", allRoles, caisseH.RegisterPayment)
			caisse.GET("/ledger", managerUp, caisseH.Ledger)
			caisse.POST("/closures", adminOnly, caisseH.CreateClosure)
			caisse.GET("/closures", managerUp, caisseH.ListClosures)
		}

		// Expenses — manager/admin
		v1.GET("/expense-categories", allRoles, expensesH.ListCategories)
		expCat := v1.Group("/expense-categories", managerUp)
		{
			expCat.POST("", expensesH.CreateCategory)
			expCat.PUT("/:id", expensesH.UpdateCategory)
			expCat.DELETE("/:id", expensesH.DeleteCategory)
		}
		expenses := v1.Group("/expenses", managerUp)
		{
			expenses.POST("", expensesH.Create)
			expenses.GET("", expensesH.List)
			expenses.PUT("/:id", expensesH.Update)
			expenses.DELETE("/:id", expensesH.Delete)
		}

		// Notifications + dashboard
		notifications := v1.Group("/notifications", allRoles)
		{
			notifications.GET("", notificationsH.List)
			notifications.GET("/unread-count", notificationsH.UnreadCount)
			notifications.PATCH("/:id/read", notificationsH.MarkRead)
			notifications.PATCH("/read-all", notificationsH.MarkAllRead)
		}
		v1.GET("/dashboard/stats", allRoles, notificationsH.DashboardStats)

		// Exports
		exports := v1.Group("/exports", managerUp)
		{
			exports.GET("/devis", exportsH.Devis)
			exports.GET("/ledger", exportsH.Ledger)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, pool
}
