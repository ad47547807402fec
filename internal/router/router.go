package router

import (
	"marlex/internal/handlers"
	"marlex/internal/middleware"
	"marlex/internal/models"
	"marlex/internal/services"
	"marlex/pkg/config"
	"marlex/pkg/ordertoken"
	"marlex/pkg/queue"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup 创建路由。中间件顺序：日志 → 错误翻译 → CORS，
// 认证与权限校验按路由组挂载。
func Setup(db *gorm.DB, orderQueue *queue.OrderQueue, cleanupService *services.SessionCleanupService) *gin.Engine {
	cfg := config.GetConfig()
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.SetupCORS(&cfg.CORS))

	// 服务
	authService := services.NewAuthService(db)
	permService := services.NewPermissionService(db)
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	roleService := services.NewRoleService(db)
	menuService := services.NewMenuService(db)
	orgService := services.NewOrganizationService(db)
	restaurantService := services.NewRestaurantService(db)
	productService := services.NewProductService(db)
	orderService := services.NewOrderService(db, orderQueue)

	// 处理器
	authHandler := handlers.NewAuthHandler(authService, permService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	roleHandler := handlers.NewRoleHandler(roleService, auditService)
	menuHandler := handlers.NewMenuHandler(menuService)
	orgHandler := handlers.NewOrganizationHandler(orgService, auditService)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, auditService)
	productHandler := handlers.NewProductHandler(productService, auditService)
	orderHandler := handlers.NewOrderHandler(orderService, auditService)
	auditHandler := handlers.NewAuditHandler(auditService)
	systemHandler := handlers.NewSystemHandler(cleanupService, auditService)
	publicHandler := handlers.NewPublicHandler(productService, orderService, ordertoken.GetManager())

	authMW := middleware.NewAuthMiddleware(authService, permService)

	v1 := r.Group("/api/v1")

	// 健康检查
	v1.GET("/health", systemHandler.Health)
	v1.GET("/ping", systemHandler.Ping)

	// 认证接口
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/me", authMW.RequireSession(), authHandler.Me)
	}

	// 顾客端接口，无需会话
	public := v1.Group("/public")
	{
		public.GET("/restaurants/:id/menu", publicHandler.Menu)
		public.POST("/restaurants/:id/orders", publicHandler.CreateOrder)
		public.GET("/orders/status", publicHandler.OrderStatus)
	}

	// 后台接口，全部要求有效会话
	admin := v1.Group("")
	admin.Use(authMW.RequireSession())

	// 组织管理
	orgs := admin.Group("/organizations")
	{
		orgs.GET("", authMW.RequirePermission(models.MenuOrganizations, models.ActionView), orgHandler.List)
		orgs.GET("/:id", authMW.RequirePermission(models.MenuOrganizations, models.ActionView), orgHandler.Get)
		orgs.POST("", authMW.RequirePermission(models.MenuOrganizations, models.ActionCreate), orgHandler.Create)
		orgs.PUT("/:id", authMW.RequirePermission(models.MenuOrganizations, models.ActionUpdate), orgHandler.Update)
		orgs.DELETE("/:id", authMW.RequirePermission(models.MenuOrganizations, models.ActionDelete), orgHandler.Delete)
	}

	// 门店管理
	restaurants := admin.Group("/restaurants")
	{
		restaurants.GET("", authMW.RequirePermission(models.MenuRestaurants, models.ActionView), restaurantHandler.List)
		restaurants.GET("/:id", authMW.RequirePermission(models.MenuRestaurants, models.ActionView), restaurantHandler.Get)
		restaurants.POST("", authMW.RequirePermission(models.MenuRestaurants, models.ActionCreate), restaurantHandler.Create)
		restaurants.PUT("/:id", authMW.RequirePermission(models.MenuRestaurants, models.ActionUpdate), restaurantHandler.Update)
		restaurants.DELETE("/:id", authMW.RequirePermission(models.MenuRestaurants, models.ActionDelete), restaurantHandler.Delete)
	}

	// 员工管理
	users := admin.Group("/users")
	{
		users.GET("", authMW.RequirePermission(models.MenuEmployees, models.ActionView), userHandler.List)
		users.GET("/:id", authMW.RequirePermission(models.MenuEmployees, models.ActionView), userHandler.Get)
		users.POST("", authMW.RequirePermission(models.MenuEmployees, models.ActionCreate), userHandler.Create)
		users.PUT("/:id", authMW.RequirePermission(models.MenuEmployees, models.ActionUpdate), userHandler.Update)
		users.PUT("/:id/password", authMW.RequirePermission(models.MenuEmployees, models.ActionUpdate), userHandler.ResetPassword)
		users.DELETE("/:id", authMW.RequirePermission(models.MenuEmployees, models.ActionDelete), userHandler.Delete)
	}

	// 角色与权限管理
	roles := admin.Group("/roles")
	{
		roles.GET("", authMW.RequirePermission(models.MenuRoles, models.ActionView), roleHandler.List)
		roles.GET("/:id", authMW.RequirePermission(models.MenuRoles, models.ActionView), roleHandler.Get)
		roles.POST("", authMW.RequirePermission(models.MenuRoles, models.ActionCreate), roleHandler.Create)
		roles.PUT("/:id", authMW.RequirePermission(models.MenuRoles, models.ActionUpdate), roleHandler.Update)
		roles.PUT("/:id/permissions", authMW.RequirePermission(models.MenuRoles, models.ActionUpdate), roleHandler.ReplacePermissions)
		roles.DELETE("/:id", authMW.RequirePermission(models.MenuRoles, models.ActionDelete), roleHandler.Delete)
	}
	admin.GET("/menus", authMW.RequirePermission(models.MenuRoles, models.ActionView), menuHandler.List)

	// 分类管理
	categories := admin.Group("/categories")
	{
		categories.GET("", authMW.RequirePermission(models.MenuCategories, models.ActionView), productHandler.ListCategories)
		categories.POST("", authMW.RequirePermission(models.MenuCategories, models.ActionCreate), productHandler.CreateCategory)
		categories.PUT("/:id", authMW.RequirePermission(models.MenuCategories, models.ActionUpdate), productHandler.UpdateCategory)
		categories.DELETE("/:id", authMW.RequirePermission(models.MenuCategories, models.ActionDelete), productHandler.DeleteCategory)
	}

	// 菜品管理
	products := admin.Group("/products")
	{
		products.GET("", authMW.RequirePermission(models.MenuProducts, models.ActionView), productHandler.ListProducts)
		// 导出要求细粒度权限而非基础查看权限
		products.GET("/export", authMW.RequirePermission(models.MenuProducts, models.SpecificExportData), productHandler.Export)
		products.GET("/:id", authMW.RequirePermission(models.MenuProducts, models.ActionView), productHandler.GetProduct)
		products.POST("", authMW.RequirePermission(models.MenuProducts, models.ActionCreate), productHandler.CreateProduct)
		products.PUT("/:id", authMW.RequirePermission(models.MenuProducts, models.ActionUpdate), productHandler.UpdateProduct)
		products.DELETE("/:id", authMW.RequirePermission(models.MenuProducts, models.ActionDelete), productHandler.DeleteProduct)
	}

	// 订单管理
	orders := admin.Group("/orders")
	{
		orders.GET("", authMW.RequirePermission(models.MenuOrders, models.ActionView), orderHandler.List)
		orders.GET("/:id", authMW.RequirePermission(models.MenuOrders, models.ActionView), orderHandler.Get)
		orders.PUT("/:id/status", authMW.RequirePermission(models.MenuOrders, models.SpecificUpdateStatus), orderHandler.UpdateStatus)
	}

	// 订单实时推送，队列不可用时不注册
	if orderQueue != nil {
		streamHandler := handlers.NewOrderStreamHandler(orderQueue)
		admin.GET("/ws/orders", authMW.RequirePermission(models.MenuOrders, models.ActionView), streamHandler.Stream)
	}

	// 审计日志
	admin.GET("/audit-logs", authMW.RequirePermission(models.MenuAudit, models.ActionView), auditHandler.List)

	// 系统维护
	system := admin.Group("/system")
	{
		system.POST("/sessions/cleanup", authMW.RequirePermission(models.MenuSystem, models.SpecificRunCleanup), systemHandler.CleanupSessions)
	}

	return r
}
