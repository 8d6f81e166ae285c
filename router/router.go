package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/config"
	"github.com/abbossetdarov/restaurant-ops/controllers"
	"github.com/abbossetdarov/restaurant-ops/middlewares"
	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	businessCtrl := controllers.NewBusinessController(db)
	floorCtrl := controllers.NewFloorController(db)
	moduleCtrl := controllers.NewModuleController(db)
	tableCtrl := controllers.NewTableController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	reservationCtrl := controllers.NewReservationController(db)
	statisticsCtrl := controllers.NewStatisticsController(db)
	paymeCtrl := controllers.NewPaymeController(
		services.NewPaymeService(db, config.LoadPaymeConfig()))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      AUTH
	// ----------------------------------------------------------------
	auth := r.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
		auth.POST("/login/refresh", userCtrl.Refresh)
	}

	authed := r.Group("/auth")
	authed.Use(middlewares.AuthMiddleware())
	{
		authed.GET("/me", userCtrl.GetProfile)
		authed.PUT("/me", userCtrl.UpdateProfile)
		authed.POST("/logout", userCtrl.Logout)
		authed.GET("/users",
			middlewares.RequireRoles(models.RoleSupervisor), userCtrl.GetAllUsers)
		authed.DELETE("/users/:user_id",
			middlewares.RequireRoles(models.RoleSupervisor), userCtrl.DeleteUser)
	}

	// ----------------------------------------------------------------
	//                      DEVELOPER / TENANTS
	// ----------------------------------------------------------------
	dev := r.Group("/dev")
	dev.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(models.RoleDeveloper))
	{
		dev.POST("/business", businessCtrl.CreateBusiness)
		dev.GET("/business", businessCtrl.GetAllBusinesses)
		dev.POST("/:business_id/user", businessCtrl.CreateSupervisor)
		dev.PUT("/business/:business_id", businessCtrl.ExtendSubscription)
	}

	// ----------------------------------------------------------------
	//                      SPATIAL HIERARCHY
	// ----------------------------------------------------------------
	floors := r.Group("/floors")
	floors.Use(middlewares.AuthMiddleware(), middlewares.RequirePaidBusiness())
	{
		floors.GET("/:business_id", floorCtrl.GetAllFloors)
		floors.GET("/:business_id/:floor_id", floorCtrl.GetFloorByID)

		supervisorOnly := middlewares.RequireRoles(models.RoleSupervisor)
		floors.POST("/:business_id/create", supervisorOnly, floorCtrl.CreateFloor)
		floors.PUT("/:business_id/:floor_id", supervisorOnly, floorCtrl.UpdateFloor)
		floors.DELETE("/:business_id/:floor_id", supervisorOnly, floorCtrl.DeleteFloor)
	}

	modules := r.Group("/modules")
	modules.Use(middlewares.AuthMiddleware(), middlewares.RequirePaidBusiness())
	{
		modules.GET("/:business_id", moduleCtrl.GetAllModules)
		modules.GET("/:business_id/:module_id", moduleCtrl.GetModuleByID)

		supervisorOnly := middlewares.RequireRoles(models.RoleSupervisor)
		modules.POST("/:business_id/create", supervisorOnly, moduleCtrl.CreateModule)
		modules.PUT("/:business_id/:module_id", supervisorOnly, moduleCtrl.UpdateModule)
		modules.PATCH("/:business_id/:module_id", supervisorOnly, moduleCtrl.PatchModule)
		modules.DELETE("/:business_id/:module_id", supervisorOnly, moduleCtrl.DeleteModule)
	}

	tables := r.Group("/table")
	tables.Use(middlewares.AuthMiddleware(), middlewares.RequirePaidBusiness())
	{
		tables.GET("/:business_id", tableCtrl.GetAllTables)
		tables.GET("/:business_id/:table_id", tableCtrl.GetTableByID)

		supervisorOnly := middlewares.RequireRoles(models.RoleSupervisor)
		tables.POST("/:business_id/create", supervisorOnly, tableCtrl.CreateTable)
		tables.PATCH("/:business_id/:table_id", supervisorOnly, tableCtrl.UpdateTable)
		tables.DELETE("/:business_id/:table_id", supervisorOnly, tableCtrl.DeleteTable)
		tables.GET("/:business_id/generate_qr/:table_id", supervisorOnly, tableCtrl.GenerateQR)
	}

	// ----------------------------------------------------------------
	//                      MENU
	// ----------------------------------------------------------------
	menus := r.Group("/menu")
	menus.Use(middlewares.RequirePaidBusiness())
	{
		menus.GET("/:business_id", menuCtrl.GetAllMenus)
		menus.GET("/:business_id/:menu_id", menuCtrl.GetMenuByID)

		staff := []gin.HandlerFunc{
			middlewares.AuthMiddleware(),
			middlewares.RequireRoles(models.RoleSupervisor),
		}
		menus.POST("/:business_id/create", append(staff, menuCtrl.CreateMenu)...)
		menus.PUT("/:business_id/:menu_id", append(staff, menuCtrl.UpdateMenu)...)
		menus.DELETE("/:business_id/:menu_id", append(staff, menuCtrl.DeleteMenu)...)
	}

	// ----------------------------------------------------------------
	//                      ORDERS
	// ----------------------------------------------------------------
	orders := r.Group("/:business_id/orders")
	orders.Use(middlewares.AuthMiddleware(), middlewares.RequirePaidBusiness())
	{
		orders.POST("/make", orderCtrl.MakeOrder)
		orders.GET("/my", orderCtrl.GetMyOrders)
		orders.GET("/pending", orderCtrl.GetPendingOrders)
		orders.GET("/completed", orderCtrl.GetCompletedOrders)
		orders.GET("/:order_id", orderCtrl.GetOrderByID)
		orders.POST("/:order_id/start", orderCtrl.StartOrder)
		orders.POST("/:order_id/complete", orderCtrl.CompleteOrder)
		orders.POST("/:order_id/cancel", orderCtrl.CancelOrder)
	}

	// ----------------------------------------------------------------
	//                      RESERVATIONS
	// ----------------------------------------------------------------
	reservations := r.Group("/:business_id/reservation")
	reservations.Use(middlewares.AuthMiddleware(), middlewares.RequirePaidBusiness())
	{
		reservations.POST("/create", reservationCtrl.CreateReservation)
		reservations.GET("/history", reservationCtrl.GetHistory)
		reservations.GET("/active", reservationCtrl.GetActive)
		reservations.GET("/all-active",
			middlewares.RequireRoles(models.RoleSupervisor, models.RoleWaiter),
			reservationCtrl.GetAllActive)
		reservations.GET("/:id", reservationCtrl.GetReservationByID)

		supervisorOnly := middlewares.RequireRoles(models.RoleSupervisor)
		reservations.PUT("/:id", supervisorOnly, reservationCtrl.UpdateReservation)
		reservations.PATCH("/:id", supervisorOnly, reservationCtrl.PatchReservation)
		reservations.DELETE("/:id", supervisorOnly, reservationCtrl.DeleteReservation)
	}

	// ----------------------------------------------------------------
	//                      STATISTICS
	// ----------------------------------------------------------------
	statistics := r.Group("/statistics/:business_id")
	statistics.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(models.RoleSupervisor))
	{
		statistics.GET("/total_revenue", statisticsCtrl.GetTotalRevenue)
		statistics.GET("/table_revenue/:table_id", statisticsCtrl.GetTableRevenue)
		statistics.GET("/daily_revenue", statisticsCtrl.GetDailyRevenue)
		statistics.GET("/weekly_revenue", statisticsCtrl.GetWeeklyRevenue)
		statistics.GET("/monthly_revenue", statisticsCtrl.GetMonthlyRevenue)
		statistics.GET("/yearly_revenue", statisticsCtrl.GetYearlyRevenue)
		statistics.GET("/orders_count", statisticsCtrl.GetOrdersCount)
		statistics.GET("/detailed", statisticsCtrl.GetDetailedStatistics)
		statistics.GET("/export-pdf", statisticsCtrl.ExportPDF)
	}

	// ----------------------------------------------------------------
	//                      PAYME GATEWAY
	// ----------------------------------------------------------------
	payme := r.Group("/payme")
	payme.Use(middlewares.PaymeRateLimiter())
	{
		payme.POST("/webhook", paymeCtrl.Webhook)

		outbound := payme.Group("")
		outbound.Use(middlewares.AuthMiddleware())
		{
			outbound.POST("/invoice/:order_id", paymeCtrl.CreateInvoice)
			outbound.GET("/status/:transaction_id", paymeCtrl.PaymentStatus)
		}
	}

	return r
}
