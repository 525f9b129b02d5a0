package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/controllers"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/middlewares"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
)

// Options tunes the middleware stack. The zero value allows any origin and
// disables rate limiting.
type Options struct {
	CORSOrigins []string
	RateLimit   float64 // requests per second per IP
	LoginBurst  int     // login attempts per minute per IP
}

func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	controllers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSOrigins))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(opts.RateLimit, int(opts.RateLimit)+1).RateLimit())

	employeeCtrl := controllers.NewEmployeeController(db)
	zoneCtrl := controllers.NewZoneController(db)
	tableCtrl := controllers.NewTableController(db)
	orderCtrl := controllers.NewOrderController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	productCtrl := controllers.NewProductController(db)
	adminCtrl := controllers.NewAdminController(db)
	receiptCtrl := controllers.NewReceiptController(db)
	notifCtrl := controllers.NewNotificationController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter(opts.LoginBurst).RateLimit())
	{
		public.POST("/login", employeeCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.EnhancedAuthMiddleware())

	managers := middlewares.RequireRole(models.RoleAdmin, models.RoleManager)
	floorStaff := middlewares.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleWaiter)
	kitchen := middlewares.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleWaiter, models.RoleChef)

	auth.GET("/profile", employeeCtrl.GetProfile)
	auth.POST("/logout", employeeCtrl.Logout)

	// ZONES
	auth.GET("/zones", zoneCtrl.ListZones)
	auth.POST("/zones", managers, zoneCtrl.CreateZone)
	auth.PATCH("/zones/:zone_id", managers, zoneCtrl.UpdateZone)
	auth.DELETE("/zones/:zone_id", managers, zoneCtrl.DeleteZone)
	auth.DELETE("/zones/:zone_id/cascade", managers, zoneCtrl.DeleteZoneCascade)
	auth.POST("/zones/:zone_id/move", managers, zoneCtrl.MoveTables)
	auth.POST("/zones/:zone_id/migrate", managers, zoneCtrl.MigrateTables)

	// TABLES
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.POST("/tables", managers, tableCtrl.CreateTable)
	auth.POST("/tables/bulk-delete", managers, tableCtrl.BulkDeleteTables)
	auth.POST("/tables/group", floorStaff, orderCtrl.GroupTables)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.PATCH("/tables/:table_id", managers, tableCtrl.UpdateTable)
	auth.DELETE("/tables/:table_id", managers, tableCtrl.DeleteTable)
	auth.GET("/tables/:table_id/qr", tableCtrl.TableQRCode)
	auth.POST("/tables/:table_id/orders", floorStaff, orderCtrl.OpenOrder)
	auth.POST("/groups/:group/ungroup", floorStaff, orderCtrl.UngroupTables)

	// ORDERS
	auth.GET("/orders/flow", kitchen, adminCtrl.GetOrderFlow)
	auth.GET("/orders/:order_id", kitchen, orderCtrl.GetOrder)
	auth.POST("/orders/:order_id/items", floorStaff, orderCtrl.AddItem)
	auth.POST("/orders/:order_id/bill", floorStaff, orderCtrl.BillOrder)
	auth.POST("/orders/:order_id/close", floorStaff, orderCtrl.CloseOrder)
	auth.GET("/orders/:order_id/receipt", floorStaff, receiptCtrl.GetReceipt)
	auth.PATCH("/order-items/:item_id", kitchen, orderCtrl.UpdateItemStatus)

	// NOTIFICATIONS
	auth.GET("/notifications", notifCtrl.GetNotifications)
	auth.PATCH("/notifications/:notif_id/read", notifCtrl.MarkRead)
	auth.DELETE("/notifications/:notif_id", managers, notifCtrl.DeleteNotification)

	// MENU
	auth.GET("/categories", categoryCtrl.GetAllCategories)
	auth.GET("/categories/:cat_id", categoryCtrl.GetCategoryByID)
	auth.POST("/categories", managers, categoryCtrl.CreateCategory)
	auth.PATCH("/categories/:cat_id", managers, categoryCtrl.UpdateCategory)
	auth.DELETE("/categories/:cat_id", managers, categoryCtrl.DeleteCategory)

	auth.GET("/products", productCtrl.GetAllProducts)
	auth.GET("/products/:product_id", productCtrl.GetProductByID)
	auth.POST("/products", managers, productCtrl.CreateProduct)
	auth.PATCH("/products/:product_id", managers, productCtrl.UpdateProduct)
	auth.DELETE("/products/:product_id", managers, productCtrl.DeleteProduct)

	// EMPLOYEES
	auth.GET("/employees", managers, employeeCtrl.GetAllEmployees)
	auth.POST("/employees", managers, employeeCtrl.CreateEmployee)
	auth.PATCH("/employees/:employee_id", managers, employeeCtrl.UpdateEmployee)
	auth.DELETE("/employees/:employee_id", managers, employeeCtrl.DeleteEmployee)

	// DASHBOARD
	auth.GET("/dashboard/stats", managers, adminCtrl.GetDashboardStats)
	auth.GET("/reports/sales", managers, adminCtrl.GetSalesReport)

	// WEBSOCKET: token in ?token=, path role must match the token
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware(), middlewares.RoleCheck())
	{
		wsGroup.GET("/:role", controllers.KDSHandler)
	}

	return r
}
