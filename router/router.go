package router

import (
	"net/http"

	"github.com/carelinkvn/clinic-app/config"
	"github.com/carelinkvn/clinic-app/controllers"
	"github.com/carelinkvn/clinic-app/middlewares"
	"github.com/carelinkvn/clinic-app/repository"
	"github.com/carelinkvn/clinic-app/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, scheduler services.CancellationScheduler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Middleware toan cuc
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.FrontendURL))
	r.Use(middlewares.LoggerMiddleware())

	// Khoi tao service
	orderRepo := repository.NewOrderRepository(db)
	sepaySvc := services.NewSepayService(cfg)
	paymentSvc := services.NewPaymentService(orderRepo, sepaySvc, scheduler, cfg)
	orderSvc := services.NewOrderService(orderRepo, sepaySvc, scheduler, cfg)

	// Khoi tao controller
	userCtrl := controllers.NewUserController(db)
	serviceCtrl := controllers.NewServiceController(db)
	appointmentCtrl := controllers.NewAppointmentController(db)
	treatmentCtrl := controllers.NewPatientTreatmentController(db)
	orderCtrl := controllers.NewOrderController(orderSvc)
	paymentCtrl := controllers.NewPaymentController(paymentSvc, scheduler)
	blogCtrl := controllers.NewBlogController(db)
	blogCategoryCtrl := controllers.NewBlogCategoryController(db)
	permissionCtrl := controllers.NewPermissionController(db)
	notificationCtrl := controllers.NewNotificationController(db)
	adminCtrl := controllers.NewAdminController(db, scheduler)
	realtimeCtrl := controllers.NewRealtimeController()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api/v1")

	// ----------------------------------------------------------------
	//                      ORDERS
	// ----------------------------------------------------------------
	orders := api.Group("/orders")
	{
		orders.POST("", orderCtrl.CreateOrder)
		orders.GET("/:order_id", orderCtrl.GetOrderByID)
		orders.GET("/code/:order_code", orderCtrl.GetOrderByCode)
		orders.GET("/user/:user_id", orderCtrl.GetOrdersByUser)
		orders.PUT("/:order_id", orderCtrl.UpdateOrder)
		orders.POST("/:order_id/cancel", orderCtrl.CancelOrder)
	}

	// ----------------------------------------------------------------
	//                      PAYMENTS
	// ----------------------------------------------------------------
	payments := api.Group("/payments")
	payments.Use(middlewares.PaymentSecurityHeaders())
	payments.Use(middlewares.PaymentRateLimiter())
	payments.Use(middlewares.LogPaymentRequest())
	{
		payments.POST("/webhook", paymentCtrl.HandleWebhook)
		payments.GET("/:payment_id", paymentCtrl.GetPaymentByID)
		payments.POST("/:payment_id/cancel", paymentCtrl.CancelPayment)
		payments.GET("/:payment_id/receipt", paymentCtrl.GetReceipt)
		payments.GET("/queue/status", paymentCtrl.GetQueueStatus)
		payments.POST("/queue/clear", paymentCtrl.ClearQueue)
	}

	// ----------------------------------------------------------------
	//                      MASTER DATA
	// ----------------------------------------------------------------
	api.POST("/users", userCtrl.CreateUser)
	api.GET("/users", userCtrl.GetAllUsers)
	api.GET("/users/:user_id", userCtrl.GetUserByID)
	api.PUT("/users/:user_id", userCtrl.UpdateUser)
	api.DELETE("/users/:user_id", userCtrl.DeleteUser)

	api.POST("/services", serviceCtrl.CreateService)
	api.GET("/services", serviceCtrl.GetAllServices)
	api.GET("/services/:service_id", serviceCtrl.GetServiceByID)
	api.PUT("/services/:service_id", serviceCtrl.UpdateService)
	api.DELETE("/services/:service_id", serviceCtrl.DeleteService)

	api.POST("/appointments", appointmentCtrl.CreateAppointment)
	api.GET("/appointments/:appointment_id", appointmentCtrl.GetAppointmentByID)
	api.GET("/appointments/user/:user_id", appointmentCtrl.GetAppointmentsByUser)
	api.PUT("/appointments/:appointment_id/status", appointmentCtrl.UpdateAppointmentStatus)

	api.POST("/patient-treatments", treatmentCtrl.CreateTreatment)
	api.GET("/patient-treatments/:treatment_id", treatmentCtrl.GetTreatmentByID)
	api.GET("/patient-treatments/user/:user_id", treatmentCtrl.GetTreatmentsByUser)

	// ----------------------------------------------------------------
	//                      CONTENT & ADMIN
	// ----------------------------------------------------------------
	api.POST("/blogs", blogCtrl.CreateBlog)
	api.GET("/blogs", blogCtrl.GetAllBlogs)
	api.GET("/blogs/:blog_id", blogCtrl.GetBlogByID)
	api.PUT("/blogs/:blog_id", blogCtrl.UpdateBlog)
	api.DELETE("/blogs/:blog_id", blogCtrl.DeleteBlog)

	api.POST("/blog-categories", blogCategoryCtrl.CreateCategory)
	api.GET("/blog-categories", blogCategoryCtrl.GetAllCategories)
	api.PUT("/blog-categories/:category_id", blogCategoryCtrl.UpdateCategory)
	api.DELETE("/blog-categories/:category_id", blogCategoryCtrl.DeleteCategory)

	api.POST("/permissions", permissionCtrl.CreatePermission)
	api.GET("/permissions", permissionCtrl.GetAllPermissions)
	api.GET("/permissions/:permission_id", permissionCtrl.GetPermissionByID)
	api.PUT("/permissions/:permission_id", permissionCtrl.UpdatePermission)
	api.DELETE("/permissions/:permission_id", permissionCtrl.DeletePermission)

	api.GET("/notifications", notificationCtrl.GetAllNotifications)
	api.PUT("/notifications/:notification_id/read", notificationCtrl.MarkNotificationRead)
	api.DELETE("/notifications/:notification_id", notificationCtrl.DeleteNotification)

	api.GET("/admin/dashboard", adminCtrl.GetDashboardStats)

	// WebSocket cap nhat trang thai thanh toan
	ws := api.Group("/ws")
	ws.Use(middlewares.WebSocketMiddleware())
	{
		ws.GET("/payments", realtimeCtrl.HandlePaymentSocket)
	}

	return r
}
