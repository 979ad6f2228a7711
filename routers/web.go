package routers

import (
	"EventManagement/configs"
	"EventManagement/controllers"
	"EventManagement/jobs"
	"EventManagement/middlewares"
	"EventManagement/service"
	"EventManagement/utils"

	"github.com/gin-gonic/gin"
)

func Register(router *gin.RouterGroup) {
	// Khởi tạo các orchestrator dùng chung, truyền vào controller qua closure
	var (
		ledger      = service.NewMongoInventoryLedger()
		ticketStore = service.NewMongoTicketStore()
		eventStore  = service.NewMongoEventStore()
		verifier    = service.NewPaymentVerifier(configs.GetRazorpayKeySecret())
		gateway     = utils.NewRazorpayClient()
		notifier    = jobs.NewQueueNotifier()

		purchaseOrchestrator = service.NewPurchaseOrchestrator(ledger, ticketStore, eventStore, verifier, gateway, notifier)
		refundOrchestrator   = service.NewRefundOrchestrator(ticketStore, eventStore, ledger, gateway, configs.GetRefundDaysBeforeEvent())
		checkInService       = service.NewCheckInService(ticketStore)
	)

	//Auth
	authRouter := router.Group("auth")
	{
		authRouter.POST("/register", controllers.Register)
		authRouter.POST("/login", controllers.Login)
		authRouter.POST("/logout", middlewares.AuthorizeJWTMiddleware(), controllers.Logout)
	}

	//Event
	eventRouter := router.Group("events")
	{
		eventRouter.GET("/:id/detail", controllers.GetEvent)
		eventRouter.GET("/:id/availability", controllers.GetEventAvailability)
		eventRouter.GET("/:id/tickets", middlewares.AuthorizeJWTMiddleware(), controllers.FindEventTickets)
	}

	//Payment
	paymentRouter := router.Group("payments")
	{
		paymentRouter.Use(middlewares.AuthorizeJWTMiddleware())
		paymentRouter.POST("/orders", func(c *gin.Context) {
			controllers.CreateOrder(c, purchaseOrchestrator)
		})
		paymentRouter.POST("/verify", func(c *gin.Context) {
			controllers.VerifyPayment(c, purchaseOrchestrator)
		})
	}

	//Ticket
	ticketRouter := router.Group("tickets")
	{
		ticketRouter.Use(middlewares.AuthorizeJWTMiddleware())
		ticketRouter.POST("/purchase", func(c *gin.Context) {
			controllers.PurchaseTicket(c, purchaseOrchestrator)
		})
		ticketRouter.GET("/my", controllers.GetMyTickets)
		ticketRouter.GET("/number/:ticketNumber", controllers.GetTicketByNumber)
		ticketRouter.GET("/:id/detail", controllers.GetTicket)
		ticketRouter.GET("/:id/qrcode", controllers.GetTicketQR)
		ticketRouter.POST("/validate", middlewares.RequireRole("organizer"), func(c *gin.Context) {
			controllers.ValidateTicket(c, checkInService)
		})
		ticketRouter.POST("/:id/refund", func(c *gin.Context) {
			controllers.RequestRefund(c, refundOrchestrator)
		})
		ticketRouter.POST("/:id/refund/process", middlewares.RequireRole("organizer"), func(c *gin.Context) {
			controllers.ProcessRefund(c, refundOrchestrator)
		})
	}
}
