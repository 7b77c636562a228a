package routes

import (
	"github.com/gin-gonic/gin"

	"salon-backend/internal/handlers"
	"salon-backend/internal/middleware"
)

// SetupRoutes registers every endpoint. global runs before all of them
// (request id, logging, CORS, rate limiting).
func SetupRoutes(r *gin.Engine, h *handlers.Handler, jwtSecret string, global ...gin.HandlerFunc) {
	r.Use(global...)

	r.GET("/ping", h.Ping)
	r.GET("/healthz", h.Health)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
		}

		// public catalog, so customers can browse before signing up
		api.GET("/services", h.GetServices)
		api.GET("/services/:id", h.GetServiceDetail)
		api.GET("/staff", h.GetStaffList)
		api.GET("/staff/:id", h.GetStaffDetail)
		api.GET("/schedules", h.GetSchedules)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.GET("/profile", h.GetUserProfile)

			appointments := protected.Group("/appointments")
			{
				appointments.GET("", h.GetMyAppointments)
				appointments.POST("", h.CreateAppointment)
				appointments.GET("/:id", h.GetAppointmentDetail)
				appointments.DELETE("/:id", h.CancelAppointment)
				appointments.PUT("/:id/status", h.UpdateAppointmentStatus)
				appointments.POST("/:id/reschedule", h.RescheduleAppointment)
				appointments.POST("/:id/payment", h.ProcessPayment)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.POST("/users", h.CreateUser)

				admin.POST("/services", h.CreateService)
				admin.PUT("/services/:id", h.UpdateService)
				admin.DELETE("/services/:id", h.DeleteService)

				admin.POST("/staff", h.CreateStaff)
				admin.PATCH("/staff/:id", h.UpdateStaff)
				admin.POST("/staff/:id/services", h.AssignStaffService)

				admin.POST("/schedules", h.CreateSchedule)
				admin.POST("/schedules/bulk", h.BulkCreateSchedules)
				admin.DELETE("/schedules/:id", h.DeleteSchedule)
			}
		}
	}
}
