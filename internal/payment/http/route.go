package http

import "github.com/gin-gonic/gin"

// RegisterRoutes expects r to already carry the auth middleware.
func RegisterRoutes(r gin.IRouter, h *Handler) {
	r.POST("/reservations/:id/slip", h.Upload)
}

// RegisterAdminRoutes expects r to already carry the auth and admin middleware.
func RegisterAdminRoutes(r gin.IRouter, h *Handler) {
	r.GET("/reservations/:id/payments", h.ListByReservation)

	group := r.Group("/payments")
	group.GET("/:id/slip", h.ServeSlip)
	group.GET("/:id/slip/thumbnail", h.ServeThumbnail)
}
