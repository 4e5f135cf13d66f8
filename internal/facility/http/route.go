package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(r gin.IRouter, h *Handler) {
	group := r.Group("/facilities")
	group.GET("", h.List)
	group.GET("/:id", h.Get)
}

// RegisterAdminRoutes expects r to already carry the auth and admin middleware.
func RegisterAdminRoutes(r gin.IRouter, h *Handler) {
	group := r.Group("/facilities")
	group.POST("", h.Create)
	group.PATCH("/:id", h.Update)
}
