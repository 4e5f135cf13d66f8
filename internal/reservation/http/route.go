package http

import "github.com/gin-gonic/gin"

// Middlewares groups the guards the reservation routes need.
type Middlewares struct {
	Auth         gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	Admin        gin.HandlerFunc
	// CreateLimit throttles booking attempts. May be nil.
	CreateLimit gin.HandlerFunc
}

func RegisterRoutes(r gin.IRouter, h *Handler, mw Middlewares) {
	r.GET("/slots", h.Catalog)
	r.GET("/facilities/:id/availability", h.Availability)

	group := r.Group("/reservations")

	create := []gin.HandlerFunc{}
	if mw.CreateLimit != nil {
		create = append(create, mw.CreateLimit)
	}
	create = append(create, mw.OptionalAuth, h.Create)
	group.POST("", create...)

	authed := group.Group("")
	authed.Use(mw.Auth)
	{
		authed.GET("/mine", h.ListMine)
		authed.GET("/:id", h.Get)
		authed.PATCH("/:id/status", h.UpdateStatus)
	}
}

// RegisterAdminRoutes expects r to already carry the auth and admin middleware.
func RegisterAdminRoutes(r gin.IRouter, h *Handler) {
	group := r.Group("/reservations")
	group.GET("", h.AdminList)
	group.GET("/grouped", h.AdminGrouped)
	group.GET("/export", h.AdminExport)
}
