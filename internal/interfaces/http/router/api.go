package router

import "github.com/gin-gonic/gin"

// APIHandlers are the endpoints served under the versioned prefix
type APIHandlers struct {
	Login          gin.HandlerFunc
	Logout         gin.HandlerFunc
	CurrentUser    gin.HandlerFunc
	Dashboard      gin.HandlerFunc
	Ajax           gin.HandlerFunc
	RequireSession gin.HandlerFunc
	OptionalAuth   gin.HandlerFunc
}

// APIGroups builds the auth and vendor route groups.
//
// The ajax endpoint accepts anonymous callers so the nonce check runs
// before the role check and reports SECURITY_ERROR for a missing session.
func APIGroups(h APIHandlers) []RouteRegistrar {
	authGroup := NewDomainGroup("auth", "/auth")
	authGroup.POST("/login", h.Login)
	authGroup.Group("session", "").
		Use(h.RequireSession).
		POST("/logout", h.Logout).
		GET("/me", h.CurrentUser)

	vendor := NewDomainGroup("vendor", "")
	vendor.Group("dashboard", "/vendor").
		Use(h.RequireSession).
		GET("/dashboard", h.Dashboard)
	vendor.Group("ajax", "").
		Use(h.OptionalAuth).
		POST("/ajax", h.Ajax)

	return []RouteRegistrar{authGroup, vendor}
}
