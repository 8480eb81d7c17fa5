package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/auth"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(d.DB))
		authGroup.POST("/login", auth.Login(d.DB))
	}
}
