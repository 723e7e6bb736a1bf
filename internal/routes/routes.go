package routes

import (
	"donation_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// AppHandlers groups every HTTP handler of the application.
type AppHandlers struct {
	DonationHandler *handlers.DonationHandler
	ContactHandler  *handlers.ContactHandler
}

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *AppHandlers) {
	api := ginRouter.Group("/api")
	{
		appHandlers.DonationHandler.RegisterRoutes(api)
		appHandlers.ContactHandler.RegisterRoutes(api)
	}
}
