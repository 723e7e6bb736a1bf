package handlers

import (
	"net/http"

	"donation_backend/internal/dto"
	"donation_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	*BaseHandler
	contacts services.ContactService
}

func NewContactHandler(base *BaseHandler, contacts services.ContactService) *ContactHandler {
	return &ContactHandler{
		BaseHandler: base,
		contacts:    contacts,
	}
}

func (h *ContactHandler) RegisterRoutes(r *gin.RouterGroup) {
	contact := r.Group("/contact")
	{
		contact.POST("/send", h.Send)
	}
}

func (h *ContactHandler) Send(c *gin.Context) {
	var req dto.ContactRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.contacts.Send(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully!"})
}
