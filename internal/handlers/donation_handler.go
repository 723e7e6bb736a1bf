package handlers

import (
	"net/http"

	"donation_backend/internal/dto"
	"donation_backend/internal/logger"
	"donation_backend/internal/services"
	"donation_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type DonationHandler struct {
	*BaseHandler
	donations services.DonationService
}

func NewDonationHandler(base *BaseHandler, donations services.DonationService) *DonationHandler {
	return &DonationHandler{
		BaseHandler: base,
		donations:   donations,
	}
}

func (h *DonationHandler) RegisterRoutes(r *gin.RouterGroup) {
	donate := r.Group("/donate")
	{
		donate.POST("/initiate", h.Initiate)
		donate.POST("/callback", h.Callback)
	}
}

// Initiate accepts the donor form and responds with the gateway redirect URL.
func (h *DonationHandler) Initiate(c *gin.Context) {
	var req dto.InitiateDonationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	paymentURL, err := h.donations.Initiate(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.InitiateDonationResponse{PaymentURL: paymentURL})
}

// Callback receives the gateway's form-encoded post. Verified outcomes
// redirect the browser to the frontend result pages; payloads the gateway
// itself would not retry (missing/invalid signature, unknown order) get a
// JSON error instead.
func (h *DonationHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	if err := c.Request.ParseForm(); err != nil {
		logger.CtxWithError(ctx, "failed to parse callback form", err)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid callback payload"))
		return
	}

	form := make(map[string]string, len(c.Request.PostForm))
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			form[k] = v[0]
		}
	}

	outcome, err := h.donations.HandleCallback(ctx, form)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			switch appErr.Code {
			case apperrors.CodeMissingSignature, apperrors.CodeInvalidSignature, apperrors.CodeUnknownOrder:
				h.HandleServiceError(c, err)
				return
			}
		}
		// Anything unexpected resolves to the failure page, never a crash
		// surfaced to the donor's browser.
		logger.CtxWithError(ctx, "callback processing failed", err)
		c.Redirect(http.StatusFound, h.donations.FailureRedirect())
		return
	}

	c.Redirect(http.StatusFound, outcome.RedirectURL)
}
