package handler

import (
	"github.com/clothstore/backend/internal/application/contact"
	"github.com/gin-gonic/gin"
)

// ContactHandler relays storefront contact form messages
type ContactHandler struct {
	BaseHandler
	contactService *contact.Service
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *contact.Service) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Send godoc
// @ID           sendContactMessage
// @Summary      Send a contact message
// @Description  Relays the visitor's name, email and message to the store inbox
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        request body contact.SendInput true "Contact form"
// @Success      200 {object} dto.APIResponse[contact.SendResult]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /contact/send [post]
func (h *ContactHandler) Send(c *gin.Context) {
	var req contact.SendInput
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.contactService.Send(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
