package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/app/services"
	"github.com/osahq/conduct/internal/middleware"
	"github.com/osahq/conduct/internal/pkg/helpers"
)

// MessageController handles the in-app notification inbox
type MessageController struct {
	messageService services.MessageService
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService) *MessageController {
	return &MessageController{
		messageService: messageService,
	}
}

// GetInbox lists a user's messages
// @Summary Get a user's inbox
// @Description Lists a user's messages, newest first, with the unread count
// @Tags messages
// @Accept json
// @Produce json
// @Param recipient query int true "Recipient user ID"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.MessageListResponse} "Messages retrieved successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid recipient parameter"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Recipient not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /messages [get]
func (c *MessageController) GetInbox(ctx *gin.Context) {
	recipientID, err := strconv.ParseInt(ctx.Query("recipient"), 10, 64)
	if err != nil || recipientID <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewAPIError(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Recipient must be a positive user ID").
				WithField("recipient")))
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	messages, err := c.messageService.GetInbox(ctx, recipientID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(messages))
}

// MarkMessageRead stamps a message as read
// @Summary Mark a message as read
// @Description Stamps a message read. Re-reading keeps the first read time.
// @Tags messages
// @Accept json
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Message marked read"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid message ID"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Message not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Internal server error"
// @Router /messages/{id}/read [post]
func (c *MessageController) MarkMessageRead(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		invalidIDResponse(ctx, "Invalid message ID")
		return
	}

	message, err := c.messageService.MarkMessageRead(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(message))
}
