package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Karim-Bennia/minirag-console/internal/domain"
	"github.com/Karim-Bennia/minirag-console/internal/service"
)

// Handler handles chat API requests
type Handler struct {
	chatService *service.ChatService
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService) *Handler {
	return &Handler{chatService: chatService}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Submit)
	r.GET("/messages", h.ListMessages)
}

// Submit handles one question and responds with the assistant message. A
// failed backend query still returns 200: the fallback assistant turn is
// part of the transcript, and the error detail travels in the session state.
func (h *Handler) Submit(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.chatService.Submit(c.Request.Context(), req.Question)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, domain.ChatResponse{Message: msg})
}

// ListMessages returns the session transcript in append order
func (h *Handler) ListMessages(c *gin.Context) {
	messages := h.chatService.Messages()
	if messages == nil {
		messages = []*domain.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoProject), errors.Is(err, domain.ErrNoActiveFile):
		return http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
