package session

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Karim-Bennia/minirag-console/internal/config"
	"github.com/Karim-Bennia/minirag-console/internal/domain"
	"github.com/Karim-Bennia/minirag-console/internal/repository"
	"github.com/Karim-Bennia/minirag-console/internal/service"
)

// Handler handles session state, project selection and file ingestion
type Handler struct {
	cfg           *config.Config
	ingestService *service.IngestService
	chatService   *service.ChatService
	state         *repository.StateRepository
}

// NewHandler creates a new session handler
func NewHandler(
	cfg *config.Config,
	ingestService *service.IngestService,
	chatService *service.ChatService,
	state *repository.StateRepository,
) *Handler {
	return &Handler{
		cfg:           cfg,
		ingestService: ingestService,
		chatService:   chatService,
		state:         state,
	}
}

// RegisterRoutes registers session routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/projects", h.ListProjects)
	r.GET("/session", h.GetState)
	r.PUT("/session/project", h.SelectProject)

	files := r.Group("/files")
	{
		files.GET("", h.ListFiles)
		files.POST("", h.UploadFiles)
		files.DELETE("", h.ClearFiles)
	}
}

// ListProjects returns the configured project catalog
func (h *Handler) ListProjects(c *gin.Context) {
	projects := h.cfg.Projects
	if projects == nil {
		projects = []config.Project{}
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetState returns the aggregate session state for the UI
func (h *Handler) GetState(c *gin.Context) {
	state := &domain.SessionState{
		Selection:   h.state.Selection(),
		Files:       h.ingestService.Files(),
		ChatBusy:    h.chatService.Busy(),
		IngestBusy:  h.ingestService.Busy(),
		LastError:   h.chatService.LastError(),
		IngestError: h.ingestService.LastError(),
	}
	if state.Files == nil {
		state.Files = []*domain.UploadedFile{}
	}
	c.JSON(http.StatusOK, state)
}

type selectProjectRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
}

// SelectProject sets the active project
func (h *Handler) SelectProject(c *gin.Context) {
	var req selectProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.cfg.HasProject(req.ProjectID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrUnknownProject.Error()})
		return
	}

	h.state.SetProject(req.ProjectID)
	c.JSON(http.StatusOK, gin.H{"selection": h.state.Selection()})
}

// ListFiles returns the recorded uploaded files
func (h *Handler) ListFiles(c *gin.Context) {
	files := h.ingestService.Files()
	if files == nil {
		files = []*domain.UploadedFile{}
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// UploadFiles ingests a multipart batch. Files go under the "files" field
// ("file" also accepted); per-file outcomes are returned even when some
// files fail.
func (h *Handler) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files in request"})
		return
	}

	uploads := make([]domain.FileUpload, 0, len(headers))
	for _, header := range headers {
		src, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer src.Close()

		uploads = append(uploads, domain.FileUpload{
			Name:    header.Filename,
			Size:    header.Size,
			Content: src,
		})
	}

	results, err := h.ingestService.UploadBatch(c.Request.Context(), uploads)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// ClearFiles empties the uploaded-file records. Backend-side files are left
// in place; the contract has no deletion endpoint.
func (h *Handler) ClearFiles(c *gin.Context) {
	h.ingestService.ClearFiles()
	c.JSON(http.StatusOK, gin.H{"files": []*domain.UploadedFile{}})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoProject):
		return http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
