package alert

import (
	"net/http"

	"fieldwatch/internal/shared/apperror"
	"fieldwatch/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	orgID := c.GetString("org_id")

	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	// Guards can only raise alerts about themselves.
	if c.GetString("role") == "guard" {
		req.GuardID = c.GetString("guard_id")
	}

	resp, err := h.service.Create(c.Request.Context(), orgID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	orgID := c.GetString("org_id")

	filter := ListFilter{
		GuardID:    c.Query("guard_id"),
		Type:       c.Query("type"),
		Unresolved: c.Query("unresolved") == "true",
	}
	if c.GetString("role") == "guard" {
		filter.GuardID = c.GetString("guard_id")
	}

	resp, err := h.service.GetAll(c.Request.Context(), orgID, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Resolve(c *gin.Context) {
	orgID := c.GetString("org_id")
	userID := c.GetString("user_id")

	resp, err := h.service.Resolve(c.Request.Context(), orgID, c.Param("id"), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
