package tracking

import (
	"net/http"
	"strconv"

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

// Ingest records a GPS ping for the calling guard. Admins and managers
// may submit on behalf of a guard via the guard_id query param.
func (h *Handler) Ingest(c *gin.Context) {
	orgID := c.GetString("org_id")

	guardID := c.GetString("guard_id")
	if override := c.Query("guard_id"); override != "" && c.GetString("role") != "guard" {
		guardID = override
	}

	var req IngestLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Ingest(c.Request.Context(), orgID, guardID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Latest(c *gin.Context) {
	orgID := c.GetString("org_id")

	resp, err := h.service.Latest(c.Request.Context(), orgID, c.Param("guard_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Live(c *gin.Context) {
	orgID := c.GetString("org_id")

	resp, err := h.service.Live(c.Request.Context(), orgID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Track(c *gin.Context) {
	orgID := c.GetString("org_id")

	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "8"))

	resp, err := h.service.Track(c.Request.Context(), orgID, c.Param("guard_id"), hours)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
