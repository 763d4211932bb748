package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "folio/internal/errors"
	"folio/internal/refresher"
)

// RefreshRunner runs one refresh cycle.
type RefreshRunner interface {
	Run(ctx context.Context) (*refresher.RunResult, error)
}

// RefreshHandler exposes the price refresh to operators.
type RefreshHandler struct {
	runner RefreshRunner
}

// NewRefreshHandler creates a new RefreshHandler.
func NewRefreshHandler(runner RefreshRunner) *RefreshHandler {
	return &RefreshHandler{runner: runner}
}

var errRefreshBusy = &apperrors.AppError{Code: "REFRESH_RUNNING", Message: "a refresh is already running", StatusCode: http.StatusConflict}

// Run reprices every portfolio with holdings.
// @Summary     Run price refresh
// @Tags        operations
// @Produce     json
// @Param       X-API-Key header string true "Service key"
// @Success     200 {object} refresher.RunResult "Run summary"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     409 {object} ErrorResponse "Refresh already running"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /internal/refresh [post]
func (h *RefreshHandler) Run(c *gin.Context) {
	result, err := h.runner.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, refresher.ErrAlreadyRunning) {
			respondWithError(c, errRefreshBusy)
			return
		}
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	c.JSON(http.StatusOK, result)
}
