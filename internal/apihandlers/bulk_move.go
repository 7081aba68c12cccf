package apihandlers

import (
	"errors"
	"net/http"

	"bulkcat/internal/authz"
	"bulkcat/internal/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type BulkMoveRequest struct {
	Nonce          string  `json:"nonce"`
	PostIDs        []int64 `json:"post_ids"`
	TargetCategory int64   `json:"target_category"`
}

// BulkMoveResponse is the body of every bulk move reply, successful or not.
type BulkMoveResponse struct {
	Success            bool                  `json:"success"`
	Message            string                `json:"message"`
	Code               string                `json:"code,omitempty"`
	MovedCount         *int                  `json:"moved_count,omitempty"`
	TotalCount         *int                  `json:"total_count,omitempty"`
	FailedCount        *int                  `json:"failed_count,omitempty"`
	TargetCategoryName string                `json:"target_category_name,omitempty"`
	FailedPosts        *[]services.FailedItem `json:"failed_posts,omitempty"`
}

var moveErrorStatus = map[string]int{
	services.CodeNonceFailed:             http.StatusForbidden,
	services.CodeInsufficientPermissions: http.StatusForbidden,
	services.CodeNoPostsSelected:         http.StatusBadRequest,
	services.CodeInvalidCategory:         http.StatusBadRequest,
	services.CodeCategoryNotExists:       http.StatusNotFound,
	services.CodeCategoryInfoFailed:      http.StatusInternalServerError,
}

func (h *APIHandler) BulkMoveHandler(c *gin.Context) {
	var req BulkMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BulkMoveResponse{
			Message: "Invalid request body: " + err.Error(),
			Code:    "bad_request",
		})
		return
	}

	user := CurrentUser(c)
	if user == nil || !h.App.Nonces.Verify(req.Nonce, user.ID, authz.ActionBulkMove) {
		respondMoveError(c, &services.MoveError{
			Code:    services.CodeNonceFailed,
			Message: "Security verification failed, please refresh the page and try again.",
		})
		return
	}

	result, err := h.App.BulkMoveService.Execute(c.Request.Context(), services.BulkMoveRequest{
		PostIDs:          req.PostIDs,
		TargetCategoryID: req.TargetCategory,
	}, user)
	if err != nil {
		var moveErr *services.MoveError
		if errors.As(err, &moveErr) {
			respondMoveError(c, moveErr)
			return
		}
		log.Errorf("BulkMoveHandler: %v", err)
		Internal(c, "Bulk move failed unexpectedly.")
		return
	}

	moved, total, failed := result.Succeeded, result.Total, result.Failed
	resp := BulkMoveResponse{
		Success:            result.Success(),
		Message:            result.Message(),
		MovedCount:         &moved,
		TotalCount:         &total,
		FailedCount:        &failed,
		TargetCategoryName: result.Target.Name,
		FailedPosts:        &result.FailedItems,
	}
	status := http.StatusOK
	if !result.Success() {
		resp.Code = services.CodeMoveFailed
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resp)
}

func respondMoveError(c *gin.Context, moveErr *services.MoveError) {
	status, ok := moveErrorStatus[moveErr.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if moveErr.Err != nil {
		log.WithField("code", moveErr.Code).Warnf("Bulk move rejected: %v", moveErr.Err)
	}
	c.JSON(status, BulkMoveResponse{Message: moveErr.Message, Code: moveErr.Code})
}
