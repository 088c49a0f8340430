package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wrapitup/planner-auth/internal/api/middleware"
	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/ports"
)

// ModerationHandler serves the admin review queue and user bans.
type ModerationHandler struct {
	moderation ports.ModerationService
}

func NewModerationHandler(moderation ports.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

// ListReported returns one page of reported comments.
//
// @Summary      List reported comments
// @Tags         admin
// @Produce      json
// @Param        page  query     int  false  "Page (1-based)"  default(1)
// @Param        size  query     int  false  "Page size"       default(20)
// @Success      200   {object}  reportedPageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /admin/reported-comments [get]
func (h *ModerationHandler) ListReported(c echo.Context) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	size, err := queryInt(c, "size")
	if err != nil {
		return err
	}

	res, err := h.moderation.ListReported(c.Request().Context(), middleware.CallerFrom(c), page, size)
	if err != nil {
		return err
	}

	totalPages := 0
	if res.Size > 0 {
		totalPages = int((res.Total + int64(res.Size) - 1) / int64(res.Size))
	}
	return c.JSON(http.StatusOK, reportedPageResponse{
		Items:      toCommentResponses(res.Items),
		Total:      res.Total,
		Page:       res.Page,
		Size:       res.Size,
		TotalPages: totalPages,
	})
}

// Unreport clears the reported flag.
//
// @Summary      Unreport a comment
// @Tags         admin
// @Produce      json
// @Param        commentId  path      string  true  "Comment ID"
// @Success      200  {object}  commentResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/reported-comments/{commentId}/unreport [post]
func (h *ModerationHandler) Unreport(c echo.Context) error {
	comment, err := h.moderation.UnreportComment(c.Request().Context(), middleware.CallerFrom(c), c.Param("commentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// DeleteReported removes a comment from the review queue and the note.
//
// @Summary      Delete a reported comment
// @Tags         admin
// @Param        commentId  path  string  true  "Comment ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/reported-comments/{commentId} [delete]
func (h *ModerationHandler) DeleteReported(c echo.Context) error {
	if err := h.moderation.DeleteReported(c.Request().Context(), middleware.CallerFrom(c), c.Param("commentId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Ban sets a user's status to BANNED.
//
// @Summary      Ban a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/ban [post]
func (h *ModerationHandler) Ban(c echo.Context) error {
	user, err := h.moderation.BanUser(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Unban sets a user's status back to ACTIVE.
//
// @Summary      Unban a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/unban [post]
func (h *ModerationHandler) Unban(c echo.Context) error {
	user, err := h.moderation.UnbanUser(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// queryInt parses an optional integer query parameter; absent means 0.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name + " must be an integer")
	}
	return n, nil
}
