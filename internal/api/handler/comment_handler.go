package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wrapitup/planner-auth/internal/api/middleware"
	"github.com/wrapitup/planner-auth/internal/core/ports"
)

type CommentHandler struct {
	comments   ports.CommentService
	moderation ports.ModerationService
}

func NewCommentHandler(comments ports.CommentService, moderation ports.ModerationService) *CommentHandler {
	return &CommentHandler{comments: comments, moderation: moderation}
}

// List returns the comments of a note the caller can read.
//
// @Summary      List comments
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Note ID"
// @Success      200  {array}   commentResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /notes/{id}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	items, err := h.comments.List(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponses(items))
}

// Create adds a comment. Requires login and read access; banned users are refused.
//
// @Summary      Add a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Note ID"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  commentResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /notes/{id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	var req commentRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Create(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// Delete removes a comment. Allowed for its author and for admins.
//
// @Summary      Delete a comment
// @Tags         comments
// @Param        id         path  string  true  "Note ID"
// @Param        commentId  path  string  true  "Comment ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /notes/{id}/comments/{commentId} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	if err := h.comments.Delete(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"), c.Param("commentId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Report flags a comment for admin review. Reporting twice is not an error.
//
// @Summary      Report a comment
// @Tags         comments
// @Produce      json
// @Param        id         path      string  true  "Note ID"
// @Param        commentId  path      string  true  "Comment ID"
// @Success      200  {object}  commentResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /notes/{id}/comments/{commentId}/report [post]
func (h *CommentHandler) Report(c echo.Context) error {
	comment, err := h.moderation.ReportComment(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"), c.Param("commentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}
