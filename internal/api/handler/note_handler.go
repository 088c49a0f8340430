package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wrapitup/planner-auth/internal/api/middleware"
	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/ports"
)

// NoteHandler exposes the permission-gated note operations.
type NoteHandler struct {
	notes ports.NoteService
}

func NewNoteHandler(notes ports.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

func (r noteRequest) input() ports.NoteInput {
	return ports.NoteInput{
		Title:         r.Title,
		Overview:      r.Overview,
		Summary:       r.Summary,
		JSONQuestions: r.JSONQuestions,
		Category:      domain.Category(r.Category),
		Visibility:    domain.Visibility(r.Visibility),
	}
}

// Get returns a note the caller is allowed to read. PUBLIC notes need no login.
//
// @Summary      Get a note
// @Tags         notes
// @Produce      json
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  domain.Note
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /notes/{id} [get]
func (h *NoteHandler) Get(c echo.Context) error {
	note, err := h.notes.Get(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, note)
}

// Create adds a note owned by the caller. Admins cannot author notes.
//
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        body  body      noteRequest  true  "Note"
// @Success      201   {object}  domain.Note
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /notes [post]
func (h *NoteHandler) Create(c echo.Context) error {
	var req noteRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	note, err := h.notes.Create(c.Request().Context(), middleware.CallerFrom(c), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, note)
}

// Update replaces the editable fields. Only the owner may edit.
//
// @Summary      Update a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Note ID"
// @Param        body  body      noteRequest  true  "Note"
// @Success      200   {object}  domain.Note
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /notes/{id} [put]
func (h *NoteHandler) Update(c echo.Context) error {
	var req noteRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	note, err := h.notes.Update(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, note)
}

// Delete removes a note. Allowed for the owner and for admins.
//
// @Summary      Delete a note
// @Tags         notes
// @Param        id   path  string  true  "Note ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /notes/{id} [delete]
func (h *NoteHandler) Delete(c echo.Context) error {
	if err := h.notes.Delete(c.Request().Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Share grants read access to another user by username.
//
// @Summary      Share a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Note ID"
// @Param        body  body      shareRequest  true  "Recipient"
// @Success      200   {object}  domain.Note
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /notes/{id}/share-username [post]
func (h *NoteHandler) Share(c echo.Context) error {
	var req shareRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	note, err := h.notes.ShareByUsername(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"), req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, note)
}
