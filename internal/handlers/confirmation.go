package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/faithingod1/parish-record/internal/auth"
	"github.com/faithingod1/parish-record/internal/dto"
	"github.com/faithingod1/parish-record/internal/service"
)

// ConfirmationHandler serves the dashboard and the record CRUD pages.
// Every route here sits behind auth.RequireSession.
type ConfirmationHandler struct {
	svc   *service.ConfirmationService
	guard *auth.Guard
}

// NewConfirmationHandler returns a new ConfirmationHandler.
func NewConfirmationHandler(svc *service.ConfirmationService, guard *auth.Guard) *ConfirmationHandler {
	return &ConfirmationHandler{svc: svc, guard: guard}
}

// Dashboard shows the logged-in user and the record count.
func (h *ConfirmationHandler) Dashboard(c *gin.Context) {
	sess, sessionID := auth.SessionFromContext(c)
	total, err := h.svc.Count(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to count records")
		return
	}
	token, err := h.guard.IssueToken(c.Request.Context(), sessionID)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to issue token")
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Username":     sess.Username,
		"TotalRecords": total,
		"CSRFToken":    token,
	})
}

// List renders all records, filtered by ?q= when present.
func (h *ConfirmationHandler) List(c *gin.Context) {
	_, sessionID := auth.SessionFromContext(c)
	q := c.Query("q")
	records, err := h.svc.Search(c.Request.Context(), q)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to search records")
		return
	}
	token, err := h.guard.IssueToken(c.Request.Context(), sessionID)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to issue token")
		return
	}
	c.HTML(http.StatusOK, "confirmations_list.html", gin.H{
		"Records":   records,
		"Query":     q,
		"CSRFToken": token,
	})
}

// NewForm renders the empty create form.
func (h *ConfirmationHandler) NewForm(c *gin.Context) {
	_, sessionID := auth.SessionFromContext(c)
	token, err := h.guard.IssueToken(c.Request.Context(), sessionID)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to issue token")
		return
	}
	c.HTML(http.StatusOK, "confirmation_form.html", gin.H{
		"Mode":      "create",
		"Action":    "/confirmations/new",
		"Form":      dto.ConfirmationForm{},
		"CSRFToken": token,
	})
}

// Create validates CSRF before any store call, then the input; a validation
// failure re-renders the form with the submitted values and a fresh token.
func (h *ConfirmationHandler) Create(c *gin.Context) {
	_, sessionID := auth.SessionFromContext(c)
	var form dto.ConfirmationForm
	_ = c.ShouldBind(&form)

	if err := h.guard.Validate(c.Request.Context(), sessionID, form.CSRFToken); err != nil {
		c.String(http.StatusBadRequest, "invalid CSRF token")
		return
	}
	_, err := h.svc.Create(c.Request.Context(), formToInput(form))
	if err != nil {
		h.renderFormError(c, sessionID, "create", "/confirmations/new", form, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/confirmations")
}

// View renders a single record.
func (h *ConfirmationHandler) View(c *gin.Context) {
	_, sessionID := auth.SessionFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	record, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.String(http.StatusNotFound, "record not found")
			return
		}
		c.String(http.StatusInternalServerError, "failed to load record")
		return
	}
	token, err := h.guard.IssueToken(c.Request.Context(), sessionID)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to issue token")
		return
	}
	c.HTML(http.StatusOK, "confirmation_detail.html", gin.H{
		"Record":    record,
		"CSRFToken": token,
	})
}

// EditForm renders the edit form prefilled with the stored values.
func (h *ConfirmationHandler) EditForm(c *gin.Context) {
	_, sessionID := auth.SessionFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	record, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.String(http.StatusNotFound, "record not found")
			return
		}
		c.String(http.StatusInternalServerError, "failed to load record")
		return
	}
	token, err := h.guard.IssueToken(c.Request.Context(), sessionID)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to issue token")
		return
	}
	c.HTML(http.StatusOK, "confirmation_form.html", gin.H{
		"Mode":   "edit",
		"Action": editAction(id),
		"Form": dto.ConfirmationForm{
			FullName:         record.FullName,
			DateOfBirth:      record.DateOfBirth.Format("2006-01-02"),
			ConfirmationDate: record.ConfirmationDate.Format("2006-01-02"),
			ChurchName:       record.ChurchName,
			PriestName:       record.PriestName,
			SponsorName:      record.SponsorName,
			Remarks:          record.Remarks,
		},
		"CSRFToken": token,
	})
}

// Update replaces all mutable fields of the record.
func (h *ConfirmationHandler) Update(c *gin.Context) {
	_, sessionID := auth.SessionFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var form dto.ConfirmationForm
	_ = c.ShouldBind(&form)

	if err := h.guard.Validate(c.Request.Context(), sessionID, form.CSRFToken); err != nil {
		c.String(http.StatusBadRequest, "invalid CSRF token")
		return
	}
	_, err := h.svc.Update(c.Request.Context(), id, formToInput(form))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.String(http.StatusNotFound, "record not found")
			return
		}
		h.renderFormError(c, sessionID, "edit", editAction(id), form, err)
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/confirmations/%d", id))
}

// Delete removes the record irreversibly.
func (h *ConfirmationHandler) Delete(c *gin.Context) {
	_, sessionID := auth.SessionFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var form dto.CSRFForm
	_ = c.ShouldBind(&form)

	if err := h.guard.Validate(c.Request.Context(), sessionID, form.CSRFToken); err != nil {
		c.String(http.StatusBadRequest, "invalid CSRF token")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.String(http.StatusNotFound, "record not found")
			return
		}
		c.String(http.StatusInternalServerError, "failed to delete record")
		return
	}
	c.Redirect(http.StatusSeeOther, "/confirmations")
}

// renderFormError re-renders the create/edit form after a rejected submit.
// Validation errors keep the submitted values; anything else is a 500.
func (h *ConfirmationHandler) renderFormError(c *gin.Context, sessionID, mode, action string, form dto.ConfirmationForm, err error) {
	var ve *service.ValidationError
	if !errors.As(err, &ve) {
		c.String(http.StatusInternalServerError, "failed to save record")
		return
	}
	token, terr := h.guard.IssueToken(c.Request.Context(), sessionID)
	if terr != nil {
		c.String(http.StatusInternalServerError, "failed to issue token")
		return
	}
	c.HTML(http.StatusBadRequest, "confirmation_form.html", gin.H{
		"Mode":      mode,
		"Action":    action,
		"Form":      form,
		"Error":     ve.Error(),
		"CSRFToken": token,
	})
}

func editAction(id int64) string {
	return fmt.Sprintf("/confirmations/%d/edit", id)
}

func formToInput(f dto.ConfirmationForm) service.ConfirmationInput {
	return service.ConfirmationInput{
		FullName:         f.FullName,
		DateOfBirth:      f.DateOfBirth,
		ConfirmationDate: f.ConfirmationDate,
		ChurchName:       f.ChurchName,
		PriestName:       f.PriestName,
		SponsorName:      f.SponsorName,
		Remarks:          f.Remarks,
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "record not found")
		return 0, false
	}
	return id, true
}
