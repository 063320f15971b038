package server

import (
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dayronponce94/designer-platform-sub000/internal/engagement"
	"github.com/dayronponce94/designer-platform-sub000/internal/utils"
	"github.com/dayronponce94/designer-platform-sub000/pkg/types"

	"github.com/alexedwards/flow"
)

const maxRequestBytes = 64 << 20

type createEngagementForm struct {
	Title           string  `form:"title"`
	Description     string  `form:"description"`
	ServiceCategory string  `form:"service_category"`
	BudgetCents     *int64  `form:"budget_cents"`
	Deadline        string  `form:"deadline"`
	ReferenceNotes  *string `form:"reference_notes"`
}

type updateEngagementForm struct {
	Title           *string  `form:"title"`
	Description     *string  `form:"description"`
	ServiceCategory *string  `form:"service_category"`
	ReferenceNotes  *string  `form:"reference_notes"`
	Status          *string  `form:"status"`
	FulfillerID     *string  `form:"fulfiller_id"`
	BudgetCents     *int64   `form:"budget_cents"`
	Deadline        *string  `form:"deadline"`
	RemoveURLs      []string `form:"remove_urls"`
}

func (s *Service) handleCreateEngagement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.callerFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain caller")
		s.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	files, err := s.parseRequestForm(r)
	if err != nil {
		s.logger.WithError(err).Error("failed to parse form")
		s.respondError(w, http.StatusBadRequest, "malformed form")
		return
	}

	var f = new(createEngagementForm)
	if err := decoder.Decode(f, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode engagement form")
		s.respondError(w, http.StatusBadRequest, "malformed form")
		return
	}

	deadline, err := parseDeadline(f.Deadline)
	if err != nil {
		s.respondServiceError(w, err, false)
		return
	}

	// Upload batch gets its own prefix; the record id does not exist yet.
	descriptors, err := s.uploads.UploadAttachments(ctx, utils.NanoIDSize(16), files)
	if err != nil {
		s.respondServiceError(w, err, false)
		return
	}

	created, err := s.engagements.Create(ctx, caller, engagement.CreateInput{
		Title:          f.Title,
		Description:    f.Description,
		Category:       types.ServiceCategory(f.ServiceCategory),
		BudgetCents:    f.BudgetCents,
		Deadline:       deadline,
		ReferenceNotes: f.ReferenceNotes,
		Attachments:    descriptors,
	})
	if err != nil {
		s.respondServiceError(w, err, false)
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Service) handleListEngagements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.callerFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain caller")
		s.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	scope := engagement.Scope(r.URL.Query().Get("scope"))

	list, err := s.engagements.List(ctx, caller, scope)
	if err != nil {
		s.respondServiceError(w, err, false)
		return
	}

	s.respondJSON(w, http.StatusOK, list)
}

func (s *Service) handleGetEngagement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.callerFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain caller")
		s.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	e, err := s.engagements.Get(ctx, caller, flow.Param(ctx, "id"))
	if err != nil {
		s.respondServiceError(w, err, true)
		return
	}

	s.respondJSON(w, http.StatusOK, e)
}

func (s *Service) handleUpdateEngagement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.callerFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain caller")
		s.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	id := flow.Param(ctx, "id")

	files, err := s.parseRequestForm(r)
	if err != nil {
		s.logger.WithError(err).Error("failed to parse form")
		s.respondError(w, http.StatusBadRequest, "malformed form")
		return
	}

	var f = new(updateEngagementForm)
	if err := decoder.Decode(f, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode engagement patch form")
		s.respondError(w, http.StatusBadRequest, "malformed form")
		return
	}

	patch := engagement.Patch{
		Title:          f.Title,
		Description:    f.Description,
		ReferenceNotes: f.ReferenceNotes,
		FulfillerID:    f.FulfillerID,
		BudgetCents:    f.BudgetCents,
	}
	if f.ServiceCategory != nil {
		category := types.ServiceCategory(*f.ServiceCategory)
		patch.ServiceCategory = &category
	}
	if f.Status != nil {
		status := types.EngagementStatus(*f.Status)
		patch.Status = &status
	}
	if f.Deadline != nil {
		deadline, err := parseDeadline(*f.Deadline)
		if err != nil {
			s.respondServiceError(w, err, false)
			return
		}
		patch.Deadline = deadline
	}

	descriptors, err := s.uploads.UploadAttachments(ctx, id, files)
	if err != nil {
		s.respondServiceError(w, err, false)
		return
	}

	updated, err := s.engagements.Update(ctx, caller, id, patch, descriptors, f.RemoveURLs)
	if err != nil {
		s.respondServiceError(w, err, false)
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Service) handleDeleteEngagement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.callerFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain caller")
		s.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := s.engagements.Delete(ctx, caller, flow.Param(ctx, "id")); err != nil {
		s.respondServiceError(w, err, false)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Service) handleAppendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.callerFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain caller")
		s.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	id := flow.Param(ctx, "id")

	files, err := s.parseRequestForm(r)
	if err != nil {
		s.logger.WithError(err).Error("failed to parse form")
		s.respondError(w, http.StatusBadRequest, "malformed form")
		return
	}

	descriptors, err := s.uploads.UploadAttachments(ctx, id, files)
	if err != nil {
		s.respondServiceError(w, err, false)
		return
	}

	updated, err := s.engagements.AppendMessage(ctx, caller, id, r.FormValue("body"), descriptors)
	if err != nil {
		s.respondServiceError(w, err, false)
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

// parseRequestForm parses either a multipart or url-encoded body and returns
// any uploaded attachment files.
func (s *Service) parseRequestForm(r *http.Request) ([]*multipart.FileHeader, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxRequestBytes); err != nil {
			return nil, err
		}
		return r.MultipartForm.File["attachments"], nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return nil, nil
}

func parseDeadline(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, nil
	}
	return nil, types.NewValidationError("deadline", "must be RFC3339 or YYYY-MM-DD")
}
