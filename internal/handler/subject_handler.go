package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rtuhub/sgpa-backend/internal/model"
	"github.com/rtuhub/sgpa-backend/internal/repository"
	"github.com/rtuhub/sgpa-backend/internal/response"
	"github.com/rtuhub/sgpa-backend/internal/service"
	"github.com/rtuhub/sgpa-backend/internal/transcript"
	"github.com/rtuhub/sgpa-backend/internal/validator"
)

type SubjectHandler struct {
	subjectService *service.SubjectService
}

func NewSubjectHandler(subjectService *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

// GetAll godoc
// GET /api/v1/admin/subjects?branch=CSE&semester=3
func (h *SubjectHandler) GetAll(c *gin.Context) {
	filter := repository.CandidateFilter{
		Branch:   transcript.NormalizeBranch(c.Query("branch")),
		Semester: transcript.ParseSemester(c.Query("semester")),
	}

	subjects, err := h.subjectService.GetAll(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if subjects == nil {
		subjects = []model.CatalogSubject{}
	}

	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

// Create godoc
// POST /api/v1/admin/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var req model.CreateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub := &model.CatalogSubject{
		SubjectName: req.SubjectName,
		Branch:      req.Branch,
		Semester:    req.Semester,
		Credits:     req.Credits,
		IsLab:       *req.IsLab,
		SubjectCode: req.SubjectCode,
	}
	if err := h.subjectService.Create(c.Request.Context(), sub); err != nil {
		if isUniqueViolation(err) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"subject": sub})
}

// Update godoc
// PUT /api/v1/admin/subjects/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub := &model.CatalogSubject{
		ID:          id,
		SubjectName: req.SubjectName,
		Branch:      req.Branch,
		Semester:    req.Semester,
		Credits:     req.Credits,
		IsLab:       *req.IsLab,
		SubjectCode: req.SubjectCode,
	}
	if err := h.subjectService.Update(c.Request.Context(), sub); err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		if isUniqueViolation(err) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subject": sub})
}

// Delete godoc
// DELETE /api/v1/admin/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.subjectService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "subject deleted successfully"})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
