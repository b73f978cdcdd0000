package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rtuhub/sgpa-backend/internal/config"
	"github.com/rtuhub/sgpa-backend/internal/model"
	"github.com/rtuhub/sgpa-backend/internal/repository"
	"github.com/rtuhub/sgpa-backend/internal/response"
	"github.com/rtuhub/sgpa-backend/internal/service"
	"github.com/rtuhub/sgpa-backend/internal/transcript"
)

// ResultHandler handles transcript uploads and result lookups.
type ResultHandler struct {
	extractService *service.ExtractService
	resultService  *service.ResultService
	cfg            *config.Config
	log            zerolog.Logger
}

func NewResultHandler(
	extractService *service.ExtractService,
	resultService *service.ResultService,
	cfg *config.Config,
	log zerolog.Logger,
) *ResultHandler {
	return &ResultHandler{
		extractService: extractService,
		resultService:  resultService,
		cfg:            cfg,
		log:            log.With().Str("component", "result_handler").Logger(),
	}
}

// Calculate godoc
// POST /api/v1/results/calculate
// Accepts a multipart gradesheet upload (PDF or image) plus optional hint
// fields, runs the transcript pipeline and returns the computed result.
func (h *ResultHandler) Calculate(c *gin.Context) {
	fileHeader, err := c.FormFile("result")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if fileHeader.Size > h.cfg.MaxUploadBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mime.TypeByExtension(filepath.Ext(fileHeader.Filename))
	}
	mimeType = strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])

	var hints model.ResultHints
	// Hint fields are optional free-form strings; binding cannot fail on them.
	_ = c.ShouldBind(&hints)

	path, digest, err := h.saveUpload(fileHeader)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to save upload")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer os.Remove(path)

	text, usedOCR, err := h.extractService.ExtractText(path, mimeType)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFileType) {
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
			return
		}
		h.log.Error().Err(err).Str("mime", mimeType).Msg("Text extraction failed")
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrUnsupportedInput)
		return
	}

	result, err := h.resultService.Calculate(c.Request.Context(), service.CalculateInput{
		Text:         text,
		Hints:        hints,
		SourceDigest: digest,
		SourceName:   filepath.Base(fileHeader.Filename),
		SourceMime:   mimeType,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedInput):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrUnsupportedInput)
		case errors.Is(err, service.ErrNoSubjectsParsed):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoSubjectsParsed)
		default:
			h.log.Error().Err(err).Msg("Result calculation failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"result":   result,
		"used_ocr": usedOCR,
	})
}

// Get godoc
// GET /api/v1/results/:rollNo/:semester
func (h *ResultHandler) Get(c *gin.Context) {
	rollNo := strings.TrimSpace(c.Param("rollNo"))
	semester := transcript.ParseSemester(c.Param("semester"))
	if rollNo == "" || semester == 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.resultService.GetStored(c.Request.Context(), strings.ToUpper(rollNo), semester)
	if err != nil {
		if errors.Is(err, repository.ErrResultNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Result lookup failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// saveUpload writes the upload to a temp file under the configured upload
// directory and returns its path together with the SHA-256 content digest.
func (h *ResultHandler) saveUpload(fileHeader *multipart.FileHeader) (string, string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		return "", "", err
	}
	dst, err := os.CreateTemp(h.cfg.UploadDir, "transcript-*"+filepath.Ext(fileHeader.Filename))
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	hasher := sha256.New()
	if _, err := io.Copy(dst, io.TeeReader(src, hasher)); err != nil {
		os.Remove(dst.Name())
		return "", "", err
	}
	return dst.Name(), hex.EncodeToString(hasher.Sum(nil)), nil
}
