package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
	"github.com/rtuhub/sgpa-backend/internal/config"
)

// ErrUnsupportedFileType is returned for uploads that are neither a PDF nor
// an image.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ExtractService turns an uploaded transcript file into plain text. PDFs are
// read from their text layer; images go through OCR. The rest of the
// pipeline treats this as a black-box text producer.
type ExtractService struct {
	cfg *config.Config
	log zerolog.Logger
}

func NewExtractService(cfg *config.Config, log zerolog.Logger) *ExtractService {
	return &ExtractService{
		cfg: cfg,
		log: log.With().Str("component", "extract_service").Logger(),
	}
}

// ExtractText reads the transcript text from the file at path. Returns the
// raw text and whether OCR was used.
func (s *ExtractService) ExtractText(path, mimeType string) (string, bool, error) {
	switch {
	case mimeType == "application/pdf":
		text, err := s.pdfText(path)
		if err != nil {
			return "", false, err
		}
		if len(strings.TrimSpace(text)) < s.cfg.MinTextLength {
			// Scanned PDF with no usable text layer. OCR needs a rasterized
			// page, which we do not produce here; return what the text layer
			// gave us and let the parser decide whether anything is usable.
			s.log.Warn().
				Str("path", path).
				Int("text_len", len(text)).
				Msg("PDF text layer below threshold")
		}
		return text, false, nil

	case strings.HasPrefix(mimeType, "image/"):
		text, err := s.ocrText(path)
		if err != nil {
			return "", true, err
		}
		return text, true, nil

	default:
		return "", false, fmt.Errorf("%w: %s", ErrUnsupportedFileType, mimeType)
	}
}

// pdfText extracts the text layer of a PDF.
func (s *ExtractService) pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// ocrText runs Tesseract over an uploaded image.
func (s *ExtractService) ocrText(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(s.cfg.OCRLanguage); err != nil {
		return "", fmt.Errorf("set ocr language: %w", err)
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("set ocr image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("run ocr: %w", err)
	}
	return text, nil
}
