package upload

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quicky-ai/quicky-core/internal/modules/content/extractor"
	"github.com/quicky-ai/quicky-core/internal/pkg/apperr"
	"github.com/quicky-ai/quicky-core/internal/pkg/response"
	"github.com/quicky-ai/quicky-core/internal/pkg/textutil"
)

const contentPreviewChars = 1000

// FileExtractor turns a saved document into text.
type FileExtractor interface {
	ExtractFile(path string) (string, error)
}

// Handler accepts PDF and DOCX uploads and returns their text. Nothing is
// kept on disk once the request finishes.
type Handler struct {
	extractor FileExtractor
	dir       string
	maxBytes  int64
	logger    *zap.Logger
}

func NewHandler(ext FileExtractor, dir string, maxBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{extractor: ext, dir: dir, maxBytes: maxBytes, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	if h.maxBytes > 0 {
		if c.Request.ContentLength > h.maxBytes {
			response.Error(c, apperr.New(apperr.KindTooLarge, apperr.CodeFileTooLarge, apperr.MsgFileTooLarge))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, formFileError(err))
		return
	}
	original := strings.TrimSpace(fileHeader.Filename)
	if original == "" {
		response.Error(c, apperr.Validation(apperr.CodeMissingFile, apperr.MsgNoFileSelected))
		return
	}
	if !extractor.SupportedDocument(original) {
		response.Error(c, apperr.Validation(apperr.CodeUnsupportedFileType, apperr.MsgUnsupportedFileType))
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		response.Error(c, apperr.InternalMsg(apperr.MsgUploadFailed, fmt.Errorf("create upload dir: %w", err)))
		return
	}
	savePath := filepath.Join(h.dir, buildFileName(original))
	defer func() {
		if err := os.Remove(savePath); err != nil && !os.IsNotExist(err) {
			h.logger.Warn("remove upload failed", zap.String("path", savePath), zap.Error(err))
		}
	}()
	if err := c.SaveUploadedFile(fileHeader, savePath); err != nil {
		response.Error(c, apperr.InternalMsg(apperr.MsgUploadFailed, fmt.Errorf("save upload: %w", err)))
		return
	}

	text, err := h.extractor.ExtractFile(savePath)
	if err != nil {
		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			err = apperr.InternalMsg(apperr.MsgUploadFailed, err)
		}
		response.Error(c, err)
		return
	}
	if strings.TrimSpace(text) == "" {
		response.Error(c, apperr.Extraction(apperr.CodeUnreadableDocument, apperr.MsgUnreadableDocument, nil))
		return
	}

	h.logger.Info("document extracted",
		zap.String("filename", original),
		zap.Int64("size", fileHeader.Size),
		zap.Int("chars", textutil.Len(text)),
	)
	response.OK(c, gin.H{
		"success":      true,
		"content":      textutil.Preview(text, contentPreviewChars),
		"full_content": text,
	})
}

func formFileError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return apperr.Wrap(apperr.KindTooLarge, apperr.CodeFileTooLarge, apperr.MsgFileTooLarge, err)
	}
	if errors.Is(err, http.ErrMissingFile) {
		return apperr.Validation(apperr.CodeMissingFile, apperr.MsgNoFileUploaded)
	}
	return apperr.Wrap(apperr.KindValidation, apperr.CodeMissingFile, apperr.MsgNoFileUploaded, err)
}
