// Package http provides HTTP handlers for the file vault operations:
// streaming upload with encryption, authenticated decryption, metadata access,
// ciphertext download, listing, and deletion.
package http

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/filevault/internal/httputil"
	"github.com/allisson/filevault/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/filevault/internal/vault/usecase"
	customValidation "github.com/allisson/filevault/internal/validation"
)

const defaultContentType = "application/octet-stream"

// FileHandler handles HTTP requests for file vault operations.
type FileHandler struct {
	useCase vaultUseCase.VaultUseCase
	logger  *slog.Logger
}

// NewFileHandler creates a new file handler with required dependencies.
func NewFileHandler(useCase vaultUseCase.VaultUseCase, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// artifactID extracts and validates the :id URL parameter. A validation
// failure writes the error response and returns false.
func (h *FileHandler) artifactID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := customValidation.ArtifactID.Validate(id); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return "", false
	}
	return id, true
}

// EncryptHandler encrypts an uploaded file and stores the resulting artifact.
// POST /v1/files - multipart form with a required "file" part and an optional
// "key" field overriding the configured master key.
// Returns 201 Created with the file metadata.
func (h *FileHandler) EncryptHandler(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("missing file upload: %w", err),
			h.logger,
		)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	} else {
		contentType = defaultContentType
	}

	record, err := h.useCase.Encrypt(c.Request.Context(), vaultUseCase.EncryptInput{
		Filename:    header.Filename,
		ContentType: contentType,
		Plaintext:   file,
		Key:         c.PostForm("key"),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRecordToResponse(record))
}

// GetHandler returns the metadata record of a stored file.
// GET /v1/files/:id
// Returns 200 OK with the file metadata; no key material is required.
func (h *FileHandler) GetHandler(c *gin.Context) {
	id, ok := h.artifactID(c)
	if !ok {
		return
	}

	record, err := h.useCase.GetMetadata(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecordToResponse(record))
}

// ListHandler returns stored file records, newest first.
// GET /v1/files?offset=0&limit=50
func (h *FileHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	records, err := h.useCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecordsToListResponse(records))
}

// DownloadHandler streams the raw ciphertext artifact, for backup or
// replication without key material.
// GET /v1/files/:id/download
func (h *FileHandler) DownloadHandler(c *gin.Context) {
	id, ok := h.artifactID(c)
	if !ok {
		return
	}

	reader, record, err := h.useCase.OpenCiphertext(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer reader.Close()

	c.DataFromReader(
		http.StatusOK,
		record.BytesOut,
		defaultContentType,
		reader,
		map[string]string{
			"Content-Disposition": fmt.Sprintf("attachment; filename=%q", record.ID+".enc"),
		},
	)
}

// DecryptHandler authenticates, decrypts, and streams the plaintext of a
// stored file. The response only starts after the full ciphertext passed
// authentication.
// POST /v1/files/:id/decrypt - optional JSON body {"key": "..."} or form
// field "key" overriding the configured master key.
func (h *FileHandler) DecryptHandler(c *gin.Context) {
	id, ok := h.artifactID(c)
	if !ok {
		return
	}

	var req dto.DecryptFileRequest
	if c.Request.ContentLength > 0 {
		if c.ContentType() == gin.MIMEJSON {
			if err := c.ShouldBindJSON(&req); err != nil {
				httputil.HandleValidationErrorGin(c, err, h.logger)
				return
			}
		} else {
			req.Key = c.PostForm("key")
		}
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	reader, record, err := h.useCase.Decrypt(c.Request.Context(), id, req.Key)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer reader.Close()

	contentType := record.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	c.DataFromReader(
		http.StatusOK,
		record.BytesIn,
		contentType,
		reader,
		map[string]string{
			"Content-Disposition": fmt.Sprintf("attachment; filename=%q", record.OriginalFilename),
		},
	)
}

// DeleteHandler removes a stored file's ciphertext and metadata. The two
// removals are independent; the response reports which ones happened.
// DELETE /v1/files/:id
// Returns 200 OK with the removal report, 404 when neither resource existed.
func (h *FileHandler) DeleteHandler(c *gin.Context) {
	id, ok := h.artifactID(c)
	if !ok {
		return
	}

	result, err := h.useCase.Delete(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDeleteResultToResponse(result))
}
