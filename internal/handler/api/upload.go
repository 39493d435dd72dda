package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/jhrphoto/media-pipeline-go/internal/logger"
	"github.com/jhrphoto/media-pipeline-go/internal/port"
	"github.com/jhrphoto/media-pipeline-go/internal/usecase/media"
	"github.com/jhrphoto/media-pipeline-go/internal/validation"
)

// UploadMediaRequest is the multipart form, reassembled for validation.
type UploadMediaRequest struct {
	Filename string  `json:"filename" validate:"required,max=255"`
	MimeType string  `json:"mime_type" validate:"required"`
	FolderID *string `json:"folder_id,omitempty" validate:"omitempty,max=255"`
}

// maxMultipartMemory bounds how much of the form is held in memory before
// spilling to temp files.
const maxMultipartMemory = 10 << 20

// UploadMediaHandler ingests a multipart upload. The file comes in the "file"
// field; "folder_id" and "override" are optional form fields. A duplicate
// upload without override answers 200 with the existing media, never an error.
func UploadMediaHandler(svc port.MediaUploader, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// the original plus form overhead; the use case enforces the exact cap
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+maxMultipartMemory)

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				WriteError(w, http.StatusRequestEntityTooLarge, "file exceeds the upload size limit", nil)
				return
			}
			WriteError(w, http.StatusBadRequest, "invalid multipart payload", err)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "a \"file\" field is required", err)
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "could not read uploaded file", err)
			return
		}

		req := UploadMediaRequest{
			Filename: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
		}
		if folderID := r.FormValue("folder_id"); folderID != "" {
			req.FolderID = &folderID
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, "Validation error (could not encode details)", fmt.Errorf("encoding validation errors: %w", err))
				return
			}

			// return the validation errors payload directly
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			logger.Warnf(r.Context(), "❌  Validation failed: %s", errsJSON)
			return
		}

		in := port.UploadInput{
			Data:     data,
			Filename: req.Filename,
			MimeType: req.MimeType,
			FolderID: req.FolderID,
			Override: r.FormValue("override") == "true",
		}

		out, err := svc.Upload(r.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, media.ErrUnsupportedMediaType):
				WriteError(w, http.StatusUnsupportedMediaType, "unsupported media type", err)
			case errors.Is(err, media.ErrPayloadTooLarge):
				WriteError(w, http.StatusRequestEntityTooLarge, "file exceeds the upload size limit", err)
			default:
				WriteError(w, http.StatusInternalServerError, "could not store upload", err)
			}
			return
		}

		if out.DuplicateOf != nil && !out.Replaced {
			RespondJSON(w, http.StatusOK, out)
			log.Printf("✅  Upload of %q matched existing media #%s", header.Filename, out.ID)
			return
		}

		RespondJSON(w, http.StatusCreated, out)
		log.Printf("✅  Successfully ingested %q as media #%s", header.Filename, out.ID)
	}
}
