package controllers

import (
	"net/http"
	"strings"

	"github.com/kibidoart/kibido-backend/api/responses"
	"github.com/kibidoart/kibido-backend/internal/media"
	pkgerrors "github.com/kibidoart/kibido-backend/pkg/errors"
	"github.com/kibidoart/kibido-backend/pkg/logger"
)

const uploadFormField = "file"

// AdminUploadMedia accepts a multipart image upload and stores it for use in
// product image arrays.
func AdminUploadMedia(svc media.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+4096)

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile(uploadFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		out, err := svc.Upload(r.Context(), media.UploadInput{
			FileName:  header.Filename,
			MimeType:  header.Header.Get("Content-Type"),
			SizeBytes: header.Size,
			Content:   file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

// AdminDeleteMedia removes a stored image by file name.
func AdminDeleteMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileName := strings.TrimSpace(r.URL.Query().Get("file"))
		if fileName == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "file query parameter is required"))
			return
		}

		if err := svc.Delete(r.Context(), fileName); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
