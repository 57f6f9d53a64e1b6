package handlers

import (
	"net/http"

	"github.com/akinalp/mingle/pkg"
	"github.com/akinalp/mingle/services"
)

// UploadHandler, dosya yükleme endpoint'ini yöneten struct.
type UploadHandler struct {
	uploads services.UploadService
	maxSize int64
}

// NewUploadHandler, constructor.
func NewUploadHandler(uploads services.UploadService, maxSize int64) *UploadHandler {
	return &UploadHandler{
		uploads: uploads,
		maxSize: maxSize,
	}
}

// Upload godoc
// POST /api/upload (multipart/form-data, "file" field'ı)
// Dosyayı saklar ve {url, original_name} döner.
//
// Upload hatası YALNIZCA yükleyen client'a döner; chat state'ine ve
// diğer bağlantılara hiçbir etkisi yoktur. Upload, coordinator kilidi
// tutulmadan işlenir — upload sürerken mesaj trafiği durmaz.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// MaxBytesReader: body'yi limitte keser — dev dosyalarla belleği
	// şişirmeden isteği reddetmemizi sağlar.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)

	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	result, err := h.uploads.Store(file, header)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}
