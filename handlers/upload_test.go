package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/mingle/models"
	"github.com/akinalp/mingle/services"
)

func newUploadMux(t *testing.T, maxSize int64) *http.ServeMux {
	t.Helper()

	uploads := services.NewDiskUploadService(t.TempDir(), maxSize)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", NewUploadHandler(uploads, maxSize).Upload)
	return mux
}

// uploadRequest, "file" field'lı bir multipart POST kurar.
func uploadRequest(t *testing.T, filename string, contentType string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadReturnsURLAndOriginalName(t *testing.T) {
	mux := newUploadMux(t, 1<<20)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "tatil.png", "image/png", []byte("png-bytes")))

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool                `json:"success"`
		Data    models.UploadResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "tatil.png", envelope.Data.OriginalName)
	assert.Contains(t, envelope.Data.URL, "/api/uploads/")
}

func TestUploadRejectsMissingFileField(t *testing.T) {
	mux := newUploadMux(t, 1<<20)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("not_file", "değer"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Error)
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	mux := newUploadMux(t, 1<<20)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "v.exe", "application/x-msdownload", []byte("MZ")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
