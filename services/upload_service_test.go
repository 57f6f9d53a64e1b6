package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/mingle/pkg"
)

// multipartFile, gerçek bir multipart body kurup tek dosyayı geri okur —
// Store'un aldığı tiplerin (multipart.File + FileHeader) birebir aynısı.
func multipartFile(t *testing.T, filename string, contentType string, content []byte) (multipart.File, *multipart.FileHeader) {
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

	req := httptest.NewRequest("POST", "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	file, fh, err := req.FormFile("file")
	require.NoError(t, err)
	return file, fh
}

func TestStoreSavesFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	svc := NewDiskUploadService(dir, 1<<20)

	file, header := multipartFile(t, "kedi.png", "image/png", []byte("png-bytes"))
	defer file.Close()

	result, err := svc.Store(file, header)
	require.NoError(t, err)

	assert.Equal(t, "kedi.png", result.OriginalName)
	assert.True(t, strings.HasPrefix(result.URL, "/api/uploads/"))
	assert.True(t, strings.HasSuffix(result.URL, "_kedi.png"))

	// Diske gerçekten yazılmış mı?
	diskName := strings.TrimPrefix(result.URL, "/api/uploads/")
	saved, err := os.ReadFile(filepath.Join(dir, diskName))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), saved)
}

func TestStoreGeneratesUniqueNamesForSameFilename(t *testing.T) {
	dir := t.TempDir()
	svc := NewDiskUploadService(dir, 1<<20)

	file1, header1 := multipartFile(t, "aynı.png", "image/png", []byte("ilk"))
	defer file1.Close()
	file2, header2 := multipartFile(t, "aynı.png", "image/png", []byte("ikinci"))
	defer file2.Close()

	result1, err := svc.Store(file1, header1)
	require.NoError(t, err)
	result2, err := svc.Store(file2, header2)
	require.NoError(t, err)

	// Aynı orijinal ad, farklı disk adı — ikinci dosya birinciyi ezmez.
	assert.NotEqual(t, result1.URL, result2.URL)
}

func TestStoreRejectsDisallowedMimeType(t *testing.T) {
	svc := NewDiskUploadService(t.TempDir(), 1<<20)

	file, header := multipartFile(t, "calistir.exe", "application/x-msdownload", []byte("MZ"))
	defer file.Close()

	_, err := svc.Store(file, header)
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestStoreRejectsOversizedFile(t *testing.T) {
	svc := NewDiskUploadService(t.TempDir(), 4)

	file, header := multipartFile(t, "büyük.png", "image/png", []byte("12345678"))
	defer file.Close()

	_, err := svc.Store(file, header)
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestStoreSurfacesDiskFailureAsInternal(t *testing.T) {
	// Var olmayan dizin: os.Create başarısız olur. Disk hatası client
	// hatası değildir — ErrInternal olarak sarılır (HTTP 500'e map'lenir).
	svc := NewDiskUploadService(filepath.Join(t.TempDir(), "yok", "boyle-dizin"), 1<<20)

	file, header := multipartFile(t, "kedi.png", "image/png", []byte("png-bytes"))
	defer file.Close()

	_, err := svc.Store(file, header)
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrInternal)
}

func TestStoreSanitizesTraversalFilename(t *testing.T) {
	dir := t.TempDir()
	svc := NewDiskUploadService(dir, 1<<20)

	file, header := multipartFile(t, "../../etc/passwd", "text/plain", []byte("x"))
	defer file.Close()

	result, err := svc.Store(file, header)
	require.NoError(t, err)

	// Disk adı upload dizininin dışına çıkamaz.
	diskName := strings.TrimPrefix(result.URL, "/api/uploads/")
	assert.NotContains(t, diskName, "/")
	assert.NotContains(t, diskName, "..")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
