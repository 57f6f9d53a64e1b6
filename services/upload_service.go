package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/akinalp/mingle/models"
	"github.com/akinalp/mingle/pkg"
)

// UploadService, "byte'ları sakla, referans URL döndür" soyutlaması.
//
// Coordinator'dan tamamen bağımsızdır ve coordinator mutex'ini ASLA
// tutmaz: bir upload sürerken diğer bağlantıların oda/mesaj event'leri
// kesintisiz işlenmeye devam eder. Upload hatası yalnızca yükleyen
// client'a döner — paylaşılan state'i ve diğer bağlantıları etkilemez.
type UploadService interface {
	Store(file multipart.File, header *multipart.FileHeader) (*models.UploadResult, error)
}

// diskUploadService, UploadService'in yerel disk implementasyonu.
// Object storage'a geçiş interface'i değiştirmeden yapılabilir.
type diskUploadService struct {
	uploadDir string
	maxSize   int64
}

// NewDiskUploadService, constructor.
func NewDiskUploadService(uploadDir string, maxSize int64) UploadService {
	return &diskUploadService{
		uploadDir: uploadDir,
		maxSize:   maxSize,
	}
}

// allowedMimeTypes, yüklemeye izin verilen dosya türleri.
var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/webm":      true,
	"audio/mpeg":      true,
	"audio/ogg":       true,
	"application/pdf": true,
	"text/plain":      true,
}

// Store, dosyayı doğrular, diske kaydeder ve erişim URL'ini döner.
func (s *diskUploadService) Store(file multipart.File, header *multipart.FileHeader) (*models.UploadResult, error) {
	// Boyut kontrolü
	if header.Size > s.maxSize {
		return nil, fmt.Errorf("%w: file too large (max %dMB)", pkg.ErrBadRequest, s.maxSize/(1024*1024))
	}

	// MIME type kontrolü
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	// Sadece base MIME type'ı al (charset vb. parametre olabilir)
	mimeBase := strings.TrimSpace(strings.Split(contentType, ";")[0])

	if !allowedMimeTypes[mimeBase] {
		return nil, fmt.Errorf("%w: file type not allowed: %s", pkg.ErrBadRequest, mimeBase)
	}

	// Unique dosya adı oluştur — çakışma ve güvenlik için
	// {random_hex}_{original_filename} formatı
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("%w: failed to generate random filename: %v", pkg.ErrInternal, err)
	}
	safeFilename := sanitizeFilename(header.Filename)
	diskFilename := hex.EncodeToString(randomBytes) + "_" + safeFilename

	// Dosyayı diske kaydet
	destPath := filepath.Join(s.uploadDir, diskFilename)
	destFile, err := os.Create(destPath)
	if err != nil {
		// Disk hatası client'ın suçu değil — 500 olarak map'lenir.
		return nil, fmt.Errorf("%w: failed to create file: %v", pkg.ErrInternal, err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, file); err != nil {
		// Hata durumunda yarım dosyayı temizle
		os.Remove(destPath)
		return nil, fmt.Errorf("%w: failed to save file: %v", pkg.ErrInternal, err)
	}

	return &models.UploadResult{
		URL:          "/api/uploads/" + diskFilename,
		OriginalName: header.Filename,
	}, nil
}

// sanitizeFilename, path traversal ve gömülü separator'ları temizler.
// "../../etc/passwd" gibi bir isim düz "passwd"a iner.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "file"
	}
	return name
}
