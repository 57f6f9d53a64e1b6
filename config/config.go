// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Go'da "struct" bir veri yapısıdır — birden fazla field'ı bir arada tutar.
// Config struct'ı tüm ayarları tek bir yerde toplar, böylece
// her yerde ayrı ayrı os.Getenv() çağırmak yerine tek bir Config nesnesi taşırız.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — Single Responsibility: her struct tek bir concern'ü temsil eder.
type Config struct {
	Server ServerConfig
	Chat   ChatConfig
	Upload UploadConfig
	CORS   CORSConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// ChatConfig, oda ve reaction davranış ayarları.
//
// Not: Oda başına mesaj geçmişi limiti (100) burada DEĞİL —
// repository.HistoryLimit sabitidir. Runtime'da değiştirilebilir bir
// ayar değil, sistemin sabit bir üst sınırıdır.
type ChatConfig struct {
	// DefaultRoom, bağlanan her kullanıcının ilk düştüğü oda.
	DefaultRoom string

	// SeedRooms, server açılışında hazır oluşturulan odalar.
	// Oda seçici hiçbir zaman boş görünmesin diye var.
	SeedRooms []string

	// RetainReactions, bir kullanıcı disconnect olduğunda reaction'larının
	// kalıcı olup olmayacağını belirler.
	//
	// false (varsayılan): Disconnect eden kullanıcının reaction'ları silinir,
	//   sayılar geriye dönük küçülür.
	// true: Reaction'lar bir kez verildikten sonra kalıcıdır.
	//
	// Ürün kararı netleşene kadar iki davranış da bu flag arkasında yaşıyor.
	RetainReactions bool

	// RoomReapGrace, boş bir odanın silinmeden önce boş kalması gereken süre.
	// 0 ise reaping tamamen kapalıdır (odalar sonsuza kadar yaşar).
	RoomReapGrace time.Duration
}

// UploadConfig, dosya yükleme ayarları.
type UploadConfig struct {
	Dir     string // Dosyaların kaydedileceği dizin
	MaxSize int64  // Byte cinsinden max dosya boyutu (env'de MB olarak verilir)
}

// CORSConfig, izin verilen origin listesi.
type CORSConfig struct {
	Origins []string
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
//
// Go'da error handling: Go'da exception/try-catch yoktur.
// Fonksiyonlar hata durumunda (value, error) tuple'ı döner.
// Çağıran taraf her zaman error'ı kontrol ETMEK ZORUNDADIR.
func Load() (*Config, error) {
	// .env dosyasını yükle — dosya yoksa hata vermez, sessizce devam eder.
	// Production'da bu dosya olmaz, gerçek env variable'lar kullanılır.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxSizeMB, err := strconv.ParseInt(getEnv("UPLOAD_MAX_SIZE_MB", "25"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_SIZE_MB: %w", err)
	}
	if maxSizeMB <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_SIZE_MB must be positive")
	}

	retainReactions, err := strconv.ParseBool(getEnv("CHAT_RETAIN_REACTIONS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_RETAIN_REACTIONS: %w", err)
	}

	reapGraceMin, err := strconv.Atoi(getEnv("ROOM_REAP_GRACE_MINUTES", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid ROOM_REAP_GRACE_MINUTES: %w", err)
	}
	if reapGraceMin < 0 {
		return nil, fmt.Errorf("ROOM_REAP_GRACE_MINUTES must not be negative")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Chat: ChatConfig{
			DefaultRoom:     getEnv("CHAT_DEFAULT_ROOM", "General"),
			SeedRooms:       splitList(getEnv("CHAT_SEED_ROOMS", "Sports,Music,Movies")),
			RetainReactions: retainReactions,
			RoomReapGrace:   time.Duration(reapGraceMin) * time.Minute,
		},
		Upload: UploadConfig{
			Dir:     getEnv("UPLOAD_DIR", "./data/uploads"),
			MaxSize: maxSizeMB * 1024 * 1024,
		},
		CORS: CORSConfig{
			Origins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		},
	}

	if cfg.Chat.DefaultRoom == "" {
		return nil, fmt.Errorf("CHAT_DEFAULT_ROOM must not be empty")
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:5000").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// splitList, virgülle ayrılmış bir env değerini temiz string dilimine çevirir.
// Boş elemanlar atlanır: "a,,b" → ["a", "b"].
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
