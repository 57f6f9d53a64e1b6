// Package main, mingle chat server'ının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Upload dizinini oluştur
//  3. Repository'leri oluştur (in-memory store'lar)
//  4. WebSocket Hub'ı başlat
//  5. Service'leri oluştur (repository'ler + hub ile)
//  6. Seed odaları hazırla
//  7. Handler'ları oluştur (service'ler ile)
//  8. HTTP router'ı kur, route'ları bağla
//  9. CORS yapılandır
// 10. HTTP Server'ı başlat
// 11. Graceful shutdown
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine
// bağlanıyor. Dört state bileşeni (presence, oda dizini, reaction
// ledger, matchmaking kuyruğu) process ömrü boyunca yaşar ve yalnızca
// session coordinator tarafından mutate edilir; dışarıya mutable
// referans verilmez. Kalıcı state yoktur — restart'ta her şey sıfırdan.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/akinalp/mingle/config"
	"github.com/akinalp/mingle/handlers"
	"github.com/akinalp/mingle/repository"
	"github.com/akinalp/mingle/services"
	"github.com/akinalp/mingle/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] mingle server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d, default_room=%s)", cfg.Server.Port, cfg.Chat.DefaultRoom)

	// ─── 2. Upload Dizini ───
	if err := os.MkdirAll(cfg.Upload.Dir, 0755); err != nil {
		log.Fatalf("[main] failed to create upload directory: %v", err)
	}

	// ─── 3. Repository Layer ───
	presenceRepo := repository.NewMemoryPresenceRepo(cfg.Chat.DefaultRoom)
	roomRepo := repository.NewMemoryRoomRepo()
	reactionRepo := repository.NewMemoryReactionRepo()
	queueRepo := repository.NewMemoryQueueRepo()

	// ─── 4. WebSocket Hub ───
	//
	// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır.
	// `go hub.Run()` ayrı bir goroutine'de event loop başlatır:
	// register/unregister channel'larını dinler ve client map'ini günceller.
	// Hub aynı zamanda EventPublisher interface'ini implement eder —
	// service'ler hub'a doğrudan bağımlı olmak yerine interface üzerinden erişir.
	hub := ws.NewHub()
	go hub.Run()

	// ─── 5. Service Layer ───
	sessionService := services.NewSessionService(
		presenceRepo,
		roomRepo,
		reactionRepo,
		queueRepo,
		hub,
		cfg.Chat,
	)
	uploadService := services.NewDiskUploadService(cfg.Upload.Dir, cfg.Upload.MaxSize)

	// Reaper — boş odaları grace süresi sonunda temizler.
	// Default oda ve seed odalar korunur.
	protectedRooms := append([]string{cfg.Chat.DefaultRoom}, cfg.Chat.SeedRooms...)
	reaper := services.NewReaper(roomRepo, presenceRepo, hub, cfg.Chat.RoomReapGrace, protectedRooms)
	go reaper.Run()

	// ─── 6. Seed Odalar ───
	// Oda seçici ilk bağlantıda boş görünmesin diye açılışta hazırlanır.
	roomRepo.Ensure(cfg.Chat.DefaultRoom)
	for _, room := range cfg.Chat.SeedRooms {
		roomRepo.Ensure(room)
	}
	log.Printf("[main] initial rooms: %v", roomRepo.RoomNames())

	// ─── 7. Handler Layer ───
	messageHandler := handlers.NewMessageHandler(sessionService)
	roomHandler := handlers.NewRoomHandler(sessionService)
	uploadHandler := handlers.NewUploadHandler(uploadService, cfg.Upload.MaxSize)
	wsHandler := ws.NewHandler(hub, sessionService)

	// ─── 8. HTTP Router ───
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"mingle"}`)
	})

	// Core read path'leri — authentication yok, bilinçli kapsam sınırı
	mux.HandleFunc("GET /api/messages/{room}", messageHandler.List)
	mux.HandleFunc("GET /api/users/{room}", roomHandler.Users)
	mux.HandleFunc("GET /api/rooms", roomHandler.List)

	// Upload — bağımsız dosya yükleme endpoint'i
	mux.HandleFunc("POST /api/upload", uploadHandler.Upload)

	// Static file serving — yüklenen dosyalara erişim
	//
	// http.StripPrefix: URL'den "/api/uploads/" kısmını çıkarır.
	// http.FileServer: Kalan path'i upload dizininde dosya olarak arar.
	//
	// Path traversal koruması:
	// http.FileServer zaten ".." path'lerini reddeder.
	// Ek güvenlik için sadece dosya isimlerini kabul edip subdirectory'leri reddediyoruz.
	uploadsHandler := http.StripPrefix("/api/uploads/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/") || strings.Contains(r.URL.Path, "\\") {
			http.NotFound(w, r)
			return
		}
		http.FileServer(http.Dir(cfg.Upload.Dir)).ServeHTTP(w, r)
	}))
	mux.Handle("GET /api/uploads/", uploadsHandler)

	// WebSocket — chat'in asıl event kanalı
	mux.HandleFunc("GET /ws", wsHandler.HandleConnection)

	// ─── 9. CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	handler := corsHandler.Handler(mux)

	// ─── 10. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 11. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce reaper'ı ve WebSocket bağlantılarını kapat, sonra HTTP
	// server'ı — yeni request kabul etmeyi durdurur, mevcut
	// request'lerin bitmesini bekler (5sn timeout).
	if cfg.Chat.RoomReapGrace > 0 {
		reaper.Stop()
	}
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
