package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/pixboard/service/internal/config"
	"github.com/pixboard/service/internal/image"
	"github.com/pixboard/service/internal/metrics"
	appMiddleware "github.com/pixboard/service/internal/middleware"
	"github.com/pixboard/service/internal/notify"
	"github.com/pixboard/service/internal/qr"

	_ "github.com/pixboard/service/docs/swagger"
)

func newRouter(cfg *config.Config, m *metrics.Metrics, imageSvc *image.Service, imageHandler *image.Handler, manager *notify.Manager) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	// Swagger UI, available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.With(appMiddleware.SingleFile(cfg.Upload.FieldName, cfg.Upload.MaxBytes, imageSvc)).
		Post("/upload", imageHandler.Upload)
	r.Get("/images", imageHandler.List)
	r.Get("/image/{filename}", imageHandler.Show)
	r.Get("/api/qr", qr.Handler)
	r.Get("/ws", manager.ServeWS)

	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}
