package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/paygrid-hr/payroll-backend-go/internal/config"
	"github.com/paygrid-hr/payroll-backend-go/internal/handler/http/middleware"
)

func NewRouter(cfg config.AppConfig, jwtAuth *jwtauth.JWTAuth, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "paygrid-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtAuth))
			r.Use(middleware.AuthRequired(jwtAuth))

			r.Route("/employees/{id}/payroll", func(r chi.Router) {
				r.Post("/process", payrollHandler.ProcessEmployee)
			})

			r.Route("/branches/{id}/payroll", func(r chi.Router) {
				r.Post("/run", payrollHandler.RunBranch)
				r.Get("/records", payrollHandler.ListBranchRecords)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/records/{id}", payrollHandler.GetRecord)
				r.Get("/runs/{id}", payrollHandler.GetRun)
			})

			r.Post("/statutory-config/invalidate", payrollHandler.InvalidateStatutoryConfig)
		})
	})
	return r
}
