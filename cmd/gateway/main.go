package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/gradeworks/rubric-engine/internal/api/http"
	"github.com/gradeworks/rubric-engine/internal/audit"
	auth "github.com/gradeworks/rubric-engine/internal/auth/middleware"
	"github.com/gradeworks/rubric-engine/internal/config"
	"github.com/gradeworks/rubric-engine/internal/db"
	"github.com/gradeworks/rubric-engine/internal/exam"
	"github.com/gradeworks/rubric-engine/internal/rbac"
	"github.com/gradeworks/rubric-engine/internal/rubric"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	store := exam.NewSQLStore(dbh)
	gatewayStore := rubric.NewSQLGateway(dbh)
	engine := rubric.NewEngine(gatewayStore)
	events := audit.NewEventRepo(dbh, cfg.SiteID)

	authSvc := auth.NewAuthService(cfg.AuthSecret, dbh, cfg.AdminUser, cfg.AdminPassHash)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	// Protected API (JWT -> role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("exam:create")).
			Post("/exams", api.CreateExamHandler(store))
		pr.With(rbac.Require("exam:view")).
			Get("/exams", api.ListExamsHandler(store))
		pr.With(rbac.Require("exam:view")).
			Get("/exams/{examUUID}", api.GetExamHandler(store))

		pr.With(rbac.Require("question:create")).
			Post("/exams/{examUUID}/questions", api.CreateQuestionHandler(store))
		pr.With(rbac.Require("exam:view")).
			Get("/exams/{examUUID}/questions", api.ListQuestionsHandler(store))

		pr.With(rbac.Require("criteria:manage")).
			Post("/criteria", api.CreateCriterionHandler(store))
		pr.With(rbac.Require("rubric:view")).
			Get("/criteria", api.ListCriteriaHandler(store))

		pr.With(rbac.Require("criteria:manage")).
			Put("/exams/{examUUID}/criteria", api.PutExamCriteriaHandler(store))
		pr.With(rbac.Require("rubric:view")).
			Get("/exams/{examUUID}/criteria", api.ListExamCriteriaHandler(store))

		pr.With(rbac.Require("rubric:view")).
			Get("/questions/{questionUUID}/rubric", api.GetQuestionRubricHandler(store, engine))
		pr.With(rbac.RequireAll("rubric:edit", "answer:edit")).
			Put("/questions/{questionUUID}/rubric", api.SaveQuestionRubricHandler(store, engine, events))
		pr.With(rbac.Require("rubric:view")).
			Get("/questions/{questionUUID}/answers", api.ListAnswersHandler(gatewayStore))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
