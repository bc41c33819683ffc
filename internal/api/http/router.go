package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/charting-service/internal/api/http/handlers"
	"github.com/spec-kit/charting-service/internal/auth"
	"github.com/spec-kit/charting-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Patients *handlers.PatientsHandler
	Clinical *handlers.ClinicalHandler
	Vitals   *handlers.VitalsHandler
	Charting *handlers.ChartingHandler

	Gate     *auth.Gate
	Accounts auth.AccountLookup
	Metrics  fiber.Handler

	// RequirePatientAuth wraps /patients in RequireIdentity.
	RequirePatientAuth bool
}

// RegisterRoutes wires HTTP routes. The gate runs on every request and only
// classifies; enforcement is attached per group.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	app.Use(cfg.Gate.Handle, actorContext)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/validate", cfg.Auth.Validate)
	authGroup.Get("/me", cfg.Auth.Me)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Patch("/accounts/:email/active", auth.RequireRole(cfg.Accounts, domain.RoleAdmin), cfg.Auth.SetActive)

	patients := app.Group("/patients")
	if cfg.RequirePatientAuth {
		patients.Use(auth.RequireIdentity())
	}

	patients.Get("/", cfg.Patients.List)
	patients.Get("/count", cfg.Patients.Count)
	patients.Get("/search", cfg.Patients.Search)
	patients.Get("/room/:room", cfg.Patients.ByRoom)
	patients.Get("/physician/:physician", cfg.Patients.ByPhysician)
	patients.Get("/allergies", cfg.Patients.WithAllergies)
	patients.Get("/allergen/:allergen", cfg.Patients.ByAllergen)
	patients.Get("/admitted", cfg.Patients.AdmittedBetween)
	patients.Get("/mrn/:mrn", cfg.Patients.GetByMRN)
	patients.Post("/", cfg.Patients.Create)
	patients.Get("/:id", cfg.Patients.Get)
	patients.Put("/:id", cfg.Patients.Update)
	patients.Delete("/:id", cfg.Patients.Discharge)

	patients.Get("/:id/allergies", cfg.Clinical.ListAllergies)
	patients.Post("/:id/allergies", cfg.Clinical.AddAllergy)
	patients.Delete("/:id/allergies/:allergyId", cfg.Clinical.DeleteAllergy)
	patients.Get("/:id/diagnoses", cfg.Clinical.ListDiagnoses)
	patients.Post("/:id/diagnoses", cfg.Clinical.AddDiagnosis)
	patients.Post("/:id/diagnoses/:diagnosisId/resolve", cfg.Clinical.ResolveDiagnosis)
	patients.Get("/:id/medications", cfg.Clinical.ListMedications)
	patients.Post("/:id/medications", cfg.Clinical.AddMedication)
	patients.Post("/:id/medications/:medicationId/discontinue", cfg.Clinical.DiscontinueMedication)

	patients.Get("/:id/charting", cfg.Charting.List)
	patients.Post("/:id/charting", cfg.Charting.Save)
	patients.Delete("/:id/charting/:chartingId", cfg.Charting.Delete)

	patients.Get("/:id/vitals", cfg.Vitals.History)
	patients.Get("/:id/vitals/latest", cfg.Vitals.Latest)
	patients.Get("/:id/vitals/count", cfg.Vitals.Count)
	patients.Get("/:id/vitals/since", cfg.Vitals.Since)
	patients.Post("/:id/vitals", cfg.Vitals.Record)
}
