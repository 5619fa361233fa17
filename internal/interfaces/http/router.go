package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gncci-portal/internal/application/session"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions *session.Registry
	Cookie   CookieConfig
	Receipts ReceiptRenderer
	Reporter ErrorReporter
	Log      zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	notifications := NewNotificationHandler(deps.Log, deps.Reporter)
	api := app.Group("/api")
	api.Post("/log-error", notifications.LogError)

	cookie := deps.Cookie.withDefaults()
	api.Use(EncryptCookies(cookie), Sessions(deps.Sessions, cookie))
	api.Get("/notifications", notifications.Drain)

	// Auth (público)
	authHandler := NewAuthHandler(deps.Sessions, cookie)
	authGroup := api.Group("/auth")
	authGroup.Get("/session", authHandler.Session)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/logout", RequireSession(), authHandler.Logout)
	authGroup.Post("/reset-password", RequireSession(), authHandler.ResetPassword)

	// Rutas protegidas (requieren sesión)
	member := api.Group("", RequireSession())

	companyHandler := NewCompanyHandler()
	applicationHandler := NewApplicationHandler()
	member.Get("/directory", companyHandler.Directory)
	companies := member.Group("/companies")
	companies.Get("/mine", companyHandler.Mine)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.Profile)
	companies.Patch("/:id", companyHandler.Update)
	companies.Delete("/:id", companyHandler.Delete)
	companies.Get("/:id/applications", applicationHandler.ForCompany)

	membershipHandler := NewMembershipHandler(deps.Receipts)
	member.Get("/memberships/:id", membershipHandler.Get)
	member.Post("/memberships/:id/payments", membershipHandler.RecordPayment)
	member.Get("/payments/:id/receipt", membershipHandler.Receipt)

	member.Get("/applications/fee", applicationHandler.Fee)
	member.Post("/applications", applicationHandler.Submit)

	eventHandler := NewEventHandler()
	events := member.Group("/events")
	events.Get("/", eventHandler.List)
	events.Get("/registrations", eventHandler.Registrations)
	events.Post("/registrations/:id/cancel", eventHandler.Cancel)
	events.Get("/:id", eventHandler.Get)
	events.Post("/:id/register", eventHandler.Register)
	events.Post("/", RequireAdmin(), eventHandler.Create)
	events.Patch("/:id", RequireAdmin(), eventHandler.Update)
	events.Delete("/:id", RequireAdmin(), eventHandler.Delete)

	opportunityHandler := NewOpportunityHandler()
	opportunities := member.Group("/opportunities")
	opportunities.Get("/", opportunityHandler.List)
	opportunities.Post("/", opportunityHandler.Create)
	opportunities.Get("/:id", opportunityHandler.Get)
	opportunities.Patch("/:id", opportunityHandler.Update)
	opportunities.Delete("/:id", opportunityHandler.Delete)

	// Administración
	adminHandler := NewAdminHandler()
	admin := api.Group("/admin", RequireAdmin())
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/applications", applicationHandler.List)
	admin.Post("/applications/:id/review", applicationHandler.Review)
	admin.Patch("/memberships/:id", membershipHandler.Update)
	admin.Get("/users", adminHandler.Users)
	admin.Post("/users", adminHandler.CreateUser)
	admin.Patch("/users/:id/role", adminHandler.UpdateRole)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Get("/packages", adminHandler.Packages)
	admin.Post("/packages", adminHandler.CreatePackage)
	admin.Patch("/packages/:id", adminHandler.UpdatePackage)
	admin.Get("/payment-settings", adminHandler.PaymentSettings)
	admin.Put("/payment-settings", adminHandler.SavePaymentSettings)
}
