package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/service"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Routing  service.RoutingService
	Chain    service.ChainService
	Status   service.StatusService
	Document service.DocumentService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin; all domain decisions live in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/sents", SendDocument(svcs.Routing))
	app.Post("/sents/:id/reply", ReplyDocument(svcs.Routing))
	app.Post("/sents/:id/forward", ForwardDocument(svcs.Routing))

	app.Get("/sents/:id/chain", GetChain(svcs.Chain))
	app.Get("/sents/:id/thread", GetThread(svcs.Chain))
	app.Get("/sents/:id/history", GetHistory(svcs.Chain))
	app.Patch("/sents/:id/status", UpdateStatus(svcs.Status))

	app.Get("/inbox", ListInbox(svcs.Chain))

	app.Get("/sents/:id/documents", ListSentDocuments(svcs.Document))
	app.Post("/documents", UploadDocument(svcs.Document))
	app.Get("/documents/:id", GetDocument(svcs.Document))
	app.Get("/documents/:id/download", DownloadDocument(svcs.Document))
}
