package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/service"
)

// HealthCheck handles GET /health: checks database connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe handles GET /healthz: a plain liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadDocument handles POST /documents: a standalone upload not yet linked
// to any hand-off. The file travels as the multipart field "file".
//
// @Summary      Upload a document
// @Accept       mpfd
// @Produce      json
// @Param        X-Actor-ID  header  string  true  "caller identity"
// @Param        file  formData  file  true  "document content"
// @Success      201  {object}  model.Document
// @Router       /documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorFromCtx(c)
		if actor == "" {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", "X-Actor-ID header is required")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "multipart field 'file' is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot read uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.Upload(c.UserContext(), actor, service.Attachment{
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Reader:      f,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument handles GET /documents/:id.
//
// @Summary      Document metadata
// @Produce      json
// @Param        id  path  string  true  "document id"
// @Success      200  {object}  model.Document
// @Router       /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument handles GET /documents/:id/download: redirects to a
// short-lived presigned object URL instead of proxying the bytes.
//
// @Summary      Download a document
// @Param        id  path  string  true  "document id"
// @Success      302
// @Router       /documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := svc.DownloadURL(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Redirect(u, fiber.StatusFound)
	}
}

// ListSentDocuments handles GET /sents/:id/documents.
//
// @Summary      Documents carried by a hand-off
// @Produce      json
// @Param        id  path  string  true  "sent id"
// @Success      200  {array}  model.Document
// @Router       /sents/{id}/documents [get]
func ListSentDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.ListBySent(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(docs)
	}
}
