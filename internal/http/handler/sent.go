package handler

import (
	"context"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/http/middleware"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/service"
)

// routeRequest is the wire form of a send, reply or forward request. Fields
// arrive as multipart form values so they can travel with the file parts, but
// a plain JSON body works for requests without new attachments.
type routeRequest struct {
	RecipientEmail string `json:"recipient_email" form:"recipient_email"`
	Number         string `json:"number" form:"number"`
	Category       string `json:"category" form:"category"`
	Subject        string `json:"subject" form:"subject"`
	Description    string `json:"description" form:"description"`
	Remark         string `json:"remark" form:"remark"`
}

// actorFromCtx resolves the caller identity: locals set by middleware.ActorID
// first, the raw header as fallback so handlers stay testable in isolation.
func actorFromCtx(c *fiber.Ctx) string {
	if v, ok := c.Locals(middleware.ActorIDLocalKey).(string); ok && v != "" {
		return v
	}
	return c.Get(middleware.ActorIDHeader)
}

// parseRouteInput assembles a service.RouteInput from the request. The
// returned closer releases any opened file parts and must be called after the
// service finished reading them.
func parseRouteInput(c *fiber.Ctx) (service.RouteInput, func(), error) {
	noop := func() {}

	var req routeRequest
	if err := c.BodyParser(&req); err != nil && err != fiber.ErrUnprocessableEntity {
		return service.RouteInput{}, noop, err
	}

	in := service.RouteInput{
		ActorID:        actorFromCtx(c),
		RecipientEmail: req.RecipientEmail,
		Number:         req.Number,
		Category:       req.Category,
		Subject:        req.Subject,
		Description:    req.Description,
		Remark:         req.Remark,
	}

	form, err := c.MultipartForm()
	if err != nil {
		// Not a multipart request; no attachments to collect.
		return in, noop, nil
	}

	var opened []multipart.File
	closer := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			closer()
			return service.RouteInput{}, noop, err
		}
		opened = append(opened, f)

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		in.Attachments = append(in.Attachments, service.Attachment{
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Reader:      f,
		})
	}

	return in, closer, nil
}

// SendDocument handles POST /sents: start a new thread.
//
// @Summary      Send a document
// @Accept       mpfd
// @Produce      json
// @Param        X-Actor-ID  header  string  true  "caller identity"
// @Success      201  {object}  service.RoutingResult
// @Router       /sents [post]
func SendDocument(svc service.RoutingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, closeFiles, err := parseRouteInput(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		defer closeFiles()

		if in.ActorID == "" {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", "X-Actor-ID header is required")
		}

		res, err := svc.Send(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// ReplyDocument handles POST /sents/:id/reply.
//
// @Summary      Reply to a hand-off
// @Accept       mpfd
// @Produce      json
// @Param        id  path  string  true  "parent sent id"
// @Success      201  {object}  service.RoutingResult
// @Router       /sents/{id}/reply [post]
func ReplyDocument(svc service.RoutingService) fiber.Handler {
	return respondHandler(svc.Reply)
}

// ForwardDocument handles POST /sents/:id/forward.
//
// @Summary      Forward a hand-off
// @Accept       mpfd
// @Produce      json
// @Param        id  path  string  true  "parent sent id"
// @Success      201  {object}  service.RoutingResult
// @Router       /sents/{id}/forward [post]
func ForwardDocument(svc service.RoutingService) fiber.Handler {
	return respondHandler(svc.Forward)
}

func respondHandler(op func(ctx context.Context, parentSentID string, in service.RouteInput) (*service.RoutingResult, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parentID := c.Params("id")

		in, closeFiles, err := parseRouteInput(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		defer closeFiles()

		if in.ActorID == "" {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", "X-Actor-ID header is required")
		}

		res, err := op(c.UserContext(), parentID, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GetChain handles GET /sents/:id/chain.
//
// @Summary      Reconstruct the chain around a record
// @Produce      json
// @Param        id  path  string  true  "sent id"
// @Success      200  {object}  service.ChainView
// @Router       /sents/{id}/chain [get]
func GetChain(svc service.ChainService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := svc.BuildChain(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(view)
	}
}

// GetThread handles GET /sents/:id/thread.
//
// @Summary      Full thread timeline containing a record
// @Produce      json
// @Param        id  path  string  true  "sent id"
// @Success      200  {object}  service.ThreadView
// @Router       /sents/{id}/thread [get]
func GetThread(svc service.ChainService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := svc.Thread(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(view)
	}
}

// GetHistory handles GET /sents/:id/history.
//
// @Summary      Status audit trail of a record
// @Produce      json
// @Param        id  path  string  true  "sent id"
// @Success      200  {array}  model.SentStatusHistory
// @Router       /sents/{id}/history [get]
func GetHistory(svc service.ChainService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := svc.History(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(rows)
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /sents/:id/status.
//
// @Summary      Apply a status transition
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "sent id"
// @Success      200  {object}  model.Sent
// @Router       /sents/{id}/status [patch]
func UpdateStatus(svc service.StatusService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorFromCtx(c)
		if actor == "" {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", "X-Actor-ID header is required")
		}

		var req statusRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		status, err := model.ParseStatus(req.Status)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "unknown status value")
		}

		rec, err := svc.Transition(c.UserContext(), c.Params("id"), status, actor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(rec)
	}
}

// ListInbox handles GET /inbox: hand-offs addressed to the caller.
//
// @Summary      List records addressed to the caller
// @Produce      json
// @Success      200  {object}  service.InboxResult
// @Router       /inbox [get]
func ListInbox(svc service.ChainService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorFromCtx(c)
		if actor == "" {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", "X-Actor-ID header is required")
		}

		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.Inbox(c.UserContext(), actor, limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}
