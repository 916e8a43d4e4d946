package controller

import (
	"discusschat-be/internal/dto"
	"discusschat-be/internal/pkg/serverutils"
	"discusschat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	SubmitMessage(ctx *fiber.Ctx) error
	RequestStop(ctx *fiber.Ctx) error
	RetryFinalization(ctx *fiber.Ctx) error
	GetProgress(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	GetFinalDocument(ctx *fiber.Ctx) error
}

type conversationController struct {
	conversationService service.IConversationService
}

func NewConversationController(conversationService service.IConversationService) IConversationController {
	return &conversationController{
		conversationService: conversationService,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversation/v1/:sessionId")
	h.Post("message", c.SubmitMessage)
	h.Post("stop", c.RequestStop)
	h.Post("participants/:key/retry-finalization", c.RetryFinalization)
	h.Get("participants/:key/progress", c.GetProgress)
	h.Get("participants/:key/history", c.GetHistory)
	h.Get("participants/:key/final-document", c.GetFinalDocument)
}

func (c *conversationController) SubmitMessage(ctx *fiber.Ctx) error {
	sessionIdParam := ctx.Params("sessionId")
	sessionId, _ := uuid.Parse(sessionIdParam)

	var req dto.SubmitMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = sessionId

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.conversationService.SubmitMessage(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Message processed", res))
}

func (c *conversationController) RequestStop(ctx *fiber.Ctx) error {
	sessionIdParam := ctx.Params("sessionId")
	sessionId, _ := uuid.Parse(sessionIdParam)

	var req dto.RequestStopRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = sessionId

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.conversationService.RequestStop(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Stop handled", res))
}

func (c *conversationController) RetryFinalization(ctx *fiber.Ctx) error {
	sessionIdParam := ctx.Params("sessionId")
	sessionId, _ := uuid.Parse(sessionIdParam)
	key := ctx.Params("key")

	res, err := c.conversationService.RetryFinalization(ctx.Context(), sessionId, key)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Finalization retried", res))
}

func (c *conversationController) GetProgress(ctx *fiber.Ctx) error {
	sessionIdParam := ctx.Params("sessionId")
	sessionId, _ := uuid.Parse(sessionIdParam)
	key := ctx.Params("key")

	res, err := c.conversationService.GetProgress(ctx.Context(), sessionId, key)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Participant progress", res))
}

func (c *conversationController) GetHistory(ctx *fiber.Ctx) error {
	sessionIdParam := ctx.Params("sessionId")
	sessionId, _ := uuid.Parse(sessionIdParam)
	key := ctx.Params("key")

	res, err := c.conversationService.GetHistory(ctx.Context(), sessionId, key)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Participant history", res))
}

func (c *conversationController) GetFinalDocument(ctx *fiber.Ctx) error {
	sessionIdParam := ctx.Params("sessionId")
	sessionId, _ := uuid.Parse(sessionIdParam)
	key := ctx.Params("key")

	res, err := c.conversationService.GetFinalDocument(ctx.Context(), sessionId, key)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Participant final document", res))
}
