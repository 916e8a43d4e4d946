package controller

import (
	"discusschat-be/internal/pkg/serverutils"
	"discusschat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISynthesisController interface {
	RegisterRoutes(r fiber.Router)
	GenerateReport(ctx *fiber.Ctx) error
	GetReport(ctx *fiber.Ctx) error
}

type synthesisController struct {
	synthesisService service.ISynthesisService
}

func NewSynthesisController(synthesisService service.ISynthesisService) ISynthesisController {
	return &synthesisController{
		synthesisService: synthesisService,
	}
}

func (c *synthesisController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/synthesis/v1/:sessionId")
	h.Post("report", c.GenerateReport)
	h.Get("report", c.GetReport)
}

func (c *synthesisController) GenerateReport(ctx *fiber.Ctx) error {
	sessionIdParam := ctx.Params("sessionId")
	sessionId, _ := uuid.Parse(sessionIdParam)

	res, err := c.synthesisService.GenerateReport(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Report generated", res))
}

func (c *synthesisController) GetReport(ctx *fiber.Ctx) error {
	sessionIdParam := ctx.Params("sessionId")
	sessionId, _ := uuid.Parse(sessionIdParam)

	res, err := c.synthesisService.GetReport(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session report", res))
}
