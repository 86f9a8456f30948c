package controller

import (
	"idea-board-be/internal/pkg/serverutils"
	"idea-board-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConfidenceController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
}

type confidenceController struct {
	confidenceService service.IConfidenceService
}

func NewConfidenceController(confidenceService service.IConfidenceService) IConfidenceController {
	return &confidenceController{
		confidenceService: confidenceService,
	}
}

func (c *confidenceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/confidence/v1")
	h.Get("ideas/:ideaId", c.Show)
}

func (c *confidenceController) Show(ctx *fiber.Ctx) error {
	ideaId, err := uuid.Parse(ctx.Params("ideaId"))
	if err != nil {
		return serverutils.NewBadRequest("invalid idea id")
	}

	res, err := c.confidenceService.GetConfidence(ctx.Context(), ideaId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get idea confidence", res))
}
