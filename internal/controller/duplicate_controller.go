package controller

import (
	"idea-board-be/internal/dto"
	"idea-board-be/internal/pkg/serverutils"
	"idea-board-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDuplicateController interface {
	RegisterRoutes(r fiber.Router)
	GetClusters(ctx *fiber.Ctx) error
	Merge(ctx *fiber.Ctx) error
	Dismiss(ctx *fiber.Ctx) error
	MergeCluster(ctx *fiber.Ctx) error
}

type duplicateController struct {
	mergeService     service.IMergeService
	detectionService service.IDetectionService
}

func NewDuplicateController(
	mergeService service.IMergeService,
	detectionService service.IDetectionService,
) IDuplicateController {
	return &duplicateController{
		mergeService:     mergeService,
		detectionService: detectionService,
	}
}

func (c *duplicateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/duplicates/v1")
	h.Get("workspaces/:workspaceId/clusters", c.GetClusters)
	h.Post("workspaces/:workspaceId/merge-cluster", c.MergeCluster)
	h.Post(":suggestionId/merge", c.Merge)
	h.Post(":suggestionId/dismiss", c.Dismiss)
}

func (c *duplicateController) GetClusters(ctx *fiber.Ctx) error {
	workspaceId, err := uuid.Parse(ctx.Params("workspaceId"))
	if err != nil {
		return serverutils.NewBadRequest("invalid workspace id")
	}

	res, err := c.detectionService.GetClusters(ctx.Context(), workspaceId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get duplicate clusters", res))
}

func (c *duplicateController) Merge(ctx *fiber.Ctx) error {
	suggestionId, err := uuid.Parse(ctx.Params("suggestionId"))
	if err != nil {
		return serverutils.NewBadRequest("invalid suggestion id")
	}

	var req dto.MergeSuggestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	outcome, err := c.mergeService.MergeSuggestion(ctx.Context(), suggestionId, req.KeepIdeaId)
	if err != nil {
		return err
	}

	return resolveOutcome(ctx, outcome, "Success merge suggestion")
}

func (c *duplicateController) Dismiss(ctx *fiber.Ctx) error {
	suggestionId, err := uuid.Parse(ctx.Params("suggestionId"))
	if err != nil {
		return serverutils.NewBadRequest("invalid suggestion id")
	}

	outcome, err := c.mergeService.DismissSuggestion(ctx.Context(), suggestionId)
	if err != nil {
		return err
	}

	return resolveOutcome(ctx, outcome, "Success dismiss suggestion")
}

func (c *duplicateController) MergeCluster(ctx *fiber.Ctx) error {
	workspaceId, err := uuid.Parse(ctx.Params("workspaceId"))
	if err != nil {
		return serverutils.NewBadRequest("invalid workspace id")
	}

	var req dto.MergeClusterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.mergeService.MergeCluster(ctx.Context(), workspaceId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success merge cluster", res))
}

// resolveOutcome maps a merge outcome onto the HTTP surface. Replays are
// success, never conflict.
func resolveOutcome(ctx *fiber.Ctx, outcome service.MergeOutcome, message string) error {
	switch outcome {
	case service.OutcomeMerged, service.OutcomeDismissed:
		return ctx.JSON(serverutils.SuccessResponse(message, dto.MergeActionResponse{Ok: true}))
	case service.OutcomeAlreadyProcessed:
		return ctx.JSON(serverutils.SuccessResponse(message, dto.MergeActionResponse{Ok: true, AlreadyProcessed: true}))
	case service.OutcomeNotFound:
		return serverutils.NewNotFound("suggestion not found")
	default:
		return serverutils.NewBadRequest("idea is not part of the suggestion pair")
	}
}
