package controller

import (
	"crypto/subtle"
	"encoding/json"

	"idea-board-be/internal/dto"
	"idea-board-be/internal/pkg/serverutils"
	"idea-board-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IJobController interface {
	RegisterRoutes(r fiber.Router)
	RunDuplicateDetection(ctx *fiber.Ctx) error
	BackfillEmbeddings(ctx *fiber.Ctx) error
	EnqueueEmbed(ctx *fiber.Ctx) error
}

// jobController exposes scheduler entrypoints. Every route requires the
// shared cron secret; these are not end-user endpoints.
type jobController struct {
	batchService     service.IBatchService
	embeddingService service.IEmbeddingService
	publisherService service.IPublisherService
	cronSecret       string
}

func NewJobController(
	batchService service.IBatchService,
	embeddingService service.IEmbeddingService,
	publisherService service.IPublisherService,
	cronSecret string,
) IJobController {
	return &jobController{
		batchService:     batchService,
		embeddingService: embeddingService,
		publisherService: publisherService,
		cronSecret:       cronSecret,
	}
}

func (c *jobController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/jobs/v1")
	h.Use(c.requireCronSecret)
	h.Post("duplicate-detection", c.RunDuplicateDetection)
	h.Post("embedding-backfill", c.BackfillEmbeddings)
	h.Post("ideas/:ideaId/embed", c.EnqueueEmbed)
}

func (c *jobController) requireCronSecret(ctx *fiber.Ctx) error {
	given := ctx.Get("X-Cron-Secret")
	if c.cronSecret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(c.cronSecret)) != 1 {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid cron secret")
	}
	return ctx.Next()
}

func (c *jobController) RunDuplicateDetection(ctx *fiber.Ctx) error {
	stats, err := c.batchService.RunDuplicateDetection(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Duplicate detection run completed", stats))
}

func (c *jobController) BackfillEmbeddings(ctx *fiber.Ctx) error {
	stats, err := c.embeddingService.BackfillMissing(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Embedding backfill completed", stats))
}

// EnqueueEmbed schedules an asynchronous re-embed of one idea. Idea CRUD
// calls this after title or problem text changes.
func (c *jobController) EnqueueEmbed(ctx *fiber.Ctx) error {
	ideaId, err := uuid.Parse(ctx.Params("ideaId"))
	if err != nil {
		return serverutils.NewBadRequest("invalid idea id")
	}

	payload, err := json.Marshal(dto.PublishEmbedIdeaMessage{IdeaId: ideaId})
	if err != nil {
		return err
	}
	if err := c.publisherService.Publish(ctx.Context(), payload); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Embedding scheduled", dto.PublishEmbedIdeaMessage{IdeaId: ideaId}))
}
