package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"idea-board-be/internal/entity"
	"idea-board-be/internal/repository/unitofwork"
	"idea-board-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds a demo workspace with ideas and votes so duplicate detection has
// something to chew on locally. Run the migrate command first.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	workspace := &entity.Workspace{
		Id:   uuid.New(),
		Name: "Demo Workspace",
		Slug: "demo-" + uuid.New().String()[:8],
	}
	if err := uow.WorkspaceRepository().Create(ctx, workspace); err != nil {
		log.Fatalf("Error: Failed to create workspace: %v", err)
	}

	seeds := []struct {
		title     string
		problem   string
		frequency string
		impact    string
		votes     int
	}{
		{"Dark mode", "The dashboard is blinding during late-night reviews.", "daily", "major", 6},
		{"Night theme for the app", "Bright backgrounds strain my eyes after sunset.", "daily", "", 3},
		{"Export board to CSV", "We report weekly and re-type everything by hand.", "weekly", "major", 4},
		{"Download ideas as spreadsheet", "Need the idea list in Excel for stakeholders.", "weekly", "", 2},
		{"Slack integration", "New ideas should ping our triage channel.", "", "blocker", 5},
		{"Keyboard shortcuts", "Mouse-only navigation slows down heavy users.", "daily", "", 1},
	}

	for _, s := range seeds {
		idea := &entity.Idea{
			Id:           uuid.New(),
			WorkspaceId:  workspace.Id,
			Title:        s.title,
			ProblemText:  s.problem,
			Status:       entity.IdeaStatusUnderReview,
			FrequencyTag: s.frequency,
			ImpactTag:    s.impact,
			VoteCount:    s.votes,
		}
		if err := uow.IdeaRepository().Create(ctx, idea); err != nil {
			log.Fatalf("Error: Failed to create idea %q: %v", s.title, err)
		}

		for v := 0; v < s.votes; v++ {
			contributor := &entity.Contributor{
				Id:       uuid.New(),
				Email:    fmt.Sprintf("voter-%s@example.com", uuid.New().String()[:8]),
				FullName: "Demo Voter",
			}
			if err := uow.ContributorRepository().Create(ctx, contributor); err != nil {
				log.Fatalf("Error: Failed to create contributor: %v", err)
			}
			vote := &entity.Vote{
				Id:            uuid.New(),
				IdeaId:        idea.Id,
				ContributorId: contributor.Id,
			}
			if err := uow.VoteRepository().Create(ctx, vote); err != nil {
				log.Fatalf("Error: Failed to create vote: %v", err)
			}
		}
	}

	log.Printf("Seeded workspace %s with %d ideas", workspace.Id, len(seeds))
	log.Println("Next: POST /api/jobs/v1/embedding-backfill, then /api/jobs/v1/duplicate-detection")
}
