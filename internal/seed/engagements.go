package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/dayronponce94/designer-platform-sub000/internal/store"
	"github.com/dayronponce94/designer-platform-sub000/internal/utils"
	"github.com/dayronponce94/designer-platform-sub000/pkg/types"

	"github.com/k0kubun/pp/v3"
)

// Demo actor ids. These match the users provisioned in the dev Cognito pool.
const (
	demoRequesterID = "demo-requester-01"
	demoFulfillerID = "demo-fulfiller-01"
)

// SeedEngagements inserts a handful of demo records covering the interesting
// lifecycle stages. Dev-only; run once against an empty database.
func SeedEngagements(ctx context.Context, repo *store.EngagementRepository) error {
	fulfiller := demoFulfillerID

	engagements := []*types.Engagement{
		{
			Title:           "Logo refresh for coffee roastery",
			Description:     "Rework our wordmark and build a small brand sheet. We have an existing palette we mostly like.",
			RequesterID:     demoRequesterID,
			ServiceCategory: types.CategoryBranding,
			Status:          types.EngagementStatusRequested,
			BudgetCents:     utils.Int64Ptr(50000),
			ReferenceNotes:  utils.StringPtr("Current logo attached; keep the bean motif."),
		},
		{
			Title:           "Marketing site redesign",
			Description:     "Five-page marketing site, responsive, dark mode. Copy is final, design from scratch.",
			RequesterID:     demoRequesterID,
			ServiceCategory: types.CategoryWeb,
			Status:          types.EngagementStatusInProgress,
			FulfillerID:     &fulfiller,
			BudgetCents:     utils.Int64Ptr(250000),
			Deadline:        utils.TimePtr(time.Now().UTC().AddDate(0, 1, 0)),
		},
		{
			Title:           "Product explainer animation",
			Description:     "60 second motion piece for the landing page hero. Script and voiceover provided.",
			RequesterID:     demoRequesterID,
			ServiceCategory: types.CategoryMotion,
			Status:          types.EngagementStatusQuoted,
			BudgetCents:     utils.Int64Ptr(120000),
		},
	}

	for _, e := range engagements {
		if err := repo.CreateEngagement(ctx, e); err != nil {
			return fmt.Errorf("failed to seed engagement %q: %w", e.Title, err)
		}
		pp.Println(e.ID, e.Title, string(e.Status))
	}

	fmt.Printf("\nSeeded %d engagements\n", len(engagements))
	return nil
}
