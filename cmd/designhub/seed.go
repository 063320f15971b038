package main

import (
	"context"
	"fmt"

	"github.com/dayronponce94/designer-platform-sub000/internal/db"
	"github.com/dayronponce94/designer-platform-sub000/internal/seed"
	"github.com/dayronponce94/designer-platform-sub000/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo engagements",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		engagementRepo := store.NewEngagementRepository(pool)

		logrus.Info("Seeding engagements...")
		if err := seed.SeedEngagements(ctx, engagementRepo); err != nil {
			return fmt.Errorf("failed to seed engagements: %w", err)
		}

		logrus.Info("Engagements seeded successfully")

		return nil
	},
}
