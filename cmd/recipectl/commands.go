package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/app"
	"github.com/pageza/recipebox/backend/internal/export"
	"github.com/pageza/recipebox/backend/internal/logger"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/store"
	"github.com/pageza/recipebox/backend/internal/types"
)

// session is what every subcommand starts from
type session struct {
	cfg *config.Config
	log *zap.Logger
	rt  *app.Runtime
}

func open(cmd *cli.Command) (*session, error) {
	if path := cmd.String("config"); path != "" {
		if err := os.Setenv("CONFIG_FILE", path); err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.NewLogger(string(cfg.Environment), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	rt, err := app.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: log, rt: rt}, nil
}

func (s *session) close() {
	if err := s.rt.Close(); err != nil {
		s.log.Warn("Failed to close connections", zap.Error(err))
	}
	_ = s.log.Sync()
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Bring the database schema up to date",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// opening the runtime applies pending migrations
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			s.log.Info("Database schema is up to date", zap.String("driver", s.cfg.DBDriver))
			return nil
		},
	}
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Insert the sample recipes unless recipes with the same names exist",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			created, err := seed(ctx, s.rt.Store, service.NewRecipeService(s.rt.Store, s.log))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "seeded %d recipes\n", created)
			return nil
		},
	}
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Upload a JSON snapshot of every recipe to the configured S3 bucket",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "presign",
				Usage: "also print a download URL valid for this long",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			s3cfg, err := config.NewS3Config(ctx, s.cfg)
			if err != nil {
				return err
			}
			exporter := export.NewExporter(
				service.NewRecipeService(s.rt.Store, s.log),
				s3cfg.Client, s3cfg.BucketName, s3cfg.Prefix, s.log,
			)
			key, err := exporter.Export(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "s3://%s/%s\n", s3cfg.BucketName, key)

			if ttl := cmd.Duration("presign"); ttl > 0 {
				url, err := s3cfg.GeneratePresignedURL(ctx, key, ttl)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.Root().Writer, url)
			}
			return nil
		},
	}
}

func sampleRecipes() []types.CreateRecipeRequest {
	return []types.CreateRecipeRequest{
		{
			Name:             "Boil egg",
			NumberOfServings: 1,
			Classification:   "NON_VEGETARIAN",
			Ingredients:      []types.IngredientRequest{{Name: "egg", Quantity: 1, UnitOfMeasure: "UNIT"}},
			Instructions:     "Add water and egg to pot and bring to boil",
		},
		{
			Name:             "Green smoothie",
			NumberOfServings: 1,
			Classification:   "VEGETARIAN",
			Ingredients: []types.IngredientRequest{
				{Name: "lettuce", Quantity: 150, UnitOfMeasure: "GRAM"},
				{Name: "water", Quantity: 500, UnitOfMeasure: "MILLILITRE"},
			},
			Instructions: "Add lettuce and water to blender and crush",
		},
	}
}

// seed creates the sample recipes whose names are not taken yet
func seed(ctx context.Context, st store.RecipeStore, svc service.IRecipeService) (int, error) {
	existing, err := st.Scan(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read recipes: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, r := range existing {
		taken[r.Name] = true
	}

	created := 0
	for _, req := range sampleRecipes() {
		if taken[req.Name] {
			continue
		}
		if _, err := svc.CreateRecipe(ctx, &req); err != nil {
			return created, fmt.Errorf("failed to seed %q: %w", req.Name, err)
		}
		created++
		// keep creation timestamps distinct so listings have a stable newest-first order
		time.Sleep(time.Millisecond)
	}
	return created, nil
}
