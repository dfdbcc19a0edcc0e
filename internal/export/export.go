// Package export writes point-in-time snapshots of the recipe collection to S3.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/pagination"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// ObjectPutter is the part of *s3.Client the exporter needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Snapshot is the exported document
type Snapshot struct {
	GeneratedAt time.Time              `json:"generatedAt"`
	Count       int                    `json:"count"`
	Corrupt     int                    `json:"corrupt"`
	Recipes     []types.RecipeResponse `json:"recipes"`
}

type Exporter struct {
	recipes service.IRecipeService
	client  ObjectPutter
	bucket  string
	prefix  string
	log     *zap.Logger
	now     func() time.Time
}

func NewExporter(recipes service.IRecipeService, client ObjectPutter, bucket, prefix string, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{
		recipes: recipes,
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		log:     log,
		now:     time.Now,
	}
}

// Build collects every recipe, newest first, one listing page at a time.
// Records with unreadable ingredient data are included and flagged.
func (e *Exporter) Build(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		GeneratedAt: e.now().UTC().Truncate(time.Second),
		Recipes:     []types.RecipeResponse{},
	}

	req := pagination.Request{Page: 0, Size: pagination.MaxPageSize}
	for {
		page, err := e.recipes.ListRecipes(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to list recipes page %d: %w", req.Page, err)
		}
		for _, r := range page.Content {
			if r.IngredientsCorrupt {
				snap.Corrupt++
			}
		}
		snap.Recipes = append(snap.Recipes, page.Content...)

		req.Page++
		if req.Page >= page.TotalPages {
			break
		}
	}

	snap.Count = len(snap.Recipes)
	return snap, nil
}

// Key names the object a snapshot taken at t is stored under
func Key(prefix string, t time.Time) string {
	return path.Join(prefix, "recipes-"+t.UTC().Format("20060102T150405Z")+".json")
}

// Export builds a snapshot and uploads it, returning the object key.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	snap, err := e.Build(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := Key(e.prefix, snap.GeneratedAt)
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot to s3://%s/%s: %w", e.bucket, key, err)
	}

	e.log.Info("Exported recipe snapshot",
		zap.String("bucket", e.bucket),
		zap.String("key", key),
		zap.Int("recipes", snap.Count),
		zap.Int("corrupt", snap.Corrupt),
	)
	return key, nil
}
