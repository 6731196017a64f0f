package seeder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"designmatch/internal/domain/designer"
	"designmatch/internal/repository"
)

// Seed populates a development database with a small approved designer pool
// so the match endpoints have something to rank. It is a no-op when designers
// already exist.
func Seed(ctx context.Context, designers repository.DesignerRepository, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	n, err := designers.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC()
	for i, d := range demoDesigners {
		d.ID = uuid.New()
		d.CreatedAt = now.Add(time.Duration(i) * time.Second)
		if err := designers.Insert(ctx, d); err != nil {
			return err
		}
	}

	logger.Info("seeded demo designers", zap.Int("count", len(demoDesigners)))
	return nil
}

var demoDesigners = []designer.Designer{
	{
		DisplayName:          "Mara Lindqvist",
		Email:                "mara@example.com",
		PrimaryCategories:    []string{"branding-logo"},
		SecondaryCategories:  []string{"packaging"},
		StyleKeywords:        []string{"modern", "clean", "minimal"},
		PreferredIndustries:  []string{"tech", "finance"},
		PreferredProjectSize: "medium",
		TurnaroundDays:       map[string]int{"branding-logo": 14, "packaging": 21},
		CollaborationStyle:   "collaborative",
		IsVerified:           true,
		IsApproved:           true,
		Rating:               4.8,
		CompletedProjects:    42,
		YearsExperience:      7,
	},
	{
		DisplayName:          "Jonas Petit",
		Email:                "jonas@example.com",
		PrimaryCategories:    []string{"web-design", "branding-logo"},
		SecondaryCategories:  nil,
		StyleKeywords:        []string{"bold", "playful", "modern"},
		PreferredIndustries:  []string{"ecommerce", "food-beverage"},
		PreferredProjectSize: "small",
		TurnaroundDays:       map[string]int{"web-design": 28, "branding-logo": 10},
		CollaborationStyle:   "independent",
		IsVerified:           true,
		IsApproved:           true,
		Rating:               4.5,
		CompletedProjects:    31,
		YearsExperience:      5,
	},
	{
		DisplayName:          "Aiko Tanabe",
		Email:                "aiko@example.com",
		PrimaryCategories:    []string{"illustration"},
		SecondaryCategories:  []string{"branding-logo", "packaging"},
		StyleKeywords:        []string{"hand-drawn", "minimal", "vintage"},
		PreferredIndustries:  []string{"publishing", "food-beverage"},
		PreferredProjectSize: "large",
		TurnaroundDays:       map[string]int{"illustration": 35},
		CollaborationStyle:   "collaborative",
		IsVerified:           true,
		IsApproved:           true,
		Rating:               4.9,
		CompletedProjects:    57,
		YearsExperience:      9,
	},
	{
		DisplayName:          "Theo Brandt",
		Email:                "theo@example.com",
		PrimaryCategories:    []string{"web-design"},
		SecondaryCategories:  []string{"ui-ux"},
		StyleKeywords:        []string{"minimal", "clean"},
		PreferredIndustries:  []string{"tech", "healthcare"},
		PreferredProjectSize: "medium",
		TurnaroundDays:       map[string]int{"web-design": 45, "ui-ux": 30},
		CollaborationStyle:   "independent",
		IsVerified:           true,
		IsApproved:           false,
		Rating:               4.2,
		CompletedProjects:    12,
		YearsExperience:      3,
	},
}
