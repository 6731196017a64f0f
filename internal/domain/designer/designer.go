package designer

import (
	"time"

	"github.com/google/uuid"
)

// Designer is a designer profile as the match engine sees it. Profiles are
// created at application time and edited by the designer; approval and
// verification flags are set by an administrator.
type Designer struct {
	ID          uuid.UUID
	DisplayName string
	Email       string

	PrimaryCategories   []string
	SecondaryCategories []string
	StyleKeywords       []string
	PreferredIndustries []string

	// PreferredProjectSize is one of the brief package's size buckets.
	PreferredProjectSize string

	// TurnaroundDays maps a category to the designer's typical turnaround.
	TurnaroundDays map[string]int

	CollaborationStyle string

	IsVerified bool
	IsApproved bool

	Rating            float64
	CompletedProjects int
	YearsExperience   int

	CreatedAt time.Time
}

// Eligible reports whether the profile may enter candidate selection at all.
func (d Designer) Eligible() bool {
	return d.IsVerified && d.IsApproved
}

// HasPrimaryCategory reports membership in the primary specialty set.
func (d Designer) HasPrimaryCategory(category string) bool {
	return contains(d.PrimaryCategories, category)
}

// HasSecondaryCategory reports membership in the secondary specialty set.
func (d Designer) HasSecondaryCategory(category string) bool {
	return contains(d.SecondaryCategories, category)
}

// TurnaroundFor returns the typical turnaround for a category, if known.
func (d Designer) TurnaroundFor(category string) (int, bool) {
	if d.TurnaroundDays == nil {
		return 0, false
	}
	days, ok := d.TurnaroundDays[category]
	if !ok || days <= 0 {
		return 0, false
	}
	return days, true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
