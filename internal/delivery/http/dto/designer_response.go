package dto

import (
	"github.com/google/uuid"

	"designmatch/internal/domain/designer"
)

// DesignerResponse is the public profile card. Contact details are withheld
// until the client unlocks a match.
type DesignerResponse struct {
	ID                  uuid.UUID `json:"id"`
	DisplayName         string    `json:"display_name"`
	PrimaryCategories   []string  `json:"primary_categories"`
	SecondaryCategories []string  `json:"secondary_categories,omitempty"`
	StyleKeywords       []string  `json:"style_keywords,omitempty"`
	PreferredIndustries []string  `json:"preferred_industries,omitempty"`
	Rating              float64   `json:"rating"`
	CompletedProjects   int       `json:"completed_projects"`
	YearsExperience     int       `json:"years_experience"`
	IsVerified          bool      `json:"is_verified"`
}

func FromDesigner(d designer.Designer) DesignerResponse {
	return DesignerResponse{
		ID:                  d.ID,
		DisplayName:         d.DisplayName,
		PrimaryCategories:   d.PrimaryCategories,
		SecondaryCategories: d.SecondaryCategories,
		StyleKeywords:       d.StyleKeywords,
		PreferredIndustries: d.PreferredIndustries,
		Rating:              d.Rating,
		CompletedProjects:   d.CompletedProjects,
		YearsExperience:     d.YearsExperience,
		IsVerified:          d.IsVerified,
	}
}

// DesignerContactResponse extends the public card with contact details. Only
// returned from an unlocked match.
type DesignerContactResponse struct {
	DesignerResponse
	Email string `json:"email"`
}

func FromDesignerWithContact(d designer.Designer) DesignerContactResponse {
	return DesignerContactResponse{
		DesignerResponse: FromDesigner(d),
		Email:            d.Email,
	}
}
