package content

import (
	"strings"

	"github.com/laala-app/creator-dashboard/internal"
)

type CreateContentDTO struct {
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	MediaURL  *string `json:"media_url,omitempty"`
	Published bool    `json:"published"`
}

type UpdateContentDTO struct {
	Title     *string `json:"title,omitempty"`
	Body      *string `json:"body,omitempty"`
	MediaURL  *string `json:"media_url,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

func (d CreateContentDTO) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Title) > 200 {
		return internal.NewValidationFieldError("title", "title must be at most 200 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (d UpdateContentDTO) Validate() error {
	if d.Title != nil {
		if strings.TrimSpace(*d.Title) == "" {
			return internal.NewValidationFieldError("title", "title cannot be empty", internal.ErrCodeValidationFailed)
		}
		if len(*d.Title) > 200 {
			return internal.NewValidationFieldError("title", "title must be at most 200 characters", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}
