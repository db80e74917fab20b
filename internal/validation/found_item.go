// Package validation holds pure request validators. Each validator returns a
// list of human-readable messages; an empty list means the input passed.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/campus-hub/lostfound-service/internal/domain"
)

var imageURLPattern = regexp.MustCompile(`^https?://.+`)

const (
	titleMin       = 3
	titleMax       = 200
	descriptionMin = 10
	descriptionMax = 2000
	locationMin    = 3
	locationMax    = 200
	notesMax       = 500
	maxImageURLs   = 5
)

// FoundItemInput is the raw create/update payload before validation.
type FoundItemInput struct {
	Title             *string
	Category          *string
	Description       *string
	Location          *string
	FoundAt           *string
	SubmissionType    *string
	ImageURLs         *[]string
	VerificationNotes *string
}

// ValidateFoundItemCreate checks a creation payload; every descriptive field
// is required.
func ValidateFoundItemCreate(input FoundItemInput) []string {
	errors := []string{}

	if input.Title == nil {
		errors = append(errors, "Title is required and must be a string")
	}
	if input.Category == nil {
		errors = append(errors, "Category is required")
	}
	if input.Description == nil {
		errors = append(errors, "Description is required and must be a string")
	}
	if input.Location == nil {
		errors = append(errors, "Location is required and must be a string")
	}
	if input.FoundAt == nil {
		errors = append(errors, "Found date is required")
	}
	if input.SubmissionType == nil {
		errors = append(errors, "Submission type is required")
	}

	return append(errors, validateFoundItemFields(input)...)
}

// ValidateFoundItemUpdate checks an update payload; fields are optional but
// validated when present.
func ValidateFoundItemUpdate(input FoundItemInput) []string {
	return validateFoundItemFields(input)
}

func validateFoundItemFields(input FoundItemInput) []string {
	errors := []string{}

	if input.Title != nil {
		if length := len(*input.Title); length < titleMin || length > titleMax {
			errors = append(errors, fmt.Sprintf("Title must be between %d and %d characters", titleMin, titleMax))
		}
	}
	if input.Category != nil && !domain.ValidCategory(domain.ItemCategory(*input.Category)) {
		errors = append(errors, fmt.Sprintf("Category must be one of: %s", joinCategories()))
	}
	if input.Description != nil {
		if length := len(*input.Description); length < descriptionMin || length > descriptionMax {
			errors = append(errors, fmt.Sprintf("Description must be between %d and %d characters", descriptionMin, descriptionMax))
		}
	}
	if input.Location != nil {
		if length := len(*input.Location); length < locationMin || length > locationMax {
			errors = append(errors, fmt.Sprintf("Location must be between %d and %d characters", locationMin, locationMax))
		}
	}
	if input.FoundAt != nil {
		foundAt, err := time.Parse(time.RFC3339, *input.FoundAt)
		if err != nil {
			errors = append(errors, "Found date must be a valid ISO 8601 datetime")
		} else if foundAt.After(time.Now()) {
			errors = append(errors, "Found date cannot be in the future")
		}
	}
	if input.SubmissionType != nil && !domain.ValidSubmissionType(domain.SubmissionType(*input.SubmissionType)) {
		errors = append(errors, "Submission type must be one of: keep-with-me, submit-to-desk")
	}
	if input.ImageURLs != nil {
		urls := *input.ImageURLs
		if len(urls) > maxImageURLs {
			errors = append(errors, fmt.Sprintf("Maximum %d images allowed", maxImageURLs))
		} else {
			for _, url := range urls {
				if !imageURLPattern.MatchString(url) {
					errors = append(errors, "All image URLs must be valid HTTP/HTTPS URLs")
					break
				}
			}
		}
	}
	if input.VerificationNotes != nil && len(*input.VerificationNotes) > notesMax {
		errors = append(errors, fmt.Sprintf("Verification notes must be a string with maximum %d characters", notesMax))
	}

	return errors
}

// ValidateStatusUpdate checks a status-change payload.
func ValidateStatusUpdate(status string, notes *string) []string {
	errors := []string{}

	if !domain.ValidItemStatus(domain.ItemStatus(status)) {
		errors = append(errors, fmt.Sprintf("Status must be one of: %s", joinStatuses()))
	}
	if notes != nil && len(*notes) > notesMax {
		errors = append(errors, fmt.Sprintf("Notes must be a string with maximum %d characters", notesMax))
	}

	return errors
}

// ValidatePagination checks raw page/limit query values.
func ValidatePagination(page, limit string) []string {
	errors := []string{}

	if page != "" {
		parsed, err := strconv.Atoi(page)
		if err != nil || parsed < 1 {
			errors = append(errors, "Page must be a positive integer")
		}
	}
	if limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 1 || parsed > 100 {
			errors = append(errors, "Limit must be between 1 and 100")
		}
	}

	return errors
}

func joinCategories() string {
	parts := make([]string, 0, len(domain.ItemCategories))
	for _, category := range domain.ItemCategories {
		parts = append(parts, string(category))
	}
	return strings.Join(parts, ", ")
}

func joinStatuses() string {
	parts := make([]string, 0, len(domain.ItemStatuses))
	for _, status := range domain.ItemStatuses {
		parts = append(parts, string(status))
	}
	return strings.Join(parts, ", ")
}
