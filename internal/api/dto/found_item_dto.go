package dto

import (
	"time"

	"github.com/campus-hub/lostfound-service/internal/domain"
)

// FoundItemRequest is the create/update payload. Pointer fields distinguish
// absent keys from present ones so PATCH only touches supplied fields.
type FoundItemRequest struct {
	Title             *string   `json:"title"`
	Category          *string   `json:"category"`
	Description       *string   `json:"description"`
	Location          *string   `json:"location"`
	FoundAt           *string   `json:"foundAt"`
	SubmissionType    *string   `json:"submissionType"`
	ImageURLs         *[]string `json:"imageUrls"`
	VerificationNotes *string   `json:"verificationNotes"`
}

// ClaimRequest payload.
type ClaimRequest struct {
	ClaimMessage *string `json:"claimMessage"`
}

// StatusUpdateRequest payload.
type StatusUpdateRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// FinderResponse embeds the submitter's public profile data.
type FinderResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	AvatarURL       string `json:"avatarUrl"`
	TrustScore      int    `json:"trustScore"`
	IsTrustedHelper bool   `json:"isTrustedHelper"`
}

// VerificationResponse carries the manual verification annotation.
type VerificationResponse struct {
	Verified        bool    `json:"verified"`
	Notes           *string `json:"notes"`
	MatchConfidence int     `json:"matchConfidence"`
}

// FoundItemResponse is the public item shape.
type FoundItemResponse struct {
	ID             string                `json:"id"`
	FinderID       string                `json:"finderId"`
	Title          string                `json:"title"`
	Category       domain.ItemCategory   `json:"category"`
	Description    string                `json:"description"`
	Location       string                `json:"location"`
	FoundAt        time.Time             `json:"foundAt"`
	SubmissionType domain.SubmissionType `json:"submissionType"`
	ImageURLs      []string              `json:"imageUrls"`
	Status         domain.ItemStatus     `json:"status"`
	Finder         FinderResponse        `json:"finder"`
	Verification   VerificationResponse  `json:"verification"`
	ClaimedBy      *string               `json:"claimedBy"`
	ClaimedAt      *time.Time            `json:"claimedAt"`
	ReturnedAt     *time.Time            `json:"returnedAt"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// PaginationResponse carries listing totals.
type PaginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ItemPageResponse is the list envelope body.
type ItemPageResponse struct {
	Items      []FoundItemResponse `json:"items"`
	Pagination PaginationResponse  `json:"pagination"`
}

// NewFoundItemResponse reprojects a row into the public contract, defaulting
// missing profile data.
func NewFoundItemResponse(item *domain.FoundItem) FoundItemResponse {
	finder := FinderResponse{
		ID:         item.FinderID,
		Name:       "Unknown",
		TrustScore: domain.DefaultTrustScore,
	}
	if item.Finder != nil {
		finder.ID = item.Finder.ID
		if item.Finder.Name != "" {
			finder.Name = item.Finder.Name
		}
		finder.AvatarURL = item.Finder.AvatarURL
		finder.TrustScore = item.Finder.TrustScore
	}
	finder.IsTrustedHelper = finder.TrustScore >= domain.TrustedHelperThreshold

	imageURLs := item.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}

	return FoundItemResponse{
		ID:             item.ID,
		FinderID:       item.FinderID,
		Title:          item.Title,
		Category:       item.Category,
		Description:    item.Description,
		Location:       item.Location,
		FoundAt:        item.FoundAt,
		SubmissionType: item.SubmissionType,
		ImageURLs:      imageURLs,
		Status:         item.Status,
		Finder:         finder,
		Verification: VerificationResponse{
			Verified:        item.IsVerified,
			Notes:           item.VerificationNotes,
			MatchConfidence: item.MatchConfidence,
		},
		ClaimedBy:  item.ClaimedBy,
		ClaimedAt:  item.ClaimedAt,
		ReturnedAt: item.ReturnedAt,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}
