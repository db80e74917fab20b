package domain

import "time"

// ItemStatus enumerates lifecycle states for found items.
type ItemStatus string

const (
	ItemStatusAvailable           ItemStatus = "available"
	ItemStatusMatched             ItemStatus = "matched"
	ItemStatusReturned            ItemStatus = "returned"
	ItemStatusVerificationPending ItemStatus = "verification-pending"
)

// ItemStatuses lists every valid item status.
var ItemStatuses = []ItemStatus{
	ItemStatusAvailable,
	ItemStatusMatched,
	ItemStatusReturned,
	ItemStatusVerificationPending,
}

// ItemCategory enumerates the fixed item categories.
type ItemCategory string

const (
	CategoryElectronics ItemCategory = "Electronics"
	CategoryBags        ItemCategory = "Bags"
	CategoryAccessories ItemCategory = "Accessories"
	CategoryKeys        ItemCategory = "Keys"
	CategoryBooks       ItemCategory = "Books"
	CategoryIDCards     ItemCategory = "ID Cards"
	CategoryOther       ItemCategory = "Other"
)

// ItemCategories lists every valid category.
var ItemCategories = []ItemCategory{
	CategoryElectronics,
	CategoryBags,
	CategoryAccessories,
	CategoryKeys,
	CategoryBooks,
	CategoryIDCards,
	CategoryOther,
}

// SubmissionType describes how the finder is holding the item.
type SubmissionType string

const (
	SubmissionKeepWithMe   SubmissionType = "keep-with-me"
	SubmissionSubmitToDesk SubmissionType = "submit-to-desk"
)

// SubmissionTypes lists every valid submission type.
var SubmissionTypes = []SubmissionType{SubmissionKeepWithMe, SubmissionSubmitToDesk}

// FoundItem is the aggregate for found-item reports.
//
// claimed_by is non-null iff status is matched; returned_at is set once
// the finder marks the item returned.
type FoundItem struct {
	ID                string
	FinderID          string
	Title             string
	Category          ItemCategory
	Description       string
	Location          string
	FoundAt           time.Time
	SubmissionType    SubmissionType
	ImageURLs         []string
	Status            ItemStatus
	IsVerified        bool
	VerificationNotes *string
	MatchConfidence   int
	ClaimedBy         *string
	ClaimedAt         *time.Time
	ReturnedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Finder carries the joined submitter profile when loaded via the
	// repository; nil when the profile row is missing.
	Finder *Profile
}

// ValidItemStatus reports whether s is a known item status.
func ValidItemStatus(s ItemStatus) bool {
	for _, candidate := range ItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c ItemCategory) bool {
	for _, candidate := range ItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ValidSubmissionType reports whether t is a known submission type.
func ValidSubmissionType(t SubmissionType) bool {
	for _, candidate := range SubmissionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}
