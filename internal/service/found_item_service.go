package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campus-hub/lostfound-service/internal/domain"
	"github.com/campus-hub/lostfound-service/internal/events"
	"github.com/campus-hub/lostfound-service/internal/repository"
	apperrors "github.com/campus-hub/lostfound-service/pkg/util"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// FoundItemService coordinates the found-item lifecycle: create, browse,
// claim, unclaim, return, delete.
type FoundItemService struct {
	items      repository.FoundItemRepository
	profiles   repository.ProfileRepository
	cache      ItemCache
	dispatcher events.Dispatcher
}

// FoundItemDependencies bundles collaborators for the item service.
type FoundItemDependencies struct {
	ItemRepo    repository.FoundItemRepository
	ProfileRepo repository.ProfileRepository
	Cache       ItemCache
	Dispatcher  events.Dispatcher
}

// ItemCreateInput describes an already-validated creation payload.
type ItemCreateInput struct {
	Title             string
	Category          domain.ItemCategory
	Description       string
	Location          string
	FoundAt           time.Time
	SubmissionType    domain.SubmissionType
	ImageURLs         []string
	VerificationNotes *string
}

// ItemListFilter describes listing parameters after validation.
type ItemListFilter struct {
	Status   *domain.ItemStatus
	Category *domain.ItemCategory
	Location *string
	FinderID *string
	Search   *string
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int
}

// ItemPage is a page of items plus pagination totals.
type ItemPage struct {
	Items      []domain.FoundItem
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// NewFoundItemService constructs the service.
func NewFoundItemService(deps FoundItemDependencies) *FoundItemService {
	return &FoundItemService{
		items:      deps.ItemRepo,
		profiles:   deps.ProfileRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// Create stores a new found-item report for the finder.
func (s *FoundItemService) Create(ctx context.Context, finderID string, input ItemCreateInput) (*domain.FoundItem, error) {
	item := &domain.FoundItem{
		FinderID:          finderID,
		Title:             strings.TrimSpace(input.Title),
		Category:          input.Category,
		Description:       strings.TrimSpace(input.Description),
		Location:          strings.TrimSpace(input.Location),
		FoundAt:           input.FoundAt,
		SubmissionType:    input.SubmissionType,
		ImageURLs:         input.ImageURLs,
		Status:            domain.ItemStatusAvailable,
		IsVerified:        false,
		VerificationNotes: input.VerificationNotes,
		MatchConfidence:   0,
	}
	if item.ImageURLs == nil {
		item.ImageURLs = []string{}
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, apperrors.NewWriteFailed("CREATE_FAILED", "failed to create found item", err)
	}

	if finder, err := s.profiles.GetByID(ctx, finderID); err == nil {
		item.Finder = finder
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventItemCreated,
		ItemID:  item.ID,
		ActorID: finderID,
		Payload: events.ItemCreatedPayload{
			Category:       item.Category,
			Location:       item.Location,
			SubmissionType: item.SubmissionType,
			Title:          item.Title,
		},
	})
	return item, nil
}

// List returns a filtered, sorted page of items. Anonymous callers without
// an explicit status filter only see available items.
func (s *FoundItemService) List(ctx context.Context, callerID *string, filter ItemListFilter) (*ItemPage, error) {
	if filter.Status == nil && callerID == nil {
		available := domain.ItemStatusAvailable
		filter.Status = &available
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	repoFilter := repository.FoundItemFilter{
		Status:     filter.Status,
		Category:   filter.Category,
		Location:   filter.Location,
		FinderID:   filter.FinderID,
		SearchTerm: filter.Search,
		SortBy:     filter.SortBy,
		SortDesc:   filter.SortDesc,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	items, total, err := s.items.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.NewWriteFailed("FETCH_FAILED", "failed to fetch found items", err)
	}

	totalPages := (total + limit - 1) / limit
	return &ItemPage{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// ListForFinder returns the caller's own items.
func (s *FoundItemService) ListForFinder(ctx context.Context, finderID string, filter ItemListFilter) (*ItemPage, error) {
	filter.FinderID = &finderID
	return s.List(ctx, &finderID, filter)
}

// GetByID fetches a single item. Items no longer available are visible only
// to the finder and the current claimant.
func (s *FoundItemService) GetByID(ctx context.Context, callerID *string, id string) (*domain.FoundItem, error) {
	item, cached := s.cachedItem(ctx, id)
	if !cached {
		var err error
		item, err = s.items.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("found item")
			}
			return nil, apperrors.NewWriteFailed("FETCH_FAILED", "failed to fetch found item", err)
		}
		s.cacheItem(ctx, item)
	}

	if item.Status != domain.ItemStatusAvailable && !isFinderOrClaimant(item, callerID) {
		return nil, apperrors.NewAccessDenied("access denied")
	}
	return item, nil
}

// Update applies a partial edit; only the finder may update an item.
func (s *FoundItemService) Update(ctx context.Context, callerID, id string, patch repository.FoundItemPatch) (*domain.FoundItem, error) {
	if patch.Empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}

	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.FinderID != callerID {
		return nil, apperrors.NewAccessDenied("you can only update your own found items")
	}

	if err := s.items.UpdateFields(ctx, id, patch); err != nil {
		return nil, apperrors.NewWriteFailed("UPDATE_FAILED", "failed to update found item", err)
	}
	s.invalidate(ctx, id)

	updated, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventItemUpdated,
		ItemID:  id,
		ActorID: callerID,
	})
	return updated, nil
}

// Delete removes an item permanently; only the finder may delete.
func (s *FoundItemService) Delete(ctx context.Context, callerID, id string) error {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return err
	}
	if item.FinderID != callerID {
		return apperrors.NewAccessDenied("you can only delete your own found items")
	}

	if err := s.items.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("found item")
		}
		return apperrors.NewWriteFailed("DELETE_FAILED", "failed to delete found item", err)
	}
	s.invalidate(ctx, id)

	s.publishEvent(ctx, events.Event{
		Type:    events.EventItemDeleted,
		ItemID:  id,
		ActorID: callerID,
		Payload: events.ItemDeletedPayload{
			Title:    item.Title,
			Status:   item.Status,
			FinderID: item.FinderID,
		},
	})
	return nil
}

// Claim marks an available item as matched by the caller. The transition is
// a conditional update keyed on the current status, so concurrent claims
// cannot both succeed.
func (s *FoundItemService) Claim(ctx context.Context, callerID, id string, message *string) (*domain.FoundItem, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.ItemStatusAvailable {
		return nil, apperrors.NewDomainRule("ITEM_NOT_AVAILABLE", "item is not available for claiming")
	}
	if item.FinderID == callerID {
		return nil, apperrors.NewDomainRule("INVALID_CLAIM", "you cannot claim your own found item")
	}

	claimed, err := s.items.ClaimAvailable(ctx, id, callerID, time.Now(), message)
	if err != nil {
		return nil, apperrors.NewWriteFailed("CLAIM_FAILED", "failed to claim found item", err)
	}
	if !claimed {
		// Another claim landed between the read and the write.
		return nil, apperrors.NewDomainRule("ITEM_NOT_AVAILABLE", "item is not available for claiming")
	}
	s.invalidate(ctx, id)

	updated, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventItemClaimed,
		ItemID:  id,
		ActorID: callerID,
		Payload: events.ItemClaimedPayload{
			FinderID:     item.FinderID,
			ClaimerID:    callerID,
			ClaimMessage: message,
		},
	})
	return updated, nil
}

// Unclaim releases a claim and makes the item available again. Either the
// finder or the current claimant may call it, and it resets the claim
// fields regardless of the item's current status.
func (s *FoundItemService) Unclaim(ctx context.Context, callerID, id string) (*domain.FoundItem, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.FinderID != callerID && (item.ClaimedBy == nil || *item.ClaimedBy != callerID) {
		return nil, apperrors.NewAccessDenied("you can only unclaim items you found or claimed")
	}

	if err := s.items.Unclaim(ctx, id); err != nil {
		return nil, apperrors.NewWriteFailed("UNCLAIM_FAILED", "failed to unclaim found item", err)
	}
	s.invalidate(ctx, id)

	updated, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventItemUnclaimed,
		ItemID:  id,
		ActorID: callerID,
		Payload: events.ItemUnclaimedPayload{
			FinderID:          item.FinderID,
			PreviousClaimerID: item.ClaimedBy,
		},
	})
	return updated, nil
}

// UpdateStatus sets a new lifecycle status; only the finder may call it.
// Moving to returned stamps the returned_at timestamp.
func (s *FoundItemService) UpdateStatus(ctx context.Context, callerID, id string, status domain.ItemStatus, notes *string) (*domain.FoundItem, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.FinderID != callerID {
		return nil, apperrors.NewAccessDenied("you can only update status of your own found items")
	}

	var returnedAt *time.Time
	if status == domain.ItemStatusReturned {
		now := time.Now()
		returnedAt = &now
	}

	if err := s.items.UpdateStatus(ctx, id, status, notes, returnedAt); err != nil {
		return nil, apperrors.NewWriteFailed("UPDATE_FAILED", "failed to update status", err)
	}
	s.invalidate(ctx, id)

	updated, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventItemStatusChanged,
		ItemID:  id,
		ActorID: callerID,
		Payload: events.ItemStatusChangedPayload{
			OldStatus: item.Status,
			NewStatus: status,
			Notes:     notes,
		},
	})
	return updated, nil
}

func (s *FoundItemService) loadItem(ctx context.Context, id string) (*domain.FoundItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("found item")
		}
		return nil, apperrors.NewWriteFailed("FETCH_FAILED", "failed to fetch found item", err)
	}
	return item, nil
}

func isFinderOrClaimant(item *domain.FoundItem, callerID *string) bool {
	if callerID == nil {
		return false
	}
	if item.FinderID == *callerID {
		return true
	}
	return item.ClaimedBy != nil && *item.ClaimedBy == *callerID
}

func (s *FoundItemService) cachedItem(ctx context.Context, id string) (*domain.FoundItem, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, id)
}

func (s *FoundItemService) cacheItem(ctx context.Context, item *domain.FoundItem) {
	if s.cache != nil {
		s.cache.Set(ctx, item)
	}
}

func (s *FoundItemService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
}

func (s *FoundItemService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
