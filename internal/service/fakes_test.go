package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campus-hub/lostfound-service/internal/domain"
	"github.com/campus-hub/lostfound-service/internal/events"
	"github.com/campus-hub/lostfound-service/internal/repository"
)

type fakeItemRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]*domain.FoundItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]*domain.FoundItem)}
}

func (r *fakeItemRepo) Create(_ context.Context, item *domain.FoundItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	item.ID = "item-" + strconv.Itoa(r.seq)
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*domain.FoundItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) List(_ context.Context, filter repository.FoundItemFilter) ([]domain.FoundItem, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []domain.FoundItem{}
	for _, item := range r.items {
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && item.Category != *filter.Category {
			continue
		}
		if filter.FinderID != nil && item.FinderID != *filter.FinderID {
			continue
		}
		if filter.Location != nil && !strings.Contains(strings.ToLower(item.Location), strings.ToLower(*filter.Location)) {
			continue
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(*filter.SearchTerm)
			if !strings.Contains(strings.ToLower(item.Title), term) &&
				!strings.Contains(strings.ToLower(item.Description), term) {
				continue
			}
		}
		matched = append(matched, *item)
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch filter.SortBy {
		case "title":
			less = matched[i].Title < matched[j].Title
		case "created_at":
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		default:
			less = matched[i].FoundAt.Before(matched[j].FoundAt)
		}
		if filter.SortDesc {
			return !less
		}
		return less
	})

	total := len(matched)
	start := filter.Offset
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *fakeItemRepo) UpdateFields(_ context.Context, id string, patch repository.FoundItemPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Location != nil {
		item.Location = *patch.Location
	}
	if patch.FoundAt != nil {
		item.FoundAt = *patch.FoundAt
	}
	if patch.SubmissionType != nil {
		item.SubmissionType = *patch.SubmissionType
	}
	if patch.ImageURLs != nil {
		item.ImageURLs = *patch.ImageURLs
	}
	if patch.VerificationNotes != nil {
		item.VerificationNotes = patch.VerificationNotes
	}
	item.UpdatedAt = time.Now()
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func (r *fakeItemRepo) ClaimAvailable(_ context.Context, id, claimerID string, claimedAt time.Time, notes *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.Status != domain.ItemStatusAvailable {
		return false, nil
	}
	item.ClaimedBy = &claimerID
	item.ClaimedAt = &claimedAt
	item.Status = domain.ItemStatusMatched
	item.VerificationNotes = notes
	item.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeItemRepo) Unclaim(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	item.ClaimedBy = nil
	item.ClaimedAt = nil
	item.Status = domain.ItemStatusAvailable
	item.UpdatedAt = time.Now()
	return nil
}

func (r *fakeItemRepo) UpdateStatus(_ context.Context, id string, status domain.ItemStatus, notes *string, returnedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	item.Status = status
	if notes != nil {
		item.VerificationNotes = notes
	}
	if returnedAt != nil {
		item.ReturnedAt = returnedAt
	}
	item.UpdatedAt = time.Now()
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	seq      int
	profiles map[string]*domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	profile.ID = "profile-" + strconv.Itoa(r.seq)
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	stored := *profile
	r.profiles[profile.ID] = &stored
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *profile
	r.profiles[profile.ID] = &stored
	return nil
}

func (r *fakeProfileRepo) UpdateFields(_ context.Context, id string, patch repository.ProfilePatch) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if patch.Name != nil {
		profile.Name = *patch.Name
	}
	if patch.AvatarURL != nil {
		profile.AvatarURL = *patch.AvatarURL
	}
	profile.UpdatedAt = time.Now()
	copied := *profile
	return &copied, nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *profile
	return &copied, nil
}

func (r *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, profile := range r.profiles {
		if profile.Email == email {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeResetRepo struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]*repository.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]*repository.PasswordResetToken)}
}

func (r *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	token.ID = "reset-" + strconv.Itoa(r.seq)
	token.CreatedAt = time.Now()
	stored := *token
	r.tokens[token.Token] = &stored
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *token
	return &copied, nil
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, token := range r.tokens {
		if token.ID == id {
			token.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) eventTypes() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	types := make([]events.EventType, 0, len(d.published))
	for _, event := range d.published {
		types = append(types, event.Type)
	}
	return types
}
