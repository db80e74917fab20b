package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/lostfound-service/internal/domain"
	"github.com/campus-hub/lostfound-service/internal/events"
	"github.com/campus-hub/lostfound-service/internal/repository"
	apperrors "github.com/campus-hub/lostfound-service/pkg/util"
)

func newItemServiceFixture() (*FoundItemService, *fakeItemRepo, *fakeProfileRepo, *recordingDispatcher) {
	items := newFakeItemRepo()
	profiles := newFakeProfileRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewFoundItemService(FoundItemDependencies{
		ItemRepo:    items,
		ProfileRepo: profiles,
		Dispatcher:  dispatcher,
	})
	return svc, items, profiles, dispatcher
}

func seedProfile(t *testing.T, profiles *fakeProfileRepo, name string) *domain.Profile {
	t.Helper()
	profile := &domain.Profile{
		Name:       name,
		Email:      name + "@state.edu",
		TrustScore: domain.DefaultTrustScore,
		Role:       domain.RoleStudent,
	}
	require.NoError(t, profiles.Create(context.Background(), profile))
	return profile
}

func seedItem(t *testing.T, svc *FoundItemService, finderID, title string) *domain.FoundItem {
	t.Helper()
	item, err := svc.Create(context.Background(), finderID, ItemCreateInput{
		Title:          title,
		Category:       domain.CategoryElectronics,
		Description:    "Black wireless headphones with a scratch on the left cup",
		Location:       "Main Library, 2nd floor",
		FoundAt:        time.Now().Add(-time.Hour),
		SubmissionType: domain.SubmissionKeepWithMe,
	})
	require.NoError(t, err)
	return item
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, code, domainErr.Code)
}

func TestCreateSetsLifecycleDefaults(t *testing.T) {
	svc, _, profiles, dispatcher := newItemServiceFixture()
	finder := seedProfile(t, profiles, "dana")

	item := seedItem(t, svc, finder.ID, "Sony headphones")

	assert.Equal(t, domain.ItemStatusAvailable, item.Status)
	assert.False(t, item.IsVerified)
	assert.Zero(t, item.MatchConfidence)
	assert.NotNil(t, item.ImageURLs)
	assert.Nil(t, item.ClaimedBy)
	require.NotNil(t, item.Finder)
	assert.Equal(t, finder.ID, item.Finder.ID)
	assert.Contains(t, dispatcher.eventTypes(), events.EventItemCreated)
}

func TestGetByIDVisibility(t *testing.T) {
	svc, _, profiles, _ := newItemServiceFixture()
	finder := seedProfile(t, profiles, "finn")
	claimer := seedProfile(t, profiles, "cleo")
	stranger := seedProfile(t, profiles, "sam")

	item := seedItem(t, svc, finder.ID, "Blue backpack")
	_, err := svc.Claim(context.Background(), claimer.ID, item.ID, nil)
	require.NoError(t, err)

	// Anonymous callers cannot see a matched item.
	_, err = svc.GetByID(context.Background(), nil, item.ID)
	requireCode(t, err, "ACCESS_DENIED")

	// Neither can an unrelated authenticated caller.
	_, err = svc.GetByID(context.Background(), &stranger.ID, item.ID)
	requireCode(t, err, "ACCESS_DENIED")

	for _, id := range []string{finder.ID, claimer.ID} {
		got, err := svc.GetByID(context.Background(), &id, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, got.ID)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _, _, _ := newItemServiceFixture()
	_, err := svc.GetByID(context.Background(), nil, "missing")
	requireCode(t, err, "NOT_FOUND")
}

func TestListAnonymousSeesOnlyAvailable(t *testing.T) {
	svc, _, profiles, _ := newItemServiceFixture()
	finder := seedProfile(t, profiles, "finn")
	claimer := seedProfile(t, profiles, "cleo")

	open := seedItem(t, svc, finder.ID, "Water bottle")
	claimed := seedItem(t, svc, finder.ID, "Umbrella")
	_, err := svc.Claim(context.Background(), claimer.ID, claimed.ID, nil)
	require.NoError(t, err)

	page, err := svc.List(context.Background(), nil, ItemListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, open.ID, page.Items[0].ID)

	// An authenticated caller without a status filter sees everything.
	page, err = svc.List(context.Background(), &finder.ID, ItemListFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	// An explicit status filter is honored even for anonymous callers.
	matched := domain.ItemStatusMatched
	page, err = svc.List(context.Background(), nil, ItemListFilter{Status: &matched})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, claimed.ID, page.Items[0].ID)
}

func TestListPagination(t *testing.T) {
	svc, _, profiles, _ := newItemServiceFixture()
	finder := seedProfile(t, profiles, "finn")
	for i := 0; i < 45; i++ {
		seedItem(t, svc, finder.ID, fmt.Sprintf("Lost item %02d", i))
	}

	page, err := svc.List(context.Background(), &finder.ID, ItemListFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, page.Items, 20)
	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	page, err = svc.List(context.Background(), &finder.ID, ItemListFilter{Page: 3, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)

	// A page past the end is empty but keeps accurate totals.
	page, err = svc.List(context.Background(), &finder.ID, ItemListFilter{Page: 4, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.TotalPages)
}

func TestListClampsLimit(t *testing.T) {
	svc, _, profiles, _ := newItemServiceFixture()
	finder := seedProfile(t, profiles, "finn")
	seedItem(t, svc, finder.ID, "Calculator")

	page, err := svc.List(context.Background(), &finder.ID, ItemListFilter{Page: 0, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.Limit)
}

func TestUpdateFinderOnly(t *testing.T) {
	svc, _, profiles, _ := newItemServiceFixture()
	finder := seedProfile(t, profiles, "finn")
	stranger := seedProfile(t, profiles, "sam")
	item := seedItem(t, svc, finder.ID, "Red scarf")

	title := "Dark red scarf"
	_, err := svc.Update(context.Background(), stranger.ID, item.ID, repository.FoundItemPatch{Title: &title})
	requireCode(t, err, "ACCESS_DENIED")

	_, err = svc.Update(context.Background(), finder.ID, item.ID, repository.FoundItemPatch{})
	requireCode(t, err, "VALIDATION_ERROR")

	updated, err := svc.Update(context.Background(), finder.ID, item.ID, repository.FoundItemPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
}

func TestDeleteFinderOnly(t *testing.T) {
	svc, _, profiles, _ := newItemServiceFixture()
	finder := seedProfile(t, profiles, "finn")
	stranger := seedProfile(t, profiles, "sam")
	item := seedItem(t, svc, finder.ID, "Gym bag")

	requireCode(t, svc.Delete(context.Background(), stranger.ID, item.ID), "ACCESS_DENIED")
	require.NoError(t, svc.Delete(context.Background(), finder.ID, item.ID))

	_, err := svc.GetByID(context.Background(), &finder.ID, item.ID)
	requireCode(t, err, "NOT_FOUND")
}

func TestClaimLifecycle(t *testing.T) {
	svc, _, profiles, dispatcher := newItemServiceFixture()
	finder := seedProfile(t, profiles, "finn")
	claimer := seedProfile(t, profiles, "cleo")
	other := seedProfile(t, profiles, "omar")
	item := seedItem(t, svc, finder.ID, "Student ID card")

	// Finders cannot claim their own items.
	_, err := svc.Claim(context.Background(), finder.ID, item.ID, nil)
	requireCode(t, err, "INVALID_CLAIM")

	message := "It has my name on the inside label"
	claimed, err := svc.Claim(context.Background(), claimer.ID, item.ID, &message)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusMatched, claimed.Status)
	require.NotNil(t, claimed.ClaimedBy)
	assert.Equal(t, claimer.ID, *claimed.ClaimedBy)
	assert.NotNil(t, claimed.ClaimedAt)
	require.NotNil(t, claimed.VerificationNotes)
	assert.Equal(t, message, *claimed.VerificationNotes)
	assert.Contains(t, dispatcher.eventTypes(), events.EventItemClaimed)

	// A second claim on a matched item is rejected.
	_, err = svc.Claim(context.Background(), other.ID, item.ID, nil)
	requireCode(t, err, "ITEM_NOT_AVAILABLE")
}

func TestClaimMissingItem(t *testing.T) {
	svc, _, profiles, _ := newItemServiceFixture()
	claimer := seedProfile(t, profiles, "cleo")
	_, err := svc.Claim(context.Background(), claimer.ID, "missing", nil)
	requireCode(t, err, "NOT_FOUND")
}

func TestUnclaimResetsClaim(t *testing.T) {
	svc, _, profiles, _ := newItemServiceFixture()
	finder := seedProfile(t, profiles, "finn")
	claimer := seedProfile(t, profiles, "cleo")
	stranger := seedProfile(t, profiles, "sam")
	item := seedItem(t, svc, finder.ID, "Laptop charger")

	_, err := svc.Claim(context.Background(), claimer.ID, item.ID, nil)
	require.NoError(t, err)

	_, err = svc.Unclaim(context.Background(), stranger.ID, item.ID)
	requireCode(t, err, "ACCESS_DENIED")

	released, err := svc.Unclaim(context.Background(), claimer.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusAvailable, released.Status)
	assert.Nil(t, released.ClaimedBy)
	assert.Nil(t, released.ClaimedAt)

	// The finder can also release a claim, and the item is claimable again.
	_, err = svc.Claim(context.Background(), claimer.ID, item.ID, nil)
	require.NoError(t, err)
	released, err = svc.Unclaim(context.Background(), finder.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusAvailable, released.Status)
}

func TestUpdateStatusStampsReturnedAt(t *testing.T) {
	svc, _, profiles, _ := newItemServiceFixture()
	finder := seedProfile(t, profiles, "finn")
	stranger := seedProfile(t, profiles, "sam")
	item := seedItem(t, svc, finder.ID, "Textbook")

	_, err := svc.UpdateStatus(context.Background(), stranger.ID, item.ID, domain.ItemStatusReturned, nil)
	requireCode(t, err, "ACCESS_DENIED")

	notes := "Picked up at the front desk"
	updated, err := svc.UpdateStatus(context.Background(), finder.ID, item.ID, domain.ItemStatusReturned, &notes)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusReturned, updated.Status)
	require.NotNil(t, updated.ReturnedAt)
	require.NotNil(t, updated.VerificationNotes)
	assert.Equal(t, notes, *updated.VerificationNotes)

	// Other transitions do not stamp returned_at.
	pending := seedItem(t, svc, finder.ID, "Pencil case")
	updated, err = svc.UpdateStatus(context.Background(), finder.ID, pending.ID, domain.ItemStatusVerificationPending, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.ReturnedAt)
}

func TestCreateGetRoundTrip(t *testing.T) {
	svc, _, profiles, _ := newItemServiceFixture()
	finder := seedProfile(t, profiles, "finn")

	foundAt, err := time.Parse(time.RFC3339, "2024-01-01T10:00:00Z")
	require.NoError(t, err)
	created, err := svc.Create(context.Background(), finder.ID, ItemCreateInput{
		Title:          "Blue Backpack",
		Category:       domain.CategoryBags,
		Description:    "Found near gate, ten characters min",
		Location:       "Library Gate",
		FoundAt:        foundAt,
		SubmissionType: domain.SubmissionKeepWithMe,
	})
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), &finder.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue Backpack", got.Title)
	assert.Equal(t, domain.CategoryBags, got.Category)
	assert.Equal(t, "Found near gate, ten characters min", got.Description)
	assert.Equal(t, "Library Gate", got.Location)
	assert.True(t, got.FoundAt.Equal(foundAt))
	assert.Equal(t, domain.SubmissionKeepWithMe, got.SubmissionType)
	assert.Equal(t, domain.ItemStatusAvailable, got.Status)
	assert.Zero(t, got.MatchConfidence)
}

func TestListCategoryFilterPagination(t *testing.T) {
	svc, items, profiles, _ := newItemServiceFixture()
	finder := seedProfile(t, profiles, "finn")
	for i := 0; i < 3; i++ {
		seedItem(t, svc, finder.ID, fmt.Sprintf("Phone %d", i))
	}
	// One non-matching row to prove the filter applies.
	_, err := svc.Create(context.Background(), finder.ID, ItemCreateInput{
		Title:          "Canvas tote",
		Category:       domain.CategoryBags,
		Description:    "Beige tote bag with a zipper pocket",
		Location:       "Student Union",
		FoundAt:        time.Now().Add(-time.Hour),
		SubmissionType: domain.SubmissionSubmitToDesk,
	})
	require.NoError(t, err)
	require.Len(t, items.items, 4)

	electronics := domain.CategoryElectronics
	page, err := svc.List(context.Background(), &finder.ID, ItemListFilter{
		Category: &electronics,
		Page:     1,
		Limit:    2,
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListForFinderScopesToOwner(t *testing.T) {
	svc, _, profiles, _ := newItemServiceFixture()
	finder := seedProfile(t, profiles, "finn")
	other := seedProfile(t, profiles, "omar")
	mine := seedItem(t, svc, finder.ID, "My umbrella")
	seedItem(t, svc, other.ID, "Their umbrella")

	page, err := svc.ListForFinder(context.Background(), finder.ID, ItemListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, mine.ID, page.Items[0].ID)
}
