package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-hub/lostfound-service/internal/domain"
)

// Sort fields accepted by List; anything else falls back to found_at.
var allowedSortFields = map[string]struct{}{
	"found_at":   {},
	"created_at": {},
	"title":      {},
}

// FoundItemFilter captures listing parameters.
type FoundItemFilter struct {
	Status     *domain.ItemStatus
	Category   *domain.ItemCategory
	Location   *string
	FinderID   *string
	SearchTerm *string
	SortBy     string
	SortDesc   bool
	Limit      int
	Offset     int
}

// FoundItemPatch carries optional field updates; nil means the field was
// absent from the request.
type FoundItemPatch struct {
	Title             *string
	Category          *domain.ItemCategory
	Description       *string
	Location          *string
	FoundAt           *time.Time
	SubmissionType    *domain.SubmissionType
	ImageURLs         *[]string
	VerificationNotes *string
}

// Empty reports whether the patch carries no updates.
func (p FoundItemPatch) Empty() bool {
	return p.Title == nil && p.Category == nil && p.Description == nil &&
		p.Location == nil && p.FoundAt == nil && p.SubmissionType == nil &&
		p.ImageURLs == nil && p.VerificationNotes == nil
}

// FoundItemRepository encapsulates found-item persistence.
type FoundItemRepository interface {
	Create(ctx context.Context, item *domain.FoundItem) error
	GetByID(ctx context.Context, id string) (*domain.FoundItem, error)
	List(ctx context.Context, filter FoundItemFilter) ([]domain.FoundItem, int, error)
	UpdateFields(ctx context.Context, id string, patch FoundItemPatch) error
	Delete(ctx context.Context, id string) error
	ClaimAvailable(ctx context.Context, id, claimerID string, claimedAt time.Time, notes *string) (bool, error)
	Unclaim(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status domain.ItemStatus, notes *string, returnedAt *time.Time) error
}

type foundItemRepository struct {
	pool *pgxpool.Pool
}

// NewFoundItemRepository instantiates repository.
func NewFoundItemRepository(pool *pgxpool.Pool) FoundItemRepository {
	return &foundItemRepository{pool: pool}
}

const itemColumns = `i.id, i.finder_id, i.title, i.category, i.description, i.location,
       i.found_at, i.submission_type, i.image_urls, i.status, i.is_verified,
       i.verification_notes, i.match_confidence, i.claimed_by, i.claimed_at,
       i.returned_at, i.created_at, i.updated_at,
       p.id, p.name, p.avatar_url, p.trust_score`

const itemJoin = `FROM found_items i
       LEFT JOIN profiles p ON p.id = i.finder_id`

func (r *foundItemRepository) Create(ctx context.Context, item *domain.FoundItem) error {
	const query = `
        INSERT INTO found_items (finder_id, title, category, description, location, found_at,
            submission_type, image_urls, status, is_verified, verification_notes, match_confidence)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		item.FinderID,
		item.Title,
		item.Category,
		item.Description,
		item.Location,
		item.FoundAt,
		item.SubmissionType,
		item.ImageURLs,
		item.Status,
		item.IsVerified,
		item.VerificationNotes,
		item.MatchConfidence,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *foundItemRepository) GetByID(ctx context.Context, id string) (*domain.FoundItem, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE i.id=$1`, itemColumns, itemJoin)
	row := r.pool.QueryRow(ctx, query, id)
	item, err := scanItem(row)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *foundItemRepository) List(ctx context.Context, filter FoundItemFilter) ([]domain.FoundItem, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("i.status=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("i.category=$%d", len(args)))
	}
	if filter.FinderID != nil {
		args = append(args, *filter.FinderID)
		clauses = append(clauses, fmt.Sprintf("i.finder_id=$%d", len(args)))
	}
	if filter.Location != nil && strings.TrimSpace(*filter.Location) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Location))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(i.location) LIKE $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(i.title) LIKE %s OR LOWER(i.description) LIKE %s)", placeholder, placeholder))
	}

	sortField := filter.SortBy
	if _, ok := allowedSortFields[sortField]; !ok {
		sortField = "found_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total %s WHERE %s ORDER BY i.%s %s LIMIT %d OFFSET %d`,
		itemColumns, itemJoin, strings.Join(clauses, " AND "), sortField, direction, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []domain.FoundItem{}
	total := 0
	for rows.Next() {
		item, rowTotal, err := scanItemWithTotal(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
		total = rowTotal
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(items) == 0 {
		// A page past the end returns no rows, so the window total is lost;
		// recount to keep pagination totals accurate.
		countQuery := fmt.Sprintf(`SELECT COUNT(*) %s WHERE %s`, itemJoin, strings.Join(clauses, " AND "))
		if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *foundItemRepository) UpdateFields(ctx context.Context, id string, patch FoundItemPatch) error {
	sets := []string{"updated_at=NOW()"}
	args := []any{}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.Title != nil {
		appendSet("title", *patch.Title)
	}
	if patch.Category != nil {
		appendSet("category", *patch.Category)
	}
	if patch.Description != nil {
		appendSet("description", *patch.Description)
	}
	if patch.Location != nil {
		appendSet("location", *patch.Location)
	}
	if patch.FoundAt != nil {
		appendSet("found_at", *patch.FoundAt)
	}
	if patch.SubmissionType != nil {
		appendSet("submission_type", *patch.SubmissionType)
	}
	if patch.ImageURLs != nil {
		appendSet("image_urls", *patch.ImageURLs)
	}
	if patch.VerificationNotes != nil {
		appendSet("verification_notes", *patch.VerificationNotes)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE found_items SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *foundItemRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM found_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ClaimAvailable transitions an available item to matched in a single
// conditional update. The boolean result is false when the item exists but
// was not available, which keeps concurrent claims from both succeeding.
func (r *foundItemRepository) ClaimAvailable(ctx context.Context, id, claimerID string, claimedAt time.Time, notes *string) (bool, error) {
	const query = `
        UPDATE found_items
        SET claimed_by=$1, claimed_at=$2, status=$3, verification_notes=$4, updated_at=NOW()
        WHERE id=$5 AND status=$6`
	cmd, err := r.pool.Exec(ctx, query,
		claimerID,
		claimedAt,
		domain.ItemStatusMatched,
		notes,
		id,
		domain.ItemStatusAvailable,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *foundItemRepository) Unclaim(ctx context.Context, id string) error {
	const query = `
        UPDATE found_items
        SET claimed_by=NULL, claimed_at=NULL, status=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, domain.ItemStatusAvailable, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *foundItemRepository) UpdateStatus(ctx context.Context, id string, status domain.ItemStatus, notes *string, returnedAt *time.Time) error {
	sets := []string{"updated_at=NOW()"}
	args := []any{status}
	sets = append(sets, "status=$1")

	if notes != nil {
		args = append(args, *notes)
		sets = append(sets, fmt.Sprintf("verification_notes=$%d", len(args)))
	}
	if returnedAt != nil {
		args = append(args, *returnedAt)
		sets = append(sets, fmt.Sprintf("returned_at=$%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE found_items SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanItem(row pgx.Row) (*domain.FoundItem, error) {
	var item domain.FoundItem
	var finderID, finderName, finderAvatar *string
	var finderTrust *int
	if err := row.Scan(
		&item.ID,
		&item.FinderID,
		&item.Title,
		&item.Category,
		&item.Description,
		&item.Location,
		&item.FoundAt,
		&item.SubmissionType,
		&item.ImageURLs,
		&item.Status,
		&item.IsVerified,
		&item.VerificationNotes,
		&item.MatchConfidence,
		&item.ClaimedBy,
		&item.ClaimedAt,
		&item.ReturnedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
		&finderID,
		&finderName,
		&finderAvatar,
		&finderTrust,
	); err != nil {
		return nil, err
	}
	item.Finder = finderProfile(finderID, finderName, finderAvatar, finderTrust)
	return &item, nil
}

func scanItemWithTotal(rows pgx.Rows) (*domain.FoundItem, int, error) {
	var item domain.FoundItem
	var finderID, finderName, finderAvatar *string
	var finderTrust *int
	var total int
	if err := rows.Scan(
		&item.ID,
		&item.FinderID,
		&item.Title,
		&item.Category,
		&item.Description,
		&item.Location,
		&item.FoundAt,
		&item.SubmissionType,
		&item.ImageURLs,
		&item.Status,
		&item.IsVerified,
		&item.VerificationNotes,
		&item.MatchConfidence,
		&item.ClaimedBy,
		&item.ClaimedAt,
		&item.ReturnedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
		&finderID,
		&finderName,
		&finderAvatar,
		&finderTrust,
		&total,
	); err != nil {
		return nil, 0, err
	}
	item.Finder = finderProfile(finderID, finderName, finderAvatar, finderTrust)
	return &item, total, nil
}

func finderProfile(id, name, avatar *string, trust *int) *domain.Profile {
	if id == nil {
		return nil
	}
	profile := &domain.Profile{ID: *id, TrustScore: domain.DefaultTrustScore}
	if name != nil {
		profile.Name = *name
	}
	if avatar != nil {
		profile.AvatarURL = *avatar
	}
	if trust != nil {
		profile.TrustScore = *trust
	}
	return profile
}
