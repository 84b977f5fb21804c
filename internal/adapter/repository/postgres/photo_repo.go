package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcos-nsantos/photogram-backend/internal/domain"
	"github.com/marcos-nsantos/photogram-backend/internal/domain/entity"
	"github.com/marcos-nsantos/photogram-backend/internal/pkg/pagination"
)

type PhotoRepo struct {
	pool *pgxpool.Pool
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

func (r *PhotoRepo) Create(ctx context.Context, photo *entity.Photo) error {
	query := `
		INSERT INTO photos (id, owner_id, owner_name, title, asset_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		photo.ID, photo.OwnerID, photo.OwnerName, photo.Title, photo.AssetKey, photo.CreatedAt,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return domain.ErrPhotoRejected
		}
		return fmt.Errorf("inserting photo: %w", err)
	}
	return nil
}

func (r *PhotoRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Photo, error) {
	query := `
		SELECT id, owner_id, owner_name, title, asset_key, created_at
		FROM photos
		WHERE id = $1
	`
	var photo entity.Photo
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&photo.ID, &photo.OwnerID, &photo.OwnerName, &photo.Title, &photo.AssetKey, &photo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPhotoNotFound
		}
		return nil, fmt.Errorf("querying photo: %w", err)
	}

	if err := r.loadEngagement(ctx, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepo) ListAll(ctx context.Context, params pagination.Params) ([]entity.Photo, *pagination.Info, error) {
	return r.list(ctx, "", nil, params)
}

func (r *PhotoRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]entity.Photo, *pagination.Info, error) {
	return r.list(ctx, "owner_id = $1", []any{ownerID}, params)
}

func (r *PhotoRepo) SearchByTitle(ctx context.Context, query string, params pagination.Params) ([]entity.Photo, *pagination.Info, error) {
	return r.list(ctx, "title ILIKE '%' || $1 || '%'", []any{query}, params)
}

// list applies the one required read ordering: created_at strictly descending,
// with id as a tiebreaker so pagination is stable.
func (r *PhotoRepo) list(ctx context.Context, where string, args []any, params pagination.Params) ([]entity.Photo, *pagination.Info, error) {
	whereClause := ""
	if where != "" {
		whereClause = "WHERE " + where
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM photos %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, nil, fmt.Errorf("counting photos: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, owner_id, owner_name, title, asset_key, created_at
		FROM photos
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)+1, len(args)+2)
	args = append(args, params.Limit(), params.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("querying photos: %w", err)
	}
	defer rows.Close()

	var photos []entity.Photo
	for rows.Next() {
		var photo entity.Photo
		if err := rows.Scan(
			&photo.ID, &photo.OwnerID, &photo.OwnerName, &photo.Title, &photo.AssetKey, &photo.CreatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("scanning photo: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating photos: %w", err)
	}

	ptrs := make([]*entity.Photo, len(photos))
	for i := range photos {
		ptrs[i] = &photos[i]
	}
	if err := r.loadEngagement(ctx, ptrs...); err != nil {
		return nil, nil, err
	}

	pageInfo := pagination.NewInfo(params.Page, params.PerPage, total)
	return photos, pageInfo, nil
}

// loadEngagement attaches likes and comments to every given photo in two
// queries total, however many photos the page holds.
func (r *PhotoRepo) loadEngagement(ctx context.Context, photos ...*entity.Photo) error {
	if len(photos) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(photos))
	byID := make(map[uuid.UUID]*entity.Photo, len(photos))
	for _, p := range photos {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	likesQuery := `
		SELECT photo_id, user_id
		FROM photo_likes
		WHERE photo_id = ANY($1)
	`
	rows, err := r.pool.Query(ctx, likesQuery, ids)
	if err != nil {
		return fmt.Errorf("querying likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var photoID, userID uuid.UUID
		if err := rows.Scan(&photoID, &userID); err != nil {
			return fmt.Errorf("scanning like: %w", err)
		}
		byID[photoID].Likes = append(byID[photoID].Likes, userID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating likes: %w", err)
	}

	commentsQuery := `
		SELECT id, photo_id, author_id, author_name, author_avatar, body, created_at
		FROM photo_comments
		WHERE photo_id = ANY($1)
		ORDER BY created_at ASC, id ASC
	`
	crows, err := r.pool.Query(ctx, commentsQuery, ids)
	if err != nil {
		return fmt.Errorf("querying comments: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var c entity.Comment
		if err := crows.Scan(
			&c.ID, &c.PhotoID, &c.AuthorID, &c.AuthorName, &c.AuthorAvatar, &c.Body, &c.CreatedAt,
		); err != nil {
			return fmt.Errorf("scanning comment: %w", err)
		}
		byID[c.PhotoID].Comments = append(byID[c.PhotoID].Comments, c)
	}
	return crows.Err()
}

func (r *PhotoRepo) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	query := `UPDATE photos SET title = $2 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id, title)
	if err != nil {
		return fmt.Errorf("updating photo title: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPhotoNotFound
	}
	return nil
}

// ToggleLike flips userID's membership in the photo's like set without a
// load-mutate-save round trip. The delete and the conditional insert run in
// one transaction; the primary key on (photo_id, user_id) guarantees the set
// never holds a duplicate even under concurrent toggles.
func (r *PhotoRepo) ToggleLike(ctx context.Context, photoID, userID uuid.UUID) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`DELETE FROM photo_likes WHERE photo_id = $1 AND user_id = $2`,
		photoID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("removing like: %w", err)
	}

	liked := false
	if result.RowsAffected() == 0 {
		result, err = tx.Exec(ctx, `
			INSERT INTO photo_likes (photo_id, user_id, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (photo_id, user_id) DO NOTHING
		`, photoID, userID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return false, domain.ErrPhotoNotFound
			}
			return false, fmt.Errorf("adding like: %w", err)
		}
		// A conflict means a concurrent toggle won the insert; either way the
		// actor is now a member of the set.
		liked = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing transaction: %w", err)
	}
	return liked, nil
}

func (r *PhotoRepo) AppendComment(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO photo_comments (id, photo_id, author_id, author_name, author_avatar, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		comment.ID, comment.PhotoID, comment.AuthorID,
		comment.AuthorName, comment.AuthorAvatar, comment.Body, comment.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrPhotoNotFound
		}
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

// Delete removes the photo row and invokes cleanup while the transaction is
// still open. A cleanup error rolls the row deletion back, so the record and
// its asset never diverge: either both survive or both are gone. Like and
// comment rows go with the photo via ON DELETE CASCADE.
func (r *PhotoRepo) Delete(ctx context.Context, id uuid.UUID, cleanup func(context.Context) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPhotoNotFound
	}

	if cleanup != nil {
		if err := cleanup(ctx); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
