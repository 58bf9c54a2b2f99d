package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/pkg/database"
)

const videoColumns = `v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration, v.views, v.is_published, v.owner_id, v.created_at, v.updated_at`

// sortColumns whitelists the columns a listing may be ordered by.
var sortColumns = map[string]string{
	"createdAt": "v.created_at",
	"views":     "v.views",
	"title":     "v.title",
	"duration":  "v.duration",
}

type videoRepository struct {
	db *database.Postgres
}

func NewVideoRepository(db *database.Postgres) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *domain.Video) error {
	query := `
		INSERT INTO videos (id, video_file, thumbnail, title, description, duration, views, is_published, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if video.ID == "" {
		video.ID = uuid.New().String()
	}

	now := time.Now()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	if video.UpdatedAt.IsZero() {
		video.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		video.ID,
		video.VideoFile,
		video.Thumbnail,
		video.Title,
		video.Description,
		video.Duration,
		video.Views,
		video.IsPublished,
		video.Owner,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos v WHERE v.id = $1`

	video, err := scanVideo(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("video with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return video, nil
}

// GetDetails loads a video with owner, subscriber and engagement counters as
// seen by callerID.
func (r *videoRepository) GetDetails(ctx context.Context, id, callerID string) (*domain.VideoDetails, error) {
	query := `
		SELECT ` + videoColumns + `,
			u.username, u.full_name, u.avatar,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = v.owner_id),
			EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = v.owner_id AND s.subscriber_id = $2),
			(SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id),
			(SELECT COUNT(*) FROM comments c WHERE c.video_id = v.id),
			EXISTS (SELECT 1 FROM likes l WHERE l.video_id = v.id AND l.liked_by = $2)
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1
	`

	details := &domain.VideoDetails{}
	v := &details.Video
	err := r.db.DB.QueryRowContext(ctx, query, id, callerID).Scan(
		&v.ID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description, &v.Duration,
		&v.Views, &v.IsPublished, &v.Owner, &v.CreatedAt, &v.UpdatedAt,
		&details.OwnerDetails.Username,
		&details.OwnerDetails.FullName,
		&details.OwnerDetails.Avatar,
		&details.SubscribersCount,
		&details.IsSubscribed,
		&details.LikesCount,
		&details.CommentsCount,
		&details.IsLiked,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("video with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}
	details.OwnerDetails.ID = v.Owner

	return details, nil
}

// List returns one page of videos matching filter and the total match count.
func (r *videoRepository) List(ctx context.Context, filter VideoFilter) ([]*domain.Video, int64, error) {
	var (
		conds []string
		args  []any
	)
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		conds = append(conds, fmt.Sprintf("v.owner_id = $%d", len(args)))
	}
	if !filter.IncludeUnpublished {
		conds = append(conds, "v.is_published")
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		conds = append(conds, fmt.Sprintf("(v.title ILIKE $%d OR v.description ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos v`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	orderBy, ok := sortColumns[filter.SortBy]
	if !ok {
		orderBy = sortColumns["createdAt"]
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	args = append(args, filter.Limit, offset(filter.Page, filter.Limit))
	query := fmt.Sprintf(`SELECT %s FROM videos v%s ORDER BY %s %s, v.id LIMIT $%d OFFSET $%d`,
		videoColumns, where, orderBy, direction, len(args)-1, len(args))

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []*domain.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate videos: %w", err)
	}

	return videos, total, nil
}

func (r *videoRepository) IncrementViews(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}

	return expectOneRow(result, "video", id)
}

func (r *videoRepository) UpdateDetails(ctx context.Context, id, title, description string) (*domain.Video, error) {
	query := `UPDATE videos v SET title = $2, description = $3, updated_at = $4 WHERE v.id = $1 RETURNING ` + videoColumns
	return r.updateOne(ctx, id, query, id, title, description, time.Now())
}

func (r *videoRepository) UpdateThumbnail(ctx context.Context, id, url string) (*domain.Video, error) {
	query := `UPDATE videos v SET thumbnail = $2, updated_at = $3 WHERE v.id = $1 RETURNING ` + videoColumns
	return r.updateOne(ctx, id, query, id, url, time.Now())
}

func (r *videoRepository) SetPublished(ctx context.Context, id string, published bool) (*domain.Video, error) {
	query := `UPDATE videos v SET is_published = $2, updated_at = $3 WHERE v.id = $1 RETURNING ` + videoColumns
	return r.updateOne(ctx, id, query, id, published, time.Now())
}

func (r *videoRepository) updateOne(ctx context.Context, id, query string, args ...any) (*domain.Video, error) {
	video, err := scanVideo(r.db.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("video with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	return video, nil
}

func (r *videoRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db.DB, func(tx *sql.Tx) error {
		statements := []string{
			`DELETE FROM likes WHERE comment_id IN (SELECT id FROM comments WHERE video_id = $1)`,
			`DELETE FROM likes WHERE video_id = $1`,
			`DELETE FROM comments WHERE video_id = $1`,
		}
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("failed to delete video dependents: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete video: %w", err)
		}

		return expectOneRow(result, "video", id)
	})
}

func scanVideo(row rowScanner) (*domain.Video, error) {
	video := &domain.Video{}

	err := row.Scan(
		&video.ID,
		&video.VideoFile,
		&video.Thumbnail,
		&video.Title,
		&video.Description,
		&video.Duration,
		&video.Views,
		&video.IsPublished,
		&video.Owner,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return video, nil
}
