package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/pkg/database"
)

// likeColumns maps a like kind to its target column.
var likeColumns = map[domain.LikeKind]string{
	domain.LikeVideo:   "video_id",
	domain.LikeComment: "comment_id",
	domain.LikeTweet:   "tweet_id",
}

type likeRepository struct {
	db *database.Postgres
}

func NewLikeRepository(db *database.Postgres) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Toggle(ctx context.Context, userID string, target domain.LikeTarget) (bool, error) {
	column, ok := likeColumns[target.Kind]
	if !ok {
		return false, fmt.Errorf("unknown like target %q", target.Kind)
	}

	result, err := r.db.DB.ExecContext(ctx,
		`DELETE FROM likes WHERE liked_by = $1 AND `+column+` = $2`, userID, target.ID)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if removed > 0 {
		return false, nil
	}

	_, err = r.db.DB.ExecContext(ctx,
		`INSERT INTO likes (id, liked_by, `+column+`, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), userID, target.ID, time.Now())
	if err != nil {
		// a concurrent toggle inserted the same like first
		if uniqueConstraint(err) != "" {
			return true, nil
		}
		return false, fmt.Errorf("failed to add like: %w", err)
	}

	return true, nil
}

func (r *likeRepository) LikedVideos(ctx context.Context, userID string) ([]*domain.VideoDetails, error) {
	query := `
		SELECT ` + videoColumns + `,
			u.username, u.full_name, u.avatar,
			(SELECT COUNT(*) FROM likes lc WHERE lc.video_id = v.id)
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE l.liked_by = $1 AND (v.is_published OR v.owner_id = $1)
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked videos: %w", err)
	}
	defer rows.Close()

	var videos []*domain.VideoDetails
	for rows.Next() {
		details := &domain.VideoDetails{IsLiked: true}
		v := &details.Video
		err := rows.Scan(
			&v.ID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description, &v.Duration,
			&v.Views, &v.IsPublished, &v.Owner, &v.CreatedAt, &v.UpdatedAt,
			&details.OwnerDetails.Username,
			&details.OwnerDetails.FullName,
			&details.OwnerDetails.Avatar,
			&details.LikesCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan liked video: %w", err)
		}
		details.OwnerDetails.ID = v.Owner
		videos = append(videos, details)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate liked videos: %w", err)
	}

	return videos, nil
}
