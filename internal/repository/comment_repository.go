package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/pkg/database"
)

const commentColumns = `c.id, c.content, c.video_id, c.owner_id, c.created_at, c.updated_at`

type commentRepository struct {
	db *database.Postgres
}

func NewCommentRepository(db *database.Postgres) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (id, content, video_id, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}

	now := time.Now()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	if comment.UpdatedAt.IsZero() {
		comment.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		comment.ID,
		comment.Content,
		comment.VideoID,
		comment.Owner,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments c WHERE c.id = $1`

	comment, err := scanComment(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

// ListByVideo returns newest-first comments of a video with like counters.
func (r *commentRepository) ListByVideo(ctx context.Context, videoID, callerID string, page, limit int) ([]*domain.CommentView, int64, error) {
	var total int64
	if err := r.db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE video_id = $1`, videoID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := `
		SELECT ` + commentColumns + `,
			u.username, u.full_name, u.avatar,
			(SELECT COUNT(*) FROM likes l WHERE l.comment_id = c.id),
			EXISTS (SELECT 1 FROM likes l WHERE l.comment_id = c.id AND l.liked_by = $2)
		FROM comments c
		JOIN users u ON u.id = c.owner_id
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC, c.id
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.DB.QueryContext(ctx, query, videoID, callerID, limit, offset(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.CommentView
	for rows.Next() {
		view := &domain.CommentView{}
		c := &view.Comment
		err := rows.Scan(
			&c.ID, &c.Content, &c.VideoID, &c.Owner, &c.CreatedAt, &c.UpdatedAt,
			&view.OwnerDetails.Username,
			&view.OwnerDetails.FullName,
			&view.OwnerDetails.Avatar,
			&view.LikesCount,
			&view.IsLiked,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan comment: %w", err)
		}
		view.OwnerDetails.ID = c.Owner
		comments = append(comments, view)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, total, nil
}

// UpdateContent changes only the content; the owner column is never written.
func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) (*domain.Comment, error) {
	query := `UPDATE comments c SET content = $2, updated_at = $3 WHERE c.id = $1 RETURNING ` + commentColumns

	comment, err := scanComment(r.db.DB.QueryRowContext(ctx, query, id, content, time.Now()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE comment_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete comment likes: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}

		return expectOneRow(result, "comment", id)
	})
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	comment := &domain.Comment{}

	err := row.Scan(
		&comment.ID,
		&comment.Content,
		&comment.VideoID,
		&comment.Owner,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return comment, nil
}
