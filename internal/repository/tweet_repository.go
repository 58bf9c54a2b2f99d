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

const tweetColumns = `t.id, t.content, t.owner_id, t.created_at, t.updated_at`

type tweetRepository struct {
	db *database.Postgres
}

func NewTweetRepository(db *database.Postgres) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *domain.Tweet) error {
	query := `INSERT INTO tweets (id, content, owner_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`

	if tweet.ID == "" {
		tweet.ID = uuid.New().String()
	}

	now := time.Now()
	if tweet.CreatedAt.IsZero() {
		tweet.CreatedAt = now
	}
	if tweet.UpdatedAt.IsZero() {
		tweet.UpdatedAt = now
	}

	if _, err := r.db.DB.ExecContext(ctx, query, tweet.ID, tweet.Content, tweet.Owner, tweet.CreatedAt, tweet.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create tweet: %w", err)
	}

	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id string) (*domain.Tweet, error) {
	query := `SELECT ` + tweetColumns + ` FROM tweets t WHERE t.id = $1`

	tweet, err := scanTweet(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tweet with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tweet: %w", err)
	}

	return tweet, nil
}

func (r *tweetRepository) ListByOwner(ctx context.Context, ownerID, callerID string) ([]*domain.TweetView, error) {
	query := `
		SELECT ` + tweetColumns + `,
			u.username, u.full_name, u.avatar,
			(SELECT COUNT(*) FROM likes l WHERE l.tweet_id = t.id),
			EXISTS (SELECT 1 FROM likes l WHERE l.tweet_id = t.id AND l.liked_by = $2)
		FROM tweets t
		JOIN users u ON u.id = t.owner_id
		WHERE t.owner_id = $1
		ORDER BY t.created_at DESC, t.id
	`

	rows, err := r.db.DB.QueryContext(ctx, query, ownerID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tweets: %w", err)
	}
	defer rows.Close()

	var tweets []*domain.TweetView
	for rows.Next() {
		view := &domain.TweetView{}
		t := &view.Tweet
		err := rows.Scan(
			&t.ID, &t.Content, &t.Owner, &t.CreatedAt, &t.UpdatedAt,
			&view.OwnerDetails.Username,
			&view.OwnerDetails.FullName,
			&view.OwnerDetails.Avatar,
			&view.LikesCount,
			&view.IsLiked,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tweet: %w", err)
		}
		view.OwnerDetails.ID = t.Owner
		tweets = append(tweets, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tweets: %w", err)
	}

	return tweets, nil
}

func (r *tweetRepository) UpdateContent(ctx context.Context, id, content string) (*domain.Tweet, error) {
	query := `UPDATE tweets t SET content = $2, updated_at = $3 WHERE t.id = $1 RETURNING ` + tweetColumns

	tweet, err := scanTweet(r.db.DB.QueryRowContext(ctx, query, id, content, time.Now()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tweet with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update tweet: %w", err)
	}

	return tweet, nil
}

func (r *tweetRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE tweet_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete tweet likes: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM tweets WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete tweet: %w", err)
		}

		return expectOneRow(result, "tweet", id)
	})
}

func scanTweet(row rowScanner) (*domain.Tweet, error) {
	tweet := &domain.Tweet{}
	if err := row.Scan(&tweet.ID, &tweet.Content, &tweet.Owner, &tweet.CreatedAt, &tweet.UpdatedAt); err != nil {
		return nil, err
	}
	return tweet, nil
}
