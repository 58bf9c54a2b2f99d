package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/pkg/database"
)

type subscriptionRepository struct {
	db *database.Postgres
}

func NewSubscriptionRepository(db *database.Postgres) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	result, err := r.db.DB.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to unsubscribe: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if removed > 0 {
		return false, nil
	}

	_, err = r.db.DB.ExecContext(ctx,
		`INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), subscriberID, channelID, time.Now())
	if err != nil {
		if uniqueConstraint(err) != "" {
			return true, nil
		}
		return false, fmt.Errorf("failed to subscribe: %w", err)
	}

	return true, nil
}

func (r *subscriptionRepository) Subscribers(ctx context.Context, channelID string) ([]*domain.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.avatar
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC
	`
	return r.listUsers(ctx, query, channelID)
}

func (r *subscriptionRepository) Channels(ctx context.Context, subscriberID string) ([]*domain.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.avatar
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC
	`
	return r.listUsers(ctx, query, subscriberID)
}

func (r *subscriptionRepository) listUsers(ctx context.Context, query, id string) ([]*domain.UserSummary, error) {
	rows, err := r.db.DB.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	users := []*domain.UserSummary{}
	for rows.Next() {
		u := &domain.UserSummary{}
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Avatar); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}

	return users, nil
}

func (r *subscriptionRepository) ChannelStats(ctx context.Context, channelID, callerID string) (int64, int64, bool, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1),
			(SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1),
			EXISTS (SELECT 1 FROM subscriptions WHERE channel_id = $1 AND subscriber_id = $2)
	`

	var subscribers, subscribedTo int64
	var isSubscribed bool
	if err := r.db.DB.QueryRowContext(ctx, query, channelID, callerID).Scan(&subscribers, &subscribedTo, &isSubscribed); err != nil {
		return 0, 0, false, fmt.Errorf("failed to get channel stats: %w", err)
	}

	return subscribers, subscribedTo, isSubscribed, nil
}
