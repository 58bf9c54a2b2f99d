package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const authMeterName = "github.com/prperemyshlev/videotube/auth"

// AuthMetrics counts session lifecycle events. A nil *AuthMetrics records
// nothing, so services can run without a meter provider.
type AuthMetrics struct {
	logins    metric.Int64Counter
	refreshes metric.Int64Counter
	failures  metric.Int64Counter
}

func NewAuthMetrics(provider metric.MeterProvider) (*AuthMetrics, error) {
	meter := provider.Meter(authMeterName)

	logins, err := meter.Int64Counter("auth.logins",
		metric.WithDescription("Successful logins"))
	if err != nil {
		return nil, fmt.Errorf("failed to create logins counter: %w", err)
	}

	refreshes, err := meter.Int64Counter("auth.refreshes",
		metric.WithDescription("Successful refresh token rotations"))
	if err != nil {
		return nil, fmt.Errorf("failed to create refreshes counter: %w", err)
	}

	failures, err := meter.Int64Counter("auth.failures",
		metric.WithDescription("Rejected login, refresh and access attempts"))
	if err != nil {
		return nil, fmt.Errorf("failed to create failures counter: %w", err)
	}

	return &AuthMetrics{logins: logins, refreshes: refreshes, failures: failures}, nil
}

func (m *AuthMetrics) RecordLogin(ctx context.Context) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1)
}

func (m *AuthMetrics) RecordRefresh(ctx context.Context) {
	if m == nil {
		return
	}
	m.refreshes.Add(ctx, 1)
}

// RecordFailure counts a rejected operation; reason is a short fixed label.
func (m *AuthMetrics) RecordFailure(ctx context.Context, operation, reason string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("reason", reason),
	))
}
