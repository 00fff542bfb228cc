package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/The-Unpaid-Developers/core-service/internal/platform/retry"
)

// ConnectOptions bound how long and how often Connect tries to reach the server.
type ConnectOptions struct {
	Timeout        time.Duration // per ping attempt
	Attempts       int
	InitialBackoff time.Duration
	OnRetry        func(attempt int, err error, backoff time.Duration)
}

// Connect creates a client for uri and pings the primary until it answers or
// the attempts run out. The driver connects lazily, so the ping is what
// proves the server is reachable.
func Connect(ctx context.Context, uri string, opts ConnectOptions) (*mongo.Client, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetAppName("solutions-provision").
		SetConnectTimeout(opts.Timeout).
		SetServerSelectionTimeout(opts.Timeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	backoff := opts.InitialBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	policy := retry.Policy{
		MaxAttempts:    max(opts.Attempts, 1),
		InitialBackoff: backoff,
		MaxBackoff:     8 * time.Second,
		OnRetry:        opts.OnRetry,
	}

	err = retry.DoVoid(ctx, policy, ClassifyConnectError, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
		return client.Ping(pingCtx, readpref.Primary())
	})
	if err != nil {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	slog.InfoContext(ctx, "MongoDB connected", "uri", Redact(uri))
	return client, nil
}

// ClassifyConnectError decides whether a failed ping is worth repeating.
func ClassifyConnectError(err error) retry.Action {
	if errors.Is(err, context.Canceled) {
		return retry.Stop
	}

	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && (serverErr.HasErrorCode(codeAuthenticationFailed) || serverErr.HasErrorCode(codeUnauthorized)) {
		return retry.Stop
	}

	var selectionErr topology.ServerSelectionError
	if errors.As(err, &selectionErr) || mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return retry.Retry
	}

	return retry.Stop
}

// DatabaseFromURI returns the database path segment of a connection string, or "" when absent.
func DatabaseFromURI(uri string) string {
	_, rest, found := strings.Cut(uri, "://")
	if !found {
		return ""
	}
	rest, _, _ = strings.Cut(rest, "?")
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = rest[at+1:]
	}
	_, database, found := strings.Cut(rest, "/")
	if !found {
		return ""
	}
	if unescaped, err := url.PathUnescape(database); err == nil {
		return unescaped
	}
	return database
}

// Redact hides the password of a connection string for logging.
func Redact(uri string) string {
	scheme, rest, found := strings.Cut(uri, "://")
	if !found {
		return uri
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return uri
	}
	user, _, hasPassword := strings.Cut(rest[:at], ":")
	if !hasPassword {
		return uri
	}
	return scheme + "://" + user + ":***@" + rest[at+1:]
}
