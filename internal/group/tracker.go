// Package group tracks open event groups in Redis. A group correlates the
// events of one logical user action (e.g. a multi-block drag); clients open
// a group, stamp its ID onto the events they emit, and close it when the
// action completes. Abandoned groups expire via TTL.
package group

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/blockboard/eventlog/internal/event"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a group has been closed or has expired.
var ErrNotFound = errors.New("group not found")

// Tracker manages group lifecycle state in Redis, one hash per group.
type Tracker struct {
	redisClient *redis.Client
	logger      *slog.Logger
	ttl         time.Duration
}

// State describes an open group.
type State struct {
	ID          string    `json:"group_id"`
	WorkspaceID string    `json:"workspace_id"`
	OpenedAt    time.Time `json:"opened_at"`
	Events      int       `json:"events"`
}

func NewTracker(redisClient *redis.Client, logger *slog.Logger, ttl time.Duration) *Tracker {
	return &Tracker{
		redisClient: redisClient,
		logger:      logger,
		ttl:         ttl,
	}
}

func grpKey(id string) string {
	return fmt.Sprintf("grp:%s", id)
}

// Open mints a new group for a workspace and returns its ID. The group
// lives until Close or until the TTL elapses.
func (t *Tracker) Open(ctx context.Context, workspaceID string) (string, error) {
	id, err := event.NewGroupID()
	if err != nil {
		return "", fmt.Errorf("generating group ID: %w", err)
	}

	key := grpKey(id)
	err = t.redisClient.HSet(ctx, key,
		"workspace_id", workspaceID,
		"opened_at", time.Now().Unix(),
		"events", 0,
	).Err()
	if err != nil {
		return "", fmt.Errorf("opening group: %w", err)
	}

	if err := t.redisClient.Expire(ctx, key, t.ttl).Err(); err != nil {
		return "", fmt.Errorf("setting group TTL: %w", err)
	}

	t.logger.Debug("group opened", "group_id", id, "workspace_id", workspaceID)
	return id, nil
}

// Get returns the state of an open group, or (nil, nil) when the group is
// unknown, closed, or expired.
func (t *Tracker) Get(ctx context.Context, id string) (*State, error) {
	data, err := t.redisClient.HGetAll(ctx, grpKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading group: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	openedAt, _ := strconv.ParseInt(data["opened_at"], 10, 64)
	events, _ := strconv.Atoi(data["events"])

	return &State{
		ID:          id,
		WorkspaceID: data["workspace_id"],
		OpenedAt:    time.Unix(openedAt, 0).UTC(),
		Events:      events,
	}, nil
}

// RecordEvent bumps a group's event counter. Unknown or expired groups are
// ignored — the journal row already carries the group ID, the counter is
// bookkeeping only.
func (t *Tracker) RecordEvent(ctx context.Context, id string) {
	key := grpKey(id)

	// Exists first: HIncrBy on a missing key would resurrect an expired group.
	n, err := t.redisClient.Exists(ctx, key).Result()
	if err != nil {
		t.logger.Error("failed to check group", "error", err, "group_id", id)
		return
	}
	if n == 0 {
		return
	}

	if err := t.redisClient.HIncrBy(ctx, key, "events", 1).Err(); err != nil {
		t.logger.Error("failed to record group event", "error", err, "group_id", id)
	}
}

// Close removes a group. Returns ErrNotFound when there is nothing to close.
func (t *Tracker) Close(ctx context.Context, id string) error {
	n, err := t.redisClient.Del(ctx, grpKey(id)).Result()
	if err != nil {
		return fmt.Errorf("closing group: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	t.logger.Debug("group closed", "group_id", id)
	return nil
}
