// Package pending stores the action a user attempted without enough
// credit, so a successful purchase can replay it. Storage is best-effort:
// it lives in Redis with a TTL, survives the checkout redirect, and is
// silently skipped when Redis is not configured. Losing an entry never
// loses credit, it only skips the automatic replay.
package pending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/listora/listora-api/internal/domain/credit"
)

// TTL covers the Stripe redirect gap, which can run to hours.
const actionTTL = 24 * time.Hour

// Action is a blocked consumption attempt.
type Action struct {
	ListingID   string
	DisplayPage string
}

type Store struct {
	client *redis.Client
}

// NewStore accepts a nil client; all operations become no-ops.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(userID string, t credit.Type) string {
	return fmt.Sprintf("pending:%s:%s", userID, t)
}

// Put records the blocked action, overwriting any previous one for the
// same (user, credit type) pair. The most recent attempt wins.
func (s *Store) Put(ctx context.Context, userID string, t credit.Type, a Action) {
	if s.client == nil {
		return
	}
	value := a.ListingID
	if a.DisplayPage != "" {
		value += "|" + a.DisplayPage
	}
	if err := s.client.Set(ctx, key(userID, t), value, actionTTL).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("credit_type", string(t)).
			Msg("pending action not recorded")
	}
}

// Pop atomically fetches and deletes the pending action, so two concurrent
// reconciliations for the same credit type replay it at most once. Returns
// ok=false when nothing is pending.
func (s *Store) Pop(ctx context.Context, userID string, t credit.Type) (Action, bool) {
	if s.client == nil {
		return Action{}, false
	}
	value, err := s.client.GetDel(ctx, key(userID, t)).Result()
	if errors.Is(err, redis.Nil) {
		return Action{}, false
	}
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("credit_type", string(t)).
			Msg("pending action lookup failed")
		return Action{}, false
	}
	return parse(value), true
}

// Clear drops a pending action without replaying it, e.g. when the user
// abandons the flow.
func (s *Store) Clear(ctx context.Context, userID string, t credit.Type) {
	if s.client == nil {
		return
	}
	s.client.Del(ctx, key(userID, t))
}

func parse(value string) Action {
	for i := 0; i < len(value); i++ {
		if value[i] == '|' {
			return Action{ListingID: value[:i], DisplayPage: value[i+1:]}
		}
	}
	return Action{ListingID: value}
}
