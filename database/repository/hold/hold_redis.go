package holdRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salonbook/models"
	"salonbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RedisHoldRepo implements HoldRepository on Redis. The physical TTL on hold
// documents is HoldDuration + HoldStorageGrace: correctness never depends on
// it, but it bounds how long a forgotten hold can linger.
type RedisHoldRepo struct {
	Client *redis.Client
}

// NewRedisHoldRepo constructs a new instance of RedisHoldRepo.
func NewRedisHoldRepo(client *redis.Client) *RedisHoldRepo {
	return &RedisHoldRepo{Client: client}
}

func (repo *RedisHoldRepo) storageTTL() time.Duration {
	return utils.HoldDuration + utils.HoldStorageGrace
}

// Create persists a new hold, superseding the session's prior hold for the
// same salon/date if one exists.
func (repo *RedisHoldRepo) Create(ctx context.Context, hold *models.Hold) error {
	now := time.Now()
	hold.ID = uuid.New().String()
	hold.Status = models.HoldStatusActive
	hold.CreatedAt = now
	hold.ExpiresAt = now.Add(utils.HoldDuration)

	sessKey := sessionKey(hold.SessionID, hold.SalonID, hold.Date)

	// Invalidate the session's prior hold for this date, if any.
	priorID, err := repo.Client.Get(ctx, sessKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read prior hold pointer: %w", err)
	}
	if priorID != "" {
		if err := repo.removeHold(ctx, hold.SalonID, hold.Date, priorID, hold.SessionID); err != nil {
			return fmt.Errorf("failed to supersede prior hold %s: %w", priorID, err)
		}
	}

	data, err := json.Marshal(hold)
	if err != nil {
		return fmt.Errorf("failed to marshal hold: %w", err)
	}

	ttl := repo.storageTTL()
	pipe := repo.Client.TxPipeline()
	pipe.Set(ctx, holdKey(hold.SalonID, hold.Date, hold.ID), data, ttl)
	pipe.Set(ctx, sessKey, hold.ID, ttl)
	pipe.SAdd(ctx, indexKey(hold.SalonID, hold.Date), hold.ID)
	pipe.SAdd(ctx, ownerKey(hold.SessionID), ownerMember(hold.SalonID, hold.Date, hold.ID))
	pipe.Expire(ctx, ownerKey(hold.SessionID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store hold: %w", err)
	}

	repo.publishChange(ctx, hold.SalonID, hold.Date)
	return nil
}

// Release removes the hold if the session owns it. A release from a session
// that does not own the hold is a no-op, not an error.
func (repo *RedisHoldRepo) Release(ctx context.Context, holdID, sessionID string) error {
	members, err := repo.Client.SMembers(ctx, ownerKey(sessionID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read session holds: %w", err)
	}
	for _, member := range members {
		salonID, date, id, ok := parseOwnerMember(member)
		if !ok || id != holdID {
			continue
		}
		if err := repo.removeHold(ctx, salonID, date, holdID, sessionID); err != nil {
			return err
		}
		repo.publishChange(ctx, salonID, date)
		return nil
	}
	// Unknown id or foreign hold: nothing to do.
	return nil
}

// ReleaseAll removes every hold owned by the session.
func (repo *RedisHoldRepo) ReleaseAll(ctx context.Context, sessionID string) error {
	members, err := repo.Client.SMembers(ctx, ownerKey(sessionID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read session holds: %w", err)
	}
	for _, member := range members {
		salonID, date, holdID, ok := parseOwnerMember(member)
		if !ok {
			continue
		}
		if err := repo.removeHold(ctx, salonID, date, holdID, sessionID); err != nil {
			return err
		}
		repo.publishChange(ctx, salonID, date)
	}
	return nil
}

// ListActive returns all stored holds for a salon/date. Holds whose physical
// TTL has lapsed are swept out of the index here; holds past their logical
// expiry but still stored are returned, and callers must filter them.
func (repo *RedisHoldRepo) ListActive(ctx context.Context, salonID, date string) ([]models.Hold, error) {
	idxKey := indexKey(salonID, date)
	ids, err := repo.Client.SMembers(ctx, idxKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read hold index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = holdKey(salonID, date, id)
	}
	values, err := repo.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read holds: %w", err)
	}

	logger := utils.GetLogger()
	var holds []models.Hold
	for i, v := range values {
		if v == nil {
			// Physically expired: sweep the index on read.
			repo.Client.SRem(ctx, idxKey, ids[i])
			continue
		}
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var h models.Hold
		if err := json.Unmarshal([]byte(raw), &h); err != nil {
			logger.Warn("skipping undecodable hold", zap.String("holdId", ids[i]), zap.Error(err))
			continue
		}
		if h.Status != models.HoldStatusActive {
			continue
		}
		holds = append(holds, h)
	}
	return holds, nil
}

// Reap physically deletes the hold if its logical expiry has passed.
func (repo *RedisHoldRepo) Reap(ctx context.Context, salonID, date, holdID string) error {
	raw, err := repo.Client.Get(ctx, holdKey(salonID, date, holdID)).Result()
	if errors.Is(err, redis.Nil) {
		repo.Client.SRem(ctx, indexKey(salonID, date), holdID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read hold %s: %w", holdID, err)
	}

	var h models.Hold
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return fmt.Errorf("failed to decode hold %s: %w", holdID, err)
	}
	if h.ExpiresAt.After(time.Now()) {
		return nil
	}
	if err := repo.removeHold(ctx, salonID, date, holdID, h.SessionID); err != nil {
		return err
	}
	repo.publishChange(ctx, salonID, date)
	return nil
}

// Subscribe delivers a callback on every hold-set change for a salon/date.
// The returned handle stops delivery and closes the subscription.
func (repo *RedisHoldRepo) Subscribe(ctx context.Context, salonID, date string, fn func()) (func(), error) {
	sub := repo.Client.Subscribe(ctx, changeChannel(salonID, date))
	if _, err := sub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("failed to subscribe to hold changes: %w", err)
	}

	ch := sub.Channel()
	go func() {
		for range ch {
			fn()
		}
	}()
	return func() { _ = sub.Close() }, nil
}

func (repo *RedisHoldRepo) removeHold(ctx context.Context, salonID, date, holdID, sessionID string) error {
	pipe := repo.Client.TxPipeline()
	pipe.Del(ctx, holdKey(salonID, date, holdID))
	pipe.Del(ctx, sessionKey(sessionID, salonID, date))
	pipe.SRem(ctx, indexKey(salonID, date), holdID)
	pipe.SRem(ctx, ownerKey(sessionID), ownerMember(salonID, date, holdID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove hold %s: %w", holdID, err)
	}
	return nil
}

func (repo *RedisHoldRepo) publishChange(ctx context.Context, salonID, date string) {
	if err := repo.Client.Publish(ctx, changeChannel(salonID, date), "changed").Err(); err != nil {
		utils.GetLogger().Warn("failed to publish hold change",
			zap.String("salonId", salonID), zap.String("date", date), zap.Error(err))
	}
}
