package storage

import (
	"context"
	"encoding/json"
	"time"

	"mlaconnect/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	otpKeyPrefix    = "otp:"
	otpAttemptsKey  = "otp_attempts:"
	ActivityChannel = "activity:"
	activityPattern = ActivityChannel + "*"
)

// SaveResetOTP stores the hash of a password-reset code, replacing any earlier one.
// The failed-attempt counter starts over with each new code.
func (s *Service) SaveResetOTP(ctx context.Context, userID, otpHash string, ttl time.Duration) error {
	_, err := s.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, otpKeyPrefix+userID, otpHash, ttl)
		p.Del(ctx, otpAttemptsKey+userID)
		return nil
	})
	return err
}

// GetResetOTP returns ErrNotFound once the code has expired or been used.
func (s *Service) GetResetOTP(ctx context.Context, userID string) (string, error) {
	hash, err := s.Redis.Get(ctx, otpKeyPrefix+userID).Result()
	if err != nil {
		return "", translate(err)
	}
	return hash, nil
}

func (s *Service) DeleteResetOTP(ctx context.Context, userID string) error {
	return s.Redis.Del(ctx, otpKeyPrefix+userID, otpAttemptsKey+userID).Err()
}

// RecordOTPFailure counts a wrong reset code and returns the running total.
// The counter expires with ttl.
func (s *Service) RecordOTPFailure(ctx context.Context, userID string, ttl time.Duration) (int64, error) {
	key := otpAttemptsKey + userID
	var incr *redis.IntCmd
	_, err := s.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// PublishActivity publishes ev on the MLA's activity channel.
func (s *Service) PublishActivity(ctx context.Context, ev models.ActivityEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, ActivityChannel+ev.MlaID, payload).Err()
}

// SubscribeActivity listens on every MLA's activity channel.
func (s *Service) SubscribeActivity(ctx context.Context) *redis.PubSub {
	return s.Redis.PSubscribe(ctx, activityPattern)
}
