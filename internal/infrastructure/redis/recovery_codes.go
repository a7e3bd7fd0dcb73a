package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aishumaj/express-messagely/internal/domain"
)

const (
	// Newest entry first. Entry format: code:id:unix_millis
	CodesKeyPattern = "recovery_codes:%s"
	// Entries from CodesKeyPattern that have been redeemed
	UsedKeyPattern = "recovery_codes_used:%s"
	SequenceKey    = "recovery_codes_seq"
)

// claimScript marks the head entry used iff it carries the supplied code and is not yet used
var claimScript = redis.NewScript(`
local head = redis.call('LINDEX', KEYS[1], 0)
if not head then
  return 0
end
local code = string.match(head, '^(%d+):')
if code ~= ARGV[1] then
  return 0
end
if redis.call('SADD', KEYS[2], head) == 0 then
  return 0
end
redis.call('EXPIRE', KEYS[2], ARGV[2])
return 1
`)

// RecoveryCodeStore keeps one-time codes in a capped per-user list
type RecoveryCodeStore struct {
	client  *Client
	ttl     time.Duration
	history int64
}

// NewRecoveryCodeStore creates a store; history caps retained entries per user
func NewRecoveryCodeStore(client *Client, ttl time.Duration, history int64) *RecoveryCodeStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if history <= 0 {
		history = 20
	}
	return &RecoveryCodeStore{client: client, ttl: ttl, history: history}
}

func codesKey(username string) string { return fmt.Sprintf(CodesKeyPattern, username) }
func usedKey(username string) string  { return fmt.Sprintf(UsedKeyPattern, username) }

// Insert pushes a new unused code to the head of the user's list
func (s *RecoveryCodeStore) Insert(ctx context.Context, username, code string, createdAt time.Time) (*domain.RecoveryCode, error) {
	id, err := s.client.rdb.Incr(ctx, SequenceKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate recovery code id: %w", err)
	}

	entry := encodeEntry(code, id, createdAt)
	key := codesKey(username)
	_, err = s.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, entry)
		pipe.LTrim(ctx, key, 0, s.history-1)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store recovery code: %w", err)
	}

	return &domain.RecoveryCode{
		ID:        id,
		Code:      code,
		Username:  username,
		CreatedAt: createdAt,
	}, nil
}

// Latest returns the newest code for username or domain.ErrNotFound
func (s *RecoveryCodeStore) Latest(ctx context.Context, username string) (*domain.RecoveryCode, error) {
	entry, err := s.client.rdb.LIndex(ctx, codesKey(username), 0).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest recovery code: %w", err)
	}

	rc, err := decodeEntry(entry)
	if err != nil {
		return nil, err
	}
	rc.Username = username

	used, err := s.client.rdb.SIsMember(ctx, usedKey(username), entry).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check recovery code state: %w", err)
	}
	rc.Used = used
	return rc, nil
}

// MarkUsed flags every retained entry carrying code; no-op when none match
func (s *RecoveryCodeStore) MarkUsed(ctx context.Context, username, code string) error {
	entries, err := s.client.rdb.LRange(ctx, codesKey(username), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list recovery codes: %w", err)
	}

	var matched []interface{}
	for _, entry := range entries {
		if strings.HasPrefix(entry, code+":") {
			matched = append(matched, entry)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	key := usedKey(username)
	_, err = s.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, matched...)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark recovery code used: %w", err)
	}
	return nil
}

// ClaimLatest atomically redeems the newest code if it equals code and is unused
func (s *RecoveryCodeStore) ClaimLatest(ctx context.Context, username, code string) (bool, error) {
	res, err := claimScript.Run(ctx, s.client.rdb,
		[]string{codesKey(username), usedKey(username)},
		code, int64(s.ttl.Seconds()),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to claim recovery code: %w", err)
	}
	return res == 1, nil
}

func encodeEntry(code string, id int64, createdAt time.Time) string {
	return fmt.Sprintf("%s:%d:%d", code, id, createdAt.UnixMilli())
}

func decodeEntry(entry string) (*domain.RecoveryCode, error) {
	parts := strings.Split(entry, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed recovery code entry %q", entry)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed recovery code id %q: %w", parts[1], err)
	}
	millis, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed recovery code timestamp %q: %w", parts[2], err)
	}
	return &domain.RecoveryCode{
		ID:        id,
		Code:      parts[0],
		CreatedAt: time.UnixMilli(millis),
	}, nil
}
