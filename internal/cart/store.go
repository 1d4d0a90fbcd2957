package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kofiadjei/sleekline-backend/pkg/logger"
)

const snapshotTTL = 30 * 24 * time.Hour

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// Store exposes session-scoped cart mutations. Every mutation persists the
// snapshot before returning it.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Snapshot, error)
	Add(ctx context.Context, sessionID string, item Item) (*Snapshot, bool, error)
	Remove(ctx context.Context, sessionID, productID string, variant *string) (*Snapshot, error)
	SetQuantity(ctx context.Context, sessionID, productID string, quantity int, variant *string) (*Snapshot, error)
	Clear(ctx context.Context, sessionID string) error
	ApplyCoupon(ctx context.Context, sessionID, code string) (*Snapshot, error)
	RemoveCoupon(ctx context.Context, sessionID string) (*Snapshot, error)
}

type store struct {
	kv   kvStore
	logg *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore builds a Redis-persisted cart store.
func NewStore(kv kvStore, logg *logger.Logger) (Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv store required")
	}
	return &store{
		kv:    kv,
		logg:  logg,
		locks: map[string]*sync.Mutex{},
	}, nil
}

// sessionLock serializes mutations per session. Distinct clients racing on the
// same session key remain last-write-wins, same as concurrent browser tabs.
func (s *store) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

// load deserializes the stored snapshot, falling open to an empty cart when the
// key is missing or the payload does not parse.
func (s *store) load(ctx context.Context, sessionID string) Snapshot {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(sessionID))
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.logg != nil {
			s.logg.Warn(ctx, "cart snapshot load failed, starting empty")
		}
		return Snapshot{}
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "cart snapshot corrupt, starting empty")
		}
		return Snapshot{}
	}
	return snap
}

func (s *store) persist(ctx context.Context, sessionID string, snap Snapshot) (*Snapshot, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal cart snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(sessionID), string(payload), snapshotTTL); err != nil {
		return nil, fmt.Errorf("persist cart snapshot: %w", err)
	}
	return &snap, nil
}

func (s *store) Get(ctx context.Context, sessionID string) (*Snapshot, error) {
	snap := s.load(ctx, sessionID)
	return &snap, nil
}

func (s *store) Add(ctx context.Context, sessionID string, item Item) (*Snapshot, bool, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	snap := mergeAdd(s.load(ctx, sessionID), item)
	persisted, err := s.persist(ctx, sessionID, snap)
	if err != nil {
		return nil, false, err
	}
	// the second return is the mini-cart "opened" hint for consuming UIs
	return persisted, true, nil
}

func (s *store) Remove(ctx context.Context, sessionID, productID string, variant *string) (*Snapshot, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	snap := removeLine(s.load(ctx, sessionID), productID, variant)
	return s.persist(ctx, sessionID, snap)
}

func (s *store) SetQuantity(ctx context.Context, sessionID, productID string, quantity int, variant *string) (*Snapshot, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	snap := setQuantity(s.load(ctx, sessionID), productID, quantity, variant)
	return s.persist(ctx, sessionID, snap)
}

func (s *store) Clear(ctx context.Context, sessionID string) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.kv.Del(ctx, s.kv.CartKey(sessionID)); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *store) ApplyCoupon(ctx context.Context, sessionID, code string) (*Snapshot, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := applyCoupon(s.load(ctx, sessionID), code)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, sessionID, snap)
}

func (s *store) RemoveCoupon(ctx context.Context, sessionID string) (*Snapshot, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	snap := removeCoupon(s.load(ctx, sessionID))
	return s.persist(ctx, sessionID, snap)
}
