package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a session id does not resolve to a user.
var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Store keeps server-side sessions in redis, keyed by an opaque id handed
// to the client in a cookie. Expiry is delegated to redis TTLs.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

type StoreConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TTL          time.Duration
}

func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Addr:         "localhost:6379",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		TTL:          7 * 24 * time.Hour,
	}
}

func NewStore(config *StoreConfig) *Store {
	if config == nil {
		config = DefaultStoreConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	return &Store{client: client, ttl: config.TTL}
}

// NewStoreWithClient wraps an existing redis client, mainly for tests.
func NewStoreWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create issues a fresh opaque session id mapped to userID.
func (s *Store) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	sid, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := s.client.Set(ctx, keyPrefix+sid.String(), userID.String(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return sid.String(), nil
}

// Get resolves a session id to its user. Missing or expired sessions
// return ErrNotFound.
func (s *Store) Get(ctx context.Context, sid string) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	value, err := s.client.Get(ctx, keyPrefix+sid).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read session: %w", err)
	}

	userID, err := uuid.FromString(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt session payload: %w", err)
	}
	return userID, nil
}

// Destroy removes the session server-side. Destroying an unknown id is not
// an error.
func (s *Store) Destroy(ctx context.Context, sid string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := s.client.Del(ctx, keyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
