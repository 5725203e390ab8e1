package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/deskbridge/deskbridge/mapping"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of mapping.Store
 * One key per direction so either side resolves with a single GET:
 *   bridge:thread:{thread_id} -> ticket_id
 *   bridge:ticket:{ticket_id} -> thread_id
 */

const (
	threadKeyPrefix = "bridge:thread"
	ticketKeyPrefix = "bridge:ticket"
)

type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis mapping store
func NewStore(addr, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Store{client: client}, nil
}

// TicketForThread resolves the ticket id mapped to a thread
func (s *Store) TicketForThread(ctx context.Context, threadID string) (string, error) {
	key := fmt.Sprintf("%s:%s", threadKeyPrefix, threadID)
	ticketID, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting ticket for thread: %w", err)
	}
	return ticketID, nil
}

// ThreadForTicket resolves the thread id mapped to a ticket
func (s *Store) ThreadForTicket(ctx context.Context, ticketID string) (string, error) {
	key := fmt.Sprintf("%s:%s", ticketKeyPrefix, ticketID)
	threadID, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting thread for ticket: %w", err)
	}
	return threadID, nil
}

// Save stores both directions of the association with the same TTL
func (s *Store) Save(ctx context.Context, m mapping.Mapping, ttl time.Duration) error {
	threadKey := fmt.Sprintf("%s:%s", threadKeyPrefix, m.ThreadID)
	ticketKey := fmt.Sprintf("%s:%s", ticketKeyPrefix, m.TicketID)

	if err := s.client.Set(ctx, threadKey, m.TicketID, ttl).Err(); err != nil {
		return fmt.Errorf("saving thread mapping: %w", err)
	}
	if err := s.client.Set(ctx, ticketKey, m.ThreadID, ttl).Err(); err != nil {
		return fmt.Errorf("saving ticket mapping: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *Store) Close(ctx context.Context) error {
	return s.client.Close()
}
