package chat

import (
	"context"
	"log"
	"time"
)

const (
	DefaultRetention     = 7 * 24 * time.Hour
	DefaultSweepInterval = time.Hour
)

// StartRetentionSweeper periodically deletes sessions idle past the TTL.
// The most recently active session is always preserved, regardless of age,
// so a sweep never leaves the user without a conversation.
func (s *Service) StartRetentionSweeper(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if ttl <= 0 {
		ttl = DefaultRetention
	}
	go s.sweepLoop(ctx, interval, ttl)
}

func (s *Service) sweepLoop(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sweepExpired(ctx, ttl); err != nil {
				log.Printf("session retention sweep error: %v", err)
			}
		}
	}
}

func (s *Service) sweepExpired(ctx context.Context, ttl time.Duration) error {
	cutoff := time.Now().UTC().Add(-ttl)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM sessions
		WHERE updated_at < ?
		AND id != (SELECT id FROM sessions ORDER BY updated_at DESC LIMIT 1)`,
		cutoff,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	var expired []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		expired = append(expired, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range expired {
		if err := s.DeleteSession(ctx, id); err != nil {
			log.Printf("sweep delete session %d failed: %v", id, err)
		}
	}
	if len(expired) > 0 {
		log.Printf("session retention sweep removed %d sessions", len(expired))
	}
	return nil
}
