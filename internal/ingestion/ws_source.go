package ingestion

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"athens-property-lab/internal/domain"
)

// FeedConfig configures the live listing feed source.
type FeedConfig struct {
	// HandshakeTimeout bounds the WebSocket dial.
	HandshakeTimeout time.Duration
	// IdleTimeout ends a Fetch once the feed has been quiet this long.
	IdleTimeout time.Duration
	// MaxRecords caps one Fetch batch. 0 means unlimited.
	MaxRecords int
	// ReconnectDelay is the initial delay before a redial attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the redial backoff.
	MaxReconnectDelay time.Duration
	// MaxReconnects bounds redial attempts within one Fetch.
	MaxReconnects int
}

// DefaultFeedConfig returns the default feed configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		HandshakeTimeout:  10 * time.Second,
		IdleTimeout:       30 * time.Second,
		MaxRecords:        5000,
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		MaxReconnects:     3,
	}
}

// FeedSource pulls raw listings from a live WebSocket feed. Each feed
// message is one JSON listing record. A Fetch drains the feed until it
// goes idle, the record cap is reached, or the context ends.
type FeedSource struct {
	endpoint string
	config   FeedConfig
	logger   *log.Logger
	now      func() time.Time
}

// NewFeedSource creates a feed source for the given endpoint.
func NewFeedSource(endpoint string, config *FeedConfig, logger *log.Logger) *FeedSource {
	cfg := DefaultFeedConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = log.Default()
	}
	return &FeedSource{
		endpoint: endpoint,
		config:   cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *FeedSource) Name() string {
	return fmt.Sprintf("feed:%s", s.endpoint)
}

// Fetch drains the feed into one batch. A dropped connection is
// redialed with exponential backoff; records collected before the drop
// are kept. Returns an error only when no connection could be made at
// all.
func (s *FeedSource) Fetch(ctx context.Context) ([]*domain.RawListing, error) {
	var raws []*domain.RawListing
	delay := s.config.ReconnectDelay

	for attempt := 0; ; attempt++ {
		conn, err := s.dial(ctx)
		if err != nil {
			if len(raws) > 0 {
				// Partial batch beats nothing.
				s.logger.Printf("[feed] redial failed, returning partial batch of %d: %v", len(raws), err)
				return raws, nil
			}
			if attempt >= s.config.MaxReconnects {
				return nil, fmt.Errorf("feed dial: %w", err)
			}
			s.logger.Printf("[feed] dial failed (attempt %d), retrying in %v: %v", attempt+1, delay, err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return raws, ctx.Err()
			}
			delay *= 2
			if delay > s.config.MaxReconnectDelay {
				delay = s.config.MaxReconnectDelay
			}
			continue
		}
		delay = s.config.ReconnectDelay

		raws, err = s.drain(ctx, conn, raws)
		conn.Close()
		if err == nil || ctx.Err() != nil {
			return raws, nil
		}
		if attempt >= s.config.MaxReconnects {
			s.logger.Printf("[feed] giving up after %d reconnects with %d records", attempt+1, len(raws))
			return raws, nil
		}
		s.logger.Printf("[feed] connection dropped, reconnecting: %v", err)
	}
}

func (s *FeedSource) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: s.config.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// drain reads feed messages onto raws until the feed goes idle or
// closes normally. A read error other than a normal close is returned
// so the caller can redial.
func (s *FeedSource) drain(ctx context.Context, conn *websocket.Conn, raws []*domain.RawListing) ([]*domain.RawListing, error) {
	for {
		if err := ctx.Err(); err != nil {
			return raws, nil
		}
		if s.config.MaxRecords > 0 && len(raws) >= s.config.MaxRecords {
			s.logger.Printf("[feed] record cap %d reached", s.config.MaxRecords)
			return raws, nil
		}

		conn.SetReadDeadline(s.now().Add(s.config.IdleTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return raws, nil
			}
			if ne, ok := err.(interface{ Timeout() bool }); ok && ne.Timeout() {
				// Idle feed, batch is complete.
				return raws, nil
			}
			return raws, err
		}

		raw, err := DecodeRawRecord(message, domain.SourceFeed, s.now().UnixMilli())
		if err != nil {
			// One malformed message must not poison the batch.
			s.logger.Printf("[feed] skipping malformed message: %v", err)
			continue
		}
		raws = append(raws, raw)
	}
}

var _ ListingSource = (*FeedSource)(nil)
