package realtime

import (
	"context"
	"strings"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"jobs-srv/pkg/log"
	"jobs-srv/pkg/redis"
)

// userChannelPattern matches the topics the in-app channel publishes to.
const userChannelPattern = "notification:user:*"

// userSink receives payloads routed to a single user's connections.
type userSink interface {
	SendToUser(userID string, message []byte)
}

// Subscriber relays in-app notification payloads from redis pub/sub to the
// hub, so dashboards on any node see notifications dispatched on this one.
type Subscriber struct {
	l      log.Logger
	rdb    *redis.Client
	hub    userSink
	pubsub *goredis.PubSub
	wg     sync.WaitGroup
	quit   chan struct{}
}

func NewSubscriber(l log.Logger, rdb *redis.Client, hub userSink) *Subscriber {
	return &Subscriber{
		l:    l,
		rdb:  rdb,
		hub:  hub,
		quit: make(chan struct{}),
	}
}

// Start subscribes to the user notification pattern and begins relaying.
func (s *Subscriber) Start(ctx context.Context) error {
	s.pubsub = s.rdb.PSubscribe(ctx, userChannelPattern)

	// Wait for confirmation that the subscription is created.
	if _, err := s.pubsub.Receive(ctx); err != nil {
		return err
	}

	s.wg.Add(1)
	go s.listen(ctx)

	s.l.Infof(ctx, "internal.realtime.subscriber: started on %s", userChannelPattern)
	return nil
}

func (s *Subscriber) listen(ctx context.Context) {
	defer s.wg.Done()

	ch := s.pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				s.l.Warnf(ctx, "internal.realtime.subscriber: pubsub channel closed")
				return
			}
			s.handleMessage(ctx, msg)
		case <-s.quit:
			return
		}
	}
}

func (s *Subscriber) handleMessage(ctx context.Context, msg *goredis.Message) {
	userID, ok := parseUserChannel(msg.Channel)
	if !ok {
		s.l.Warnf(ctx, "internal.realtime.subscriber: unroutable channel %q", msg.Channel)
		return
	}
	s.hub.SendToUser(userID, []byte(msg.Payload))
}

// Shutdown closes the subscription and waits for the relay to drain.
func (s *Subscriber) Shutdown(ctx context.Context) error {
	close(s.quit)
	if s.pubsub != nil {
		if err := s.pubsub.Close(); err != nil {
			s.l.Errorf(ctx, "internal.realtime.subscriber: close pubsub: %v", err)
		}
	}
	s.wg.Wait()
	s.l.Infof(ctx, "internal.realtime.subscriber: stopped")
	return nil
}

// parseUserChannel extracts the user id from "notification:user:<id>".
func parseUserChannel(channel string) (string, bool) {
	parts := strings.Split(channel, ":")
	if len(parts) != 3 || parts[0] != "notification" || parts[1] != "user" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}
