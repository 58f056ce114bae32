package main

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"

	"jobs-srv/internal/analytics"
	"jobs-srv/internal/media"
	"jobs-srv/internal/model"
	"jobs-srv/internal/notification"
	"jobs-srv/internal/notification/channel"
	"jobs-srv/internal/publish"
	"jobs-srv/internal/scheduler"
	"jobs-srv/internal/sentiment"
	"jobs-srv/pkg/log"
	pkgMinio "jobs-srv/pkg/minio"
	pkgRedis "jobs-srv/pkg/redis"
	"jobs-srv/pkg/webhook"
)

// Provider protocol clients are out of scope for the worker; the concrete
// integrations live in the platform's provider services. The dev providers
// below log what production clients would send so the whole pipeline runs
// end to end in local and staging deploys.

// notifyRelay breaks the construction cycle between the processors (which
// need a Notifier) and the scheduler (which needs the processors).
type notifyRelay struct {
	mu sync.RWMutex
	uc scheduler.UseCase
}

func (r *notifyRelay) Bind(uc scheduler.UseCase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uc = uc
}

func (r *notifyRelay) Notify(ctx context.Context, n model.NotificationData) error {
	r.mu.RLock()
	uc := r.uc
	r.mu.RUnlock()
	if uc == nil {
		return errors.New("scheduler not bound yet")
	}
	return uc.Notify(ctx, n)
}

// NotifyOn schedules a dispatch restricted to the given channels.
func (r *notifyRelay) NotifyOn(ctx context.Context, n model.NotificationData, channels []model.Channel) error {
	r.mu.RLock()
	uc := r.uc
	r.mu.RUnlock()
	if uc == nil {
		return errors.New("scheduler not bound yet")
	}
	_, err := uc.ScheduleNotification(ctx, scheduler.NotificationInput{
		Notification: n,
		Channels:     channels,
	})
	return err
}

// crisisNotifier sends a slack-style webhook copy of every crisis alert
// before scheduling the user-facing dispatch, so on-call sees them even when
// user channels are misconfigured.
type crisisNotifier struct {
	relay  *notifyRelay
	sender webhook.Sender
	url    string
	l      log.Logger
}

func (c *crisisNotifier) Notify(ctx context.Context, n model.NotificationData, channels []model.Channel) error {
	if c.url != "" && n.Type == "crisis_alert" {
		msgType := webhook.MessageTypeWarning
		if n.Priority == model.PriorityCritical {
			msgType = webhook.MessageTypeError
		}
		opts := webhook.MessageOptions{
			Type:        msgType,
			Title:       n.Title,
			Description: n.Message,
			Fields: []webhook.EmbedField{
				{Name: "Priority", Value: string(n.Priority), Inline: true},
				{Name: "Workspace", Value: n.WorkspaceID.String, Inline: true},
			},
		}
		if err := c.sender.SendEmbed(ctx, c.url, opts); err != nil {
			c.l.Warnf(ctx, "cmd.worker: crisis webhook: %v", err)
		}
	}
	return c.relay.NotifyOn(ctx, n, channels)
}

// redisPublisher adapts the redis client to the in-app channel's Publisher.
type redisPublisher struct {
	rdb *pkgRedis.Client
}

func (p *redisPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	return p.rdb.Publish(ctx, topic, payload).Err()
}

// noopPublisher stands in when redis is not available; in-app notifications
// are still stored, just not pushed live.
type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, topic string, payload []byte) error { return nil }

// logStore records in-app notifications in the log. The platform's API owns
// the notifications table; the worker only needs the delivery side.
type logStore struct {
	l log.Logger
}

func (s *logStore) SaveNotification(ctx context.Context, n model.NotificationData) error {
	s.l.Infof(ctx, "cmd.worker: in-app notification %s for user %s: %s", n.ID, n.UserID, n.Title)
	return nil
}

// defaultPrefs serves zero preferences, which keeps every recipient on the
// always-on in-app channel until the platform's preference service is wired.
type defaultPrefs struct{}

func (defaultPrefs) GetPreferences(ctx context.Context, userID string) (model.NotificationPreferences, error) {
	return model.NotificationPreferences{}, nil
}

type devPublisher struct {
	l log.Logger
}

func (p *devPublisher) Publish(ctx context.Context, platform, accountID string, content publish.Content) (publish.Ack, error) {
	p.l.Infof(ctx, "cmd.worker: publish to %s account %s: %q", platform, accountID, content.Text)
	return publish.Ack{PlatformPostID: uuid.NewString()}, nil
}

type devSource struct {
	l log.Logger
}

func (s *devSource) Query(ctx context.Context, platform, accountID string, rng analytics.DateRange, groups analytics.MetricGroups) (analytics.AccountMetrics, error) {
	s.l.Debugf(ctx, "cmd.worker: query %s metrics for account %s window %v-%v", platform, accountID, rng.From, rng.To)

	var m analytics.AccountMetrics
	if groups.Posts {
		m.Posts = &analytics.PostMetrics{}
	}
	if groups.Audience {
		m.Audience = &analytics.AudienceMetrics{}
	}
	if groups.Engagement {
		m.Engagement = &analytics.EngagementMetrics{}
	}
	return m, nil
}

// devScorer scores everything neutral. Production uses the NLP service.
type devScorer struct{}

func (devScorer) Score(ctx context.Context, content string) (float64, error) { return 0, nil }

type devEmail struct {
	l log.Logger
}

func (c *devEmail) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	c.l.Infof(ctx, "cmd.worker: email to %s: %s", to, subject)
	return uuid.NewString(), nil
}

type devPush struct {
	l log.Logger
}

func (c *devPush) Send(ctx context.Context, token string, payload channel.PushPayload) (string, error) {
	c.l.Infof(ctx, "cmd.worker: push to token %s: %s", token, payload.Title)
	return uuid.NewString(), nil
}

type devSMS struct {
	l log.Logger
}

func (c *devSMS) Send(ctx context.Context, phoneNumber, body string) (string, error) {
	c.l.Infof(ctx, "cmd.worker: sms to %s: %q", phoneNumber, body)
	return uuid.NewString(), nil
}

// identityTransformer passes the source bytes through unchanged; rendition
// pipelines (resize, transcode) are provider territory.
type identityTransformer struct{}

func (identityTransformer) Transform(ctx context.Context, rendition media.Rendition, src []byte, contentType string) ([]byte, error) {
	return src, nil
}

// unavailableStorage keeps media jobs failing cleanly when minio is down at
// startup instead of crashing the processor.
type unavailableStorage struct{}

var errStorageUnavailable = errors.New("object storage unavailable")

func (unavailableStorage) EnsureBucket(ctx context.Context, bucket string) error {
	return errStorageUnavailable
}

func (unavailableStorage) Upload(ctx context.Context, req pkgMinio.UploadRequest) (*pkgMinio.ObjectInfo, error) {
	return nil, errStorageUnavailable
}

func (unavailableStorage) Download(ctx context.Context, bucket, object string) (io.ReadCloser, *pkgMinio.ObjectInfo, error) {
	return nil, nil, errStorageUnavailable
}

func (unavailableStorage) Stat(ctx context.Context, bucket, object string) (*pkgMinio.ObjectInfo, error) {
	return nil, errStorageUnavailable
}

func (unavailableStorage) Delete(ctx context.Context, bucket, object string) error {
	return errStorageUnavailable
}

func (unavailableStorage) HealthCheck(ctx context.Context) error { return errStorageUnavailable }

// emptyDirectory keeps the recurring jobs running as no-ops until the
// platform registry is attached.
type emptyDirectory struct{}

func (emptyDirectory) ListScheduledCollections(ctx context.Context, freq analytics.Frequency) ([]analytics.ScheduledInput, error) {
	return nil, nil
}

func (emptyDirectory) ListMonitoredWorkspaces(ctx context.Context) ([]sentiment.MonitorInput, error) {
	return nil, nil
}

var (
	_ publish.Notifier              = (*notifyRelay)(nil)
	_ sentiment.Notifier            = (*crisisNotifier)(nil)
	_ notification.PreferenceSource = defaultPrefs{}
	_ scheduler.Directory           = emptyDirectory{}
)
