package eventbus

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/riskibarqy/cycling-auction/internal/platform/logging"
	"github.com/riskibarqy/cycling-auction/internal/usecase"
)

const roundResolvedEventType = "round.resolved"

type JetStreamConfig struct {
	URL             string
	StreamName      string
	SubjectPrefix   string
	MaxReconnects   int
	ReconnectWait   time.Duration
	MaxAge          time.Duration
	Replicas        int
	DuplicateWindow time.Duration
}

func DefaultJetStreamConfig() JetStreamConfig {
	return JetStreamConfig{
		URL:             nats.DefaultURL,
		StreamName:      "AUCTION_EVENTS",
		SubjectPrefix:   "auction.events",
		MaxReconnects:   -1,
		ReconnectWait:   2 * time.Second,
		MaxAge:          7 * 24 * time.Hour,
		Replicas:        1,
		DuplicateWindow: 2 * time.Hour,
	}
}

type msgPublisher interface {
	PublishMsg(ctx context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// JetStreamPublisher announces committed round resolutions on
// <prefix>.round.resolved. The message id is the allocation digest so
// replays inside the duplicate window are dropped by the server.
type JetStreamPublisher struct {
	nc     *nats.Conn
	js     msgPublisher
	config JetStreamConfig
	logger *logging.Logger
}

func NewJetStreamPublisher(ctx context.Context, cfg JetStreamConfig, logger *logging.Logger) (*JetStreamPublisher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "eventbus")

	nc, err := nats.Connect(cfg.URL,
		nats.Name("cycling-auction"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error("nats error", "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}
	if err := ensureStream(ctx, js, cfg, logger); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}

	return &JetStreamPublisher{nc: nc, js: js, config: cfg, logger: logger}, nil
}

func ensureStream(ctx context.Context, js jetstream.JetStream, cfg JetStreamConfig, logger *logging.Logger) error {
	sc := jetstream.StreamConfig{
		Name:       cfg.StreamName,
		Subjects:   []string{cfg.SubjectPrefix + ".>"},
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     cfg.MaxAge,
		Storage:    jetstream.FileStorage,
		Replicas:   cfg.Replicas,
		Duplicates: cfg.DuplicateWindow,
	}

	_, err := js.Stream(ctx, cfg.StreamName)
	switch {
	case errors.Is(err, jetstream.ErrStreamNotFound):
		if _, err := js.CreateStream(ctx, sc); err != nil {
			return fmt.Errorf("create stream: %w", err)
		}
		logger.Info("created jetstream stream", "stream", cfg.StreamName)
	case err != nil:
		return fmt.Errorf("lookup stream: %w", err)
	default:
		if _, err := js.UpdateStream(ctx, sc); err != nil {
			return fmt.Errorf("update stream: %w", err)
		}
	}
	return nil
}

type roundEnvelope struct {
	EventType string                     `json:"event_type"`
	Timestamp time.Time                  `json:"timestamp"`
	Payload   usecase.RoundResolvedEvent `json:"payload"`
}

func (p *JetStreamPublisher) PublishRoundResolved(ctx context.Context, event usecase.RoundResolvedEvent) error {
	msg, err := buildRoundResolvedMsg(p.config.SubjectPrefix, event, time.Now().UTC())
	if err != nil {
		return err
	}

	ack, err := p.js.PublishMsg(ctx, msg, jetstream.WithMsgID(roundMsgID(event)))
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.Subject, err)
	}
	if ack.Duplicate {
		p.logger.DebugContext(ctx, "round event deduplicated", "league_id", event.LeagueID, "round", event.RoundNumber)
	}
	return nil
}

func (p *JetStreamPublisher) Close() {
	if p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}

func buildRoundResolvedMsg(prefix string, event usecase.RoundResolvedEvent, now time.Time) (*nats.Msg, error) {
	data, err := sonic.Marshal(roundEnvelope{
		EventType: roundResolvedEventType,
		Timestamp: now,
		Payload:   event,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal round event: %w", err)
	}

	return &nats.Msg{
		Subject: prefix + "." + roundResolvedEventType,
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{roundResolvedEventType},
			"League-ID":  []string{event.LeagueID},
			"Round":      []string{strconv.Itoa(event.RoundNumber)},
		},
	}, nil
}

func roundMsgID(event usecase.RoundResolvedEvent) string {
	if event.Digest != "" {
		return event.Digest
	}
	return event.LeagueID + "-" + strconv.Itoa(event.RoundNumber)
}
