package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/peterldowns/testy/check"

	"github.com/riskibarqy/cycling-auction/internal/platform/logging"
	"github.com/riskibarqy/cycling-auction/internal/usecase"
)

type fakeStream struct {
	msgs []*nats.Msg
	opts int
	err  error
}

func (f *fakeStream) PublishMsg(_ context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.msgs = append(f.msgs, msg)
	f.opts += len(opts)
	return &jetstream.PubAck{Stream: "AUCTION_EVENTS"}, nil
}

func TestBuildRoundResolvedMsg(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	event := usecase.RoundResolvedEvent{
		LeagueID:    "lg-1",
		RoundNumber: 3,
		NextRound:   4,
		Allocation:  map[string]string{"cyc-1": "team-a"},
		Digest:      "abc123",
		ResolvedAt:  now,
	}

	msg, err := buildRoundResolvedMsg("auction.events", event, now)
	check.NoError(t, err)
	check.Equal(t, "auction.events.round.resolved", msg.Subject)
	check.Equal(t, "lg-1", msg.Header.Get("League-ID"))
	check.Equal(t, "3", msg.Header.Get("Round"))

	var decoded roundEnvelope
	check.NoError(t, sonic.Unmarshal(msg.Data, &decoded))
	check.Equal(t, roundResolvedEventType, decoded.EventType)
	check.Equal(t, "team-a", decoded.Payload.Allocation["cyc-1"])
	check.Equal(t, 4, decoded.Payload.NextRound)
}

func TestRoundMsgID(t *testing.T) {
	check.Equal(t, "abc", roundMsgID(usecase.RoundResolvedEvent{LeagueID: "lg-1", RoundNumber: 2, Digest: "abc"}))
	check.Equal(t, "lg-1-2", roundMsgID(usecase.RoundResolvedEvent{LeagueID: "lg-1", RoundNumber: 2}))
}

func TestJetStreamPublisher_PublishRoundResolved(t *testing.T) {
	stream := &fakeStream{}
	pub := &JetStreamPublisher{js: stream, config: DefaultJetStreamConfig(), logger: logging.NewNop()}

	err := pub.PublishRoundResolved(context.Background(), usecase.RoundResolvedEvent{LeagueID: "lg-1", RoundNumber: 1, Digest: "d1"})
	check.NoError(t, err)
	check.Equal(t, 1, len(stream.msgs))
	check.Equal(t, "auction.events.round.resolved", stream.msgs[0].Subject)
	check.Equal(t, 1, stream.opts)
}

func TestJetStreamPublisher_WrapsPublishError(t *testing.T) {
	boom := errors.New("no responders")
	pub := &JetStreamPublisher{js: &fakeStream{err: boom}, config: DefaultJetStreamConfig(), logger: logging.NewNop()}

	err := pub.PublishRoundResolved(context.Background(), usecase.RoundResolvedEvent{LeagueID: "lg-1", RoundNumber: 1})
	check.True(t, errors.Is(err, boom))
}
