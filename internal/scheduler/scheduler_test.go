package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mqtch4n-ba/Serina/internal/clock"
	"github.com/mqtch4n-ba/Serina/internal/domain"
	"github.com/mqtch4n-ba/Serina/internal/notify"
	"github.com/mqtch4n-ba/Serina/internal/store"
)

// fakeSink records sends and simulates unreachable channels and delivery
// failures.
type fakeSink struct {
	mu          sync.Mutex
	sent        []sentMessage
	unreachable map[int64]bool
	sendErr     error
}

type sentMessage struct {
	channelID int64
	text      string
}

func newFakeSink() *fakeSink {
	return &fakeSink{unreachable: make(map[int64]bool)}
}

func (f *fakeSink) Resolve(channelID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unreachable[channelID] {
		return notify.ErrChannelNotFound
	}
	return nil
}

func (f *fakeSink) Send(channelID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, text: text})
	return nil
}

func (f *fakeSink) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func openTestRepo(t *testing.T, clk clock.Clock) store.Repo {
	t.Helper()
	repo, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "serina.db"), clk.Now)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

var testStart = time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)

func TestTickFiresOnceAndAdvances(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(testStart)
	repo := openTestRepo(t, clk)
	sink := newFakeSink()
	s := New(repo, zap.NewNop(), sink, clk)

	if _, err := repo.Upsert(ctx, 1, 100, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Not yet due: nothing happens.
	s.Tick(ctx)
	if len(sink.messages()) != 0 {
		t.Fatalf("fired before due: %+v", sink.messages())
	}

	// One second past the due time: exactly one fire.
	clk.Set(testStart.Add(domain.FireInterval + time.Second))
	s.Tick(ctx)
	msgs := sink.messages()
	if len(msgs) != 1 {
		t.Fatalf("want 1 message, got %d", len(msgs))
	}
	if msgs[0].channelID != 100 {
		t.Fatalf("wrong channel: %+v", msgs[0])
	}
	if !strings.HasPrefix(msgs[0].text, "<@1> ") {
		t.Fatalf("expected mention prefix, got %q", msgs[0].text)
	}

	// The new due time is the old one plus the interval.
	rem, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := testStart.Add(2 * domain.FireInterval)
	if !rem.NextFireAt.Equal(want) {
		t.Fatalf("next due: want %v, got %v", want, rem.NextFireAt)
	}

	// A second tick in the same interval does not fire again.
	s.Tick(ctx)
	if len(sink.messages()) != 1 {
		t.Fatalf("fired twice in one interval: %+v", sink.messages())
	}
}

func TestTickWithoutMention(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(testStart)
	repo := openTestRepo(t, clk)
	sink := newFakeSink()
	s := New(repo, zap.NewNop(), sink, clk)

	if _, err := repo.Upsert(ctx, 1, 100, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.SetMentionEnabled(ctx, 1, false); err != nil {
		t.Fatalf("set mention: %v", err)
	}

	clk.Advance(domain.FireInterval + time.Second)
	s.Tick(ctx)
	msgs := sink.messages()
	if len(msgs) != 1 {
		t.Fatalf("want 1 message, got %d", len(msgs))
	}
	if strings.Contains(msgs[0].text, "<@") {
		t.Fatalf("mention should be suppressed: %q", msgs[0].text)
	}
}

func TestScheduleAdvancesWhenSendFails(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(testStart)
	repo := openTestRepo(t, clk)
	sink := newFakeSink()
	sink.sendErr = errors.New("delivery broke")
	s := New(repo, zap.NewNop(), sink, clk)

	if _, err := repo.Upsert(ctx, 1, 100, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	clk.Advance(domain.FireInterval + time.Second)
	s.Tick(ctx)

	rem, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := testStart.Add(2 * domain.FireInterval)
	if !rem.NextFireAt.Equal(want) {
		t.Fatalf("schedule must advance despite send failure: want %v, got %v", want, rem.NextFireAt)
	}

	// Delivery recovers: the next interval fires once, no catch-up burst.
	sink.sendErr = nil
	s.Tick(ctx)
	if len(sink.messages()) != 0 {
		t.Fatalf("fired again for a failed interval: %+v", sink.messages())
	}
}

func TestScheduleAdvancesWhenChannelUnreachable(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(testStart)
	repo := openTestRepo(t, clk)
	sink := newFakeSink()
	sink.unreachable[100] = true
	s := New(repo, zap.NewNop(), sink, clk)

	if _, err := repo.Upsert(ctx, 1, 100, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	clk.Advance(domain.FireInterval + time.Second)
	s.Tick(ctx)
	if len(sink.messages()) != 0 {
		t.Fatalf("sent to an unreachable channel: %+v", sink.messages())
	}

	rem, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !rem.NextFireAt.After(clk.Now()) {
		t.Fatalf("unreachable channel jammed the cycle: due %v, now %v", rem.NextFireAt, clk.Now())
	}
}

func TestUnreachableChannelDoesNotAbortBatch(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(testStart)
	repo := openTestRepo(t, clk)
	sink := newFakeSink()
	sink.unreachable[100] = true
	s := New(repo, zap.NewNop(), sink, clk)

	if _, err := repo.Upsert(ctx, 1, 100, nil); err != nil {
		t.Fatalf("upsert 1: %v", err)
	}
	if _, err := repo.Upsert(ctx, 2, 200, nil); err != nil {
		t.Fatalf("upsert 2: %v", err)
	}

	clk.Advance(domain.FireInterval + time.Second)
	s.Tick(ctx)
	msgs := sink.messages()
	if len(msgs) != 1 || msgs[0].channelID != 200 {
		t.Fatalf("user on the reachable channel should still be notified: %+v", msgs)
	}
}
