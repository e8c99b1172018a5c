package assistant

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/bowerhall/regen/internal/gateway"
	"github.com/bowerhall/regen/internal/session"
)

type fakeAdviser struct {
	reply  string
	err    error
	inputs  []string
	entered chan struct{}
	block   chan struct{}
}

func (f *fakeAdviser) Advise(ctx context.Context, userInput string) (string, error) {
	f.inputs = append(f.inputs, userInput)
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.reply, f.err
}

type fakeAlerter struct {
	count int
}

func (f *fakeAlerter) Warn(component, message string, err error) {
	f.count++
}

func TestIsGreeting(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"hi", true},
		{"Hello!", true},
		{"HEY there", true},
		{"good   Morning", true},
		{"Good evening, where do batteries go?", true},
		{"what's up", true},
		{"yo", true},
		{"Hiya!!", true},
		{"howdy", true},
		{"hi!!! ...", true},
		{"How do I recycle batteries?", false},
		{"Is styrofoam recyclable?", false},
		{"this item is high grade plastic", false},
		{"support request", false},
		{"you there", false},
		{"shell", false},
	}

	for _, tt := range tests {
		if got := IsGreeting(tt.text); got != tt.want {
			t.Errorf("IsGreeting(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestReplyGreetingSkipsNetwork(t *testing.T) {
	adviser := &fakeAdviser{reply: "should not be used"}
	a := New(adviser)

	for _, text := range []string{"hi", "Hello!", "good afternoon", "hey"} {
		reply := a.Reply(context.Background(), text)
		if !slices.Contains(Greetings, reply) {
			t.Errorf("reply to %q not from greeting set: %q", text, reply)
		}
	}

	if len(adviser.inputs) != 0 {
		t.Errorf("expected no advice calls, got %d", len(adviser.inputs))
	}
}

func TestReplyGreetingCoversCandidates(t *testing.T) {
	a := New(&fakeAdviser{})

	for i := range Greetings {
		a.pick = func(n int) int { return i }
		if got := a.Reply(context.Background(), "hello"); got != Greetings[i] {
			t.Errorf("pick %d: got %q", i, got)
		}
	}
}

func TestReplyNonGreetingCallsAdviceOnce(t *testing.T) {
	adviser := &fakeAdviser{reply: "Drop batteries at an e-waste point."}
	a := New(adviser)

	reply := a.Reply(context.Background(), "Where do batteries go?")

	if reply != "Drop batteries at an e-waste point." {
		t.Errorf("unexpected reply: %q", reply)
	}
	if len(adviser.inputs) != 1 || adviser.inputs[0] != "Where do batteries go?" {
		t.Errorf("expected one call with exact text, got %v", adviser.inputs)
	}
}

func TestReplyMissingFieldFallsBack(t *testing.T) {
	a := New(&fakeAdviser{err: gateway.ErrMissingField})

	if got := a.Reply(context.Background(), "compost?"); got != FallbackReply {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestReplyTransportErrorApologises(t *testing.T) {
	alerter := &fakeAlerter{}
	a := New(&fakeAdviser{err: fmt.Errorf("advice request: %w", errors.New("connection refused"))})
	a.SetAlerter(alerter)

	if got := a.Reply(context.Background(), "compost?"); got != ApologyReply {
		t.Errorf("expected apology, got %q", got)
	}
	if alerter.count != 1 {
		t.Errorf("expected one alert, got %d", alerter.count)
	}

	status := &gateway.StatusError{Endpoint: "advice", StatusCode: 500}
	a = New(&fakeAdviser{err: status})
	if got := a.Reply(context.Background(), "compost?"); got != ApologyReply {
		t.Errorf("expected apology for non-2xx, got %q", got)
	}
}

func TestSubmitRecordsExchanges(t *testing.T) {
	sess := session.New("tui", nil)
	Seed(sess)

	a := New(&fakeAdviser{reply: "Rinse it first."})

	user, bot, err := a.Submit(context.Background(), sess, "Can I recycle a jar?")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if !user.IsUser || user.Text != "Can I recycle a jar?" || user.ID != 1 {
		t.Errorf("unexpected user exchange: %+v", user)
	}
	if bot.IsUser || bot.Text != "Rinse it first." || bot.ID != 2 {
		t.Errorf("unexpected bot exchange: %+v", bot)
	}

	exchanges := sess.Exchanges()
	if len(exchanges) != 3 || exchanges[0].Text != Welcome {
		t.Errorf("unexpected transcript: %+v", exchanges)
	}
}

func TestSubmitEmptyInputNoop(t *testing.T) {
	sess := session.New("tui", nil)
	adviser := &fakeAdviser{}
	a := New(adviser)

	for _, text := range []string{"", "   ", "\t\n"} {
		if _, _, err := a.Submit(context.Background(), sess, text); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Submit(%q) expected ErrEmptyInput, got %v", text, err)
		}
	}

	if len(sess.Exchanges()) != 0 {
		t.Error("empty input should not change state")
	}
	if len(adviser.inputs) != 0 {
		t.Error("empty input should not call the endpoint")
	}
}

func TestSubmitBusy(t *testing.T) {
	sess := session.New("tui", nil)
	adviser := &fakeAdviser{reply: "ok", entered: make(chan struct{}), block: make(chan struct{})}
	a := New(adviser)

	done := make(chan error, 1)
	go func() {
		_, _, err := a.Submit(context.Background(), sess, "first question")
		done <- err
	}()

	<-adviser.entered

	_, _, err := a.Submit(context.Background(), sess, "second question")
	if !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(adviser.block)
	if err := <-done; err != nil {
		t.Errorf("first submission failed: %v", err)
	}

	if len(sess.Exchanges()) != 2 {
		t.Errorf("busy submission must not be recorded, got %d exchanges", len(sess.Exchanges()))
	}
}

func TestSeedOnlyOnce(t *testing.T) {
	sess := session.New("tui", nil)
	Seed(sess)
	Seed(sess)

	exchanges := sess.Exchanges()
	if len(exchanges) != 1 || exchanges[0].ID != 0 || exchanges[0].IsUser {
		t.Errorf("unexpected seed: %+v", exchanges)
	}
}
