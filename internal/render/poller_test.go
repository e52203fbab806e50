package render

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeGateway scripts a sequence of progress responses.
type fakeGateway struct {
	invoked   int
	handle    Handle
	invokeErr error

	polls     int
	responses []Progress
	pollErrs  []error
}

func (g *fakeGateway) Invoke(ctx context.Context, req Request) (Handle, error) {
	g.invoked++
	if g.invokeErr != nil {
		return Handle{}, g.invokeErr
	}
	return g.handle, nil
}

func (g *fakeGateway) Progress(ctx context.Context, handle Handle) (Progress, error) {
	i := g.polls
	g.polls++
	if i < len(g.pollErrs) && g.pollErrs[i] != nil {
		return Progress{}, g.pollErrs[i]
	}
	if i >= len(g.responses) {
		return Progress{}, errors.New("polled past scripted responses")
	}
	return g.responses[i], nil
}

func TestPoller_ProgressThenDone(t *testing.T) {
	gw := &fakeGateway{
		responses: []Progress{
			{Type: ProgressTypeProgress, Progress: 0.3},
			{Type: ProgressTypeProgress, Progress: 0.7},
			{Type: ProgressTypeDone, Progress: 1, URL: "https://cdn.example.com/out.mp4", Size: 2048},
		},
	}
	p := NewPoller(gw, time.Millisecond, nil)

	var seen []float64
	final, err := p.Poll(context.Background(), Handle{RenderID: "r1", BucketName: "b1"}, func(pr Progress) {
		seen = append(seen, pr.Progress)
	})
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if final.Type != ProgressTypeDone || final.URL != "https://cdn.example.com/out.mp4" || final.Size != 2048 {
		t.Errorf("final = %+v, want done with url and size", final)
	}
	if gw.polls != 3 {
		t.Errorf("gateway polled %d times, want exactly 3", gw.polls)
	}
	if len(seen) != 2 || seen[0] != 0.3 || seen[1] != 0.7 {
		t.Errorf("intermediate progress = %v, want [0.3 0.7]", seen)
	}
}

func TestPoller_ErrorResponse(t *testing.T) {
	gw := &fakeGateway{
		responses: []Progress{
			{Type: ProgressTypeError, ErrorMessage: "codec mismatch"},
		},
	}
	p := NewPoller(gw, time.Millisecond, nil)

	final, err := p.Poll(context.Background(), Handle{RenderID: "r1"}, nil)
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if final.Type != ProgressTypeError || final.ErrorMessage != "codec mismatch" {
		t.Errorf("final = %+v, want error with message", final)
	}
}

func TestPoller_RewritesFetchFailure(t *testing.T) {
	gw := &fakeGateway{
		responses: []Progress{
			{Type: ProgressTypeError, ErrorMessage: "TypeError: Failed to fetch"},
		},
	}
	p := NewPoller(gw, time.Millisecond, nil)

	final, err := p.Poll(context.Background(), Handle{RenderID: "r1"}, nil)
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if final.ErrorMessage != diskSpaceHint {
		t.Errorf("ErrorMessage = %q, want the disk space hint", final.ErrorMessage)
	}
}

func TestPoller_RetriesServerErrors(t *testing.T) {
	gw := &fakeGateway{
		pollErrs: []error{
			&GatewayError{StatusCode: 503, Body: "unavailable"},
			nil,
		},
		responses: []Progress{
			{}, // consumed by the scripted error
			{Type: ProgressTypeDone, Progress: 1},
		},
	}
	p := NewPoller(gw, time.Millisecond, nil)

	final, err := p.Poll(context.Background(), Handle{RenderID: "r1"}, nil)
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if final.Type != ProgressTypeDone {
		t.Errorf("final.Type = %q, want done after retry", final.Type)
	}
	if gw.polls != 2 {
		t.Errorf("gateway polled %d times, want 2", gw.polls)
	}
}

func TestPoller_ClientErrorIsPermanent(t *testing.T) {
	gw := &fakeGateway{
		pollErrs: []error{
			&GatewayError{StatusCode: 404, Body: "unknown render"},
		},
		responses: []Progress{{}},
	}
	p := NewPoller(gw, time.Millisecond, nil)

	if _, err := p.Poll(context.Background(), Handle{RenderID: "r1"}, nil); err == nil {
		t.Fatal("Poll() = nil error on 404, want error")
	}
	if gw.polls != 1 {
		t.Errorf("gateway polled %d times, want 1 (no retry on client errors)", gw.polls)
	}
}

func TestPoller_ContextCancellation(t *testing.T) {
	gw := &fakeGateway{
		responses: []Progress{
			{Type: ProgressTypeProgress, Progress: 0.1},
			{Type: ProgressTypeProgress, Progress: 0.2},
		},
	}
	p := NewPoller(gw, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Poll(ctx, Handle{RenderID: "r1"}, nil)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Poll() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Poll() did not return after cancellation")
	}
}
