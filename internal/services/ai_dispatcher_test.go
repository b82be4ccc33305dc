package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/peiassist/backend/internal/platform/logger"
)

type fakeChatClient struct {
	mu      sync.Mutex
	calls   []fakeCall
	respond func(call int, user string) (string, error)
	latency time.Duration
}

type fakeCall struct {
	start time.Time
	user  string
}

func (f *fakeChatClient) ChatCompletion(_ context.Context, system, user string) (string, error) {
	f.mu.Lock()
	n := len(f.calls)
	f.calls = append(f.calls, fakeCall{start: time.Now(), user: user})
	f.mu.Unlock()

	if system == "" {
		return "", errors.New("missing system instruction")
	}
	if f.latency > 0 {
		time.Sleep(f.latency)
	}
	if f.respond != nil {
		return f.respond(n, user)
	}
	return "ok", nil
}

func (f *fakeChatClient) recorded() []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	return log
}

func TestDispatcherOrdersAndSpacesRequests(t *testing.T) {
	const spacing = 50 * time.Millisecond

	client := &fakeChatClient{}
	d := NewAIDispatcher(testLogger(t), client, spacing)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	prompts := []string{"primeiro", "segundo", "terceiro"}
	var wg sync.WaitGroup
	results := make([]string, len(prompts))
	for i, p := range prompts {
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			text, err := d.Generate(context.Background(), p)
			require.NoError(t, err)
			results[i] = text
		}(i, p)
		// Stagger the enqueues so arrival order is deterministic.
		time.Sleep(10 * time.Millisecond)
	}
	wg.Wait()

	calls := client.recorded()
	require.Len(t, calls, 3)
	require.Equal(t, "primeiro", calls[0].user)
	require.Equal(t, "segundo", calls[1].user)
	require.Equal(t, "terceiro", calls[2].user)

	for i := 1; i < len(calls); i++ {
		gap := calls[i].start.Sub(calls[i-1].start)
		require.GreaterOrEqual(t, gap, spacing-5*time.Millisecond,
			"call %d started %v after call %d", i, gap, i-1)
	}
}

func TestDispatcherFailureDoesNotPoisonQueue(t *testing.T) {
	const spacing = 40 * time.Millisecond

	client := &fakeChatClient{
		respond: func(call int, _ string) (string, error) {
			if call == 0 {
				return "", errors.New("rate limit exceeded")
			}
			return "segunda resposta", nil
		},
	}
	d := NewAIDispatcher(testLogger(t), client, spacing)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	_, err := d.Generate(context.Background(), "falha")
	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	require.Contains(t, err.Error(), "rate limit exceeded")

	text, err := d.Generate(context.Background(), "sucesso")
	require.NoError(t, err)
	require.Equal(t, "segunda resposta", text)

	calls := client.recorded()
	require.Len(t, calls, 2)
	require.GreaterOrEqual(t, calls[1].start.Sub(calls[0].start), spacing-5*time.Millisecond)
}

func TestDispatcherShutdownUnblocksQueuedCallers(t *testing.T) {
	client := &fakeChatClient{latency: 50 * time.Millisecond}
	d := NewAIDispatcher(testLogger(t), client, 200*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	// Callers run detached from the HTTP request lifetime, so only the
	// dispatcher itself can release them once its loop stops.
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = d.Generate(context.Background(), "pedido")
		}()
	}
	time.Sleep(20 * time.Millisecond)
	cancel()

	returned := make(chan struct{})
	go func() {
		wg.Wait()
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("queued callers still blocked after dispatcher stop")
	}

	// Late arrivals are rejected immediately instead of queueing forever.
	_, err := d.Generate(context.Background(), "tarde demais")
	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
}

func TestDispatcherJoinsPromptParts(t *testing.T) {
	client := &fakeChatClient{
		respond: func(_ int, user string) (string, error) {
			return user, nil
		},
	}
	d := NewAIDispatcher(testLogger(t), client, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	text, err := d.Generate(context.Background(), "parte um", "parte dois")
	require.NoError(t, err)
	require.Equal(t, "parte um\nparte dois", text)
}
