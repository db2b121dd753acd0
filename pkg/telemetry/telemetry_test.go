package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/germanamz/continuum/pkg/globalstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Capture(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingSink) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestClient_DeliversOnClose(t *testing.T) {
	sink := &recordingSink{}
	c := New(Options{Sink: sink, Enabled: true, DistinctID: "id-1"})

	assert.True(t, c.Capture("install", map[string]any{"extensionVersion": "1.2.3"}))
	require.NoError(t, c.Close(context.Background()))

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "install", events[0].Name)
	assert.Equal(t, "id-1", events[0].DistinctID)
	assert.Equal(t, "1.2.3", events[0].Properties["extensionVersion"])
}

func TestClient_DisabledDrops(t *testing.T) {
	sink := &recordingSink{}
	c := New(Options{Sink: sink, Enabled: false})

	assert.False(t, c.Capture("install", nil))
	require.NoError(t, c.Close(context.Background()))
	assert.Empty(t, sink.Events())
}

func TestClient_CaptureNeverBlocks(t *testing.T) {
	release := make(chan struct{})
	blocking := SinkFunc(func(ctx context.Context, _ Event) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	})

	c := New(Options{Sink: blocking, Enabled: true, QueueSize: 1})

	done := make(chan struct{})
	go func() {
		for range 100 {
			c.Capture("spam", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Capture blocked on a slow sink")
	}

	close(release)
	require.NoError(t, c.Close(context.Background()))
}

func TestClient_SinkErrorsAreDropped(t *testing.T) {
	failing := SinkFunc(func(context.Context, Event) error { return errors.New("offline") })
	c := New(Options{Sink: failing, Enabled: true})

	assert.True(t, c.Capture("install", nil))
	assert.NoError(t, c.Close(context.Background()))
}

func TestClient_CaptureAfterClose(t *testing.T) {
	c := New(Options{Enabled: true})
	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))

	assert.False(t, c.Capture("late", nil))
}

func TestDistinctID_Persists(t *testing.T) {
	state := &globalstate.Memory{}

	first := DistinctID(state)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, DistinctID(state))

	stored, ok := globalstate.String(state, DistinctIDKey)
	require.True(t, ok)
	assert.Equal(t, first, stored)
}

func TestHTTPSink_Capture(t *testing.T) {
	var got capturePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/capture/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := &HTTPSink{Endpoint: srv.URL + "/", APIKey: "phc_test"}
	err := sink.Capture(context.Background(), Event{
		Name:       "install",
		DistinctID: "id-1",
		Properties: map[string]any{"extensionVersion": "1.2.3"},
		Timestamp:  time.Now(),
	})
	require.NoError(t, err)

	assert.Equal(t, "phc_test", got.APIKey)
	assert.Equal(t, "install", got.Event)
	assert.Equal(t, "id-1", got.DistinctID)
	assert.Equal(t, "1.2.3", got.Properties["extensionVersion"])
}

func TestHTTPSink_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	sink := &HTTPSink{Endpoint: srv.URL}
	err := sink.Capture(context.Background(), Event{Name: "install"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
