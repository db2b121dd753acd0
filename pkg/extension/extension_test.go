package extension

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/germanamz/continuum/pkg/config"
	"github.com/germanamz/continuum/pkg/contextprovider"
	"github.com/germanamz/continuum/pkg/globalstate"
	"github.com/germanamz/continuum/pkg/host/hosttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtension() *Extension {
	return New(Options{
		Host:   &hosttest.Recorder{},
		State:  &globalstate.Memory{},
		Config: config.Defaults(config.FlavorVSCode),
	})
}

func TestFuture_ResolveOnce(t *testing.T) {
	var f Future[int]

	require.NoError(t, f.Resolve(1))
	assert.ErrorIs(t, f.Resolve(2), ErrAlreadyResolved)

	v, ok := f.Peek()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestFuture_AllWaitersSeeSameInstance(t *testing.T) {
	var f Future[*Extension]

	const waiters = 8
	got := make([]*Extension, waiters)

	var wg sync.WaitGroup
	for i := range waiters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := f.Wait(context.Background())
			assert.NoError(t, err)
			got[i] = v
		}()
	}

	ext := newTestExtension()
	require.NoError(t, f.Resolve(ext))
	wg.Wait()

	for _, v := range got {
		assert.Same(t, ext, v)
	}

	select {
	case <-f.Done():
	default:
		t.Fatal("Done not closed after Resolve")
	}
}

func TestFuture_WaitCancelled(t *testing.T) {
	var f Future[string]

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, ok := f.Peek()
	assert.False(t, ok)
}

func TestEventBus_FanOut(t *testing.T) {
	var bus EventBus

	a := bus.Subscribe(1)
	b := bus.Subscribe(1)

	bus.Publish(EventActivated, "x")

	assert.Equal(t, EventActivated, (<-a.C).Kind)
	assert.Equal(t, "x", (<-b.C).Data)

	bus.Unsubscribe(a)
	_, open := <-a.C
	assert.False(t, open)
}

func TestEventBus_FullBufferDrops(t *testing.T) {
	var bus EventBus
	sub := bus.Subscribe(1)

	bus.Publish(EventMessageShown, nil)
	bus.Publish(EventMessageDismissed, nil)

	assert.Equal(t, EventMessageShown, (<-sub.C).Kind)
	assert.Empty(t, sub.C)
}

func TestExtension_ConfigIsCopy(t *testing.T) {
	ext := newTestExtension()

	cfg := ext.Config()
	cfg.Models[0].Title = "changed"

	assert.NotEqual(t, "changed", ext.Config().Models[0].Title)
}

func TestAPI_RegisterCustomContextProvider(t *testing.T) {
	ext := newTestExtension()
	api := NewAPI(ext)
	sub := api.Events().Subscribe(4)
	assert.Same(t, ext.Events(), api.Events())

	p := contextprovider.Func{Desc: contextprovider.Description{Title: "jira", Type: contextprovider.TypeQuery}}

	require.NoError(t, api.RegisterCustomContextProvider(p))
	assert.ErrorIs(t, api.RegisterCustomContextProvider(p), contextprovider.ErrDuplicate)

	descs := api.ContextProviders()
	require.Len(t, descs, 1)
	assert.Equal(t, "jira", descs[0].Title)

	e := <-sub.C
	assert.Equal(t, EventContextProviderRegistered, e.Kind)
	assert.Equal(t, "jira", e.Data)
}

func TestExtension_WaitIdle(t *testing.T) {
	ext := newTestExtension()
	release := make(chan struct{})

	ext.Go(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, ext.WaitIdle(ctx), context.DeadlineExceeded)

	close(release)
	assert.NoError(t, NewAPI(ext).WaitIdle(context.Background()))
}
