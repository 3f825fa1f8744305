package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unl-extension/metas/backend/pkg/relation"
)

func TestView_MountLoadsCatalog(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeSource(testBases()), Options{})
	view := svc.NewView()

	assert.True(t, view.Snapshot().Empty())

	view.Mount(context.Background())
	defer view.Unmount()
	require.NoError(t, view.Wait(context.Background()))

	groups := view.Render(relation.DetailCategories, relation.SameList(relation.DetailCategories, []int{10, 20, 99}))
	require.Len(t, groups, 2)
	assert.Equal(t, "Internas Secretaría", groups[0].Label)
	assert.Equal(t, []string{"Dirección de Cultura"}, groups[0].Items)
	assert.Equal(t, "Unidades Académicas involucradas", groups[1].Label)
	assert.Equal(t, []string{"FICH"}, groups[1].Items)
}

func TestView_MountTwiceFetchesOnce(t *testing.T) {
	t.Parallel()

	src := newFakeSource(testBases())
	svc := NewService(src, Options{TTL: time.Nanosecond})
	view := svc.NewView()

	view.Mount(context.Background())
	view.Mount(context.Background())
	require.NoError(t, view.Wait(context.Background()))
	view.Unmount()

	assert.Equal(t, int32(1), src.calls.Load())
}

func TestView_UnmountDiscardsLateResult(t *testing.T) {
	t.Parallel()

	src := newFakeSource(testBases())
	src.started = make(chan struct{}, 1)
	src.release = make(chan struct{})
	svc := NewService(src, Options{})
	view := svc.NewView()

	view.Mount(context.Background())
	<-src.started
	view.Unmount()
	close(src.release)

	require.NoError(t, view.Wait(context.Background()))
	require.Eventually(t, func() bool { return !svc.Current().Empty() }, time.Second, 5*time.Millisecond)
	assert.True(t, view.Snapshot().Empty())
}

func TestView_FollowsServiceRefresh(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeSource(testBases()), Options{})
	view := svc.NewView()
	view.Mount(context.Background())
	defer view.Unmount()
	require.NoError(t, view.Wait(context.Background()))

	refreshed, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Same(t, refreshed, view.Snapshot())
}

func TestView_ErrorHandler(t *testing.T) {
	t.Parallel()

	src := newFakeSource(nil)
	src.fail(errors.New("upstream down"))
	svc := NewService(src, Options{})

	var alerts atomic.Int32
	view := svc.NewView(WithErrorHandler(func(error) { alerts.Add(1) }))
	view.Mount(context.Background())
	defer view.Unmount()
	require.NoError(t, view.Wait(context.Background()))

	assert.Equal(t, int32(1), alerts.Load())
	assert.True(t, view.Snapshot().Empty())
}

func TestView_FailedLoadKeepsPreviousCatalog(t *testing.T) {
	t.Parallel()

	src := newFakeSource(testBases())
	svc := NewService(src, Options{})
	_, err := svc.Get(context.Background())
	require.NoError(t, err)

	src.fail(errors.New("upstream down"))
	svc.Invalidate()

	var alerts atomic.Int32
	view := svc.NewView(WithErrorHandler(func(error) { alerts.Add(1) }))
	view.Mount(context.Background())
	defer view.Unmount()
	require.NoError(t, view.Wait(context.Background()))

	assert.Equal(t, int32(1), alerts.Load())
	assert.Same(t, svc.Current(), view.Snapshot())
	assert.Len(t, view.Render(relation.DetailCategories, relation.SameList(relation.DetailCategories, []int{20})), 1)
}

func TestView_RemountAfterUnmount(t *testing.T) {
	t.Parallel()

	src := newFakeSource(testBases())
	svc := NewService(src, Options{})
	view := svc.NewView()

	view.Mount(context.Background())
	require.NoError(t, view.Wait(context.Background()))
	view.Unmount()

	view.Mount(context.Background())
	defer view.Unmount()
	require.NoError(t, view.Wait(context.Background()))
	assert.False(t, view.Snapshot().Empty())
}
