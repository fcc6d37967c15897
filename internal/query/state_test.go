package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoader_Lifecycle(t *testing.T) {
	var l Loader[string]
	assert.Equal(t, Idle, l.State())

	gen := l.Begin()
	assert.Equal(t, Loading, l.State())

	assert.True(t, l.Complete(gen, []string{"a", "b"}, 12))
	assert.Equal(t, Loaded, l.State())
	assert.Equal(t, []string{"a", "b"}, l.Items())
	assert.Equal(t, 12, l.Total())
	assert.NoError(t, l.Err())
}

func TestLoader_StaleResponseDiscarded(t *testing.T) {
	var l Loader[int]

	// Page 1 fetch issued first, page 2 issued while it is in flight
	gen1 := l.Begin()
	gen2 := l.Begin()

	assert.True(t, l.Complete(gen2, []int{3, 4}, 2))

	// The slow page 1 response lands afterwards and must not apply
	assert.False(t, l.Complete(gen1, []int{1, 2}, 2))
	assert.Equal(t, []int{3, 4}, l.Items())
	assert.Equal(t, Loaded, l.State())
}

func TestLoader_StaleFailureDiscarded(t *testing.T) {
	var l Loader[int]

	gen1 := l.Begin()
	gen2 := l.Begin()

	assert.True(t, l.Complete(gen2, []int{5}, 1))
	assert.False(t, l.Fail(gen1, errors.New("timeout")))
	assert.Equal(t, Loaded, l.State())
	assert.NoError(t, l.Err())
}

func TestLoader_FailKeepsPreviousItems(t *testing.T) {
	var l Loader[int]

	gen := l.Begin()
	assert.True(t, l.Complete(gen, []int{1, 2, 3}, 3))

	gen = l.Begin()
	fetchErr := errors.New("backend down")
	assert.True(t, l.Fail(gen, fetchErr))

	assert.Equal(t, Failed, l.State())
	assert.Equal(t, fetchErr, l.Err())
	assert.Equal(t, []int{1, 2, 3}, l.Items())
	assert.Equal(t, 3, l.Total())
}

func TestLoader_SuccessClearsError(t *testing.T) {
	var l Loader[int]

	assert.True(t, l.Fail(l.Begin(), errors.New("boom")))
	assert.True(t, l.Complete(l.Begin(), []int{9}, 1))
	assert.NoError(t, l.Err())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "loaded", Loaded.String())
	assert.Equal(t, "failed", Failed.String())
}
