package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeBeforeFirstPublish(t *testing.T) {
	f := New[int]()
	ch, cancel := f.Subscribe()
	defer cancel()

	select {
	case v := <-ch:
		t.Fatalf("expected no value before first publish, got %d", v)
	default:
	}

	f.Publish(7)
	assert.Equal(t, 7, <-ch)
}

func TestSubscribeIsPrimedWithLatest(t *testing.T) {
	f := New[string]()
	f.Publish("old")
	f.Publish("new")

	ch, cancel := f.Subscribe()
	defer cancel()
	assert.Equal(t, "new", <-ch)
}

func TestSlowReaderOnlySeesNewest(t *testing.T) {
	f := New[int]()
	ch, cancel := f.Subscribe()
	defer cancel()

	f.Publish(1)
	f.Publish(2)
	f.Publish(3)

	assert.Equal(t, 3, <-ch, "intermediate values are replaced, not queued")
}

func TestPublishFansOut(t *testing.T) {
	f := New[int]()
	ch1, cancel1 := f.Subscribe()
	defer cancel1()
	ch2, cancel2 := f.Subscribe()
	defer cancel2()

	f.Publish(42)
	assert.Equal(t, 42, <-ch1)
	assert.Equal(t, 42, <-ch2)
}

func TestCancelIsIdempotent(t *testing.T) {
	f := New[int]()
	_, cancel := f.Subscribe()
	cancel()
	cancel()

	// Publishing after cancel must not panic or block.
	f.Publish(1)
}

func TestLatest(t *testing.T) {
	f := New[int]()
	_, ok := f.Latest()
	assert.False(t, ok)

	f.Publish(9)
	v, ok := f.Latest()
	assert.True(t, ok)
	assert.Equal(t, 9, v)
}
