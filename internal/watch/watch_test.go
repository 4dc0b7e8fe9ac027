package watch

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	var calls atomic.Int32

	d := NewDebouncer(50*time.Millisecond, func() {
		calls.Add(1)
	})
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, 10*time.Millisecond, "rapid triggers should coalesce into one callback")

	// Quiet period over; no further callbacks.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_SeparatedTriggersFireSeparately(t *testing.T) {
	var calls atomic.Int32

	d := NewDebouncer(20*time.Millisecond, func() {
		calls.Add(1)
	})
	defer d.Stop()

	d.Trigger()
	time.Sleep(60 * time.Millisecond)
	d.Trigger()

	assert.Eventually(t, func() bool {
		return calls.Load() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	var calls atomic.Int32

	d := NewDebouncer(50*time.Millisecond, func() {
		calls.Add(1)
	})

	d.Trigger()
	d.Stop()

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestIsRelevant(t *testing.T) {
	source := "/config/automations.yaml"

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to source", fsnotify.Event{Name: source, Op: fsnotify.Write}, true},
		{"create of source", fsnotify.Event{Name: source, Op: fsnotify.Create}, true},
		{"rename of source", fsnotify.Event{Name: source, Op: fsnotify.Rename}, true},
		{"chmod of source", fsnotify.Event{Name: source, Op: fsnotify.Chmod}, false},
		{"write to sibling", fsnotify.Event{Name: "/config/scenes.yaml", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRelevant(tt.event, source))
		})
	}
}
