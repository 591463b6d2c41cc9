package notify_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/notify"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/notify/mocks"
)

func newTestDispatcher(t *testing.T, n notify.Notifier, opts notify.DispatcherOptions) *notify.Dispatcher {
	t.Helper()
	d, err := notify.NewDispatcher(n, zap.NewNop(), prometheus.NewRegistry(), opts)
	require.NoError(t, err)
	return d
}

func TestDispatcher_Delivers(t *testing.T) {
	mockNotifier := new(mocks.MockNotifier)
	done := make(chan struct{})
	mockNotifier.On("Notify", mock.Anything, "user-1", notify.KindDocumentSent, mock.Anything).
		Run(func(args mock.Arguments) { close(done) }).
		Return(nil).Once()

	d := newTestDispatcher(t, mockNotifier, notify.DispatcherOptions{QueueSize: 4, Workers: 1})
	d.Enqueue(notify.Event{RecipientID: "user-1", Kind: notify.KindDocumentSent, Payload: map[string]any{"sent_id": "1"}})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
	d.Close()
	mockNotifier.AssertExpectations(t)
}

func TestDispatcher_SwallowsDeliveryErrors(t *testing.T) {
	mockNotifier := new(mocks.MockNotifier)
	mockNotifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down"))

	d := newTestDispatcher(t, mockNotifier, notify.DispatcherOptions{QueueSize: 4, Workers: 1})

	// Enqueue never reports delivery failure to the caller.
	d.Enqueue(notify.Event{RecipientID: "user-1", Kind: notify.KindDocumentReplied})
	d.Close()

	assert.Equal(t, float64(1), testCounterValue(t, d.FailedCounter()))
	assert.Equal(t, float64(0), testCounterValue(t, d.DeliveredCounter()))
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	mockNotifier := new(mocks.MockNotifier)
	block := make(chan struct{})
	mockNotifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { <-block }).
		Return(nil)

	d := newTestDispatcher(t, mockNotifier, notify.DispatcherOptions{QueueSize: 1, Workers: 1})

	// First event occupies the worker, second fills the queue, third drops.
	d.Enqueue(notify.Event{RecipientID: "a", Kind: notify.KindDocumentSent})
	d.Enqueue(notify.Event{RecipientID: "b", Kind: notify.KindDocumentSent})
	time.Sleep(50 * time.Millisecond)
	d.Enqueue(notify.Event{RecipientID: "c", Kind: notify.KindDocumentSent})

	assert.Eventually(t, func() bool {
		return testCounterValue(t, d.DroppedCounter()) >= 1
	}, time.Second, 10*time.Millisecond)

	close(block)
	d.Close()
}

func TestDispatcher_SurvivesNotifierPanic(t *testing.T) {
	mockNotifier := new(mocks.MockNotifier)
	mockNotifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Panic("boom")

	d := newTestDispatcher(t, mockNotifier, notify.DispatcherOptions{QueueSize: 4, Workers: 1})
	d.Enqueue(notify.Event{RecipientID: "user-1", Kind: notify.KindStatusChanged})
	d.Close()

	assert.Equal(t, float64(1), testCounterValue(t, d.FailedCounter()))
}

func testCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	return testutil.ToFloat64(c)
}
