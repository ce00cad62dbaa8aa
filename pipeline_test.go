package pulse

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tokmz/pulse/pkg/logger"
)

func newTestPipeline(t *testing.T, ft *fakeTransport, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New(ft, opts...)
	require.NoError(t, err)
	return p
}

func TestNewNilTransport(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilTransport)
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(newFakeTransport(), WithHealthThresholds(-1, 50))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEmitValidEvent(t *testing.T) {
	ft := newFakeTransport()
	metrics := newCountingMetrics()
	p := newTestPipeline(t, ft, WithMetrics(metrics))

	err := p.Emit(EventSendMessage, map[string]any{
		"chat_id": 42,
		"message": "hello",
	})
	require.NoError(t, err)

	emitted := ft.emittedEvents()
	require.Len(t, emitted, 1)
	assert.Equal(t, EventSendMessage, emitted[0].event)
	assert.Equal(t, 1, metrics.emitted[EventSendMessage])

	// 发送前已净化，标识符被转为整数
	obj := emitted[0].data.(map[string]any)
	assert.Equal(t, int64(42), obj["chat_id"])
}

func TestEmitInvalidEventDropped(t *testing.T) {
	ft := newFakeTransport()
	metrics := newCountingMetrics()
	core, logs := observer.New(zap.WarnLevel)
	p := newTestPipeline(t, ft,
		WithMetrics(metrics),
		WithLogger(logger.FromZap(zap.New(core))),
	)

	// 校验失败不报错，仅记录日志与指标
	err := p.Emit(EventSendMessage, map[string]any{"message": ""})
	require.NoError(t, err)

	assert.Empty(t, ft.emittedEvents())
	assert.Equal(t, 1, metrics.validationFailures[EventSendMessage])
	assert.Equal(t, 1, metrics.droppedCount(EventSendMessage, DropReasonValidation))
	assert.Len(t, logs.FilterMessage("outbound event dropped").All(), 1)
}

func TestEmitStripsSecrets(t *testing.T) {
	ft := newFakeTransport()
	p := newTestPipeline(t, ft)

	err := p.Emit(EventSendMessage, map[string]any{
		"chat_id": 1,
		"message": "hi",
		"token":   "tok-123",
	})
	require.NoError(t, err)

	obj := ft.emittedEvents()[0].data.(map[string]any)
	assert.NotContains(t, obj, "token")
}

func TestEmitTransportError(t *testing.T) {
	ft := newFakeTransport()
	ft.emitErr = errors.New("wire down")
	p := newTestPipeline(t, ft)

	err := p.Emit(EventJoinChatRoom, map[string]any{"chat_id": 1})
	assert.EqualError(t, err, "wire down")
}

func TestEmitLogsEventLine(t *testing.T) {
	ft := newFakeTransport()
	clock := newFakeClock()
	core, logs := observer.New(zap.InfoLevel)
	p := newTestPipeline(t, ft,
		WithClock(clock),
		WithEventLogging(),
		WithLogger(logger.FromZap(zap.New(core))),
	)

	require.NoError(t, p.Emit(EventJoinChatRoom, map[string]any{"chat_id": 7}))

	entries := logs.All()
	require.NotEmpty(t, entries)
	assert.Contains(t, entries[0].Message, "Socket OUT - chat/join_chat_room:")
}

func TestDebouncedEmit(t *testing.T) {
	ft := newFakeTransport()
	clock := newFakeClock()
	p := newTestPipeline(t, ft, WithClock(clock))

	send := p.DebouncedEmit(EventSendMessage, 50*time.Millisecond)
	send(map[string]any{"chat_id": 1, "message": "a"})
	send(map[string]any{"chat_id": 1, "message": "b"})
	send(map[string]any{"chat_id": 1, "message": "c"})

	assert.Empty(t, ft.emittedEvents())

	clock.Advance(50 * time.Millisecond)
	emitted := ft.emittedEvents()
	require.Len(t, emitted, 1)
	obj := emitted[0].data.(map[string]any)
	assert.Equal(t, "c", obj["message"])
}

func TestThrottledEmit(t *testing.T) {
	ft := newFakeTransport()
	clock := newFakeClock()
	metrics := newCountingMetrics()
	p := newTestPipeline(t, ft, WithClock(clock), WithMetrics(metrics))

	send := p.ThrottledEmit(EventSendMessage, 2, time.Second)
	for i := 0; i < 5; i++ {
		send(map[string]any{"chat_id": 1, "message": "m"})
	}

	assert.Len(t, ft.emittedEvents(), 2)
	assert.Equal(t, 3, metrics.droppedCount(EventSendMessage, DropReasonThrottle))
}

func TestPipelineHealth(t *testing.T) {
	ft := newFakeTransport()
	p := newTestPipeline(t, ft)

	h := p.Health()
	assert.True(t, h.Healthy)
	assert.Equal(t, StatusHealthy, h.Status)
}

func TestPipelineStats(t *testing.T) {
	ft := newFakeTransport()
	clock := newFakeClock()
	p := newTestPipeline(t, ft, WithClock(clock))

	stats := p.Stats()
	require.NotNil(t, stats.Health)
	assert.True(t, stats.Connected)
	assert.Equal(t, clock.Now(), stats.Timestamp)
}

func TestPipelineTransport(t *testing.T) {
	ft := newFakeTransport()
	p := newTestPipeline(t, ft)
	assert.Same(t, Transport(ft), p.Transport())
}
