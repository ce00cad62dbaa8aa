package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokmz/pulse"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// echoServer 接受连接并把收到的消息原样回发
type echoServer struct {
	*httptest.Server
	mu    sync.Mutex
	conns []*websocket.Conn
}

func newEchoServer(t *testing.T) *echoServer {
	t.Helper()
	s := &echoServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()

		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt == websocket.TextMessage {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *echoServer) url() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func (s *echoServer) dropConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.conns {
		_ = conn.Close()
	}
	s.conns = nil
}

func dialTest(t *testing.T, url string, opts ...Option) *Socket {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := Dial(ctx, url, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDialConnects(t *testing.T) {
	srv := newEchoServer(t)
	s := dialTest(t, srv.url())

	assert.True(t, s.IsConnected())
	assert.Equal(t, pulse.StateConnected, s.ConnectionState())
	assert.NotEmpty(t, s.SocketID())
	assert.Zero(t, s.ReconnectAttempts())
}

func TestDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Dial(ctx, "ws://127.0.0.1:1/ws")
	assert.ErrorIs(t, err, ErrDialFailed)
}

func TestEmitAndDispatch(t *testing.T) {
	srv := newEchoServer(t)
	s := dialTest(t, srv.url())

	received := make(chan any, 1)
	s.On("send_message", func(data any) {
		received <- data
	})

	// 回显服务器会把发出的事件送回来
	require.NoError(t, s.Emit("send_message", map[string]any{"chat_id": 1}))

	select {
	case data := <-received:
		obj, ok := data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(1), obj["chat_id"])
	case <-time.After(3 * time.Second):
		t.Fatal("event not dispatched")
	}
}

func TestOffRemovesListener(t *testing.T) {
	srv := newEchoServer(t)
	s := dialTest(t, srv.url())

	received := make(chan any, 4)
	id := s.On("ping_event", func(data any) {
		received <- data
	})
	s.Off("ping_event", id)

	require.NoError(t, s.Emit("ping_event", map[string]any{"n": 1}))

	select {
	case <-received:
		t.Fatal("removed listener still invoked")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestEmitAfterClose(t *testing.T) {
	srv := newEchoServer(t)
	s := dialTest(t, srv.url())

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Emit("evt", nil), ErrClosed)
	assert.Equal(t, pulse.StateDisconnected, s.ConnectionState())
}

func TestEmitQueueFull(t *testing.T) {
	srv := newEchoServer(t)
	s := dialTest(t, srv.url(), WithSendQueueSize(1))

	// 队列容量为 1，塞满后新消息被拒绝而不是阻塞
	for i := 0; i < 50; i++ {
		if err := s.Emit("evt", map[string]any{"n": i}); err != nil {
			assert.ErrorIs(t, err, ErrQueueFull)
			break
		}
	}
	assert.LessOrEqual(t, s.QueueLength(), 1)
}

func TestReconnectAfterDrop(t *testing.T) {
	srv := newEchoServer(t)
	s := dialTest(t, srv.url(), WithReconnect(5, 20*time.Millisecond, 100*time.Millisecond))

	firstID := s.SocketID()
	srv.dropConnections()

	require.Eventually(t, func() bool {
		return s.IsConnected() && s.SocketID() != firstID
	}, 5*time.Second, 20*time.Millisecond)

	// 重连成功后计数归零
	assert.Zero(t, s.ReconnectAttempts())
}

func TestCloseIdempotent(t *testing.T) {
	srv := newEchoServer(t)
	s := dialTest(t, srv.url())

	require.NoError(t, s.Close())
	assert.NotPanics(t, func() { _ = s.Close() })
}

func TestMessageEncoding(t *testing.T) {
	data, err := json.Marshal(message{Event: "send_message", Data: map[string]any{"chat_id": 1}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"send_message","data":{"chat_id":1}}`, string(data))

	data, err = json.Marshal(message{Event: "leave"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"leave"}`, string(data))
}
