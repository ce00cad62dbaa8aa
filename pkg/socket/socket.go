// Package socket provides a WebSocket transport built on gorilla/websocket,
// with automatic reconnection and a buffered outbound queue.
package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tokmz/pulse"
	"github.com/tokmz/pulse/pkg/logger"
)

// message 线上消息格式
type message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Socket WebSocket 连接，实现 pulse.Transport
type Socket struct {
	url    string
	config *Config
	log    logger.Logger

	// 当前连接
	conn   *websocket.Conn
	connMu sync.Mutex

	// 连接状态
	state      atomic.Value // pulse.ConnectionState
	reconnects atomic.Int32
	socketID   atomic.Value // string

	// 发送队列
	send chan []byte

	// 事件监听器 event -> listenerID -> handler
	listeners  map[string]map[string]pulse.RawHandler
	listenerMu sync.RWMutex

	// 生命周期
	ctx       context.Context
	cancel    context.CancelFunc
	closed    atomic.Bool
	closeOnce sync.Once
}

// Dial 建立 WebSocket 连接并启动读写协程
func Dial(ctx context.Context, url string, opts ...Option) (*Socket, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	config.setDefaults()

	sctx, cancel := context.WithCancel(context.Background())
	s := &Socket{
		url:       url,
		config:    config,
		log:       config.Logger,
		send:      make(chan []byte, config.SendQueueSize),
		listeners: make(map[string]map[string]pulse.RawHandler),
		ctx:       sctx,
		cancel:    cancel,
	}
	s.state.Store(pulse.StateConnecting)
	s.socketID.Store("")

	if err := s.connect(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %w", ErrDialFailed, err)
	}

	go s.readLoop()
	go s.writePump()
	return s, nil
}

// connect 建立一次连接，成功后重置连接状态
func (s *Socket) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: s.config.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}

	conn.SetReadLimit(s.config.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	})

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()

	s.socketID.Store(uuid.NewString())
	s.reconnects.Store(0)
	s.state.Store(pulse.StateConnected)
	s.log.Info("socket connected",
		zap.String("url", s.url),
		zap.String("socket_id", s.SocketID()))
	return nil
}

// readLoop 读取消息并在连接断开后自动重连
func (s *Socket) readLoop() {
	for {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		s.readPump(conn)

		if s.closed.Load() {
			return
		}
		if !s.reconnect() {
			return
		}
	}
}

// readPump 从单个连接读取消息，连接出错后返回
func (s *Socket) readPump(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.log.Warn("socket read failed", zap.Error(err))
				}
				s.state.Store(pulse.StateDisconnected)
			}
			return
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Warn("invalid message format", zap.Error(err))
			continue
		}
		s.dispatch(msg.Event, msg.Data)
	}
}

// reconnect 按指数退避重连，超过最大次数后进入 error 状态
func (s *Socket) reconnect() bool {
	s.state.Store(pulse.StateConnecting)

	for attempt := 1; attempt <= s.config.MaxReconnectAttempts; attempt++ {
		s.reconnects.Store(int32(attempt))

		delay := s.config.ReconnectBaseDelay << (attempt - 1)
		if delay > s.config.ReconnectMaxDelay {
			delay = s.config.ReconnectMaxDelay
		}
		select {
		case <-s.ctx.Done():
			return false
		case <-time.After(delay):
		}

		s.log.Info("socket reconnecting",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.config.MaxReconnectAttempts))

		if err := s.connect(s.ctx); err != nil {
			s.log.Warn("socket reconnect failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}
		return true
	}

	s.state.Store(pulse.StateError)
	s.log.Error("socket reconnect attempts exhausted",
		zap.Int("max_attempts", s.config.MaxReconnectAttempts))
	return false
}

// writePump 将发送队列写入连接，并定期发送心跳
func (s *Socket) writePump() {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.connMu.Lock()
			if s.conn != nil {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			}
			s.connMu.Unlock()
			return

		case data := <-s.send:
			if err := s.writeMessage(websocket.TextMessage, data); err != nil {
				s.log.Warn("socket write failed", zap.Error(err))
			}

		case <-ticker.C:
			if !s.IsConnected() {
				continue
			}
			if err := s.writeMessage(websocket.PingMessage, nil); err != nil {
				s.log.Warn("socket ping failed", zap.Error(err))
			}
		}
	}
}

func (s *Socket) writeMessage(messageType int, data []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return ErrClosed
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(messageType, data)
}

// dispatch 将消息分发给注册的监听器
func (s *Socket) dispatch(event string, data any) {
	s.listenerMu.RLock()
	handlers := make([]pulse.RawHandler, 0, len(s.listeners[event]))
	for _, h := range s.listeners[event] {
		handlers = append(handlers, h)
	}
	s.listenerMu.RUnlock()

	for _, h := range handlers {
		h(data)
	}
}

// Emit 发送事件消息（非阻塞）
func (s *Socket) Emit(event string, data any) error {
	if s.closed.Load() {
		return ErrClosed
	}

	payload, err := json.Marshal(message{Event: event, Data: data})
	if err != nil {
		return err
	}

	select {
	case s.send <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

// On 注册事件监听器，返回监听器 ID
func (s *Socket) On(event string, h pulse.RawHandler) string {
	id := uuid.NewString()

	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	if s.listeners[event] == nil {
		s.listeners[event] = make(map[string]pulse.RawHandler)
	}
	s.listeners[event][id] = h
	return id
}

// Off 移除事件监听器
func (s *Socket) Off(event string, id string) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	if handlers, ok := s.listeners[event]; ok {
		delete(handlers, id)
		if len(handlers) == 0 {
			delete(s.listeners, event)
		}
	}
}

// IsConnected 检查连接是否正常
func (s *Socket) IsConnected() bool {
	return s.ConnectionState() == pulse.StateConnected
}

// ConnectionState 返回当前连接状态
func (s *Socket) ConnectionState() pulse.ConnectionState {
	state, _ := s.state.Load().(pulse.ConnectionState)
	return state
}

// ReconnectAttempts 返回当前重连次数
func (s *Socket) ReconnectAttempts() int {
	return int(s.reconnects.Load())
}

// QueueLength 返回发送队列长度
func (s *Socket) QueueLength() int {
	return len(s.send)
}

// SocketID 返回当前连接 ID
func (s *Socket) SocketID() string {
	id, _ := s.socketID.Load().(string)
	return id
}

// Close 关闭连接并释放资源
func (s *Socket) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.state.Store(pulse.StateDisconnected)
		s.cancel()

		s.connMu.Lock()
		if s.conn != nil {
			_ = s.conn.Close()
		}
		s.connMu.Unlock()
	})
	return nil
}
