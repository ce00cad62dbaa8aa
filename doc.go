// Package pulse provides a resilient real-time event pipeline for persistent,
// message-oriented connections such as chat or task-notification channels.
//
// # Features
//
//   - Typed event taxonomy over untyped wire payloads (registry of per-event rules)
//   - Fail-closed validation with complete error aggregation
//   - Total payload sanitization (credential stripping, markup removal, ID coercion)
//   - Debounce and throttle rate limiting with injectable clock
//   - Exponential-backoff retry with context cancellation
//   - Safe listener wrapping: handler errors and panics never reach the transport
//   - Connection health derivation and statistics snapshots
//
// # Basic Usage
//
// Connect a transport and build a pipeline:
//
//	sock, err := socket.Dial(ctx, "wss://example.com/ws")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sock.Close()
//
//	pipe, err := pulse.New(sock,
//	    pulse.WithLogger(appLogger),
//	    pulse.WithHealthThresholds(5, 50),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Register a protected listener (validation and sanitization are on by default):
//
//	sub, _ := pipe.Listen(pulse.EventSendMessage, func(data any) error {
//	    msg := data.(map[string]any)
//	    fmt.Println(msg["message"])
//	    return nil
//	}, pulse.WithRetry(nil))
//	defer sub.Dispose()
//
// Emit events through the validate → sanitize → transport path:
//
//	_ = pipe.Emit(pulse.EventSendMessage, map[string]any{
//	    "chat_id": 42,
//	    "message": "hello",
//	})
//
// Rate-limited emitters:
//
//	typing := pipe.DebouncedEmit("typing_indicator", 300*time.Millisecond)
//	typing(map[string]any{"chat_id": 42})
//
//	presence := pipe.ThrottledEmit("presence_ping", 3, time.Second)
//	presence(map[string]any{"chat_id": 42})
//
// # Event Taxonomy
//
// Unknown event names always fail validation. The default taxonomy recognizes
// send_message, join_chat_room, leave_chat_room and task_submission; extend it
// with Taxonomy.Register:
//
//	tax := pulse.DefaultTaxonomy()
//	_ = tax.Register("typing_indicator", &pulse.EventRule{
//	    Category: "chat",
//	    Fields:   []pulse.FieldRule{{Key: "chat_id", Kind: pulse.FieldID}},
//	})
//
// # Health Monitoring
//
// Health is recomputed from observable transport state on every call:
//
//	health := pipe.Health()
//	if !health.Healthy {
//	    fmt.Println(health.Status, health.Issues)
//	}
//
// # Error Handling
//
// Inbound failures never escape to the transport dispatch loop: invalid events
// are dropped and logged, handler errors are caught and logged, retry exhaustion
// is swallowed at the listener boundary. Callers that need failure visibility
// inspect health, stats, metrics or logs. Outbound transport errors do return
// to the Emit caller.
package pulse
