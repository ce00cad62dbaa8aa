package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tokmz/pulse"
	"github.com/tokmz/pulse/pkg/logger"
	"github.com/tokmz/pulse/pkg/socket"
)

func main() {
	zl, err := logger.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := socket.Dial(ctx, "ws://localhost:8080/ws", socket.WithLogger(zl))
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	p, err := pulse.New(conn,
		pulse.WithLogger(zl),
		pulse.WithEventLogging(),
	)
	if err != nil {
		log.Fatal(err)
	}

	sub, err := p.Listen(pulse.EventSendMessage, func(data any) error {
		fmt.Println("message received:", data)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
	defer sub.Dispose()

	if err := p.Emit(pulse.EventJoinChatRoom, map[string]any{"chat_id": 42}); err != nil {
		log.Fatal(err)
	}

	send := p.ThrottledEmit(pulse.EventSendMessage, 3, time.Second)
	for i := 0; i < 5; i++ {
		send(map[string]any{"chat_id": 42, "message": fmt.Sprintf("hello %d", i)})
	}

	health := p.Health()
	fmt.Printf("healthy=%v status=%s issues=%v\n", health.Healthy, health.Status, health.Issues)

	time.Sleep(2 * time.Second)
}
