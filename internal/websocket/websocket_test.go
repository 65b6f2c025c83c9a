package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := &Client{Address: "0xA", Send: make(chan OutgoingMessage, 1), Hub: hub}
	c2 := &Client{Address: "0xB", Send: make(chan OutgoingMessage, 1), Hub: hub}

	hub.register <- c1
	hub.register <- c2

	msg := OutgoingMessage{
		Event: "phase_changed",
		Data:  map[string]interface{}{"game": uint64(1), "phase": "peek"},
	}

	hub.BroadcastToPlayers([]string{"0xA", "0xB"}, msg)

	time.Sleep(20 * time.Millisecond)

	m1 := <-c1.Send
	m2 := <-c2.Send

	assert.Equal(t, "phase_changed", m1.Event)
	assert.Equal(t, "phase_changed", m2.Event)
}

func TestHubSendToPlayer(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := &Client{Address: "0xA", Send: make(chan OutgoingMessage, 1), Hub: hub}
	c2 := &Client{Address: "0xB", Send: make(chan OutgoingMessage, 1), Hub: hub}

	hub.register <- c1
	hub.register <- c2

	msg := OutgoingMessage{
		Event: "peek_reveal",
		Data:  "private card",
	}

	hub.SendToPlayer("0xA", msg)

	time.Sleep(20 * time.Millisecond)

	received := <-c1.Send

	// ensure A received the private reveal
	assert.Equal(t, "peek_reveal", received.Event)
	assert.Equal(t, "private card", received.Data)

	// ensure B received nothing: 窥牌结果绝不能串台
	select {
	case <-c2.Send:
		assert.Fail(t, "B should NOT receive anything")
	default:
		// success
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{
		Address: "0xA",
		Send:    make(chan OutgoingMessage, 1),
		Hub:     hub,
	}

	hub.register <- c
	time.Sleep(10 * time.Millisecond)

	if _, ok := hub.clients["0xA"]; !ok {
		t.Fatalf("client should be registered")
	}

	hub.unregister <- c
	time.Sleep(10 * time.Millisecond)

	if _, ok := hub.clients["0xA"]; ok {
		t.Fatalf("client should be removed after unregister")
	}
}

// ✅ 旁观订阅：watch 后收到该局的公开事件，unwatch 后不再收到
func TestHubWatchGame(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	watcher := &Client{Address: "0xW", Send: make(chan OutgoingMessage, 4), Hub: hub}
	other := &Client{Address: "0xO", Send: make(chan OutgoingMessage, 4), Hub: hub}

	hub.register <- watcher
	hub.register <- other

	hub.incoming <- IncomingMessage{From: "0xW", Event: "watch", GameID: 7}
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastGame(7, OutgoingMessage{Event: "action"})
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, "action", (<-watcher.Send).Event)
	select {
	case <-other.Send:
		assert.Fail(t, "non-watcher should not receive game events")
	default:
	}

	hub.incoming <- IncomingMessage{From: "0xW", Event: "unwatch", GameID: 7}
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastGame(7, OutgoingMessage{Event: "action"})
	time.Sleep(10 * time.Millisecond)

	select {
	case <-watcher.Send:
		assert.Fail(t, "unwatched client should not receive game events")
	default:
	}
}

// ✅ 断开连接时旁观订阅一并清理
func TestHubUnregisterClearsWatch(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{Address: "0xW", Send: make(chan OutgoingMessage, 1), Hub: hub}
	hub.register <- c
	hub.incoming <- IncomingMessage{From: "0xW", Event: "watch", GameID: 3}
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- c
	time.Sleep(10 * time.Millisecond)

	if set, ok := hub.watchers[3]; ok && len(set) > 0 {
		t.Fatalf("watch subscriptions should be cleared on unregister")
	}
}

func BenchmarkHubBroadcast(b *testing.B) {
	hub := NewHub()
	go hub.Run()

	// 创建两个客户端，并给他们的 Send 启动 drain goroutine
	c1 := &Client{Address: "0xA", Send: make(chan OutgoingMessage, 1024), Hub: hub}
	c2 := &Client{Address: "0xB", Send: make(chan OutgoingMessage, 1024), Hub: hub}

	go func() {
		for range c1.Send {
		}
	}()
	go func() {
		for range c2.Send {
		}
	}()

	hub.register <- c1
	hub.register <- c2

	b.ResetTimer()
	msg := OutgoingMessage{Event: "bench", Data: nil}

	for i := 0; i < b.N; i++ {
		hub.BroadcastToPlayers([]string{"0xA", "0xB"}, msg)
	}

	// 给 hub 一点时间消化剩余消息
	time.Sleep(50 * time.Millisecond)
}
