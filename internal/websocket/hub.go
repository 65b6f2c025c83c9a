package websocket

import (
	"log"
	"sync"
)

type HubInterface interface {
	BroadcastToPlayers(addrs []string, msg OutgoingMessage)
	BroadcastGame(gameID uint64, msg OutgoingMessage)
	SendToPlayer(addr string, msg OutgoingMessage)
	ClientByAddress(addr string) (*Client, bool)
	Close()
}

type Hub struct {
	clients    map[string]*Client                 // address -> client
	watchers   map[uint64]map[string]struct{}     // gameID -> set(address)，旁观订阅
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastReq
	gamecast   chan gamecastReq
	sendOne    chan sendReq
	incoming   chan IncomingMessage
	OnIncoming func(IncomingMessage)
	quit       chan struct{}
	mu         sync.RWMutex
}

type broadcastReq struct {
	Addresses []string
	Message   OutgoingMessage
}

type gamecastReq struct {
	GameID  uint64
	Message OutgoingMessage
}

type sendReq struct {
	Address string
	Message OutgoingMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		watchers:   make(map[uint64]map[string]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastReq),
		gamecast:   make(chan gamecastReq),
		sendOne:    make(chan sendReq),
		incoming:   make(chan IncomingMessage),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {

	log.Println("Hub started")

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.Address] = c
			log.Printf("Hub.register -> %s (当前连接数: %d)", c.Address, len(h.clients))
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.Address]; ok {
				delete(h.clients, c.Address)
				// 清掉该连接的所有旁观订阅
				for id, set := range h.watchers {
					delete(set, c.Address)
					if len(set) == 0 {
						delete(h.watchers, id)
					}
				}
				log.Printf("Hub.unregister -> %s (当前连接数: %d)", c.Address, len(h.clients))
				close(c.Send)
			}
			h.mu.Unlock()

		case req := <-h.broadcast:
			for _, addr := range req.Addresses {
				if client, ok := h.clients[addr]; ok {
					select {
					case client.Send <- req.Message:
					default:
						// 慢客户端直接丢弃，不能卡住牌局事件
					}
				}
			}

		case req := <-h.gamecast:
			for addr := range h.watchers[req.GameID] {
				if client, ok := h.clients[addr]; ok {
					select {
					case client.Send <- req.Message:
					default:
					}
				}
			}

		case req := <-h.sendOne:
			if client, ok := h.clients[req.Address]; ok {
				select {
				case client.Send <- req.Message:
				default:
					// 私密消息也不等慢客户端；断线重连后走快照补状态
				}
			}

		case req := <-h.incoming:
			// watch/unwatch 由 Hub 自己处理，其余转发给上层
			switch req.Event {
			case "watch":
				if _, ok := h.watchers[req.GameID]; !ok {
					h.watchers[req.GameID] = make(map[string]struct{})
				}
				h.watchers[req.GameID][req.From] = struct{}{}
			case "unwatch":
				delete(h.watchers[req.GameID], req.From)
			default:
				if h.OnIncoming != nil {
					h.OnIncoming(req)
				}
			}

		case <-h.quit:
			for _, c := range h.clients {
				close(c.Send)
			}
			return
		}
	}
}

// Broadcast to multiple players
func (h *Hub) BroadcastToPlayers(addrs []string, msg OutgoingMessage) {
	h.broadcast <- broadcastReq{
		Addresses: addrs,
		Message:   msg,
	}
}

// BroadcastGame 推送给某局的全部旁观者（公开事件的观战通道）
func (h *Hub) BroadcastGame(gameID uint64, msg OutgoingMessage) {
	h.gamecast <- gamecastReq{
		GameID:  gameID,
		Message: msg,
	}
}

// Send to a single player (safe concurrent)
func (h *Hub) SendToPlayer(addr string, msg OutgoingMessage) {
	h.sendOne <- sendReq{
		Address: addr,
		Message: msg,
	}
}

// Lookup for a player client by address
func (h *Hub) ClientByAddress(addr string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[addr]
	return c, ok
}

func (h *Hub) Close() {
	close(h.quit)
}
