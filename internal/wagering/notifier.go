package wagering

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"MontyPoker/internal/utils"
)

// Notifier 旁注协作方（对局结果竞猜池）。纯 best-effort：
// 调用失败只记日志，绝不回传错误阻塞核心流程。
type Notifier interface {
	OpenWagering(gameID uint64, sessionID string)
	CloseWagering(gameID uint64)
	ReportResult(gameID uint64, winner string, pot int64)
}

// ---------- HTTP 实现 ----------

type HTTPNotifier struct {
	BaseURL string
	client  *http.Client
}

func NewHTTPNotifier(baseURL string) *HTTPNotifier {
	return &HTTPNotifier{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (n *HTTPNotifier) post(path string, payload map[string]any) {
	body, _ := json.Marshal(payload)
	resp, err := n.client.Post(n.BaseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		// 吞掉错误：旁注池挂了不能影响牌局
		utils.Error.Printf("wagering notify failed path=%s err=%v", path, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		utils.Error.Printf("wagering notify rejected path=%s status=%d", path, resp.StatusCode)
	}
}

func (n *HTTPNotifier) OpenWagering(gameID uint64, sessionID string) {
	n.post("/wagering/open", map[string]any{
		"gameId":    gameID,
		"sessionId": sessionID,
	})
}

func (n *HTTPNotifier) CloseWagering(gameID uint64) {
	n.post("/wagering/close", map[string]any{"gameId": gameID})
}

func (n *HTTPNotifier) ReportResult(gameID uint64, winner string, pot int64) {
	n.post("/wagering/result", map[string]any{
		"gameId": gameID,
		"winner": winner,
		"pot":    pot,
	})
}

// ---------- Noop 实现（未配置协作方时使用） ----------

type NoopNotifier struct{}

func (NoopNotifier) OpenWagering(gameID uint64, sessionID string)         {}
func (NoopNotifier) CloseWagering(gameID uint64)                          {}
func (NoopNotifier) ReportResult(gameID uint64, winner string, pot int64) {}
