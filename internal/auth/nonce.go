package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// 登录 nonce：一次性，防签名重放
func generateNonce() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// nonce 存 Redis：多实例部署下任意节点都能完成登录校验
const nonceTTL = 5 * time.Minute

func nonceKey(nonce string) string {
	return "auth:nonce:" + nonce
}

func (h *Handler) issueNonce(c *gin.Context) {
	nonce, err := generateNonce()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate nonce"})
		return
	}

	if err := h.rdb.Set(c.Request.Context(), nonceKey(nonce), "1", nonceTTL).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store nonce"})
		return
	}

	c.JSON(200, gin.H{"nonce": nonce})
}

func (h *Handler) PostNonce(c *gin.Context) {
	h.issueNonce(c)
}

func (h *Handler) GetNonce(c *gin.Context) {
	h.issueNonce(c)
}
