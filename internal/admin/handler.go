package admin

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SlpAus/what-beats-backend/internal/comparison"
	"github.com/SlpAus/what-beats-backend/internal/platform/config"
	"github.com/SlpAus/what-beats-backend/pkg/token"
)

const tokenTTL = 24 * time.Hour

// Handler 提供管理员登录和裁定纠正接口。
type Handler struct {
	cfg      config.AdminConfig
	resolver *comparison.Resolver
}

// NewHandler 构造管理处理器。
func NewHandler(cfg config.AdminConfig, resolver *comparison.Resolver) *Handler {
	return &Handler{cfg: cfg, resolver: resolver}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 校验管理员凭据并签发令牌。
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.Password)) == 1
	if h.cfg.Username == "" || !userOK || !passOK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "用户名或密码错误"})
		return
	}

	tokenStr, err := token.IssueAdminToken(req.Username, tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "签发令牌失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      tokenStr,
		"expires_in": int(tokenTTL.Seconds()),
	})
}

type correctionRequest struct {
	Item1       string `json:"item1" binding:"required"`
	Item2       string `json:"item2" binding:"required"`
	Item2Wins   *bool  `json:"item2_wins" binding:"required"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

// CorrectComparison 直接覆盖一条对决缓存的胜负方向。
func (h *Handler) CorrectComparison(c *gin.Context) {
	var req correctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}

	item1, err := comparison.NormalizeItem(req.Item1)
	if err != nil {
		h.writeValidationError(c, err)
		return
	}
	item2, err := comparison.NormalizeItem(req.Item2)
	if err != nil {
		h.writeValidationError(c, err)
		return
	}

	cmp, err := h.resolver.ApplyCorrection(item1, item2, *req.Item2Wins, req.Description, req.Emoji)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item1":       cmp.Item1,
		"item2":       cmp.Item2,
		"item2_wins":  cmp.Item2Wins,
		"description": cmp.Description,
		"emoji":       cmp.Emoji,
	})
}

func (h *Handler) writeValidationError(c *gin.Context, err error) {
	var inputErr *comparison.InputValidationError
	if errors.As(err, &inputErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": inputErr.Error(),
			"code":  "INPUT_VALIDATION_ERROR",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
}
