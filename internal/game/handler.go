package game

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/what-beats-backend/internal/user"
	"github.com/gin-gonic/gin"

	"github.com/SlpAus/what-beats-backend/internal/comparison"
)

// Handler 提供游戏相关的HTTP接口。
type Handler struct {
	service *Service
	repo    *Repository
}

// NewHandler 构造游戏处理器。
func NewHandler(service *Service, repo *Repository) *Handler {
	return &Handler{service: service, repo: repo}
}

type submitRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Item      string `json:"item" binding:"required"`
}

type endGameRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// StartGame 创建一个新会话。
func (h *Handler) StartGame(c *gin.Context) {
	session, err := h.service.StartGame(user.GetPlayerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法创建游戏会话"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":   session.SessionID,
		"current_item": session.CurrentItem,
		"score":        session.Score,
	})
}

// SubmitComparison 处理一次出招。
func (h *Handler) SubmitComparison(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}

	result, err := h.service.SubmitComparison(c.Request.Context(), req.SessionID, req.Item, user.GetPlayerID(c))
	if err != nil {
		h.writeGameError(c, err)
		return
	}

	resp := gin.H{
		"result":           result.Outcome.Result,
		"description":      result.Outcome.Description,
		"emoji":            result.Outcome.Emoji,
		"count":            result.Outcome.Count,
		"band_description": result.Outcome.BandDescription,
		"band_emoji":       result.Outcome.BandEmoji,
		"score":            result.Score,
		"game_over":        result.GameOver,
	}
	if result.EndGameData != nil {
		resp["end_game_data"] = result.EndGameData
	}
	c.JSON(http.StatusOK, resp)
}

// GetStatus 返回一个会话的当前状态。
func (h *Handler) GetStatus(c *gin.Context) {
	session, err := h.service.GetStatus(c.Param("session_id"))
	if err != nil {
		h.writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":     session.SessionID,
		"current_item":   session.CurrentItem,
		"previous_items": session.Items(),
		"score":          session.Score,
		"is_active":      session.IsActive,
	})
}

// EndGame 主动结束一局。
func (h *Handler) EndGame(c *gin.Context) {
	var req endGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}
	endData, err := h.service.EndGame(req.SessionID, user.GetPlayerID(c))
	if err != nil {
		h.writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"end_game_data": endData})
}

// GetHighScores 返回按分数倒序的前十条成绩。
func (h *Handler) GetHighScores(c *gin.Context) {
	list, err := h.repo.TopHighScores(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取高分榜"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"high_scores": h.toScoreDTOs(list)})
}

// GetScoreboard 返回一页排行榜。
func (h *Handler) GetScoreboard(c *gin.Context) {
	q := ScoreboardQuery{
		Page:     atoiDefault(c.Query("page"), 1),
		PageSize: atoiDefault(c.Query("page_size"), 20),
		SortBy:   c.DefaultQuery("sort_by", "score"),
		Order:    c.DefaultQuery("order", "desc"),
		MinScore: atoiDefault(c.Query("min_score"), 0),
		MaxScore: atoiDefault(c.Query("max_score"), 0),
	}
	if raw := c.Query("from"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			q.From = ts
		}
	}
	if raw := c.Query("to"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			q.To = ts
		}
	}
	list, total, err := h.repo.QueryScoreboard(q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取排行榜"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scores": h.toScoreDTOs(list),
		"total":  total,
		"page":   q.Page,
	})
}

// GetScoreboardStats 返回排行榜的汇总统计。
func (h *Handler) GetScoreboardStats(c *gin.Context) {
	stats, err := h.repo.SummarizeScoreboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取排行榜统计"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type scoreDTO struct {
	SessionID  string   `json:"session_id"`
	Score      int      `json:"score"`
	ItemsChain []string `json:"items_chain"`
	AchievedAt string   `json:"achieved_at"`
}

func (h *Handler) toScoreDTOs(list []HighScore) []scoreDTO {
	dtos := make([]scoreDTO, 0, len(list))
	for i := range list {
		hs := &list[i]
		dtos = append(dtos, scoreDTO{
			SessionID:  hs.SessionID,
			Score:      hs.Score,
			ItemsChain: hs.Chain(),
			AchievedAt: hs.AchievedAt().UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return dtos
}

// writeGameError 把领域错误映射为HTTP状态码。
func (h *Handler) writeGameError(c *gin.Context, err error) {
	var usedErr *ItemAlreadyUsedError
	var inputErr *comparison.InputValidationError
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionInactive):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotSessionOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &usedErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  usedErr.Error(),
			"code":   "ITEM_ALREADY_USED",
			"reason": usedErr.Reason,
		})
	case errors.As(err, &inputErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": inputErr.Error(),
			"code":  "INPUT_VALIDATION_ERROR",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
