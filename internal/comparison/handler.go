package comparison

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler 提供对决统计相关的HTTP接口。
type Handler struct {
	repo *Repository
}

// NewHandler 构造对决统计处理器。
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

type comparisonStatDTO struct {
	Item1       string `json:"item1"`
	Item2       string `json:"item2"`
	Item2Wins   bool   `json:"item2_wins"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Count       int    `json:"count"`
}

// GetStats 返回缓存总量和最热门的对决列表。
func (h *Handler) GetStats(c *gin.Context) {
	total, err := h.repo.Total()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取对决统计"})
		return
	}
	top, err := h.repo.TopByCount(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取对决统计"})
		return
	}

	list := make([]comparisonStatDTO, 0, len(top))
	for _, cmp := range top {
		list = append(list, comparisonStatDTO{
			Item1:       cmp.Item1,
			Item2:       cmp.Item2,
			Item2Wins:   cmp.Item2Wins,
			Description: cmp.Description,
			Emoji:       cmp.Emoji,
			Count:       cmp.Count,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_comparisons": total,
		"top_comparisons":   list,
	})
}
