package report

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SlpAus/what-beats-backend/internal/comparison"
)

// Handler 提供举报相关的HTTP接口。
type Handler struct {
	service *Service
}

// NewHandler 构造举报处理器。
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createReportRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Item1     string `json:"item1" binding:"required"`
	Item2     string `json:"item2" binding:"required"`
	Reason    string `json:"reason" binding:"required,max=500"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type reportDTO struct {
	ReportID     string `json:"report_id"`
	SessionID    string `json:"session_id"`
	ComparisonID *uint  `json:"comparison_id,omitempty"`
	Item1        string `json:"item1"`
	Item2        string `json:"item2"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func toDTO(rep *Report) reportDTO {
	return reportDTO{
		ReportID:     rep.ReportID,
		SessionID:    rep.SessionID,
		ComparisonID: rep.ComparisonID,
		Item1:        rep.Item1,
		Item2:        rep.Item2,
		Reason:       rep.Reason,
		Status:       rep.Status,
		CreatedAt:    rep.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// Create 受理玩家的一条举报。
func (h *Handler) Create(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}
	rep, err := h.service.Create(req.SessionID, req.Item1, req.Item2, req.Reason)
	if err != nil {
		h.writeReportError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDTO(rep))
}

// Get 查询单条举报的处理进度。
func (h *Handler) Get(c *gin.Context) {
	rep, err := h.service.Get(c.Param("report_id"))
	if err != nil {
		h.writeReportError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDTO(rep))
}

// List 按可选状态过滤，分页返回举报列表。
func (h *Handler) List(c *gin.Context) {
	page := atoiDefault(c.Query("page"), 1)
	pageSize := atoiDefault(c.Query("page_size"), 50)
	list, total, err := h.service.List(c.Query("status"), page, pageSize)
	if err != nil {
		h.writeReportError(c, err)
		return
	}
	dtos := make([]reportDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, toDTO(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"reports": dtos,
		"total":   total,
		"page":    page,
	})
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

// UpdateStatus 推进举报的审核状态，仅管理员可用。
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}
	rep, err := h.service.UpdateStatus(c.Param("report_id"), req.Status)
	if err != nil {
		h.writeReportError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDTO(rep))
}

// writeReportError 把领域错误映射为HTTP状态码。
func (h *Handler) writeReportError(c *gin.Context, err error) {
	var transErr *InvalidTransitionError
	var inputErr *comparison.InputValidationError
	switch {
	case errors.Is(err, ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &transErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": transErr.Error()})
	case errors.As(err, &inputErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": inputErr.Error(),
			"code":  "INPUT_VALIDATION_ERROR",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
	}
}
