package report

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/SlpAus/what-beats-backend/internal/comparison"
)

// InvalidTransitionError 表示举报状态机不允许这次迁移。
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	if !isKnownStatus(e.To) {
		return fmt.Sprintf("unknown report status %q", e.To)
	}
	return fmt.Sprintf("report cannot move from %q to %q", e.From, e.To)
}

// Service 实现举报的创建与审核流程。
// 审核通过或驳回会把对应的裁定纠正写回对决缓存。
type Service struct {
	repo     *Repository
	cmpRepo  *comparison.Repository
	resolver *comparison.Resolver
}

// NewService 构造举报服务。
func NewService(repo *Repository, cmpRepo *comparison.Repository, resolver *comparison.Resolver) *Service {
	return &Service{repo: repo, cmpRepo: cmpRepo, resolver: resolver}
}

// Create 提交一条新举报。物品名会先做规范化校验。
func (s *Service) Create(sessionID, rawItem1, rawItem2, reason string) (*Report, error) {
	item1, err := comparison.NormalizeItem(rawItem1)
	if err != nil {
		return nil, err
	}
	item2, err := comparison.NormalizeItem(rawItem2)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成举报ID失败: %w", err)
	}
	rep := &Report{
		ReportID:  id.String(),
		SessionID: sessionID,
		Item1:     item1,
		Item2:     item2,
		Reason:    reason,
		Status:    StatusPending,
	}
	// 缓存记录已存在时建立关联，便于审核时对照原始裁定
	if cached, lookupErr := s.cmpRepo.Get(item1, item2); lookupErr == nil && cached != nil {
		rep.ComparisonID = &cached.ID
	}
	if err := s.repo.Create(rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// Get 查询单条举报。
func (s *Service) Get(reportID string) (*Report, error) {
	return s.repo.Get(reportID)
}

// List 按可选状态过滤，分页返回举报列表。
func (s *Service) List(status string, page, pageSize int) ([]Report, int64, error) {
	if status != "" && !isKnownStatus(status) {
		return nil, 0, &InvalidTransitionError{To: status}
	}
	return s.repo.List(status, page, pageSize)
}

// UpdateStatus 推进举报的审核状态。
// approved表示玩家申诉成立，item2应当获胜；rejected维持item1获胜。
// 迁移到相同状态是幂等的空操作，不会重复触发纠正。
func (s *Service) UpdateStatus(reportID, newStatus string) (*Report, error) {
	rep, err := s.repo.Get(reportID)
	if err != nil {
		return nil, err
	}
	if !isKnownStatus(newStatus) || !canTransition(rep.Status, newStatus) {
		return nil, &InvalidTransitionError{From: rep.Status, To: newStatus}
	}
	if rep.Status == newStatus {
		return rep, nil
	}

	switch newStatus {
	case StatusApproved:
		if err := s.applyCorrection(rep, true); err != nil {
			return nil, err
		}
	case StatusRejected:
		if err := s.applyCorrection(rep, false); err != nil {
			return nil, err
		}
	}

	rep.Status = newStatus
	if err := s.repo.Save(rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// applyCorrection 把审核结论写回对决缓存。
func (s *Service) applyCorrection(rep *Report, item2Wins bool) error {
	description := fmt.Sprintf("after review, %s prevails over %s.", rep.Item1, rep.Item2)
	if item2Wins {
		description = fmt.Sprintf("after review, %s prevails over %s.", rep.Item2, rep.Item1)
	}
	_, err := s.resolver.ApplyCorrection(rep.Item1, rep.Item2, item2Wins, description, "⚖️")
	if err != nil {
		return fmt.Errorf("写回审核纠正失败: %w", err)
	}
	return nil
}
