package game

import (
	"context"
	"fmt"

	"github.com/SlpAus/what-beats-backend/internal/comparison"
	"github.com/google/uuid"
)

// startingItem 是每局游戏的起始物品。
const startingItem = "rock"

// highScoreThreshold 是进入成绩榜的最低分数。
const highScoreThreshold = 3

// Service 实现游戏会话的状态机。
type Service struct {
	repo     *Repository
	resolver *comparison.Resolver
}

// NewService 构造游戏服务。
func NewService(repo *Repository, resolver *comparison.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// StartGame 创建一个新会话并绑定发起玩家。
func (s *Service) StartGame(ownerID string) (*Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成会话ID失败: %w", err)
	}
	session := &Session{
		SessionID:   id.String(),
		OwnerID:     ownerID,
		CurrentItem: startingItem,
		Score:       0,
		IsActive:    true,
	}
	session.SetItems([]string{})
	if err := s.repo.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitResult 是一次提交的完整结果。
type SubmitResult struct {
	Outcome     *comparison.Outcome
	Score       int
	GameOver    bool
	EndGameData *EndGameData
}

// EndGameData 是一局结束时返回给玩家的总结。
type EndGameData struct {
	FinalScore int      `json:"final_score"`
	ItemsChain []string `json:"items_chain"`
	Qualified  bool     `json:"qualified_for_high_scores"`
}

// SubmitComparison 处理玩家的一次出招。
// 猜对则延续本局，猜错则结束本局并在达标时落榜。
func (s *Service) SubmitComparison(ctx context.Context, sessionID, rawItem, ownerID string) (*SubmitResult, error) {
	session, err := s.repo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, ErrSessionInactive
	}
	if err := s.bindOwner(session, ownerID); err != nil {
		return nil, err
	}

	item, err := comparison.NormalizeItem(rawItem)
	if err != nil {
		return nil, err
	}

	if item == session.CurrentItem {
		return nil, &ItemAlreadyUsedError{Item: item, Reason: "current"}
	}
	for _, used := range session.Items() {
		if item == used {
			return nil, &ItemAlreadyUsedError{Item: item, Reason: "used"}
		}
	}

	outcome, err := s.resolver.Resolve(ctx, session.CurrentItem, item)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{Outcome: outcome}

	if outcome.Result {
		items := session.Items()
		items = append(items, session.CurrentItem)
		session.SetItems(items)
		session.CurrentItem = item
		session.Score++
	} else {
		session.IsActive = false
	}
	if err := s.repo.SaveSession(session); err != nil {
		return nil, err
	}

	result.Score = session.Score
	if !session.IsActive {
		result.GameOver = true
		endData, err := s.finishGame(session)
		if err != nil {
			return nil, err
		}
		result.EndGameData = endData
	}
	return result, nil
}

// GetStatus 返回会话的当前状态。
func (s *Service) GetStatus(sessionID string) (*Session, error) {
	return s.repo.GetSession(sessionID)
}

// EndGame 主动结束一局。已结束的会话重复调用只返回总结，不再产生副作用。
func (s *Service) EndGame(sessionID, ownerID string) (*EndGameData, error) {
	session, err := s.repo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.bindOwner(session, ownerID); err != nil {
		return nil, err
	}

	if session.IsActive {
		session.IsActive = false
		if err := s.repo.SaveSession(session); err != nil {
			return nil, err
		}
	}
	return s.finishGame(session)
}

// bindOwner 实现首次请求绑定玩家的归属规则。
func (s *Service) bindOwner(session *Session, ownerID string) error {
	if ownerID == "" {
		return nil
	}
	if session.OwnerID == "" {
		session.OwnerID = ownerID
		return s.repo.SaveSession(session)
	}
	if session.OwnerID != ownerID {
		return ErrNotSessionOwner
	}
	return nil
}

// finishGame 生成总结并在达标时幂等地写入成绩快照。
func (s *Service) finishGame(session *Session) (*EndGameData, error) {
	chain := append(session.Items(), session.CurrentItem)
	qualified := session.Score >= highScoreThreshold
	if qualified {
		hs := &HighScore{
			SessionID: session.SessionID,
			Score:     session.Score,
		}
		hs.SetChain(chain)
		if err := s.repo.SaveHighScore(hs); err != nil {
			return nil, err
		}
	}
	return &EndGameData{
		FinalScore: session.Score,
		ItemsChain: chain,
		Qualified:  qualified,
	}, nil
}
