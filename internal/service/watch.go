package service

import (
	"time"

	"github.com/user/siamlacorns/internal/model"
	"github.com/user/siamlacorns/internal/repository"
)

// 播放进度达到总时长的该比例即视为看完
const completionThreshold = 0.95

// WatchService 观看进度服务
type WatchService struct {
	historyRepo *repository.HistoryRepository
	lacornRepo  *repository.LacornRepository
	episodeRepo *repository.EpisodeRepository
	userRepo    *repository.UserRepository
}

// NewWatchService 创建观看进度服务
func NewWatchService(
	historyRepo *repository.HistoryRepository,
	lacornRepo *repository.LacornRepository,
	episodeRepo *repository.EpisodeRepository,
	userRepo *repository.UserRepository,
) *WatchService {
	return &WatchService{
		historyRepo: historyRepo,
		lacornRepo:  lacornRepo,
		episodeRepo: episodeRepo,
		userRepo:    userRepo,
	}
}

// ProgressInput 上报播放进度
type ProgressInput struct {
	EpisodeID   *int
	CurrentTime int // 播放位置，秒
	Completed   *bool
}

// WatchProgress 进度视图
type WatchProgress struct {
	ID          int       `json:"id"`
	LacornID    int       `json:"lacornId"`
	EpisodeID   *int      `json:"episodeId"`
	CurrentTime int       `json:"currentTime"`
	IsCompleted bool      `json:"isCompleted"`
	LastWatched time.Time `json:"lastWatched"`
}

func toProgress(h *model.WatchHistory) *WatchProgress {
	return &WatchProgress{
		ID:          h.ID,
		LacornID:    h.LacornID,
		EpisodeID:   h.EpisodeID,
		CurrentTime: h.CurrentTime,
		IsCompleted: h.IsCompleted,
		LastWatched: h.LastWatched,
	}
}

// RecordProgress 记录播放进度。进度挂在 (用户, 剧集) 上，每对只保留一条记录，
// 所属剧集由单集反查得到。先应用客户端显式的 completed 标记，再按进度阈值判定：
// 播放位置达到时长 95% 时强制标记为已看完，即使客户端传了 false。
func (s *WatchService) RecordProgress(userID int, input ProgressInput) (*WatchProgress, error) {
	if userID <= 0 {
		return nil, Unauthenticated("请先登录")
	}
	if input.EpisodeID == nil {
		return nil, Invalid("必须指定单集")
	}
	if input.CurrentTime < 0 {
		return nil, Invalid("播放位置不能为负数")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, Internal("查询用户失败", err)
	}
	if user == nil {
		return nil, NotFound("用户 %d 不存在", userID)
	}

	episode, err := s.episodeRepo.FindByID(*input.EpisodeID)
	if err != nil {
		return nil, Internal("查询单集失败", err)
	}
	if episode == nil {
		return nil, NotFound("单集 %d 不存在", *input.EpisodeID)
	}

	// 时长优先取单集，缺失时退回到剧集的单集时长
	duration := episode.Duration
	if duration <= 0 {
		lacorn, err := s.lacornRepo.FindByID(episode.LacornID)
		if err != nil {
			return nil, Internal("查询剧集失败", err)
		}
		if lacorn != nil {
			duration = lacorn.EpisodeDuration
		}
	}

	history, err := s.historyRepo.FindByUserAndLacorn(userID, episode.LacornID)
	if err != nil {
		return nil, Internal("查询观看记录失败", err)
	}
	if history == nil {
		history = &model.WatchHistory{UserID: userID, LacornID: episode.LacornID}
	}

	history.EpisodeID = input.EpisodeID
	history.CurrentTime = input.CurrentTime
	if input.Completed != nil {
		history.IsCompleted = *input.Completed
	}
	if duration > 0 && float64(input.CurrentTime) >= completionThreshold*float64(duration) {
		history.IsCompleted = true
	}
	history.LastWatched = time.Now()

	if err := s.historyRepo.Save(history); err != nil {
		return nil, Internal("保存观看记录失败", err)
	}
	return toProgress(history), nil
}

// GetProgress 查询某剧集的进度
func (s *WatchService) GetProgress(userID, lacornID int) (*WatchProgress, error) {
	if userID <= 0 {
		return nil, Unauthenticated("请先登录")
	}
	history, err := s.historyRepo.FindByUserAndLacorn(userID, lacornID)
	if err != nil {
		return nil, Internal("查询观看记录失败", err)
	}
	if history == nil {
		return nil, NotFound("剧集 %d 没有观看记录", lacornID)
	}
	return toProgress(history), nil
}

// ListHistory 返回全部观看记录，按最近观看倒序
func (s *WatchService) ListHistory(userID int) ([]WatchProgress, error) {
	if userID <= 0 {
		return nil, Unauthenticated("请先登录")
	}
	histories, err := s.historyRepo.ListByUser(userID)
	if err != nil {
		return nil, Internal("查询观看记录失败", err)
	}
	result := make([]WatchProgress, 0, len(histories))
	for i := range histories {
		result = append(result, *toProgress(&histories[i]))
	}
	return result, nil
}

// ListInProgress 返回未看完的剧集记录，按最近观看倒序
func (s *WatchService) ListInProgress(userID int) ([]WatchProgress, error) {
	if userID <= 0 {
		return nil, Unauthenticated("请先登录")
	}
	histories, err := s.historyRepo.ListInProgress(userID)
	if err != nil {
		return nil, Internal("查询观看记录失败", err)
	}
	result := make([]WatchProgress, 0, len(histories))
	for i := range histories {
		result = append(result, *toProgress(&histories[i]))
	}
	return result, nil
}
