package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/user/siamlacorns/internal/model"
	"github.com/user/siamlacorns/internal/repository"
	"github.com/user/siamlacorns/internal/utils"
)

// 榜单缓存键与有效期
const (
	topRatedCacheKey = "lacorn:top_rated"
	topRatedCacheTTL = 10 * time.Minute
	topRatedLimit    = 10
)

// LacornService 剧集目录服务
type LacornService struct {
	lacornRepo  *repository.LacornRepository
	episodeRepo *repository.EpisodeRepository
	historyRepo *repository.HistoryRepository
}

// NewLacornService 创建剧集目录服务
func NewLacornService(
	lacornRepo *repository.LacornRepository,
	episodeRepo *repository.EpisodeRepository,
	historyRepo *repository.HistoryRepository,
) *LacornService {
	return &LacornService{
		lacornRepo:  lacornRepo,
		episodeRepo: episodeRepo,
		historyRepo: historyRepo,
	}
}

// LacornView 剧集视图，展开类型与国家标签。
// 请求带有身份（令牌或 X-User-Id 头）时附带该用户的观看进度
type LacornView struct {
	model.Lacorn
	Genres        []string       `json:"genres"`
	Countries     []string       `json:"countries"`
	WatchProgress *WatchProgress `json:"watchProgress,omitempty"`
}

// EpisodeView 单集视图，展开音轨列表。
// watched/currentTime 只在该单集是用户当前追看的那集时填充
type EpisodeView struct {
	model.Episode
	Voiceovers  []string `json:"voiceovers"`
	Watched     bool     `json:"watched"`
	CurrentTime int      `json:"currentTime"`
}

// LacornDetail 剧集详情
type LacornDetail struct {
	LacornView
	Episodes []EpisodeView  `json:"episodes"`
	Actors   []*model.Actor `json:"actors"`
}

// PagedLacorns 分页结果
type PagedLacorns struct {
	Items    []LacornView `json:"items"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
}

func toLacornView(l model.Lacorn) LacornView {
	return LacornView{
		Lacorn:    l,
		Genres:    l.GenreNames(),
		Countries: l.CountryNames(),
	}
}

func toEpisodeView(e model.Episode) EpisodeView {
	return EpisodeView{
		Episode:    e,
		Voiceovers: e.VoiceoverNames(),
	}
}

func toLacornViews(lacorns []model.Lacorn) []LacornView {
	views := make([]LacornView, 0, len(lacorns))
	for _, l := range lacorns {
		views = append(views, toLacornView(l))
	}
	return views
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// annotate 为一批剧集视图附上 userID 的观看进度，匿名请求原样返回
func (s *LacornService) annotate(views []LacornView, userID int) error {
	if userID <= 0 || len(views) == 0 {
		return nil
	}
	histories, err := s.historyRepo.ListByUser(userID)
	if err != nil {
		return err
	}
	byLacorn := make(map[int]*model.WatchHistory, len(histories))
	for i := range histories {
		byLacorn[histories[i].LacornID] = &histories[i]
	}
	for i := range views {
		if h, ok := byLacorn[views[i].ID]; ok {
			views[i].WatchProgress = toProgress(h)
		}
	}
	return nil
}

// List 分页返回剧集，可选按评分倒序
func (s *LacornService) List(userID, page, pageSize int, byRating bool) (*PagedLacorns, error) {
	page, pageSize = normalizePage(page, pageSize)
	lacorns, total, err := s.lacornRepo.List(page, pageSize, byRating)
	if err != nil {
		return nil, Internal("查询剧集列表失败", err)
	}
	views := toLacornViews(lacorns)
	if err := s.annotate(views, userID); err != nil {
		return nil, Internal("查询观看进度失败", err)
	}
	return &PagedLacorns{Items: views, Total: total, Page: page, PageSize: pageSize}, nil
}

// Search 按标题搜索剧集，空查询视为参数错误
func (s *LacornService) Search(userID int, query string, page, pageSize int, byRating bool) (*PagedLacorns, error) {
	if strings.TrimSpace(query) == "" {
		return nil, Invalid("搜索关键词不能为空")
	}
	page, pageSize = normalizePage(page, pageSize)
	lacorns, total, err := s.lacornRepo.Search(query, page, pageSize, byRating)
	if err != nil {
		return nil, Internal("搜索剧集失败", err)
	}
	views := toLacornViews(lacorns)
	if err := s.annotate(views, userID); err != nil {
		return nil, Internal("查询观看进度失败", err)
	}
	return &PagedLacorns{Items: views, Total: total, Page: page, PageSize: pageSize}, nil
}

// ListByGenre 按类型标签返回剧集
func (s *LacornService) ListByGenre(userID int, genre string, page, pageSize int, byRating bool) (*PagedLacorns, error) {
	if genre == "" {
		return nil, Invalid("类型标签不能为空")
	}
	page, pageSize = normalizePage(page, pageSize)
	lacorns, total, err := s.lacornRepo.FindByGenre(genre, page, pageSize, byRating)
	if err != nil {
		return nil, Internal("查询剧集失败", err)
	}
	views := toLacornViews(lacorns)
	if err := s.annotate(views, userID); err != nil {
		return nil, Internal("查询观看进度失败", err)
	}
	return &PagedLacorns{Items: views, Total: total, Page: page, PageSize: pageSize}, nil
}

// TopRated 评分榜，结果走进程内缓存
func (s *LacornService) TopRated() ([]LacornView, error) {
	if cached, ok := utils.CacheGet(topRatedCacheKey); ok {
		if views, ok := cached.([]LacornView); ok {
			return views, nil
		}
	}

	lacorns, err := s.lacornRepo.TopRated(topRatedLimit)
	if err != nil {
		return nil, Internal("查询评分榜失败", err)
	}
	views := toLacornViews(lacorns)
	utils.CacheSet(topRatedCacheKey, views, topRatedCacheTTL)
	return views, nil
}

// Get 查询剧集详情，带身份的请求附上观看进度与单集的已看标记
func (s *LacornService) Get(id, userID int) (*LacornDetail, error) {
	lacorn, err := s.lacornRepo.FindByID(id)
	if err != nil {
		return nil, Internal("查询剧集失败", err)
	}
	if lacorn == nil {
		return nil, NotFound("剧集 %d 不存在", id)
	}

	detail := &LacornDetail{
		LacornView: toLacornView(*lacorn),
		Episodes:   make([]EpisodeView, 0, len(lacorn.Episodes)),
		Actors:     lacorn.Actors,
	}
	for _, e := range lacorn.Episodes {
		detail.Episodes = append(detail.Episodes, toEpisodeView(e))
	}

	if userID > 0 {
		history, err := s.historyRepo.FindByUserAndLacorn(userID, id)
		if err != nil {
			return nil, Internal("查询观看进度失败", err)
		}
		if history != nil {
			detail.WatchProgress = toProgress(history)
			markWatched(detail.Episodes, history)
		}
	}
	return detail, nil
}

// markWatched 把用户当前追看的那一集标记出来
func markWatched(episodes []EpisodeView, history *model.WatchHistory) {
	if history.EpisodeID == nil {
		return
	}
	for i := range episodes {
		if episodes[i].ID == *history.EpisodeID {
			episodes[i].Watched = history.IsCompleted
			episodes[i].CurrentTime = history.CurrentTime
			return
		}
	}
}

// LacornInput 剧集创建/更新请求
type LacornInput struct {
	Title           string
	Description     string
	ReleaseYear     int
	TotalEpisodes   int
	EpisodeDuration int
	PosterURL       string
	TrailerURL      string
	AgeRating       string
	Rating          float64
	Status          string
	Genres          []string
	Countries       []string
}

func validateLacornInput(input LacornInput) error {
	if input.Title == "" {
		return Invalid("标题不能为空")
	}
	if input.Rating < 0 || input.Rating > 10 {
		return Invalid("评分必须在 0 到 10 之间")
	}
	switch model.SeriesStatus(input.Status) {
	case "", model.StatusOngoing, model.StatusCompleted, model.StatusUpcoming:
	default:
		return Invalid("未知的剧集状态: %s", input.Status)
	}
	return nil
}

// Create 创建剧集
func (s *LacornService) Create(input LacornInput) (*LacornDetail, error) {
	if err := validateLacornInput(input); err != nil {
		return nil, err
	}

	status := model.SeriesStatus(input.Status)
	if status == "" {
		status = model.StatusOngoing
	}

	lacorn := &model.Lacorn{
		Title:           input.Title,
		Description:     input.Description,
		ReleaseYear:     input.ReleaseYear,
		TotalEpisodes:   input.TotalEpisodes,
		EpisodeDuration: input.EpisodeDuration,
		PosterURL:       input.PosterURL,
		TrailerURL:      input.TrailerURL,
		AgeRating:       input.AgeRating,
		Rating:          input.Rating,
		Status:          status,
	}
	for i, g := range input.Genres {
		lacorn.Genres = append(lacorn.Genres, model.LacornGenre{Position: i, Genre: g})
	}
	for i, c := range input.Countries {
		lacorn.Countries = append(lacorn.Countries, model.LacornCountry{Position: i, Country: c})
	}

	if err := s.lacornRepo.Create(lacorn); err != nil {
		return nil, Internal("创建剧集失败", err)
	}
	utils.CacheDelete(topRatedCacheKey)
	return s.Get(lacorn.ID, 0)
}

// Update 更新剧集，整体替换类型与国家标签
func (s *LacornService) Update(id int, input LacornInput) (*LacornDetail, error) {
	if err := validateLacornInput(input); err != nil {
		return nil, err
	}

	lacorn, err := s.lacornRepo.FindByID(id)
	if err != nil {
		return nil, Internal("查询剧集失败", err)
	}
	if lacorn == nil {
		return nil, NotFound("剧集 %d 不存在", id)
	}

	lacorn.Title = input.Title
	lacorn.Description = input.Description
	lacorn.ReleaseYear = input.ReleaseYear
	lacorn.TotalEpisodes = input.TotalEpisodes
	lacorn.EpisodeDuration = input.EpisodeDuration
	lacorn.PosterURL = input.PosterURL
	lacorn.TrailerURL = input.TrailerURL
	lacorn.AgeRating = input.AgeRating
	lacorn.Rating = input.Rating
	if input.Status != "" {
		lacorn.Status = model.SeriesStatus(input.Status)
	}
	lacorn.Genres = nil
	lacorn.Countries = nil
	lacorn.Episodes = nil
	lacorn.Actors = nil

	if err := s.lacornRepo.Update(lacorn); err != nil {
		return nil, Internal("保存剧集失败", err)
	}
	if err := s.lacornRepo.ReplaceGenres(id, input.Genres); err != nil {
		return nil, Internal("保存类型标签失败", err)
	}
	if err := s.lacornRepo.ReplaceCountries(id, input.Countries); err != nil {
		return nil, Internal("保存国家标签失败", err)
	}
	utils.CacheDelete(topRatedCacheKey)
	return s.Get(id, 0)
}

// Delete 删除剧集及全部关联数据
func (s *LacornService) Delete(id int) error {
	lacorn, err := s.lacornRepo.FindByID(id)
	if err != nil {
		return Internal("查询剧集失败", err)
	}
	if lacorn == nil {
		return NotFound("剧集 %d 不存在", id)
	}
	if err := s.lacornRepo.Delete(id); err != nil {
		return Internal("删除剧集失败", err)
	}
	utils.CacheDelete(topRatedCacheKey)
	return nil
}

// EpisodeInput 单集创建/更新请求
type EpisodeInput struct {
	SeasonNumber  int
	EpisodeNumber int
	Title         string
	Description   string
	Duration      int
	VideoURL      string
	ThumbnailURL  string
	Voiceovers    []string
}

func validateEpisodeInput(input EpisodeInput) error {
	if input.Title == "" {
		return Invalid("单集标题不能为空")
	}
	if input.SeasonNumber < 1 || input.EpisodeNumber < 1 {
		return Invalid("季号和集号必须从 1 开始")
	}
	if input.Duration < 0 {
		return Invalid("时长不能为负数")
	}
	for _, v := range input.Voiceovers {
		switch v {
		case model.VoiceoverOriginal, model.VoiceoverDubbed, model.VoiceoverSubbed:
		default:
			return Invalid("未知的音轨类型: %s", v)
		}
	}
	return nil
}

// AddEpisode 为剧集添加单集
func (s *LacornService) AddEpisode(lacornID int, input EpisodeInput) (*EpisodeView, error) {
	if err := validateEpisodeInput(input); err != nil {
		return nil, err
	}

	lacorn, err := s.lacornRepo.FindByID(lacornID)
	if err != nil {
		return nil, Internal("查询剧集失败", err)
	}
	if lacorn == nil {
		return nil, NotFound("剧集 %d 不存在", lacornID)
	}

	existing, err := s.episodeRepo.FindByNumber(lacornID, input.SeasonNumber, input.EpisodeNumber)
	if err != nil {
		return nil, Internal("查询单集失败", err)
	}
	if existing != nil {
		return nil, Invalid("第 %d 季第 %d 集已存在", input.SeasonNumber, input.EpisodeNumber)
	}

	episode := &model.Episode{
		LacornID:      lacornID,
		SeasonNumber:  input.SeasonNumber,
		EpisodeNumber: input.EpisodeNumber,
		Title:         input.Title,
		Description:   input.Description,
		Duration:      input.Duration,
		VideoURL:      input.VideoURL,
		ThumbnailURL:  input.ThumbnailURL,
	}
	for _, v := range input.Voiceovers {
		episode.Voiceovers = append(episode.Voiceovers, model.EpisodeVoiceover{Voiceover: v})
	}

	if err := s.episodeRepo.Create(episode); err != nil {
		return nil, Internal("保存单集失败", err)
	}
	view := toEpisodeView(*episode)
	return &view, nil
}

// ListEpisodes 返回剧集全部单集，带身份的请求标记已看单集
func (s *LacornService) ListEpisodes(lacornID, userID int) ([]EpisodeView, error) {
	lacorn, err := s.lacornRepo.FindByID(lacornID)
	if err != nil {
		return nil, Internal("查询剧集失败", err)
	}
	if lacorn == nil {
		return nil, NotFound("剧集 %d 不存在", lacornID)
	}

	episodes, err := s.episodeRepo.ListByLacorn(lacornID)
	if err != nil {
		return nil, Internal("查询单集失败", err)
	}
	views := make([]EpisodeView, 0, len(episodes))
	for _, e := range episodes {
		views = append(views, toEpisodeView(e))
	}

	if userID > 0 {
		history, err := s.historyRepo.FindByUserAndLacorn(userID, lacornID)
		if err != nil {
			return nil, Internal("查询观看进度失败", err)
		}
		if history != nil {
			markWatched(views, history)
		}
	}
	return views, nil
}

// GetEpisode 查询单集
func (s *LacornService) GetEpisode(id int) (*EpisodeView, error) {
	episode, err := s.episodeRepo.FindByID(id)
	if err != nil {
		return nil, Internal("查询单集失败", err)
	}
	if episode == nil {
		return nil, NotFound("单集 %d 不存在", id)
	}
	view := toEpisodeView(*episode)
	return &view, nil
}

// UpdateEpisode 更新单集，整体替换音轨列表
func (s *LacornService) UpdateEpisode(id int, input EpisodeInput) (*EpisodeView, error) {
	if err := validateEpisodeInput(input); err != nil {
		return nil, err
	}

	episode, err := s.episodeRepo.FindByID(id)
	if err != nil {
		return nil, Internal("查询单集失败", err)
	}
	if episode == nil {
		return nil, NotFound("单集 %d 不存在", id)
	}

	episode.SeasonNumber = input.SeasonNumber
	episode.EpisodeNumber = input.EpisodeNumber
	episode.Title = input.Title
	episode.Description = input.Description
	episode.Duration = input.Duration
	episode.VideoURL = input.VideoURL
	episode.ThumbnailURL = input.ThumbnailURL
	episode.Voiceovers = nil

	if err := s.episodeRepo.Update(episode); err != nil {
		return nil, Internal("保存单集失败", err)
	}
	if err := s.episodeRepo.ReplaceVoiceovers(id, input.Voiceovers); err != nil {
		return nil, Internal("保存音轨失败", err)
	}
	return s.GetEpisode(id)
}

// AddVoiceover 为单集追加一条音轨，已存在时静默成功
func (s *LacornService) AddVoiceover(episodeID int, voiceover string) (*EpisodeView, error) {
	switch voiceover {
	case model.VoiceoverOriginal, model.VoiceoverDubbed, model.VoiceoverSubbed:
	default:
		return nil, Invalid("未知的音轨类型: %s", voiceover)
	}

	episode, err := s.episodeRepo.FindByID(episodeID)
	if err != nil {
		return nil, Internal("查询单集失败", err)
	}
	if episode == nil {
		return nil, NotFound("单集 %d 不存在", episodeID)
	}

	if err := s.episodeRepo.AddVoiceover(episodeID, voiceover); err != nil {
		return nil, Internal("保存音轨失败", err)
	}
	return s.GetEpisode(episodeID)
}

// DeleteEpisode 删除单集
func (s *LacornService) DeleteEpisode(id int) error {
	episode, err := s.episodeRepo.FindByID(id)
	if err != nil {
		return Internal("查询单集失败", err)
	}
	if episode == nil {
		return NotFound("单集 %d 不存在", id)
	}
	if err := s.episodeRepo.Delete(id); err != nil {
		return Internal("删除单集失败", err)
	}
	return nil
}

// VideoURL 生成指定音轨的播放地址。
// 配音与字幕通过查询参数区分，其余音轨直接返回源地址；
// 源地址缺失时退回到约定的本地路径
func (s *LacornService) VideoURL(episodeID int, voicecover string) (string, error) {
	voicecover = strings.ToLower(voicecover)
	if voicecover == "" {
		voicecover = "original"
	}

	episode, err := s.episodeRepo.FindByID(episodeID)
	if err != nil {
		return "", Internal("查询单集失败", err)
	}
	if episode == nil {
		return "", NotFound("单集 %d 不存在", episodeID)
	}

	base := strings.TrimSpace(episode.VideoURL)
	if base == "" {
		return fmt.Sprintf("/videos/episode_%d_%s.mp4", episodeID, voicecover), nil
	}

	switch voicecover {
	case "dubbed":
		return base + "?audio=dubbed", nil
	case "subbed":
		return base + "?audio=original&subtitles=en", nil
	default:
		return base, nil
	}
}
