package service

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/user/siamlacorns/internal/model"
	"github.com/user/siamlacorns/internal/repository"
	"github.com/user/siamlacorns/internal/utils"
)

// 单部剧集最多导入的演员数
const tmdbCastLimit = 10

// TMDBService 对接 TMDB 的剧集导入服务
type TMDBService struct {
	lacornRepo  *repository.LacornRepository
	actorRepo   *repository.ActorRepository
	apiKey      string
	baseURL     string
	imageBase   string
	client      *http.Client
	group       singleflight.Group
	searchCache *utils.SearchCache[[]TMDBSearchResult]
}

// NewTMDBService 创建 TMDB 导入服务
func NewTMDBService(
	lacornRepo *repository.LacornRepository,
	actorRepo *repository.ActorRepository,
	apiKey, baseURL, imageBase string,
) *TMDBService {
	return &TMDBService{
		lacornRepo:  lacornRepo,
		actorRepo:   actorRepo,
		apiKey:      apiKey,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		imageBase:   strings.TrimSuffix(imageBase, "/"),
		client:      &http.Client{Timeout: 10 * time.Second},
		searchCache: utils.NewSearchCache[[]TMDBSearchResult](1000, time.Hour),
	}
}

// TMDBSearchResult 搜索结果条目
type TMDBSearchResult struct {
	TmdbID      int64   `json:"tmdbId"`
	MediaType   string  `json:"mediaType"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"releaseDate"`
	PosterURL   string  `json:"posterUrl"`
	VoteAverage float64 `json:"voteAverage"`
}

type tmdbSearchResponse struct {
	Results []struct {
		ID           int64   `json:"id"`
		MediaType    string  `json:"media_type"`
		Title        string  `json:"title"`
		Name         string  `json:"name"` // 电视剧
		Overview     string  `json:"overview"`
		ReleaseDate  string  `json:"release_date"`
		FirstAirDate string  `json:"first_air_date"` // 电视剧
		PosterPath   string  `json:"poster_path"`
		VoteAverage  float64 `json:"vote_average"`
	} `json:"results"`
}

// Search 按标题在 TMDB 搜索电影和电视剧，year 为 0 时不限年份，结果缓存一小时
func (s *TMDBService) Search(query string, year int) ([]TMDBSearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, Invalid("搜索关键词不能为空")
	}

	cacheKey := fmt.Sprintf("tmdb:search:%s:%d", strings.ToLower(query), year)
	if cached, ok := s.searchCache.Get(cacheKey); ok {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/search/multi?api_key=%s&query=%s",
		s.baseURL, s.apiKey, url.QueryEscape(query))
	if year > 0 {
		endpoint += fmt.Sprintf("&year=%d", year)
	}

	var resp tmdbSearchResponse
	if err := s.getJSON(endpoint, &resp); err != nil {
		return nil, err
	}

	results := make([]TMDBSearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.MediaType != "movie" && r.MediaType != "tv" {
			continue
		}
		title := r.Title
		date := r.ReleaseDate
		if r.MediaType == "tv" {
			title = r.Name
			date = r.FirstAirDate
		}
		poster := ""
		if r.PosterPath != "" {
			poster = s.imageBase + "/w500" + r.PosterPath
		}
		results = append(results, TMDBSearchResult{
			TmdbID:      r.ID,
			MediaType:   r.MediaType,
			Title:       title,
			Overview:    r.Overview,
			ReleaseDate: date,
			PosterURL:   poster,
			VoteAverage: r.VoteAverage,
		})
	}

	s.searchCache.Set(cacheKey, results)
	return results, nil
}

type tmdbDetailsResponse struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Name             string  `json:"name"` // 电视剧
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"` // 电视剧
	Runtime          int     `json:"runtime"`
	EpisodeRunTime   []int   `json:"episode_run_time"` // 电视剧
	NumberOfEpisodes int     `json:"number_of_episodes"`
	VoteAverage      float64 `json:"vote_average"`
	Status           string  `json:"status"`
	Adult            bool    `json:"adult"`
	PosterPath       string  `json:"poster_path"`
	Genres           []struct {
		Name string `json:"name"`
	} `json:"genres"`
	ProductionCountries []struct {
		Name string `json:"name"`
	} `json:"production_countries"`
	OriginCountry []string `json:"origin_country"` // 电视剧
	Credits       struct {
		Cast []struct {
			Name        string `json:"name"`
			Character   string `json:"character"`
			ProfilePath string `json:"profile_path"`
		} `json:"cast"`
	} `json:"credits"`
	Videos struct {
		Results []struct {
			Key  string `json:"key"`
			Site string `json:"site"`
			Type string `json:"type"`
		} `json:"results"`
	} `json:"videos"`
}

// Import 按 TMDB ID 导入剧集，已导入过的直接返回现有记录。
// 并发导入同一 ID 时只有一个请求真正访问 TMDB。
func (s *TMDBService) Import(mediaType string, tmdbID int64) (*model.Lacorn, error) {
	if mediaType != "movie" && mediaType != "tv" {
		return nil, Invalid("mediaType 必须是 movie 或 tv")
	}
	if tmdbID <= 0 {
		return nil, Invalid("tmdbId 不合法")
	}

	key := fmt.Sprintf("%s:%d", mediaType, tmdbID)
	val, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.importInternal(mediaType, tmdbID)
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.Lacorn), nil
}

// Details 拉取单个条目的详情（含演员与预告片），映射成本地剧集结构但不入库
func (s *TMDBService) Details(mediaType string, tmdbID int64) (*LacornView, error) {
	if mediaType != "movie" && mediaType != "tv" {
		return nil, Invalid("mediaType 必须是 movie 或 tv")
	}
	if tmdbID <= 0 {
		return nil, Invalid("tmdbId 不合法")
	}

	details, err := s.fetchDetails(mediaType, tmdbID)
	if err != nil {
		return nil, err
	}
	view := toLacornView(*s.buildLacorn(mediaType, details))
	return &view, nil
}

// AutoImport 按标题搜索并导入第一个匹配条目
func (s *TMDBService) AutoImport(title string, year int) (*model.Lacorn, error) {
	results, err := s.Search(title, year)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, NotFound("TMDB 中找不到匹配的内容: %s", title)
	}
	first := results[0]
	return s.Import(first.MediaType, first.TmdbID)
}

func (s *TMDBService) fetchDetails(mediaType string, tmdbID int64) (*tmdbDetailsResponse, error) {
	endpoint := fmt.Sprintf("%s/%s/%d?api_key=%s&append_to_response=credits,videos",
		s.baseURL, mediaType, tmdbID, s.apiKey)

	var details tmdbDetailsResponse
	if err := s.getJSON(endpoint, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (s *TMDBService) importInternal(mediaType string, tmdbID int64) (*model.Lacorn, error) {
	existing, err := s.lacornRepo.FindByTmdbID(tmdbID)
	if err != nil {
		return nil, Internal("查询剧集失败", err)
	}
	if existing != nil {
		return existing, nil
	}

	details, err := s.fetchDetails(mediaType, tmdbID)
	if err != nil {
		return nil, err
	}

	lacorn := s.buildLacorn(mediaType, details)
	if err := s.lacornRepo.Create(lacorn); err != nil {
		return nil, Internal("保存导入剧集失败", err)
	}

	if err := s.importCast(lacorn, details); err != nil {
		// 演员导入失败不回滚剧集本身
		log.Printf("[TMDB] 导入演员失败 (tmdbID=%d): %v", tmdbID, err)
	}

	utils.CacheDelete(topRatedCacheKey)
	return lacorn, nil
}

func (s *TMDBService) buildLacorn(mediaType string, details *tmdbDetailsResponse) *model.Lacorn {
	title := details.Title
	date := details.ReleaseDate
	if mediaType == "tv" {
		title = details.Name
		date = details.FirstAirDate
	}

	year := 0
	if len(date) >= 4 {
		year, _ = strconv.Atoi(date[:4])
	}

	// 片长统一按秒存储，TMDB 返回分钟
	runtimeMinutes := details.Runtime
	if mediaType == "tv" {
		if len(details.EpisodeRunTime) > 0 {
			runtimeMinutes = details.EpisodeRunTime[0]
		} else {
			runtimeMinutes = 45
		}
	}

	totalEpisodes := details.NumberOfEpisodes
	if mediaType == "movie" {
		totalEpisodes = 1
	}

	ageRating := "PG-13"
	if details.Adult {
		ageRating = "R"
	}

	poster := ""
	if details.PosterPath != "" {
		poster = s.imageBase + "/w500" + details.PosterPath
	}

	trailer := ""
	for _, v := range details.Videos.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			trailer = "https://www.youtube.com/watch?v=" + v.Key
			break
		}
	}

	tmdbID := details.ID
	lacorn := &model.Lacorn{
		Title:           title,
		Description:     details.Overview,
		ReleaseYear:     year,
		TotalEpisodes:   totalEpisodes,
		EpisodeDuration: runtimeMinutes * 60,
		PosterURL:       poster,
		TrailerURL:      trailer,
		AgeRating:       ageRating,
		Rating:          details.VoteAverage,
		Status:          mapTMDBStatus(details.Status),
		TmdbID:          &tmdbID,
	}

	for i, g := range details.Genres {
		lacorn.Genres = append(lacorn.Genres, model.LacornGenre{Position: i, Genre: g.Name})
	}
	if len(details.ProductionCountries) > 0 {
		for i, c := range details.ProductionCountries {
			lacorn.Countries = append(lacorn.Countries, model.LacornCountry{Position: i, Country: c.Name})
		}
	} else {
		for i, c := range details.OriginCountry {
			lacorn.Countries = append(lacorn.Countries, model.LacornCountry{Position: i, Country: c})
		}
	}
	return lacorn
}

// mapTMDBStatus 把 TMDB 状态归入本地三态
func mapTMDBStatus(status string) model.SeriesStatus {
	switch strings.ToUpper(status) {
	case "RELEASED", "ENDED":
		return model.StatusCompleted
	case "RETURNING SERIES", "IN PRODUCTION":
		return model.StatusOngoing
	case "PLANNED":
		return model.StatusUpcoming
	default:
		return model.StatusOngoing
	}
}

func (s *TMDBService) importCast(lacorn *model.Lacorn, details *tmdbDetailsResponse) error {
	cast := details.Credits.Cast
	if len(cast) > tmdbCastLimit {
		cast = cast[:tmdbCastLimit]
	}

	for _, c := range cast {
		actor, err := s.actorRepo.FindByNameAndCharacter(c.Name, c.Character)
		if err != nil {
			return err
		}
		if actor == nil {
			photo := ""
			if c.ProfilePath != "" {
				photo = s.imageBase + "/w185" + c.ProfilePath
			}
			actor = &model.Actor{
				Name:          c.Name,
				CharacterName: c.Character,
				PhotoURL:      photo,
			}
			if err := s.actorRepo.Create(actor); err != nil {
				return err
			}
		}
		if err := s.lacornRepo.AddActor(lacorn, actor); err != nil {
			return err
		}
	}
	return nil
}

func (s *TMDBService) getJSON(endpoint string, out interface{}) error {
	resp, err := s.client.Get(endpoint)
	if err != nil {
		return Integration("TMDB 请求失败", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Integration(fmt.Sprintf("TMDB 返回异常状态码 %d", resp.StatusCode), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return Integration("解析 TMDB 响应失败", err)
	}
	return nil
}
