package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/user/siamlacorns/internal/middleware"
	"github.com/user/siamlacorns/internal/service"
)

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		writeError(c, service.Invalid("路径参数 %s 不合法", name))
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	return page, pageSize
}

func sortByRating(c *gin.Context) bool {
	return c.Query("sort") == "rating"
}

// ListLacorns 分页返回剧集，只读接口接受 X-User-Id 个性化回退
func (h *Handler) ListLacorns(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.lacorns.List(middleware.ReaderUserID(c), page, pageSize, sortByRating(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchLacorns 按标题搜索
func (h *Handler) SearchLacorns(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.lacorns.Search(middleware.ReaderUserID(c), c.Query("query"), page, pageSize, sortByRating(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// LacornsByGenre 按类型标签筛选
func (h *Handler) LacornsByGenre(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.lacorns.ListByGenre(middleware.ReaderUserID(c), c.Param("genre"), page, pageSize, sortByRating(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// TopLacorns 评分榜
func (h *Handler) TopLacorns(c *gin.Context) {
	views, err := h.lacorns.TopRated()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetLacorn 剧集详情，带身份时附上观看进度
func (h *Handler) GetLacorn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.lacorns.Get(id, middleware.ReaderUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type lacornRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	ReleaseYear     int      `json:"releaseYear"`
	TotalEpisodes   int      `json:"totalEpisodes"`
	EpisodeDuration int      `json:"episodeDuration"`
	PosterURL       string   `json:"posterUrl"`
	TrailerURL      string   `json:"trailerUrl"`
	AgeRating       string   `json:"ageRating"`
	Rating          float64  `json:"rating"`
	Status          string   `json:"status"`
	Genres          []string `json:"genres"`
	Countries       []string `json:"countries"`
}

func (r lacornRequest) toInput() service.LacornInput {
	return service.LacornInput{
		Title:           r.Title,
		Description:     r.Description,
		ReleaseYear:     r.ReleaseYear,
		TotalEpisodes:   r.TotalEpisodes,
		EpisodeDuration: r.EpisodeDuration,
		PosterURL:       r.PosterURL,
		TrailerURL:      r.TrailerURL,
		AgeRating:       r.AgeRating,
		Rating:          r.Rating,
		Status:          r.Status,
		Genres:          r.Genres,
		Countries:       r.Countries,
	}
}

// CreateLacorn 创建剧集，仅管理员
func (h *Handler) CreateLacorn(c *gin.Context) {
	var req lacornRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	detail, err := h.lacorns.Create(req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// UpdateLacorn 更新剧集，仅管理员
func (h *Handler) UpdateLacorn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req lacornRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	detail, err := h.lacorns.Update(id, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// DeleteLacorn 删除剧集，仅管理员
func (h *Handler) DeleteLacorn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lacorns.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
