package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/user/siamlacorns/internal/service"
)

// TMDBSearch 在 TMDB 中搜索可导入的条目，year 参数可选，仅管理员
func (h *Handler) TMDBSearch(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	results, err := h.tmdb.Search(c.Query("query"), year)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// TMDBDetails 拉取单个条目的详情预览，不入库，仅管理员
func (h *Handler) TMDBDetails(c *gin.Context) {
	tmdbID, err := strconv.ParseInt(c.Param("tmdbId"), 10, 64)
	if err != nil || tmdbID <= 0 {
		writeError(c, service.Invalid("路径参数 tmdbId 不合法"))
		return
	}
	details, err := h.tmdb.Details(c.Query("mediaType"), tmdbID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

type tmdbImportRequest struct {
	MediaType string `json:"mediaType" binding:"required,oneof=movie tv"`
	TmdbID    int64  `json:"tmdbId" binding:"required,min=1"`
}

// TMDBImport 按 TMDB ID 导入剧集，仅管理员，重复导入返回现有记录
func (h *Handler) TMDBImport(c *gin.Context) {
	var req tmdbImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	lacorn, err := h.tmdb.Import(req.MediaType, req.TmdbID)
	if err != nil {
		writeError(c, err)
		return
	}
	detail, err := h.lacorns.Get(lacorn.ID, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// TMDBAutoImport 按标题搜索并导入第一个匹配条目，仅管理员
func (h *Handler) TMDBAutoImport(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		writeError(c, service.Invalid("title 参数不能为空"))
		return
	}
	year, _ := strconv.Atoi(c.Query("year"))

	lacorn, err := h.tmdb.AutoImport(title, year)
	if err != nil {
		writeError(c, err)
		return
	}
	detail, err := h.lacorns.Get(lacorn.ID, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}
