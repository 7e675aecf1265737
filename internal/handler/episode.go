package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/siamlacorns/internal/middleware"
	"github.com/user/siamlacorns/internal/service"
)

type episodeRequest struct {
	SeasonNumber  int      `json:"seasonNumber" binding:"required,min=1"`
	EpisodeNumber int      `json:"episodeNumber" binding:"required,min=1"`
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Duration      int      `json:"duration"`
	VideoURL      string   `json:"videoUrl"`
	ThumbnailURL  string   `json:"thumbnailUrl"`
	Voiceovers    []string `json:"voiceovers"`
}

func (r episodeRequest) toInput() service.EpisodeInput {
	return service.EpisodeInput{
		SeasonNumber:  r.SeasonNumber,
		EpisodeNumber: r.EpisodeNumber,
		Title:         r.Title,
		Description:   r.Description,
		Duration:      r.Duration,
		VideoURL:      r.VideoURL,
		ThumbnailURL:  r.ThumbnailURL,
		Voiceovers:    r.Voiceovers,
	}
}

// ListEpisodes 剧集全部单集，带身份时标记已看单集
func (h *Handler) ListEpisodes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	episodes, err := h.lacorns.ListEpisodes(id, middleware.ReaderUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, episodes)
}

// AddEpisode 添加单集，仅管理员
func (h *Handler) AddEpisode(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req episodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	episode, err := h.lacorns.AddEpisode(id, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, episode)
}

// GetEpisode 单集详情
func (h *Handler) GetEpisode(c *gin.Context) {
	id, ok := pathID(c, "episodeId")
	if !ok {
		return
	}
	episode, err := h.lacorns.GetEpisode(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, episode)
}

// UpdateEpisode 更新单集，仅管理员
func (h *Handler) UpdateEpisode(c *gin.Context) {
	id, ok := pathID(c, "episodeId")
	if !ok {
		return
	}
	var req episodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	episode, err := h.lacorns.UpdateEpisode(id, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, episode)
}

// DeleteEpisode 删除单集，仅管理员
func (h *Handler) DeleteEpisode(c *gin.Context) {
	id, ok := pathID(c, "episodeId")
	if !ok {
		return
	}
	if err := h.lacorns.DeleteEpisode(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EpisodeVideoURL 生成指定音轨的播放地址
func (h *Handler) EpisodeVideoURL(c *gin.Context) {
	id, ok := pathID(c, "episodeId")
	if !ok {
		return
	}
	url, err := h.lacorns.VideoURL(id, c.Query("voicecover"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"videoUrl": url})
}

// EpisodeVoiceovers 单集可用音轨
func (h *Handler) EpisodeVoiceovers(c *gin.Context) {
	id, ok := pathID(c, "episodeId")
	if !ok {
		return
	}
	episode, err := h.lacorns.GetEpisode(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"voiceovers": episode.Voiceovers})
}

type voiceoverRequest struct {
	Voiceover string `json:"voiceover" binding:"required"`
}

// AddEpisodeVoiceover 为单集追加一条音轨，仅管理员
func (h *Handler) AddEpisodeVoiceover(c *gin.Context) {
	id, ok := pathID(c, "episodeId")
	if !ok {
		return
	}
	var req voiceoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	episode, err := h.lacorns.AddVoiceover(id, req.Voiceover)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, episode)
}
