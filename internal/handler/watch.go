package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/siamlacorns/internal/middleware"
	"github.com/user/siamlacorns/internal/service"
)

type progressRequest struct {
	EpisodeID   *int  `json:"episodeId" binding:"required"`
	CurrentTime int   `json:"currentTime" binding:"min=0"`
	Completed   *bool `json:"completed"`
}

// RecordProgress 上报播放进度，所属剧集由单集反查，写操作只认令牌身份
func (h *Handler) RecordProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	progress, err := h.watch.RecordProgress(middleware.GetUserID(c), service.ProgressInput{
		EpisodeID:   req.EpisodeID,
		CurrentTime: req.CurrentTime,
		Completed:   req.Completed,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetProgress 查询某剧集的播放进度
func (h *Handler) GetProgress(c *gin.Context) {
	lacornID, ok := pathID(c, "id")
	if !ok {
		return
	}
	progress, err := h.watch.GetProgress(middleware.GetUserID(c), lacornID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// WatchHistory 观看记录，按最近观看倒序
func (h *Handler) WatchHistory(c *gin.Context) {
	history, err := h.watch.ListHistory(middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// WatchInProgress 未看完的剧集
func (h *Handler) WatchInProgress(c *gin.Context) {
	inProgress, err := h.watch.ListInProgress(middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inProgress)
}
