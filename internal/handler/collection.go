package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/siamlacorns/internal/middleware"
	"github.com/user/siamlacorns/internal/service"
)

// collectionUserID 校验路径中的用户与令牌身份一致，收藏夹只能本人读写
func collectionUserID(c *gin.Context) (int, bool) {
	pathUserID, ok := pathID(c, "id")
	if !ok {
		return 0, false
	}
	if middleware.GetUserID(c) != pathUserID {
		writeError(c, service.Forbidden("不能访问他人的收藏夹"))
		return 0, false
	}
	return pathUserID, true
}

// ListCollections 用户的四个收藏夹，缺失时惰性创建
func (h *Handler) ListCollections(c *gin.Context) {
	userID, ok := collectionUserID(c)
	if !ok {
		return
	}
	collections, err := h.collections.ListForUser(userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, collections)
}

// GetCollection 按名称查单个收藏夹
func (h *Handler) GetCollection(c *gin.Context) {
	userID, ok := collectionUserID(c)
	if !ok {
		return
	}
	collection, err := h.collections.GetByName(userID, c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

// AddToCollection 把剧集加入收藏夹，重复添加静默成功
func (h *Handler) AddToCollection(c *gin.Context) {
	userID, ok := collectionUserID(c)
	if !ok {
		return
	}
	lacornID, ok := pathID(c, "lacornId")
	if !ok {
		return
	}
	collection, err := h.collections.AddLacorn(userID, c.Param("name"), lacornID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

// RemoveFromCollection 把剧集移出收藏夹，不在收藏夹中时静默成功
func (h *Handler) RemoveFromCollection(c *gin.Context) {
	userID, ok := collectionUserID(c)
	if !ok {
		return
	}
	lacornID, ok := pathID(c, "lacornId")
	if !ok {
		return
	}
	collection, err := h.collections.RemoveLacorn(userID, c.Param("name"), lacornID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}
