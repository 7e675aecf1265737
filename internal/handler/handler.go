package handler

import (
	"github.com/user/siamlacorns/internal/service"
	"github.com/user/siamlacorns/internal/token"
)

// Handler 聚合全部 HTTP 处理器依赖
type Handler struct {
	users       *service.UserService
	lacorns     *service.LacornService
	actors      *service.ActorService
	watch       *service.WatchService
	collections *service.CollectionService
	tmdb        *service.TMDBService
	codec       *token.Codec
}

// NewHandler 创建处理器
func NewHandler(
	users *service.UserService,
	lacorns *service.LacornService,
	actors *service.ActorService,
	watch *service.WatchService,
	collections *service.CollectionService,
	tmdb *service.TMDBService,
	codec *token.Codec,
) *Handler {
	return &Handler{
		users:       users,
		lacorns:     lacorns,
		actors:      actors,
		watch:       watch,
		collections: collections,
		tmdb:        tmdb,
		codec:       codec,
	}
}
