package model

import (
	"strings"
	"time"
)

// 用户收藏夹固定名称，不允许自定义
const (
	CollectionFavourites = "Favourites"
	CollectionWatchLater = "Watch later"
	CollectionStarted    = "Started"
	CollectionForsaken   = "Forsaken"
)

// DefaultCollectionNames 每个用户的默认收藏夹
var DefaultCollectionNames = []string{
	CollectionFavourites,
	CollectionWatchLater,
	CollectionStarted,
	CollectionForsaken,
}

// CanonicalCollectionName 返回允许列表中的规范写法，未命中返回空串
func CanonicalCollectionName(name string) string {
	for _, n := range DefaultCollectionNames {
		if strings.EqualFold(n, name) {
			return n
		}
	}
	return ""
}

// Collection 用户收藏夹，(user_id, name) 唯一
type Collection struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	UserID    int       `json:"userId" gorm:"not null;uniqueIndex:idx_collection_user_name"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_collection_user_name"`
	Lacorns   []*Lacorn `json:"lacorns" gorm:"many2many:collection_lacorns"`
	CreatedAt time.Time `json:"created_at"`
}
