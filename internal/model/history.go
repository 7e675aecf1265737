package model

import "time"

// WatchHistory 观看进度，每个 (user_id, lacorn_id) 仅一条记录
type WatchHistory struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	UserID      int       `json:"userId" gorm:"not null;uniqueIndex:idx_user_watch_lacorn"`
	LacornID    int       `json:"lacornId" gorm:"not null;uniqueIndex:idx_user_watch_lacorn"`
	EpisodeID   *int      `json:"episodeId"`
	CurrentTime int       `json:"currentTime"` // 当前播放位置，秒
	IsCompleted bool      `json:"isCompleted"`
	LastWatched time.Time `json:"lastWatched" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
}
