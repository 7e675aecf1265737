package model

import (
	"time"
)

// 可用配音/字幕轨道
const (
	VoiceoverOriginal = "ORIGINAL"
	VoiceoverDubbed   = "DUBBED"
	VoiceoverSubbed   = "SUBBED"
)

// Episode 单集模型，(lacorn_id, season_number, episode_number) 唯一
type Episode struct {
	ID            int                `json:"id" gorm:"primaryKey"`
	LacornID      int                `json:"lacornId" gorm:"not null;uniqueIndex:idx_episode_season_number"`
	SeasonNumber  int                `json:"seasonNumber" gorm:"not null;uniqueIndex:idx_episode_season_number"`
	EpisodeNumber int                `json:"episodeNumber" gorm:"not null;uniqueIndex:idx_episode_season_number"`
	Title         string             `json:"title" gorm:"not null"`
	Description   string             `json:"description" gorm:"type:text"`
	Duration      int                `json:"duration"` // 单位：秒
	VideoURL      string             `json:"videoUrl" gorm:"not null"`
	ThumbnailURL  string             `json:"thumbnailUrl"`
	Voiceovers    []EpisodeVoiceover `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time          `json:"created_at"`
}

// EpisodeVoiceover 单集可用音轨（episode_voiceovers 关联表）
type EpisodeVoiceover struct {
	EpisodeID int    `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Voiceover string `json:"voiceover" gorm:"primaryKey"`
}

// VoiceoverNames 提取音轨名称列表
func (e *Episode) VoiceoverNames() []string {
	names := make([]string, 0, len(e.Voiceovers))
	for _, v := range e.Voiceovers {
		names = append(names, v.Voiceover)
	}
	return names
}
