package model

import (
	"time"
)

// SeriesStatus 剧集生命周期状态
type SeriesStatus string

const (
	StatusOngoing   SeriesStatus = "ONGOING"
	StatusCompleted SeriesStatus = "COMPLETED"
	StatusUpcoming  SeriesStatus = "UPCOMING"
)

// Lacorn 剧集（泰剧/电视剧）模型
type Lacorn struct {
	ID              int             `json:"id" gorm:"primaryKey"`
	Title           string          `json:"title" gorm:"not null;index"`
	Description     string          `json:"description" gorm:"type:text"`
	ReleaseYear     int             `json:"releaseYear"`
	TotalEpisodes   int             `json:"totalEpisodes"` // 官方集数，仅供展示，不与实际 Episode 行数校验
	EpisodeDuration int             `json:"episodeDuration"`
	PosterURL       string          `json:"posterUrl"`
	TrailerURL      string          `json:"trailerUrl"`
	AgeRating       string          `json:"ageRating"`
	Rating          float64         `json:"rating" gorm:"index"`
	Status          SeriesStatus    `json:"status" gorm:"default:ONGOING"`
	TmdbID          *int64          `json:"tmdbId,omitempty" gorm:"uniqueIndex"`
	Genres          []LacornGenre   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Countries       []LacornCountry `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Episodes        []Episode       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Actors          []*Actor        `json:"-" gorm:"many2many:lacorn_actors"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"index"`
}

// LacornGenre 剧集类型标签（lacorn_genres 关联表，Position 保持插入顺序）
type LacornGenre struct {
	LacornID int    `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Position int    `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Genre    string `json:"genre" gorm:"index;not null"`
}

// LacornCountry 制片国家（lacorn_countries 关联表）
type LacornCountry struct {
	LacornID int    `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Position int    `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Country  string `json:"country" gorm:"not null"`
}

// GenreNames 提取类型标签列表
func (l *Lacorn) GenreNames() []string {
	names := make([]string, 0, len(l.Genres))
	for _, g := range l.Genres {
		names = append(names, g.Genre)
	}
	return names
}

// CountryNames 提取国家列表
func (l *Lacorn) CountryNames() []string {
	names := make([]string, 0, len(l.Countries))
	for _, c := range l.Countries {
		names = append(names, c.Country)
	}
	return names
}
