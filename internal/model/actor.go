package model

import "time"

// Actor 演员模型
// CharacterName 直接挂在演员记录上：一个演员记录对应一次出演
type Actor struct {
	ID            int        `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"not null;index"`
	Biography     string     `json:"biography" gorm:"type:text"`
	PhotoURL      string     `json:"photoUrl"`
	BirthDate     *time.Time `json:"birthDate"`
	Nationality   string     `json:"nationality"`
	CharacterName string     `json:"characterName"`
	HeightCm      *float64   `json:"heightCm"`
	Lacorns       []*Lacorn  `json:"-" gorm:"many2many:lacorn_actors"`
	CreatedAt     time.Time  `json:"created_at"`
}
