package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/user/siamlacorns/internal/model"
)

// EpisodeRepository 剧集单集数据访问层
type EpisodeRepository struct {
	db *gorm.DB
}

func NewEpisodeRepository(db *gorm.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

// Create 创建单集及其音轨
func (r *EpisodeRepository) Create(episode *model.Episode) error {
	return r.db.Create(episode).Error
}

// FindByID 查找单集并预加载音轨，未找到返回 nil
func (r *EpisodeRepository) FindByID(id int) (*model.Episode, error) {
	var episode model.Episode
	err := r.db.Preload("Voiceovers").First(&episode, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// FindByNumber 按 (剧集, 季号, 集号) 查找单集，未找到返回 nil
func (r *EpisodeRepository) FindByNumber(lacornID, seasonNumber, episodeNumber int) (*model.Episode, error) {
	var episode model.Episode
	err := r.db.
		Where("lacorn_id = ? AND season_number = ? AND episode_number = ?",
			lacornID, seasonNumber, episodeNumber).
		First(&episode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// ListByLacorn 按季、集序返回某剧集全部单集
func (r *EpisodeRepository) ListByLacorn(lacornID int) ([]model.Episode, error) {
	var episodes []model.Episode
	err := r.db.
		Preload("Voiceovers").
		Where("lacorn_id = ?", lacornID).
		Order("season_number, episode_number").
		Find(&episodes).Error
	return episodes, err
}

// Update 保存单集基本字段
func (r *EpisodeRepository) Update(episode *model.Episode) error {
	return r.db.Save(episode).Error
}

// ReplaceVoiceovers 整体替换音轨列表
func (r *EpisodeRepository) ReplaceVoiceovers(episodeID int, voiceovers []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("episode_id = ?", episodeID).Delete(&model.EpisodeVoiceover{}).Error; err != nil {
			return err
		}
		for _, v := range voiceovers {
			row := model.EpisodeVoiceover{EpisodeID: episodeID, Voiceover: v}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AddVoiceover 为单集追加一条音轨，重复追加不报错
func (r *EpisodeRepository) AddVoiceover(episodeID int, voiceover string) error {
	return r.db.Exec(
		"INSERT INTO episode_voiceovers (episode_id, voiceover) VALUES (?, ?) ON CONFLICT DO NOTHING",
		episodeID, voiceover,
	).Error
}

// Delete 删除单集及其音轨
func (r *EpisodeRepository) Delete(id int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("episode_id = ?", id).Delete(&model.EpisodeVoiceover{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Episode{}, id).Error
	})
}
