package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/user/siamlacorns/internal/model"
)

// LacornRepository 剧集数据访问层
type LacornRepository struct {
	db *gorm.DB
}

func NewLacornRepository(db *gorm.DB) *LacornRepository {
	return &LacornRepository{db: db}
}

// Create 创建剧集及其类型、国家标签
func (r *LacornRepository) Create(lacorn *model.Lacorn) error {
	return r.db.Create(lacorn).Error
}

// FindByID 查找剧集并预加载关联，未找到返回 nil
func (r *LacornRepository) FindByID(id int) (*model.Lacorn, error) {
	var lacorn model.Lacorn
	err := r.db.
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Countries", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Episodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("season_number, episode_number")
		}).
		Preload("Episodes.Voiceovers").
		Preload("Actors").
		First(&lacorn, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lacorn, nil
}

// FindByTmdbID 根据 TMDB ID 查找剧集，未找到返回 nil
func (r *LacornRepository) FindByTmdbID(tmdbID int64) (*model.Lacorn, error) {
	var lacorn model.Lacorn
	err := r.db.Where("tmdb_id = ?", tmdbID).First(&lacorn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lacorn, nil
}

// orderClause 默认按插入顺序，可选按评分倒序
func orderClause(byRating bool) string {
	if byRating {
		return "rating DESC"
	}
	return "id"
}

// List 分页列表
func (r *LacornRepository) List(page, pageSize int, byRating bool) ([]model.Lacorn, int64, error) {
	var lacorns []model.Lacorn
	var total int64

	if err := r.db.Model(&model.Lacorn{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order(orderClause(byRating)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&lacorns).Error
	return lacorns, total, err
}

// Search 按标题模糊搜索
func (r *LacornRepository) Search(query string, page, pageSize int, byRating bool) ([]model.Lacorn, int64, error) {
	var lacorns []model.Lacorn
	var total int64

	pattern := "%" + query + "%"
	base := r.db.Model(&model.Lacorn{}).Where("LOWER(title) LIKE LOWER(?)", pattern)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := base.
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order(orderClause(byRating)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&lacorns).Error
	return lacorns, total, err
}

// FindByGenre 按类型标签查询
func (r *LacornRepository) FindByGenre(genre string, page, pageSize int, byRating bool) ([]model.Lacorn, int64, error) {
	var lacorns []model.Lacorn
	var total int64

	base := r.db.Model(&model.Lacorn{}).
		Joins("JOIN lacorn_genres lg ON lg.lacorn_id = lacorns.id").
		Where("LOWER(lg.genre) = LOWER(?)", genre)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := base.
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order(orderClause(byRating)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&lacorns).Error
	return lacorns, total, err
}

// TopRated 评分最高的前 N 部
func (r *LacornRepository) TopRated(limit int) ([]model.Lacorn, error) {
	var lacorns []model.Lacorn
	err := r.db.
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("rating DESC").
		Limit(limit).
		Find(&lacorns).Error
	return lacorns, err
}

// Update 保存剧集基本字段
func (r *LacornRepository) Update(lacorn *model.Lacorn) error {
	return r.db.Save(lacorn).Error
}

// ReplaceGenres 整体替换类型标签
func (r *LacornRepository) ReplaceGenres(lacornID int, genres []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lacorn_id = ?", lacornID).Delete(&model.LacornGenre{}).Error; err != nil {
			return err
		}
		for i, g := range genres {
			row := model.LacornGenre{LacornID: lacornID, Position: i, Genre: g}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceCountries 整体替换制片国家
func (r *LacornRepository) ReplaceCountries(lacornID int, countries []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lacorn_id = ?", lacornID).Delete(&model.LacornCountry{}).Error; err != nil {
			return err
		}
		for i, c := range countries {
			row := model.LacornCountry{LacornID: lacornID, Position: i, Country: c}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AddActor 建立剧集与演员的关联
func (r *LacornRepository) AddActor(lacorn *model.Lacorn, actor *model.Actor) error {
	return r.db.Model(lacorn).Association("Actors").Append(actor)
}

// RemoveActor 解除剧集与演员的关联
func (r *LacornRepository) RemoveActor(lacorn *model.Lacorn, actor *model.Actor) error {
	return r.db.Model(lacorn).Association("Actors").Delete(actor)
}

// Delete 删除剧集及全部关联数据
func (r *LacornRepository) Delete(id int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var lacorn model.Lacorn
		if err := tx.First(&lacorn, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&lacorn).Association("Actors").Clear(); err != nil {
			return err
		}
		if err := tx.Where("lacorn_id = ?", id).Delete(&model.LacornGenre{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lacorn_id = ?", id).Delete(&model.LacornCountry{}).Error; err != nil {
			return err
		}
		var episodeIDs []int
		if err := tx.Model(&model.Episode{}).Where("lacorn_id = ?", id).Pluck("id", &episodeIDs).Error; err != nil {
			return err
		}
		if len(episodeIDs) > 0 {
			if err := tx.Where("episode_id IN ?", episodeIDs).Delete(&model.EpisodeVoiceover{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("lacorn_id = ?", id).Delete(&model.Episode{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lacorn_id = ?", id).Delete(&model.WatchHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM collection_lacorns WHERE lacorn_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Lacorn{}, id).Error
	})
}
