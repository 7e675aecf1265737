package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/user/siamlacorns/internal/model"
)

// CollectionRepository 收藏夹数据访问层
type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// ListByUser 返回用户全部收藏夹及其中剧集
func (r *CollectionRepository) ListByUser(userID int) ([]model.Collection, error) {
	var collections []model.Collection
	err := r.db.
		Preload("Lacorns").
		Preload("Lacorns.Genres", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("user_id = ?", userID).
		Order("id").
		Find(&collections).Error
	return collections, err
}

// FindByID 查找收藏夹及其中剧集，未找到返回 nil
func (r *CollectionRepository) FindByID(id int) (*model.Collection, error) {
	var collection model.Collection
	err := r.db.
		Preload("Lacorns").
		Preload("Lacorns.Genres", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&collection, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// FindByUserAndName 查找用户指定名称的收藏夹，未找到返回 nil
func (r *CollectionRepository) FindByUserAndName(userID int, name string) (*model.Collection, error) {
	var collection model.Collection
	err := r.db.
		Preload("Lacorns").
		Where("user_id = ? AND name = ?", userID, name).
		First(&collection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// EnsureDefaults 为用户补齐缺失的默认收藏夹，已存在的跳过
func (r *CollectionRepository) EnsureDefaults(userID int) error {
	for _, name := range model.DefaultCollectionNames {
		row := model.Collection{UserID: userID, Name: name}
		err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// AddLacorn 将剧集加入收藏夹，重复添加不报错
func (r *CollectionRepository) AddLacorn(collectionID, lacornID int) error {
	return r.db.
		Exec("INSERT INTO collection_lacorns (collection_id, lacorn_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
			collectionID, lacornID).Error
}

// RemoveLacorn 将剧集移出收藏夹，不存在时静默成功
func (r *CollectionRepository) RemoveLacorn(collectionID, lacornID int) error {
	return r.db.
		Exec("DELETE FROM collection_lacorns WHERE collection_id = ? AND lacorn_id = ?",
			collectionID, lacornID).Error
}
