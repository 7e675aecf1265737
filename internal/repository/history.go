package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/user/siamlacorns/internal/model"
)

// HistoryRepository 观看进度数据访问层
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// FindByUserAndLacorn 查找用户某剧集的进度记录，未找到返回 nil
func (r *HistoryRepository) FindByUserAndLacorn(userID, lacornID int) (*model.WatchHistory, error) {
	var history model.WatchHistory
	err := r.db.Where("user_id = ? AND lacorn_id = ?", userID, lacornID).First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// Save 创建或更新进度记录
func (r *HistoryRepository) Save(history *model.WatchHistory) error {
	return r.db.Save(history).Error
}

// ListByUser 返回用户全部观看记录，按最近观看倒序
func (r *HistoryRepository) ListByUser(userID int) ([]model.WatchHistory, error) {
	var histories []model.WatchHistory
	err := r.db.
		Where("user_id = ?", userID).
		Order("last_watched DESC").
		Find(&histories).Error
	return histories, err
}

// ListInProgress 返回用户未看完的记录，按最近观看倒序
func (r *HistoryRepository) ListInProgress(userID int) ([]model.WatchHistory, error) {
	var histories []model.WatchHistory
	err := r.db.
		Where("user_id = ? AND is_completed = ?", userID, false).
		Order("last_watched DESC").
		Find(&histories).Error
	return histories, err
}

// Delete 删除一条进度记录
func (r *HistoryRepository) Delete(id int) error {
	return r.db.Delete(&model.WatchHistory{}, id).Error
}
