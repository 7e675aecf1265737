package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/user/siamlacorns/internal/model"
)

// ActorRepository 演员数据访问层
type ActorRepository struct {
	db *gorm.DB
}

func NewActorRepository(db *gorm.DB) *ActorRepository {
	return &ActorRepository{db: db}
}

// Create 创建演员
func (r *ActorRepository) Create(actor *model.Actor) error {
	return r.db.Create(actor).Error
}

// FindByID 查找演员，未找到返回 nil
func (r *ActorRepository) FindByID(id int) (*model.Actor, error) {
	var actor model.Actor
	err := r.db.First(&actor, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

// FindByNameAndCharacter 精确匹配姓名与角色名，用于导入去重
func (r *ActorRepository) FindByNameAndCharacter(name, characterName string) (*model.Actor, error) {
	var actor model.Actor
	err := r.db.Where("name = ? AND character_name = ?", name, characterName).First(&actor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

// List 返回全部演员
func (r *ActorRepository) List() ([]model.Actor, error) {
	var actors []model.Actor
	err := r.db.Order("name").Find(&actors).Error
	return actors, err
}

// ListByLacorn 返回出演某剧集的演员
func (r *ActorRepository) ListByLacorn(lacornID int) ([]model.Actor, error) {
	var actors []model.Actor
	err := r.db.
		Joins("JOIN lacorn_actors la ON la.actor_id = actors.id").
		Where("la.lacorn_id = ?", lacornID).
		Order("actors.id").
		Find(&actors).Error
	return actors, err
}

// Update 保存演员全部字段
func (r *ActorRepository) Update(actor *model.Actor) error {
	return r.db.Save(actor).Error
}

// Delete 删除演员及其出演关联
func (r *ActorRepository) Delete(id int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM lacorn_actors WHERE actor_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Actor{}, id).Error
	})
}
