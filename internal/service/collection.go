package service

import (
	"github.com/user/siamlacorns/internal/model"
	"github.com/user/siamlacorns/internal/repository"
)

// CollectionService 收藏夹服务
// 每个用户固定四个收藏夹，首次访问时惰性创建
type CollectionService struct {
	collectionRepo *repository.CollectionRepository
	lacornRepo     *repository.LacornRepository
}

// NewCollectionService 创建收藏夹服务
func NewCollectionService(
	collectionRepo *repository.CollectionRepository,
	lacornRepo *repository.LacornRepository,
) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		lacornRepo:     lacornRepo,
	}
}

// ListForUser 返回用户全部收藏夹，缺失的默认收藏夹先补齐
func (s *CollectionService) ListForUser(userID int) ([]model.Collection, error) {
	if userID <= 0 {
		return nil, Unauthenticated("请先登录")
	}
	if err := s.collectionRepo.EnsureDefaults(userID); err != nil {
		return nil, Internal("初始化收藏夹失败", err)
	}
	collections, err := s.collectionRepo.ListByUser(userID)
	if err != nil {
		return nil, Internal("查询收藏夹失败", err)
	}
	return collections, nil
}

// GetByName 返回当前用户指定名称的收藏夹
func (s *CollectionService) GetByName(userID int, name string) (*model.Collection, error) {
	if userID <= 0 {
		return nil, Unauthenticated("请先登录")
	}
	return s.resolve(userID, name)
}

// resolve 规范化收藏夹名称并定位记录，名称不在允许列表内视为参数错误
func (s *CollectionService) resolve(userID int, name string) (*model.Collection, error) {
	canonical := model.CanonicalCollectionName(name)
	if canonical == "" {
		return nil, Invalid("收藏夹名称必须是 Favourites、Watch later、Started 或 Forsaken")
	}
	if err := s.collectionRepo.EnsureDefaults(userID); err != nil {
		return nil, Internal("初始化收藏夹失败", err)
	}
	collection, err := s.collectionRepo.FindByUserAndName(userID, canonical)
	if err != nil {
		return nil, Internal("查询收藏夹失败", err)
	}
	if collection == nil {
		return nil, Internal("收藏夹缺失", nil)
	}
	return collection, nil
}

// AddLacorn 把剧集加入指定收藏夹，重复添加静默成功
func (s *CollectionService) AddLacorn(userID int, name string, lacornID int) (*model.Collection, error) {
	if userID <= 0 {
		return nil, Unauthenticated("请先登录")
	}
	lacorn, err := s.lacornRepo.FindByID(lacornID)
	if err != nil {
		return nil, Internal("查询剧集失败", err)
	}
	if lacorn == nil {
		return nil, NotFound("剧集 %d 不存在", lacornID)
	}

	collection, err := s.resolve(userID, name)
	if err != nil {
		return nil, err
	}
	if err := s.collectionRepo.AddLacorn(collection.ID, lacornID); err != nil {
		return nil, Internal("保存收藏失败", err)
	}
	return s.collectionRepo.FindByID(collection.ID)
}

// RemoveLacorn 把剧集移出指定收藏夹，不在收藏夹中时静默成功
func (s *CollectionService) RemoveLacorn(userID int, name string, lacornID int) (*model.Collection, error) {
	if userID <= 0 {
		return nil, Unauthenticated("请先登录")
	}
	collection, err := s.resolve(userID, name)
	if err != nil {
		return nil, err
	}
	if err := s.collectionRepo.RemoveLacorn(collection.ID, lacornID); err != nil {
		return nil, Internal("删除收藏失败", err)
	}
	return s.collectionRepo.FindByID(collection.ID)
}
