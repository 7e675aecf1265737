package service

import (
	"time"

	"github.com/user/siamlacorns/internal/model"
	"github.com/user/siamlacorns/internal/repository"
	"github.com/user/siamlacorns/internal/utils"
)

// ActorService 演员服务
type ActorService struct {
	actorRepo  *repository.ActorRepository
	lacornRepo *repository.LacornRepository
}

// NewActorService 创建演员服务
func NewActorService(
	actorRepo *repository.ActorRepository,
	lacornRepo *repository.LacornRepository,
) *ActorService {
	return &ActorService{
		actorRepo:  actorRepo,
		lacornRepo: lacornRepo,
	}
}

// ActorInput 演员创建/更新请求
type ActorInput struct {
	Name          string
	Biography     string
	PhotoURL      string
	BirthDate     *time.Time
	Nationality   string
	CharacterName string
	HeightCm      *float64
}

// Create 创建演员
func (s *ActorService) Create(input ActorInput) (*model.Actor, error) {
	if input.Name == "" {
		return nil, Invalid("演员姓名不能为空")
	}
	if input.BirthDate != nil && input.BirthDate.After(time.Now()) {
		return nil, Invalid("出生日期不能晚于当前时间")
	}

	actor := &model.Actor{
		Name:          input.Name,
		Biography:     input.Biography,
		PhotoURL:      input.PhotoURL,
		BirthDate:     input.BirthDate,
		Nationality:   input.Nationality,
		CharacterName: input.CharacterName,
		HeightCm:      input.HeightCm,
	}
	if err := s.actorRepo.Create(actor); err != nil {
		return nil, Internal("创建演员失败", err)
	}
	return actor, nil
}

// Get 查询演员，历史数据缺身高时用姓名派生一个估值回填展示
func (s *ActorService) Get(id int) (*model.Actor, error) {
	actor, err := s.actorRepo.FindByID(id)
	if err != nil {
		return nil, Internal("查询演员失败", err)
	}
	if actor == nil {
		return nil, NotFound("演员 %d 不存在", id)
	}
	if actor.HeightCm == nil {
		h := utils.EstimateHeightCm(actor.Name)
		actor.HeightCm = &h
	}
	return actor, nil
}

// List 返回全部演员
func (s *ActorService) List() ([]model.Actor, error) {
	actors, err := s.actorRepo.List()
	if err != nil {
		return nil, Internal("查询演员列表失败", err)
	}
	return actors, nil
}

// ListByLacorn 返回剧集的出演演员
func (s *ActorService) ListByLacorn(lacornID int) ([]model.Actor, error) {
	lacorn, err := s.lacornRepo.FindByID(lacornID)
	if err != nil {
		return nil, Internal("查询剧集失败", err)
	}
	if lacorn == nil {
		return nil, NotFound("剧集 %d 不存在", lacornID)
	}
	actors, err := s.actorRepo.ListByLacorn(lacornID)
	if err != nil {
		return nil, Internal("查询演员失败", err)
	}
	return actors, nil
}

// Update 更新演员资料
func (s *ActorService) Update(id int, input ActorInput) (*model.Actor, error) {
	if input.Name == "" {
		return nil, Invalid("演员姓名不能为空")
	}
	if input.BirthDate != nil && input.BirthDate.After(time.Now()) {
		return nil, Invalid("出生日期不能晚于当前时间")
	}

	actor, err := s.actorRepo.FindByID(id)
	if err != nil {
		return nil, Internal("查询演员失败", err)
	}
	if actor == nil {
		return nil, NotFound("演员 %d 不存在", id)
	}

	actor.Name = input.Name
	actor.Biography = input.Biography
	actor.PhotoURL = input.PhotoURL
	actor.BirthDate = input.BirthDate
	actor.Nationality = input.Nationality
	actor.CharacterName = input.CharacterName
	actor.HeightCm = input.HeightCm

	if err := s.actorRepo.Update(actor); err != nil {
		return nil, Internal("保存演员失败", err)
	}
	return actor, nil
}

// Delete 删除演员
func (s *ActorService) Delete(id int) error {
	actor, err := s.actorRepo.FindByID(id)
	if err != nil {
		return Internal("查询演员失败", err)
	}
	if actor == nil {
		return NotFound("演员 %d 不存在", id)
	}
	if err := s.actorRepo.Delete(id); err != nil {
		return Internal("删除演员失败", err)
	}
	return nil
}

// AddToLacorn 把演员加入剧集出演名单
func (s *ActorService) AddToLacorn(lacornID, actorID int) error {
	lacorn, err := s.lacornRepo.FindByID(lacornID)
	if err != nil {
		return Internal("查询剧集失败", err)
	}
	if lacorn == nil {
		return NotFound("剧集 %d 不存在", lacornID)
	}
	actor, err := s.actorRepo.FindByID(actorID)
	if err != nil {
		return Internal("查询演员失败", err)
	}
	if actor == nil {
		return NotFound("演员 %d 不存在", actorID)
	}
	if err := s.lacornRepo.AddActor(lacorn, actor); err != nil {
		return Internal("保存出演关系失败", err)
	}
	return nil
}

// RemoveFromLacorn 把演员移出剧集出演名单
func (s *ActorService) RemoveFromLacorn(lacornID, actorID int) error {
	lacorn, err := s.lacornRepo.FindByID(lacornID)
	if err != nil {
		return Internal("查询剧集失败", err)
	}
	if lacorn == nil {
		return NotFound("剧集 %d 不存在", lacornID)
	}
	actor, err := s.actorRepo.FindByID(actorID)
	if err != nil {
		return Internal("查询演员失败", err)
	}
	if actor == nil {
		return NotFound("演员 %d 不存在", actorID)
	}
	if err := s.lacornRepo.RemoveActor(lacorn, actor); err != nil {
		return Internal("删除出演关系失败", err)
	}
	return nil
}
