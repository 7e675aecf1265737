package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/user/siamlacorns/internal/service"
)

type actorRequest struct {
	Name          string   `json:"name" binding:"required"`
	Biography     string   `json:"biography"`
	PhotoURL      string   `json:"photoUrl"`
	BirthDate     string   `json:"birthDate"`
	Nationality   string   `json:"nationality"`
	CharacterName string   `json:"characterName"`
	HeightCm      *float64 `json:"heightCm"`
}

func (r actorRequest) toInput() (service.ActorInput, error) {
	input := service.ActorInput{
		Name:          r.Name,
		Biography:     r.Biography,
		PhotoURL:      r.PhotoURL,
		Nationality:   r.Nationality,
		CharacterName: r.CharacterName,
		HeightCm:      r.HeightCm,
	}
	if r.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", r.BirthDate)
		if err != nil {
			return input, service.Invalid("birthDate 格式应为 YYYY-MM-DD")
		}
		input.BirthDate = &birthDate
	}
	return input, nil
}

// ListActors 全部演员
func (h *Handler) ListActors(c *gin.Context) {
	actors, err := h.actors.List()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, actors)
}

// GetActor 演员详情
func (h *Handler) GetActor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, err := h.actors.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, actor)
}

// CreateActor 创建演员，仅管理员
func (h *Handler) CreateActor(c *gin.Context) {
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(c, err)
		return
	}
	actor, err := h.actors.Create(input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, actor)
}

// UpdateActor 更新演员，仅管理员
func (h *Handler) UpdateActor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(c, err)
		return
	}
	actor, err := h.actors.Update(id, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, actor)
}

// DeleteActor 删除演员，仅管理员
func (h *Handler) DeleteActor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.actors.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LacornActors 剧集出演名单
func (h *Handler) LacornActors(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actors, err := h.actors.ListByLacorn(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, actors)
}

// AddLacornActor 把演员加入出演名单，仅管理员
func (h *Handler) AddLacornActor(c *gin.Context) {
	lacornID, ok := pathID(c, "id")
	if !ok {
		return
	}
	actorID, ok := pathID(c, "actorId")
	if !ok {
		return
	}
	if err := h.actors.AddToLacorn(lacornID, actorID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveLacornActor 把演员移出出演名单，仅管理员
func (h *Handler) RemoveLacornActor(c *gin.Context) {
	lacornID, ok := pathID(c, "id")
	if !ok {
		return
	}
	actorID, ok := pathID(c, "actorId")
	if !ok {
		return
	}
	if err := h.actors.RemoveFromLacorn(lacornID, actorID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
