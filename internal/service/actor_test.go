package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/siamlacorns/internal/model"
	"github.com/user/siamlacorns/internal/repository"
	"github.com/user/siamlacorns/internal/testutil"
)

func newActorFixture(t *testing.T) (*ActorService, *repository.Repositories) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewActorService(repos.Actor, repos.Lacorn), repos
}

func TestActorLifecycle(t *testing.T) {
	svc, _ := newActorFixture(t)

	actor, err := svc.Create(ActorInput{Name: "Mario Maurer", Nationality: "泰国", CharacterName: "P'Shone"})
	assert.NoError(t, err)

	got, err := svc.Get(actor.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Mario Maurer", got.Name)
	assert.Equal(t, "P'Shone", got.CharacterName)

	input := ActorInput{Name: "Mario Maurer", Nationality: "泰国/德国", CharacterName: "P'Shone"}
	updated, err := svc.Update(actor.ID, input)
	assert.NoError(t, err)
	assert.Equal(t, "泰国/德国", updated.Nationality)

	assert.NoError(t, svc.Delete(actor.ID))
	_, err = svc.Get(actor.ID)
	var svcErr *Error
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}

func TestActorHeightBackfill(t *testing.T) {
	svc, _ := newActorFixture(t)

	actor, err := svc.Create(ActorInput{Name: "Baifern Pimchanok"})
	assert.NoError(t, err)

	// 缺身高时返回按姓名派生的估值，且两次查询一致
	first, err := svc.Get(actor.ID)
	assert.NoError(t, err)
	assert.NotNil(t, first.HeightCm)

	second, err := svc.Get(actor.ID)
	assert.NoError(t, err)
	assert.Equal(t, *first.HeightCm, *second.HeightCm)

	// 有真实数据时不覆盖
	height := 168.0
	_, err = svc.Update(actor.ID, ActorInput{Name: "Baifern Pimchanok", HeightCm: &height})
	assert.NoError(t, err)
	got, err := svc.Get(actor.ID)
	assert.NoError(t, err)
	assert.Equal(t, 168.0, *got.HeightCm)
}

func TestActorCastMembership(t *testing.T) {
	svc, repos := newActorFixture(t)

	lacorn := &model.Lacorn{Title: "初恋这件小事"}
	assert.NoError(t, repos.Lacorn.Create(lacorn))

	actor, err := svc.Create(ActorInput{Name: "Mario Maurer", CharacterName: "P'Shone"})
	assert.NoError(t, err)

	assert.NoError(t, svc.AddToLacorn(lacorn.ID, actor.ID))
	actors, err := svc.ListByLacorn(lacorn.ID)
	assert.NoError(t, err)
	assert.Len(t, actors, 1)

	assert.NoError(t, svc.RemoveFromLacorn(lacorn.ID, actor.ID))
	actors, err = svc.ListByLacorn(lacorn.ID)
	assert.NoError(t, err)
	assert.Empty(t, actors)
}

func TestActorValidation(t *testing.T) {
	svc, _ := newActorFixture(t)

	var svcErr *Error
	_, err := svc.Create(ActorInput{Name: ""})
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)

	err = svc.AddToLacorn(999, 1)
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}
