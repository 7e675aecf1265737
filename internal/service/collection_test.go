package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/siamlacorns/internal/model"
	"github.com/user/siamlacorns/internal/repository"
	"github.com/user/siamlacorns/internal/testutil"
)

func newCollectionFixture(t *testing.T) (*CollectionService, *repository.Repositories, *model.Lacorn) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	lacorn := &model.Lacorn{Title: "以你的心诠释我的爱"}
	assert.NoError(t, repos.Lacorn.Create(lacorn))

	return NewCollectionService(repos.Collection, repos.Lacorn), repos, lacorn
}

func TestListForUserLazyInit(t *testing.T) {
	svc, _, _ := newCollectionFixture(t)

	collections, err := svc.ListForUser(1)
	assert.NoError(t, err)
	assert.Len(t, collections, 4)

	names := make([]string, 0, 4)
	for _, c := range collections {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, model.DefaultCollectionNames, names)

	// 再次访问不会重复创建
	collections, err = svc.ListForUser(1)
	assert.NoError(t, err)
	assert.Len(t, collections, 4)
}

func TestAddLacornIdempotent(t *testing.T) {
	svc, _, lacorn := newCollectionFixture(t)

	c, err := svc.AddLacorn(1, "Favourites", lacorn.ID)
	assert.NoError(t, err)
	assert.Len(t, c.Lacorns, 1)

	// 重复添加静默成功
	c, err = svc.AddLacorn(1, "favourites", lacorn.ID)
	assert.NoError(t, err)
	assert.Len(t, c.Lacorns, 1)
}

func TestAddLacornInvalidName(t *testing.T) {
	svc, _, lacorn := newCollectionFixture(t)

	_, err := svc.AddLacorn(1, "My Custom List", lacorn.ID)
	var svcErr *Error
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
}

func TestAddLacornUnknownLacorn(t *testing.T) {
	svc, _, _ := newCollectionFixture(t)

	_, err := svc.AddLacorn(1, "Favourites", 9999)
	var svcErr *Error
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}

func TestRemoveLacorn(t *testing.T) {
	svc, _, lacorn := newCollectionFixture(t)

	_, err := svc.AddLacorn(1, "Watch later", lacorn.ID)
	assert.NoError(t, err)

	c, err := svc.RemoveLacorn(1, "Watch later", lacorn.ID)
	assert.NoError(t, err)
	assert.Len(t, c.Lacorns, 0)

	// 不在收藏夹中时再移除同样成功
	c, err = svc.RemoveLacorn(1, "Watch later", lacorn.ID)
	assert.NoError(t, err)
	assert.Len(t, c.Lacorns, 0)
}

func TestCollectionIsolationBetweenUsers(t *testing.T) {
	svc, _, lacorn := newCollectionFixture(t)

	_, err := svc.AddLacorn(1, "Favourites", lacorn.ID)
	assert.NoError(t, err)

	collections, err := svc.ListForUser(2)
	assert.NoError(t, err)
	for _, c := range collections {
		assert.Empty(t, c.Lacorns)
	}
}

func TestGetCollectionByName(t *testing.T) {
	svc, _, lacorn := newCollectionFixture(t)

	_, err := svc.AddLacorn(1, "Started", lacorn.ID)
	assert.NoError(t, err)

	// 名称大小写不敏感
	c, err := svc.GetByName(1, "started")
	assert.NoError(t, err)
	assert.Equal(t, "Started", c.Name)
	assert.Len(t, c.Lacorns, 1)

	var svcErr *Error
	_, err = svc.GetByName(1, "My Custom List")
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
}

func TestRequiresLogin(t *testing.T) {
	svc, _, lacorn := newCollectionFixture(t)

	var svcErr *Error
	_, err := svc.ListForUser(0)
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindUnauthenticated, svcErr.Kind)

	_, err = svc.AddLacorn(0, "Favourites", lacorn.ID)
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindUnauthenticated, svcErr.Kind)
}
