package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/user/siamlacorns/internal/model"
	"github.com/user/siamlacorns/internal/repository"
	"github.com/user/siamlacorns/internal/testutil"
)

func newUserService(t *testing.T) (*UserService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewUserService(repos.User, repos.Collection, t.TempDir(), "/uploads/avatars")
	return svc, db
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "secret123",
		BirthDate: time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestRegister(t *testing.T) {
	svc, _ := newUserService(t)

	user, err := svc.Register(validRegisterInput())
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestRegisterCreatesDefaultCollections(t *testing.T) {
	svc, db := newUserService(t)

	user, err := svc.Register(validRegisterInput())
	assert.NoError(t, err)

	// 注册返回值即带上四个默认收藏夹
	names := make([]string, 0, len(user.Collections))
	for _, c := range user.Collections {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, model.DefaultCollectionNames, names)

	var count int64
	assert.NoError(t, db.Model(&model.Collection{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, len(model.DefaultCollectionNames), count)
}

func TestRegisterAdminRole(t *testing.T) {
	svc, _ := newUserService(t)

	// 用户名 admin 忽略大小写，自动授予管理员角色
	input := validRegisterInput()
	input.Username = "Admin"
	input.Email = "admin@example.com"

	user, err := svc.Register(input)
	assert.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newUserService(t)

	input := validRegisterInput()
	input.Username = ""
	input.BirthDate = time.Now().Add(24 * time.Hour)

	_, err := svc.Register(input)
	var svcErr *Error
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
	assert.Len(t, svcErr.Details, 2)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Register(validRegisterInput())
	assert.NoError(t, err)

	_, err = svc.Register(validRegisterInput())
	var svcErr *Error
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)

	input := validRegisterInput()
	input.Username = "alice2"
	_, err = svc.Register(input) // 邮箱重复
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newUserService(t)
	_, err := svc.Register(validRegisterInput())
	assert.NoError(t, err)

	user, err := svc.Authenticate("alice", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Authenticate("alice", "wrong")
	var svcErr *Error
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindUnauthenticated, svcErr.Kind)

	_, err = svc.Authenticate("nobody", "secret123")
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindUnauthenticated, svcErr.Kind)
}

func TestUpdateUser(t *testing.T) {
	svc, _ := newUserService(t)
	user, err := svc.Register(validRegisterInput())
	assert.NoError(t, err)

	newName := "alice_new"
	updated, err := svc.Update(user.ID, UpdateInput{Username: &newName})
	assert.NoError(t, err)
	assert.Equal(t, "alice_new", updated.Username)
	assert.Equal(t, user.Email, updated.Email)
}

func TestUpdateUserConflict(t *testing.T) {
	svc, _ := newUserService(t)
	_, err := svc.Register(validRegisterInput())
	assert.NoError(t, err)

	input := validRegisterInput()
	input.Username = "bob"
	input.Email = "bob@example.com"
	bob, err := svc.Register(input)
	assert.NoError(t, err)

	taken := "alice"
	_, err = svc.Update(bob.ID, UpdateInput{Username: &taken})
	var svcErr *Error
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
}

func TestUploadAvatar(t *testing.T) {
	svc, _ := newUserService(t)
	user, err := svc.Register(validRegisterInput())
	assert.NoError(t, err)

	updated, err := svc.UploadAvatar(user.ID, "photo.png", strings.NewReader("png-bytes"))
	assert.NoError(t, err)
	assert.Contains(t, updated.AvatarURL, "/uploads/avatars/alice_")
	assert.True(t, strings.HasSuffix(updated.AvatarURL, ".png"))

	var svcErr *Error

	// 空文件拒绝，且不覆盖已有头像
	_, err = svc.UploadAvatar(user.ID, "empty.png", strings.NewReader(""))
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)

	// 不支持的扩展名
	_, err = svc.UploadAvatar(user.ID, "avatar.exe", strings.NewReader("data"))
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newUserService(t)
	user, err := svc.Register(validRegisterInput())
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(user.ID))

	_, err = svc.Get(user.ID)
	var svcErr *Error
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}
