package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/siamlacorns/internal/model"
	"github.com/user/siamlacorns/internal/repository"
)

// UserService 用户服务
type UserService struct {
	userRepo       *repository.UserRepository
	collectionRepo *repository.CollectionRepository
	avatarDir      string
	avatarURLBase  string
}

// NewUserService 创建用户服务
func NewUserService(
	userRepo *repository.UserRepository,
	collectionRepo *repository.CollectionRepository,
	avatarDir, avatarURLBase string,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		collectionRepo: collectionRepo,
		avatarDir:      avatarDir,
		avatarURLBase:  avatarURLBase,
	}
}

// RegisterInput 注册请求
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	BirthDate time.Time
}

// Register 注册新用户，用户名为 admin（忽略大小写）时授予管理员角色
func (s *UserService) Register(input RegisterInput) (*model.User, error) {
	var details []string
	if strings.TrimSpace(input.Username) == "" {
		details = append(details, "username: 不能为空")
	}
	if strings.TrimSpace(input.Email) == "" {
		details = append(details, "email: 不能为空")
	}
	if input.Password == "" {
		details = append(details, "password: 不能为空")
	}
	if input.BirthDate.IsZero() {
		details = append(details, "birthDate: 不能为空")
	} else if input.BirthDate.After(time.Now()) {
		details = append(details, "birthDate: 不能晚于当前时间")
	}
	if len(details) > 0 {
		return nil, InvalidWithDetails("注册信息不完整", details)
	}

	existing, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		return nil, Internal("查询用户失败", err)
	}
	if existing != nil {
		return nil, Invalid("用户名已被占用")
	}
	existing, err = s.userRepo.FindByEmail(input.Email)
	if err != nil {
		return nil, Internal("查询用户失败", err)
	}
	if existing != nil {
		return nil, Invalid("邮箱已被注册")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, Internal("密码加密失败", err)
	}

	role := model.RoleUser
	if strings.EqualFold(input.Username, "admin") {
		role = model.RoleAdmin
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		BirthDate:    input.BirthDate,
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, Internal("创建用户失败", err)
	}

	// 注册即建好四个默认收藏夹
	if err := s.collectionRepo.EnsureDefaults(user.ID); err != nil {
		return nil, Internal("创建默认收藏夹失败", err)
	}
	collections, err := s.collectionRepo.ListByUser(user.ID)
	if err != nil {
		return nil, Internal("查询收藏夹失败", err)
	}
	user.Collections = collections
	return user, nil
}

// Authenticate 校验用户名密码，成功返回用户
func (s *UserService) Authenticate(username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, Internal("查询用户失败", err)
	}
	if user == nil {
		return nil, Unauthenticated("用户名或密码错误")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, Unauthenticated("用户名或密码错误")
	}
	return user, nil
}

// Get 查询用户
func (s *UserService) Get(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, Internal("查询用户失败", err)
	}
	if user == nil {
		return nil, NotFound("用户 %d 不存在", id)
	}
	return user, nil
}

// GetByUsername 按用户名查询用户
func (s *UserService) GetByUsername(username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, Internal("查询用户失败", err)
	}
	if user == nil {
		return nil, NotFound("用户 %s 不存在", username)
	}
	return user, nil
}

// List 返回全部用户
func (s *UserService) List() ([]model.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, Internal("查询用户列表失败", err)
	}
	return users, nil
}

// UpdateInput 用户资料更新，nil 字段不修改
type UpdateInput struct {
	Username *string
	Email    *string
	Password *string
}

// Update 修改用户资料
func (s *UserService) Update(id int, input UpdateInput) (*model.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && *input.Username != user.Username {
		if strings.TrimSpace(*input.Username) == "" {
			return nil, Invalid("用户名不能为空")
		}
		other, err := s.userRepo.FindByUsername(*input.Username)
		if err != nil {
			return nil, Internal("查询用户失败", err)
		}
		if other != nil {
			return nil, Invalid("用户名已被占用")
		}
		user.Username = *input.Username
	}
	if input.Email != nil && *input.Email != user.Email {
		if strings.TrimSpace(*input.Email) == "" {
			return nil, Invalid("邮箱不能为空")
		}
		other, err := s.userRepo.FindByEmail(*input.Email)
		if err != nil {
			return nil, Internal("查询用户失败", err)
		}
		if other != nil {
			return nil, Invalid("邮箱已被注册")
		}
		user.Email = *input.Email
	}
	if input.Password != nil {
		if *input.Password == "" {
			return nil, Invalid("密码不能为空")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, Internal("密码加密失败", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, Internal("保存用户失败", err)
	}
	return user, nil
}

// Delete 删除用户及其关联数据
func (s *UserService) Delete(id int) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(user.ID); err != nil {
		return Internal("删除用户失败", err)
	}
	return nil
}

// UploadAvatar 保存头像文件并更新用户头像地址
// 文件名固定为 <用户名>_<毫秒时间戳><扩展名>
func (s *UserService) UploadAvatar(id int, originalName string, data io.Reader) (*model.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return nil, Invalid("不支持的图片格式: %s", ext)
	}

	if err := os.MkdirAll(s.avatarDir, 0o755); err != nil {
		return nil, Internal("创建头像目录失败", err)
	}

	filename := fmt.Sprintf("%s_%d%s", user.Username, time.Now().UnixMilli(), ext)
	dst, err := os.Create(filepath.Join(s.avatarDir, filename))
	if err != nil {
		return nil, Internal("保存头像失败", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, data)
	if err != nil {
		return nil, Internal("写入头像失败", err)
	}
	if written == 0 {
		os.Remove(filepath.Join(s.avatarDir, filename))
		return nil, Invalid("上传文件不能为空")
	}

	user.AvatarURL = s.avatarURLBase + "/" + filename
	if err := s.userRepo.Update(user); err != nil {
		return nil, Internal("保存用户失败", err)
	}
	return user, nil
}
