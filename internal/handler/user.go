package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/user/siamlacorns/internal/middleware"
	"github.com/user/siamlacorns/internal/service"
)

type registerRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	BirthDate string `json:"birthDate" binding:"required"`
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		writeError(c, service.Invalid("birthDate 格式应为 YYYY-MM-DD"))
		return
	}

	user, err := h.users.Register(service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		BirthDate: birthDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Me 返回当前登录用户
func (h *Handler) Me(c *gin.Context) {
	user, err := h.users.Get(middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers 返回全部用户，仅管理员
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser 按 ID 查询用户
func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, service.Invalid("用户 ID 不合法"))
		return
	}
	user, err := h.users.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserByUsername 按用户名查询用户
func (h *Handler) GetUserByUsername(c *gin.Context) {
	user, err := h.users.GetByUsername(c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// 仅本人和管理员可以改动用户资料
func (h *Handler) canModifyUser(c *gin.Context, targetID int) bool {
	if middleware.GetUserID(c) == targetID || middleware.IsAdmin(c) {
		return true
	}
	writeError(c, service.Forbidden("不能操作他人的账号"))
	return false
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// UpdateUser 修改用户资料
func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, service.Invalid("用户 ID 不合法"))
		return
	}
	if !h.canModifyUser(c, id) {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	user, err := h.users.Update(id, service.UpdateInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser 删除账号
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, service.Invalid("用户 ID 不合法"))
		return
	}
	if !h.canModifyUser(c, id) {
		return
	}
	if err := h.users.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAvatar 为当前登录用户上传头像
func (h *Handler) UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, service.Invalid("缺少 file 文件字段"))
		return
	}
	if fileHeader.Size == 0 {
		writeError(c, service.Invalid("上传文件不能为空"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		writeError(c, service.Internal("读取上传文件失败", err))
		return
	}
	defer src.Close()

	user, err := h.users.UploadAvatar(middleware.GetUserID(c), fileHeader.Filename, src)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
