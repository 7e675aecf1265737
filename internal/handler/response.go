package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/user/siamlacorns/internal/service"
)

// errorResponse 统一错误响应结构
type errorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	Details   []string  `json:"details,omitempty"`
}

// writeError 把业务错误映射为 HTTP 错误响应
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	label := "Internal Server Error"
	message := "服务器内部错误"
	var details []string

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
		details = svcErr.Details
		switch svcErr.Kind {
		case service.KindNotFound:
			status = http.StatusNotFound
			label = "Not Found"
		case service.KindUnauthenticated:
			status = http.StatusUnauthorized
			label = "Unauthorized"
		case service.KindForbidden:
			status = http.StatusForbidden
			label = "Forbidden"
		case service.KindValidation:
			status = http.StatusBadRequest
			label = "Bad Request"
		case service.KindIntegration:
			status = http.StatusInternalServerError
			label = "Integration Error"
		default:
			// 内部错误不向客户端透出细节
			log.Printf("内部错误: %v", err)
			message = "服务器内部错误"
		}
	} else {
		log.Printf("未分类错误: %v", err)
	}

	c.JSON(status, errorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     label,
		Message:   message,
		Path:      c.Request.URL.Path,
		Details:   details,
	})
}

// writeBindingError 把请求体绑定/校验错误映射为 400 响应
func writeBindingError(c *gin.Context, err error) {
	var details []string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details = append(details, fmt.Sprintf("%s: 不满足 %s 约束", fe.Field(), fe.Tag()))
		}
	}

	c.JSON(http.StatusBadRequest, errorResponse{
		Timestamp: time.Now().UTC(),
		Status:    http.StatusBadRequest,
		Error:     "Bad Request",
		Message:   "请求参数不合法",
		Path:      c.Request.URL.Path,
		Details:   details,
	})
}
