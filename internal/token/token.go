package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed 令牌结构不是三段式，直接视为匿名
	ErrMalformed = errors.New("令牌格式错误")
	// ErrInvalid 签名校验失败或令牌已过期
	ErrInvalid = errors.New("令牌无效或已过期")
)

// Codec 负责 JWT 的签发与解析，HS256 签名，subject 为用户名
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec 创建令牌编解码器，ttl 为 0 时默认 24 小时
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue 为指定用户名签发令牌
func (c *Codec) Issue(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("签发令牌失败: %w", err)
	}
	return signed, nil
}

// Validate 校验令牌有效且属于指定用户
func (c *Codec) Validate(raw, expectedSubject string) bool {
	subject, err := c.Decode(raw)
	return err == nil && subject == expectedSubject
}

// Decode 解析令牌并返回其中的用户名
// 结构不合法返回 ErrMalformed，签名或有效期问题返回 ErrInvalid
func (c *Codec) Decode(raw string) (string, error) {
	if strings.Count(raw, ".") != 2 {
		return "", ErrMalformed
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("不支持的签名算法: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalid
	}
	if claims.Subject == "" {
		return "", ErrInvalid
	}
	return claims.Subject, nil
}
