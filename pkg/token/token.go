package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// secretKey 是一个全局变量，用于存储服务器在启动时生成的32字节密钥。
// 密钥是进程级的：重启后所有已签发的管理token自动失效。
var secretKey []byte

// AdminPayload 定义了管理token中需要被签名的数据结构。
type AdminPayload struct {
	Username  string `json:"u"`
	ExpiresAt int64  `json:"exp"`
}

var (
	// ErrTokenInvalid 表示token格式错误或签名不匹配
	ErrTokenInvalid = errors.New("token无效")
	// ErrTokenExpired 表示token已过期
	ErrTokenExpired = errors.New("token已过期")
)

// GenerateSecretKey 生成一个密码学安全的32字节随机密钥。
func GenerateSecretKey() {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		panic("无法生成安全的密钥: " + err.Error())
	}
	secretKey = key
	fmt.Println("HMAC密钥已成功生成。")
}

// sign 使用HMAC-SHA256对已序列化的payload进行签名。
func sign(payloadBytes []byte) []byte {
	mac := hmac.New(sha256.New, secretKey)
	mac.Write(payloadBytes)
	return mac.Sum(nil)
}

// IssueAdminToken 为给定的用户名签发一个带有效期的管理token。
// token的格式为 base64(payload) + "." + base64(signature)。
func IssueAdminToken(username string, ttl time.Duration) (string, error) {
	payload := AdminPayload{
		Username:  username,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", errors.New("无法序列化Token payload")
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	encodedSignature := base64.RawURLEncoding.EncodeToString(sign(payloadBytes))
	return encodedPayload + "." + encodedSignature, nil
}

// ValidateAdminToken 验证token的签名和有效期，并返回其中的用户名。
func ValidateAdminToken(tokenStr string) (string, error) {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 2 {
		return "", ErrTokenInvalid
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrTokenInvalid
	}
	actualSignature, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", ErrTokenInvalid
	}

	// 使用 hmac.Equal 进行时间恒定的比较，防止时序攻击
	if !hmac.Equal(sign(payloadBytes), actualSignature) {
		return "", ErrTokenInvalid
	}

	var payload AdminPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return "", ErrTokenInvalid
	}
	if time.Now().Unix() >= payload.ExpiresAt {
		return "", ErrTokenExpired
	}

	return payload.Username, nil
}
