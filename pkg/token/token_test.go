package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIssueAndValidate(t *testing.T) {
	GenerateSecretKey()

	tokenStr, err := IssueAdminToken("admin", time.Hour)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	username, err := ValidateAdminToken(tokenStr)
	if err != nil {
		t.Fatalf("校验令牌失败: %v", err)
	}
	if username != "admin" {
		t.Fatalf("用户名 = %q, 期望 admin", username)
	}
}

func TestExpiredToken(t *testing.T) {
	GenerateSecretKey()

	tokenStr, err := IssueAdminToken("admin", -time.Minute)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	_, err = ValidateAdminToken(tokenStr)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("期望ErrTokenExpired，得到 %v", err)
	}
}

func TestTamperedToken(t *testing.T) {
	GenerateSecretKey()

	tokenStr, err := IssueAdminToken("admin", time.Hour)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}

	parts := strings.SplitN(tokenStr, ".", 2)
	tampered := parts[0] + "x." + parts[1]
	if _, err := ValidateAdminToken(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("篡改后的令牌应校验失败，得到 %v", err)
	}

	if _, err := ValidateAdminToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("格式错误的令牌应校验失败，得到 %v", err)
	}
}
