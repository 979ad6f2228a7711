package utils

import (
	"EventManagement/configs"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Hiện chỉ phát hành access token; refresh token chưa hỗ trợ.
const TokenTypeAccess = "access"

// JwtCustomClaim mang danh tính tối thiểu để phân quyền mua vé và duyệt
// hoàn tiền: subject là account id, roles quyết định quyền organizer.
type JwtCustomClaim struct {
	Email string   `json:"email"`
	Type  string   `json:"typ"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// GenerateToken ký một token HS256 với thời hạn tính bằng giây.
func GenerateToken(accountID, email string, roles []string, duration int, tokenType string) (string, *JwtCustomClaim, error) {
	if duration <= 0 {
		return "", nil, fmt.Errorf("thời hạn token không hợp lệ: %d", duration)
	}

	now := time.Now()
	claims := &JwtCustomClaim{
		Email: email,
		Type:  tokenType,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			Issuer:    configs.GetJWTIssuer(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(duration) * time.Second)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(configs.GetJWTSecret()))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ExtractCustomClaims xác thực chữ ký, thuật toán và issuer của token
// rồi trả về claims. Token hết hạn hoặc sai issuer đều bị từ chối ở đây.
func ExtractCustomClaims(tokenStr string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &JwtCustomClaim{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(configs.GetJWTSecret()), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(configs.GetJWTIssuer()),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("token không hợp lệ")
	}
	return claims, nil
}
