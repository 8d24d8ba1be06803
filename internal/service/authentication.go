// File: internal/service/authentication.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"rental-market/internal/cache"
	"rental-market/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var (
	randRead        = rand.Read
	jsonMarshal     = json.Marshal
	jsonUnmarshal   = json.Unmarshal
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID int        `json:"uid"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// IsStaff 由角色推導，與 model.User.IsStaff 相同規則
func (c *CustomClaims) IsStaff() bool { return c.Role.IsStaff() }

// IsAdmin 僅 admin 角色
func (c *CustomClaims) IsAdmin() bool { return c.Role == model.RoleAdmin }

// RefreshTokenData 存於快取中的 refresh token 內容
type RefreshTokenData struct {
	UserID int `json:"user_id"`
}

// Tokens 發行與驗證 access / refresh token
type Tokens struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	cache      cache.Cache
}

func NewTokens(secret string, accessTTL, refreshTTL time.Duration, c cache.Cache) *Tokens {
	return &Tokens{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		cache:      c,
	}
}

// AccessTTL 回傳 access token 有效期
func (t *Tokens) AccessTTL() time.Duration { return t.accessTTL }

// AuthenticateUser 以 bcrypt 比對密碼
func AuthenticateUser(_ context.Context, user model.User, password string) error {
	if user.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueAccessToken 依據使用者資訊產生 HS256 JWT
func (t *Tokens) IssueAccessToken(user model.User) (string, error) {
	if len(t.secret) == 0 {
		return "", fmt.Errorf("JWT secret not set")
	}
	now := timeNow()
	claims := CustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func (t *Tokens) VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	if len(t.secret) == 0 {
		return nil, fmt.Errorf("JWT secret not set")
	}
	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func refreshKey(token string) string { return "refresh:" + token }

// IssueRefreshToken 產生 32 bytes 隨機 token 並存入快取
func (t *Tokens) IssueRefreshToken(ctx context.Context, userID int) (string, error) {
	buf := make([]byte, 32)
	if _, err := randRead(buf); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	data, err := jsonMarshal(RefreshTokenData{UserID: userID})
	if err != nil {
		return "", err
	}
	if err := t.cache.Set(ctx, refreshKey(token), data, t.refreshTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateRefreshToken 讀取 refresh token 內容；不存在回傳 ErrInvalidRefreshToken
func (t *Tokens) ValidateRefreshToken(ctx context.Context, token string) (*RefreshTokenData, error) {
	raw, err := t.cache.Get(ctx, refreshKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}
	var data RefreshTokenData
	if err := jsonUnmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	if data.UserID == 0 {
		return nil, ErrInvalidRefreshToken
	}
	return &data, nil
}
