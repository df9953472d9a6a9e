package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vms-http-service/internal/domain/models"
	"vms-http-service/internal/infrastructure/config"
)

// 认证相关错误
var (
	ErrInvalidCredentials  = errors.New("邮箱或密码错误")
	ErrUserEmailTaken      = errors.New("用户已存在")
	ErrInvalidRole         = errors.New("角色必须是 user、agent 或 admin")
	ErrInvalidRefreshToken = errors.New("无效的刷新令牌")
)

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(userID uint, role, department string) (string, error)
	GenerateRefreshToken(userID uint) (string, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
	Register(username, email, password, role, department string) (*models.User, error)
	Login(email, password string) (*LoginResult, error)
	Refresh(refreshToken string) (string, error)
}

// LoginResult 表示登录结果
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       uint   `json:"user_id"`
	Role         string `json:"role"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}

// JWTService 提供JWT相关服务
type JWTService struct {
	secretKey        string
	refreshSecretKey string
	issuer           string
	DB               *gorm.DB
}

// JWTClaims 定义JWT令牌的声明结构
type JWTClaims struct {
	UserID     uint   `json:"user_id"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	jwt.RegisteredClaims
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config, db *gorm.DB) InterfaceJWTService {
	return &JWTService{
		secretKey:        cfg.JWTSecretKey,
		refreshSecretKey: cfg.JWTRefreshSecretKey,
		issuer:           "vms-http-service",
		DB:               db,
	}
}

// 1 GenerateToken 生成访问令牌，有效期1小时
func (s *JWTService) GenerateToken(userID uint, role, department string) (string, error) {
	expirationTime := time.Now().Add(1 * time.Hour)

	claims := &JWTClaims{
		UserID:     userID,
		Role:       role,
		Department: department,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// 2 GenerateRefreshToken 生成刷新令牌，有效期7天
func (s *JWTService) GenerateRefreshToken(userID uint) (string, error) {
	claims := &JWTClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.refreshSecretKey))
}

// 3 ValidateToken 验证访问令牌
func (s *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
}

// 4 Register 注册新用户
func (s *JWTService) Register(username, email, password, role, department string) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	if !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserEmailTaken
	}

	user := models.User{
		Username:   username,
		Email:      email,
		Password:   password, // BeforeSave钩子负责哈希
		Role:       role,
		Department: department,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// 5 Login 处理用户登录请求，通过邮箱定位用户
func (s *JWTService) Login(email, password string) (*LoginResult, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.GenerateToken(user.ID, user.Role, user.Department)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		Role:         user.Role,
		Username:     user.Username,
		Email:        user.Email,
	}, nil
}

// 6 Refresh 用刷新令牌换取新的访问令牌
func (s *JWTService) Refresh(refreshToken string) (string, error) {
	token, err := jwt.ParseWithClaims(refreshToken, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.refreshSecretKey), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return "", ErrInvalidRefreshToken
	}

	// 用户必须仍然存在
	var user models.User
	if err := s.DB.First(&user, claims.UserID).Error; err != nil {
		return "", ErrInvalidRefreshToken
	}

	return s.GenerateToken(user.ID, user.Role, user.Department)
}
