package user

import (
	"context"
	"time"

	"github.com/xiebiao/onlinebookstore/internal/domain/user"
	"github.com/xiebiao/onlinebookstore/pkg/jwt"
	"github.com/xiebiao/onlinebookstore/pkg/logger"
)

// SessionStore 会话存储端口(redis.SessionStore实现)
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, sessionData map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 生成JWT Token对（Claims中带角色）
// 3. 保存会话到Redis
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore SessionStore
	sessionTTL   time.Duration
}

// NewLoginUseCase 创建登录用例
// sessionTTL与Refresh Token有效期一致
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore SessionStore,
	sessionTTL time.Duration,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		sessionTTL:   sessionTTL,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码（调用领域服务）
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对
	tokenPair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}

	// 3. 保存会话到Redis
	sessionData := map[string]interface{}{
		"user_id":  u.ID,
		"email":    u.Email,
		"role":     string(u.Role),
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionData, uc.sessionTTL); err != nil {
		// 会话保存失败不影响登录
		logger.FromContext(ctx).WithError(err).WithField("user_id", u.ID).Warn("保存会话失败")
	}

	return &LoginResponse{
		User:         *toUserInfo(u),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// RefreshUseCase 用Refresh Token换发新的Token对
type RefreshUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
}

// NewRefreshUseCase 创建换发用例
func NewRefreshUseCase(userService user.Service, jwtManager *jwt.Manager) *RefreshUseCase {
	return &RefreshUseCase{userService: userService, jwtManager: jwtManager}
}

// Execute 只接受Refresh Token;角色从数据库重新读取
func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := uc.jwtManager.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != jwt.RefreshToken {
		return nil, user.ErrInvalidToken
	}

	u, err := uc.userService.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return uc.jwtManager.GenerateToken(u.ID, u.Email, string(u.Role))
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore SessionStore
	blacklistTTL time.Duration
}

// NewLogoutUseCase 创建登出用例
// blacklistTTL取Access Token有效期,过期后黑名单记录自动清除
func NewLogoutUseCase(sessionStore SessionStore, blacklistTTL time.Duration) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore, blacklistTTL: blacklistTTL}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, accessToken string) error {
	// 1. 删除会话
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}

	// 2. 将Access Token加入黑名单（防止Token在过期前继续使用）
	return uc.sessionStore.AddToBlacklist(ctx, accessToken, uc.blacklistTTL)
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // Access Token过期时间（秒）
}
