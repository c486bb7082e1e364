package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultUserJWTExpireHours = 24 * 7
	dashboardRecentOrders     = 5
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg       *config.Config
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	walletSvc *WalletService
	store     cache.Store
	ttl       time.Duration
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, orderRepo repository.OrderRepository, walletSvc *WalletService, store cache.Store) *UserAuthService {
	return &UserAuthService{
		cfg:       cfg,
		userRepo:  userRepo,
		orderRepo: orderRepo,
		walletSvc: walletSvc,
		store:     store,
		ttl:       cfg.Cache.DashboardTTL(),
	}
}

// SignUpInput 注册参数
type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Dob       *time.Time
	Address   models.Address
}

// SignInInput 登录参数，Identifier 可以是邮箱或手机号
type SignInInput struct {
	Identifier string
	Password   string
}

// UserDashboard 用户个人中心
type UserDashboard struct {
	Profile      *models.User   `json:"profile"`
	RecentOrders []models.Order `json:"recent_orders"`
	TotalOrders  int64          `json:"total_orders"`
	Wallet       *models.Wallet `json:"wallet"`
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	hours := s.cfg.UserJWT.ExpireHours
	if hours <= 0 {
		hours = defaultUserJWTExpireHours
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// SignUp 用户注册，成功后直接签发 Token
func (s *UserAuthService) SignUp(ctx context.Context, input SignUpInput) (*models.User, string, time.Time, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, "", time.Time{}, ErrPhoneRequired
	}
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return nil, "", time.Time{}, ErrInvalidInput
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	exist, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}
	exist, err = s.userRepo.GetByPhone(phone)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrPhoneExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := time.Now()
	user := &models.User{
		FirstName:    firstName,
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hashed),
		Dob:          input.Dob,
		Address:      input.Address,
		IsActive:     true,
		LastLoginAt:  &now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(ctx, s.store, cache.BuildUserAuthState(user))
	logger.Infow("user_signup", "user_id", user.ID)
	return user, token, expiresAt, nil
}

// SignIn 邮箱或手机号登录
func (s *UserAuthService) SignIn(ctx context.Context, input SignInInput) (*models.User, string, time.Time, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	var user *models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(identifier)
	} else {
		user, err = s.userRepo.GetByPhone(identifier)
	}
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil || user.IsDeleted {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(ctx, s.store, cache.BuildUserAuthState(user))
	return user, token, expiresAt, nil
}

// SignOut 递增 Token 版本，使该用户所有已签发 Token 失效
func (s *UserAuthService) SignOut(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.userRepo.BumpTokenVersion(userID); err != nil {
		return err
	}
	user.TokenVersion++
	_ = cache.SetUserAuthState(ctx, s.store, cache.BuildUserAuthState(user))
	_ = cache.Del(ctx, s.store, cache.DashboardKey(userID))
	return nil
}

// GetUserByID 获取用户
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrUserNotFound
	}
	return s.userRepo.GetByID(id)
}

// Dashboard 个人中心：资料、最近订单与钱包
func (s *UserAuthService) Dashboard(ctx context.Context, userID uint) (*UserDashboard, error) {
	key := cache.DashboardKey(userID)
	var cached UserDashboard
	hit, err := cache.GetJSON(ctx, s.store, key, &cached)
	if err != nil {
		logger.Warnw("user_dashboard_cache_read_failed", "user_id", userID, "error", err)
	}
	if hit {
		return &cached, nil
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDeleted {
		return nil, ErrUserNotFound
	}
	orders, total, err := s.orderRepo.ListByUser(repository.OrderListFilter{
		UserID:   userID,
		Page:     1,
		PageSize: dashboardRecentOrders,
	})
	if err != nil {
		return nil, err
	}
	dashboard := &UserDashboard{
		Profile:      user,
		RecentOrders: orders,
		TotalOrders:  total,
	}
	if s.walletSvc != nil {
		wallet, err := s.walletSvc.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		dashboard.Wallet = wallet
	}

	if err := cache.SetJSON(ctx, s.store, key, dashboard, s.ttl); err != nil {
		logger.Warnw("user_dashboard_cache_set_failed", "user_id", userID, "error", err)
	}
	return dashboard, nil
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}
	parsed, err := mail.ParseAddress(trimmed)
	if err != nil || !strings.EqualFold(parsed.Address, trimmed) {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(trimmed), nil
}
