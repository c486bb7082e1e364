package service

import (
	"context"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

// UserAdminService 管理端用户服务
type UserAdminService struct {
	userRepo repository.UserRepository
	store    cache.Store
	ttl      time.Duration
}

// NewUserAdminService 创建管理端用户服务
func NewUserAdminService(userRepo repository.UserRepository, store cache.Store, ttl time.Duration) *UserAdminService {
	return &UserAdminService{
		userRepo: userRepo,
		store:    store,
		ttl:      ttl,
	}
}

// AdminUserRow 用户列表行（附带已支付订单统计）
type AdminUserRow struct {
	models.User
	PaidOrders int64  `json:"paid_orders"`
	TotalSpent string `json:"total_spent"`
}

// AdminUserList 用户列表结果
type AdminUserList struct {
	Items []AdminUserRow `json:"items"`
	Total int64          `json:"total"`
}

// AdminUserUpdateInput 管理端更新用户
type AdminUserUpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Dob       *time.Time
	Address   *models.Address
	IsActive  *bool
}

// List 用户列表；无筛选条件的首页按管理员缓存
func (s *UserAdminService) List(ctx context.Context, adminID uint, filter repository.UserListFilter) (*AdminUserList, error) {
	cacheable := strings.TrimSpace(filter.Keyword) == "" && filter.Page <= 1 && !filter.IncludeDeleted
	key := cache.UsersKey(adminID)
	if cacheable {
		var cached AdminUserList
		if hit, err := cache.GetJSON(ctx, s.store, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	users, total, err := s.userRepo.List(filter)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	stats, err := s.userRepo.ListPaidOrderStats(ids)
	if err != nil {
		return nil, err
	}

	result := &AdminUserList{Items: make([]AdminUserRow, 0, len(users)), Total: total}
	for _, user := range users {
		stat := stats[user.ID]
		result.Items = append(result.Items, AdminUserRow{
			User:       user,
			PaidOrders: stat.PaidOrders,
			TotalSpent: models.NewMoneyFromFloat(stat.TotalSpent).String(),
		})
	}

	if cacheable {
		if err := cache.SetJSON(ctx, s.store, key, result, s.ttl); err != nil {
			logger.Warnw("admin_users_cache_set_failed", "admin_id", adminID, "error", err)
		}
	}
	return result, nil
}

// Get 获取用户详情
func (s *UserAdminService) Get(ctx context.Context, userID uint) (*models.User, error) {
	key := cache.UserKey(userID)
	var cached models.User
	if hit, err := cache.GetJSON(ctx, s.store, key, &cached); err == nil && hit {
		return &cached, nil
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := cache.SetJSON(ctx, s.store, key, user, s.ttl); err != nil {
		logger.Warnw("admin_user_cache_set_failed", "user_id", userID, "error", err)
	}
	return user, nil
}

// Update 更新用户资料
func (s *UserAdminService) Update(ctx context.Context, adminID, userID uint, input AdminUserUpdateInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.FirstName != nil {
		firstName := strings.TrimSpace(*input.FirstName)
		if firstName == "" {
			return nil, ErrInvalidInput
		}
		user.FirstName = firstName
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			exist, err := s.userRepo.GetByEmail(email)
			if err != nil {
				return nil, err
			}
			if exist != nil && exist.ID != user.ID {
				return nil, ErrEmailExists
			}
			user.Email = email
		}
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			return nil, ErrPhoneRequired
		}
		if phone != user.Phone {
			exist, err := s.userRepo.GetByPhone(phone)
			if err != nil {
				return nil, err
			}
			if exist != nil && exist.ID != user.ID {
				return nil, ErrPhoneExists
			}
			user.Phone = phone
		}
	}
	if input.Dob != nil {
		user.Dob = input.Dob
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	deactivated := false
	if input.IsActive != nil && *input.IsActive != user.IsActive {
		user.IsActive = *input.IsActive
		if !user.IsActive {
			user.TokenVersion++
			deactivated = true
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	s.invalidate(ctx, adminID, user.ID)
	if deactivated {
		_ = cache.DelUserAuthState(ctx, s.store, user.ID)
	}
	return user, nil
}

// SoftDelete 软删除用户
func (s *UserAdminService) SoftDelete(ctx context.Context, adminID, userID uint) error {
	if err := s.ensureExists(userID); err != nil {
		return err
	}
	if err := s.userRepo.SetDeleted([]uint{userID}, true); err != nil {
		return err
	}
	s.invalidate(ctx, adminID, userID)
	_ = cache.DelUserAuthState(ctx, s.store, userID)
	return nil
}

// Reactivate 恢复已停用或软删除的用户
func (s *UserAdminService) Reactivate(ctx context.Context, adminID, userID uint) error {
	if err := s.ensureExists(userID); err != nil {
		return err
	}
	if err := s.userRepo.SetActive(userID, true); err != nil {
		return err
	}
	s.invalidate(ctx, adminID, userID)
	_ = cache.DelUserAuthState(ctx, s.store, userID)
	return nil
}

// Delete 物理删除用户
func (s *UserAdminService) Delete(ctx context.Context, adminID, userID uint) error {
	if err := s.ensureExists(userID); err != nil {
		return err
	}
	return s.BulkDelete(ctx, adminID, []uint{userID})
}

// BulkDelete 批量物理删除用户
func (s *UserAdminService) BulkDelete(ctx context.Context, adminID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return ErrInvalidInput
	}
	if err := s.userRepo.Delete(userIDs); err != nil {
		return err
	}
	for _, id := range userIDs {
		s.invalidate(ctx, adminID, id)
		_ = cache.DelUserAuthState(ctx, s.store, id)
	}
	logger.Infow("admin_users_deleted", "admin_id", adminID, "count", len(userIDs))
	return nil
}

func (s *UserAdminService) ensureExists(userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserAdminService) invalidate(ctx context.Context, adminID, userID uint) {
	_ = cache.Del(ctx, s.store, cache.UserKey(userID), cache.UsersKey(adminID), cache.DashboardKey(userID))
}
