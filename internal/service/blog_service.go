package service

import (
	"context"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

// BlogInput 博客写入输入
type BlogInput struct {
	Title       string
	Description string
	Image       string
	Type        string
	Category    string
	IsActive    *bool
}

// BlogService 博客服务
type BlogService struct {
	blogRepo repository.BlogRepository
	store    cache.Store
	ttl      time.Duration
}

// NewBlogService 创建博客服务
func NewBlogService(blogRepo repository.BlogRepository, store cache.Store, ttl time.Duration) *BlogService {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return &BlogService{blogRepo: blogRepo, store: store, ttl: ttl}
}

// ListPublic 前台博客列表
func (s *BlogService) ListPublic(ctx context.Context) ([]models.Blog, error) {
	return s.listCached(ctx, cache.KeyAllBlogs, repository.BlogListFilter{OnlyActive: true})
}

// ListAdmin 管理端博客列表（含未展示）
func (s *BlogService) ListAdmin(ctx context.Context) ([]models.Blog, error) {
	return s.listCached(ctx, cache.KeyAllAdminBlogs, repository.BlogListFilter{})
}

// Get 获取博客详情
func (s *BlogService) Get(ctx context.Context, id uint) (*models.Blog, error) {
	if id == 0 {
		return nil, ErrBlogNotFound
	}
	key := cache.BlogKey(id)
	var cached models.Blog
	if hit, err := cache.GetJSON(ctx, s.store, key, &cached); err == nil && hit {
		return &cached, nil
	}
	blog, err := s.blogRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}
	if err := cache.SetJSON(ctx, s.store, key, blog, s.ttl); err != nil {
		logger.Warnw("blog_cache_write_failed", "blog_id", id, "error", err)
	}
	return blog, nil
}

// Create 创建博客
func (s *BlogService) Create(ctx context.Context, authorID uint, input BlogInput) (*models.Blog, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}
	blog := &models.Blog{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Image:       strings.TrimSpace(input.Image),
		Type:        strings.TrimSpace(input.Type),
		Category:    strings.TrimSpace(input.Category),
		CreatedBy:   authorID,
		IsActive:    true,
	}
	if err := s.blogRepo.Create(blog); err != nil {
		return nil, err
	}
	s.invalidate(ctx, blog.ID)
	return blog, nil
}

// Update 更新博客，空字段保持不变
func (s *BlogService) Update(ctx context.Context, id uint, input BlogInput) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}
	if v := strings.TrimSpace(input.Title); v != "" {
		blog.Title = v
	}
	if v := strings.TrimSpace(input.Description); v != "" {
		blog.Description = v
	}
	if v := strings.TrimSpace(input.Image); v != "" {
		blog.Image = v
	}
	if v := strings.TrimSpace(input.Type); v != "" {
		blog.Type = v
	}
	if v := strings.TrimSpace(input.Category); v != "" {
		blog.Category = v
	}
	if input.IsActive != nil {
		blog.IsActive = *input.IsActive
	}
	if err := s.blogRepo.Update(blog); err != nil {
		return nil, err
	}
	s.invalidate(ctx, blog.ID)
	return blog, nil
}

// SoftDelete 软删除博客
func (s *BlogService) SoftDelete(ctx context.Context, id uint) error {
	blog, err := s.blogRepo.GetByID(id)
	if err != nil {
		return err
	}
	if blog == nil {
		return ErrBlogNotFound
	}
	if err := s.blogRepo.SoftDelete(id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// HardDelete 物理删除博客
func (s *BlogService) HardDelete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrBlogNotFound
	}
	if err := s.blogRepo.Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *BlogService) listCached(ctx context.Context, key string, filter repository.BlogListFilter) ([]models.Blog, error) {
	var cached []models.Blog
	if hit, err := cache.GetJSON(ctx, s.store, key, &cached); err == nil && hit {
		return cached, nil
	}
	blogs, _, err := s.blogRepo.List(filter)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, s.store, key, blogs, s.ttl); err != nil {
		logger.Warnw("blog_list_cache_write_failed", "key", key, "error", err)
	}
	return blogs, nil
}

func (s *BlogService) invalidate(ctx context.Context, id uint) {
	if err := cache.Del(ctx, s.store, cache.KeyAllBlogs, cache.KeyAllAdminBlogs, cache.BlogKey(id)); err != nil {
		logger.Warnw("blog_cache_invalidate_failed", "blog_id", id, "error", err)
	}
}
