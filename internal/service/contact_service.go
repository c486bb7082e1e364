package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

// ContactInput 联系我们提交内容
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// ContactService 联系我们服务
type ContactService struct {
	repo repository.ContactRepository
}

// NewContactService 创建联系我们服务
func NewContactService(repo repository.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// Submit 保存留言，所有字段必填
func (s *ContactService) Submit(ctx context.Context, input ContactInput) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Message:   strings.TrimSpace(input.Message),
		CreatedAt: time.Now(),
	}
	if msg.Name == "" || msg.Email == "" || msg.Phone == "" || msg.Message == "" {
		return nil, ErrContactFieldsMissing
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		return nil, ErrInvalidEmail
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		logger.Errorw("contact_message_save_failed", "email", msg.Email, "error", err)
		return nil, err
	}
	logger.Infow("contact_message_saved", "email", msg.Email)
	return msg, nil
}
