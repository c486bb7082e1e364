package service

import (
	"strings"

	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"

	"gorm.io/gorm"
)

// ReviewInput 评论写入输入
type ReviewInput struct {
	UserID    uint
	ProductID uint
	Rating    int
	Message   string
}

// ReviewLikeResult 点赞结果
type ReviewLikeResult struct {
	Review *models.Review `json:"review"`
	Liked  bool           `json:"liked"`
	Likes  int            `json:"likes"`
}

// ReviewService 评论服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewReviewService 创建评论服务
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// Add 新增评论，同时写入商品内嵌副本并刷新评分
func (s *ReviewService) Add(input ReviewInput) (*models.Review, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted {
		return nil, ErrProductNotFound
	}
	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	review := &models.Review{
		UserID:    user.ID,
		ProductID: product.ID,
		Rating:    input.Rating,
		Message:   message,
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Create(review); err != nil {
			return err
		}
		productRepo := s.productRepo.WithTx(tx)
		if err := productRepo.CreateEmbeddedReview(&models.ProductReview{
			ProductID: product.ID,
			ReviewID:  review.ID,
			UserID:    user.ID,
			Name:      user.FullName(),
			Rating:    review.Rating,
			Comment:   review.Message,
		}); err != nil {
			return err
		}
		return productRepo.RefreshRatingStats(product.ID)
	})
	if err != nil {
		return nil, err
	}
	review.Likes = []models.ReviewLike{}
	logger.Infow("review_added", "review_id", review.ID, "product_id", product.ID, "user_id", user.ID)
	return review, nil
}

// Edit 修改评论，仅作者本人可操作
func (s *ReviewService) Edit(input ReviewInput, reviewID uint) (*models.Review, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}
	review, err := s.loadOwned(reviewID, input.UserID)
	if err != nil {
		return nil, err
	}
	review.Rating = input.Rating
	if message := strings.TrimSpace(input.Message); message != "" {
		review.Message = message
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Update(review); err != nil {
			return err
		}
		productRepo := s.productRepo.WithTx(tx)
		if err := productRepo.UpdateEmbeddedReview(review.ID, review.Rating, review.Message); err != nil {
			return err
		}
		return productRepo.RefreshRatingStats(review.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Delete 删除评论，仅作者本人可操作
func (s *ReviewService) Delete(userID, reviewID uint) error {
	review, err := s.loadOwned(reviewID, userID)
	if err != nil {
		return err
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Delete(review.ID); err != nil {
			return err
		}
		productRepo := s.productRepo.WithTx(tx)
		if err := productRepo.DeleteEmbeddedReview(review.ID); err != nil {
			return err
		}
		return productRepo.RefreshRatingStats(review.ProductID)
	})
}

// Like 点赞切换：已点赞则取消
func (s *ReviewService) Like(userID, reviewID uint) (*ReviewLikeResult, error) {
	review, err := s.Get(reviewID)
	if err != nil {
		return nil, err
	}
	like, err := s.reviewRepo.GetLike(review.ID, userID)
	if err != nil {
		return nil, err
	}
	liked := like == nil
	if liked {
		err = s.reviewRepo.CreateLike(&models.ReviewLike{ReviewID: review.ID, UserID: userID})
	} else {
		err = s.reviewRepo.DeleteLike(review.ID, userID)
	}
	if err != nil {
		return nil, err
	}
	return s.likeResult(review.ID, liked)
}

// Unlike 取消点赞，未点赞时报错
func (s *ReviewService) Unlike(userID, reviewID uint) (*ReviewLikeResult, error) {
	review, err := s.Get(reviewID)
	if err != nil {
		return nil, err
	}
	like, err := s.reviewRepo.GetLike(review.ID, userID)
	if err != nil {
		return nil, err
	}
	if like == nil {
		return nil, ErrReviewNotLiked
	}
	if err := s.reviewRepo.DeleteLike(review.ID, userID); err != nil {
		return nil, err
	}
	return s.likeResult(review.ID, false)
}

// Get 获取评论
func (s *ReviewService) Get(reviewID uint) (*models.Review, error) {
	if reviewID == 0 {
		return nil, ErrReviewNotFound
	}
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// ListByProduct 商品评论列表
func (s *ReviewService) ListByProduct(productID uint) ([]models.Review, error) {
	return s.reviewRepo.ListByProduct(productID)
}

func (s *ReviewService) likeResult(reviewID uint, liked bool) (*ReviewLikeResult, error) {
	review, err := s.Get(reviewID)
	if err != nil {
		return nil, err
	}
	return &ReviewLikeResult{Review: review, Liked: liked, Likes: len(review.Likes)}, nil
}

func (s *ReviewService) loadOwned(reviewID, userID uint) (*models.Review, error) {
	review, err := s.Get(reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrReviewNotOwner
	}
	return review, nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrReviewRatingInvalid
	}
	return nil
}
