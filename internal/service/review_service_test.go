package service

import (
	"testing"

	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewTestService(t *testing.T) (*ReviewService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	svc := NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewProductRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

func loadProduct(t *testing.T, db *gorm.DB, id uint) *models.Product {
	t.Helper()
	var product models.Product
	require.NoError(t, db.Preload("Reviews").First(&product, id).Error)
	return &product
}

func TestReviewAddSyncsEmbeddedCopyAndRating(t *testing.T) {
	svc, db := newReviewTestService(t)
	alice := createTestUser(t, db, "review-alice@example.com")
	bob := createTestUser(t, db, "review-bob@example.com")
	product := createFlatProduct(t, db, "Hair Oil", "250")

	first, err := svc.Add(ReviewInput{UserID: alice.ID, ProductID: product.ID, Rating: 5, Message: "great"})
	require.NoError(t, err)
	_, err = svc.Add(ReviewInput{UserID: bob.ID, ProductID: product.ID, Rating: 2, Message: "meh"})
	require.NoError(t, err)

	stored := loadProduct(t, db, product.ID)
	assert.Equal(t, 2, stored.NumReviews)
	assert.InDelta(t, 3.5, stored.Rating, 0.001)
	require.Len(t, stored.Reviews, 2)

	_, err = svc.Edit(ReviewInput{UserID: alice.ID, Rating: 3, Message: "ok"}, first.ID)
	require.NoError(t, err)
	stored = loadProduct(t, db, product.ID)
	assert.InDelta(t, 2.5, stored.Rating, 0.001)
	for _, embedded := range stored.Reviews {
		if embedded.ReviewID == first.ID {
			assert.Equal(t, 3, embedded.Rating)
			assert.Equal(t, "ok", embedded.Comment)
		}
	}

	require.NoError(t, svc.Delete(alice.ID, first.ID))
	stored = loadProduct(t, db, product.ID)
	assert.Equal(t, 1, stored.NumReviews)
	assert.InDelta(t, 2.0, stored.Rating, 0.001)
	require.Len(t, stored.Reviews, 1)

	_, err = svc.Get(first.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewRatingBoundsAndOwnership(t *testing.T) {
	svc, db := newReviewTestService(t)
	owner := createTestUser(t, db, "review-owner@example.com")
	other := createTestUser(t, db, "review-other@example.com")
	product := createFlatProduct(t, db, "Face Wash", "150")

	_, err := svc.Add(ReviewInput{UserID: owner.ID, ProductID: product.ID, Rating: 0, Message: "x"})
	assert.ErrorIs(t, err, ErrReviewRatingInvalid)
	_, err = svc.Add(ReviewInput{UserID: owner.ID, ProductID: product.ID, Rating: 6, Message: "x"})
	assert.ErrorIs(t, err, ErrReviewRatingInvalid)

	review, err := svc.Add(ReviewInput{UserID: owner.ID, ProductID: product.ID, Rating: 4, Message: "nice"})
	require.NoError(t, err)

	_, err = svc.Edit(ReviewInput{UserID: other.ID, Rating: 1, Message: "hacked"}, review.ID)
	assert.ErrorIs(t, err, ErrReviewNotOwner)
	assert.ErrorIs(t, svc.Delete(other.ID, review.ID), ErrReviewNotOwner)
}

func TestReviewLikeToggleAndUnlike(t *testing.T) {
	svc, db := newReviewTestService(t)
	author := createTestUser(t, db, "review-author@example.com")
	fan := createTestUser(t, db, "review-fan@example.com")
	product := createFlatProduct(t, db, "Lip Balm", "90")
	review, err := svc.Add(ReviewInput{UserID: author.ID, ProductID: product.ID, Rating: 5, Message: "love it"})
	require.NoError(t, err)

	result, err := svc.Like(fan.ID, review.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.Likes)

	result, err = svc.Like(fan.ID, review.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, 0, result.Likes)

	_, err = svc.Unlike(fan.ID, review.ID)
	assert.ErrorIs(t, err, ErrReviewNotLiked)

	_, err = svc.Like(fan.ID, review.ID)
	require.NoError(t, err)
	result, err = svc.Unlike(fan.ID, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Likes)
}
