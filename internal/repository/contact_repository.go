package repository

import (
	"context"
	"time"

	"github.com/dujiao-next/storefront/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

const contactCollection = "contacts"

// ContactRepository 留言存储接口
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}

// GormContactRepository 关系库实现
type GormContactRepository struct {
	db *gorm.DB
}

// NewContactRepository 创建留言仓库
func NewContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// Create 保存留言
func (r *GormContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// MongoContactRepository MongoDB 实现
type MongoContactRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

// NewMongoContactRepository 创建 MongoDB 留言仓库
func NewMongoContactRepository(db *mongo.Database, timeout time.Duration) *MongoContactRepository {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MongoContactRepository{
		collection: db.Collection(contactCollection),
		timeout:    timeout,
	}
}

// EnsureIndexes 创建留言索引
func (r *MongoContactRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	createdAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("created_at_desc"),
	}
	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_index"),
	}
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{createdAtIndex, emailIndex})
	return err
}

// Create 保存留言
func (r *MongoContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, msg)
	return err
}
