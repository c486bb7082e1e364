package repository

import (
	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRepository 顺序号计数器接口
type CounterRepository interface {
	Next(name string, start int64) (int64, error)
	WithTx(tx *gorm.DB) *GormCounterRepository
}

// GormCounterRepository GORM 实现
type GormCounterRepository struct {
	db *gorm.DB
}

// NewCounterRepository 创建计数器仓库
func NewCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCounterRepository) WithTx(tx *gorm.DB) *GormCounterRepository {
	if tx == nil {
		return r
	}
	return &GormCounterRepository{db: tx}
}

// Next 原子递增并返回新值，首次调用返回 start
// 递增与读取在同一事务内完成，行锁保证并发下不重复
func (r *GormCounterRepository) Next(name string, start int64) (int64, error) {
	if start < 1 {
		start = 1
	}
	var seq int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		seed := models.Counter{Name: name, Seq: start - 1}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Counter{}).
			Where("name = ?", name).
			Update("seq", gorm.Expr("seq + ?", 1)).Error; err != nil {
			return err
		}
		var counter models.Counter
		if err := tx.Where("name = ?", name).First(&counter).Error; err != nil {
			return err
		}
		seq = counter.Seq
		return nil
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}
