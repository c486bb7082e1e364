package service

import (
	"strings"

	"github.com/dujiao-next/storefront/internal/models"

	"github.com/shopspring/decimal"
)

// ResolveUnitPrice 解析单价：匹配规格价 > 首个规格价 > 旧版统一价 > 0
func ResolveUnitPrice(product *models.Product, size *string) decimal.Decimal {
	if product == nil {
		return decimal.Zero
	}
	if len(product.Sizes) > 0 {
		if size != nil {
			if matched := product.FindSize(*size); matched != nil {
				return matched.Price.Decimal
			}
		}
		return product.Sizes[0].Price.Decimal
	}
	if product.Price != nil {
		return product.Price.Decimal
	}
	return decimal.Zero
}

// ComputeCartTotal 计算购物车总额，商品已被删除的行跳过
func ComputeCartTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		unit := ResolveUnitPrice(item.Product, item.Size)
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}

// ValidateSize 校验规格：有规格的商品必须指定且有货，无规格商品忽略规格
// 返回规范化后的规格指针
func ValidateSize(product *models.Product, size *string) (*string, error) {
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.HasSizes() {
		return nil, nil
	}
	label := ""
	if size != nil {
		label = strings.TrimSpace(*size)
	}
	if label == "" {
		return nil, &SizeError{ProductID: product.ID, Product: product.Name, Err: ErrSizeRequired}
	}
	matched := product.FindSize(label)
	if matched == nil || !matched.InStock {
		return nil, &SizeError{ProductID: product.ID, Product: product.Name, Size: label, Err: ErrSizeUnavailable}
	}
	return &label, nil
}

// MinorUnits 金额转为最小货币单位（分/派士）
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// DisplayPrice 商品展示价：首个规格价，无规格时使用旧版统一价，否则为 0
func DisplayPrice(product *models.Product) decimal.Decimal {
	if product == nil {
		return decimal.Zero
	}
	if len(product.Sizes) > 0 {
		return product.Sizes[0].Price.Decimal
	}
	if product.Price != nil {
		return product.Price.Decimal
	}
	return decimal.Zero
}
