package repository

import (
	"fmt"
	"strings"

	"github.com/Theloho/live-commerce-sub002/internal/constants"
	"github.com/Theloho/live-commerce-sub002/internal/models"

	"gorm.io/gorm"
)

// OrderIdentity 订单归属身份：注册账号或匿名社交登录，二者取其一。
// 匿名用户没有外键身份，靠 order_type 字段内嵌的 KAKAO:<social_id> 标记归属，
// 字符串编解码只允许出现在本文件这一存储边界。
type OrderIdentity struct {
	UserID         uint
	SocialProvider string
	SocialID       string
}

// AccountIdentity 创建注册账号身份
func AccountIdentity(userID uint) OrderIdentity {
	return OrderIdentity{UserID: userID}
}

// AnonymousIdentity 创建匿名社交身份
func AnonymousIdentity(provider, socialID string) OrderIdentity {
	return OrderIdentity{
		SocialProvider: strings.ToUpper(strings.TrimSpace(provider)),
		SocialID:       strings.TrimSpace(socialID),
	}
}

// IsAnonymous 判断是否匿名社交身份
func (i OrderIdentity) IsAnonymous() bool {
	return i.UserID == 0 && i.SocialID != ""
}

// IsZero 判断身份是否为空
func (i OrderIdentity) IsZero() bool {
	return i.UserID == 0 && i.SocialID == ""
}

// Key 返回身份的稳定键（用于合并锁等按身份维度的场景）
func (i OrderIdentity) Key() string {
	if i.IsAnonymous() {
		return fmt.Sprintf("%s:%s", i.SocialProvider, i.SocialID)
	}
	return fmt.Sprintf("user:%d", i.UserID)
}

// marker 返回嵌入 order_type 的身份标记（如 KAKAO:12345）
func (i OrderIdentity) marker() string {
	provider := i.SocialProvider
	if provider == "" {
		provider = constants.SocialProviderKakao
	}
	return fmt.Sprintf("%s:%s", provider, i.SocialID)
}

// EncodeOrderType 将逻辑订单类型与匿名身份标记编码为 order_type 存储值
func EncodeOrderType(baseType string, identity OrderIdentity) string {
	if identity.IsAnonymous() {
		return fmt.Sprintf("%s:%s", baseType, identity.marker())
	}
	return baseType
}

// DecodeOrderType 从 order_type 存储值取回逻辑订单类型
func DecodeOrderType(orderType string) string {
	if idx := strings.Index(orderType, ":"); idx >= 0 {
		return orderType[:idx]
	}
	return orderType
}

// scopeByIdentity 构建身份归属查询条件。空身份不限归属（系统维度查询）。
// 匿名身份展开为三分支 OR：direct 精确匹配、cart 前缀匹配、
// 账号关联前后遗留的 KAKAO:<id> 包含匹配；单条 WHERE 内多分支命中同一行不会重复返回。
func scopeByIdentity(query *gorm.DB, identity OrderIdentity) *gorm.DB {
	if identity.IsZero() {
		return query
	}
	if identity.IsAnonymous() {
		marker := identity.marker()
		return query.Where(
			"order_type = ? OR order_type LIKE ? OR order_type LIKE ?",
			fmt.Sprintf("%s:%s", constants.OrderTypeDirect, marker),
			fmt.Sprintf("%s:%s", constants.OrderTypeCart, marker)+"%",
			"%"+marker+"%",
		)
	}
	return query.Where("user_id = ?", identity.UserID)
}

// DedupeOrdersByID 按订单 ID 去重，保持原有顺序
func DedupeOrdersByID(orders []models.Order) []models.Order {
	if len(orders) <= 1 {
		return orders
	}
	seen := make(map[uint]bool, len(orders))
	result := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if seen[order.ID] {
			continue
		}
		seen[order.ID] = true
		result = append(result, order)
	}
	return result
}
