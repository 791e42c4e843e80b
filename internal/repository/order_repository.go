package repository

import (
	"errors"
	"fmt"

	"github.com/Theloho/live-commerce-sub002/internal/constants"
	"github.com/Theloho/live-commerce-sub002/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetScoped(id uint, identity OrderIdentity) (*models.Order, error)
	GetByOrderNo(orderNo string, identity OrderIdentity) (*models.Order, error)
	FindPendingCart(identity OrderIdentity) (*models.Order, error)
	CountInFlight(identity OrderIdentity, excludeIDs []uint) (int64, error)
	CountByStatus(identity OrderIdentity) (map[string]int64, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListByPaymentGroup(groupID string) ([]models.Order, error)
	ListByIDs(ids []uint) ([]models.Order, error)
	ListItems(orderID uint) ([]models.OrderItem, error)
	AppendItems(orderID uint, items []models.OrderItem) error
	Update(id uint, updates map[string]interface{}) error
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	UpdateStatusBulk(ids []uint, status string, updates map[string]interface{}) error
	AssignPaymentGroup(ids []uint, groupID string, orderType string) error
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

func (r *GormOrderRepository) withDetails(query *gorm.DB) *gorm.DB {
	return query.Preload("Items").Preload("Shipping").Preload("Payment")
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withDetails(r.db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetScoped 获取归属于指定身份的订单详情
func (r *GormOrderRepository) GetScoped(id uint, identity OrderIdentity) (*models.Order, error) {
	var order models.Order
	query := scopeByIdentity(r.withDetails(r.db).Where("id = ?", id), identity)
	if err := query.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 按订单号获取归属于指定身份的订单详情
func (r *GormOrderRepository) GetByOrderNo(orderNo string, identity OrderIdentity) (*models.Order, error) {
	var order models.Order
	query := scopeByIdentity(r.withDetails(r.db).Where("order_no = ?", orderNo), identity)
	if err := query.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindPendingCart 查找该身份最近一笔可合并的待支付购物车订单
func (r *GormOrderRepository) FindPendingCart(identity OrderIdentity) (*models.Order, error) {
	var order models.Order
	query := r.withDetails(r.db).Where("status = ?", constants.OrderStatusPending)
	if identity.IsAnonymous() {
		query = query.Where("order_type LIKE ?", EncodeOrderType(constants.OrderTypeCart, identity)+"%")
	} else {
		query = query.Where("user_id = ? AND order_type = ?", identity.UserID, constants.OrderTypeCart)
	}
	if err := query.Order("id desc").First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// CountInFlight 统计该身份处于 pending/verifying 的在途订单数（可排除指定订单）
func (r *GormOrderRepository) CountInFlight(identity OrderIdentity, excludeIDs []uint) (int64, error) {
	query := scopeByIdentity(r.db.Model(&models.Order{}), identity).
		Where("status IN ?", []string{constants.OrderStatusPending, constants.OrderStatusVerifying})
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus 按状态统计该身份的订单数量
func (r *GormOrderRepository) CountByStatus(identity OrderIdentity) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	query := scopeByIdentity(r.db.Model(&models.Order{}), identity)
	if err := query.Select("status, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// List 获取身份维度的订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := scopeByIdentity(r.db.Model(&models.Order{}), filter.Identity)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.ExcludeCancelled {
		query = query.Where("status <> ?", constants.OrderStatusCancelled)
	}
	if filter.OrderNo != "" {
		query = query.Where(fmt.Sprintf("order_no %s ?", likeOperator(r.db)), "%"+filter.OrderNo+"%")
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var orders []models.Order
	if err := r.withDetails(query).Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return DedupeOrdersByID(orders), total, nil
}

// ListByPaymentGroup 获取同一合并支付分组下的订单
func (r *GormOrderRepository) ListByPaymentGroup(groupID string) ([]models.Order, error) {
	if groupID == "" {
		return nil, errors.New("invalid payment group id")
	}
	var orders []models.Order
	if err := r.withDetails(r.db).
		Where("payment_group_id = ?", groupID).
		Order("id asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByIDs 按主键集合获取订单
func (r *GormOrderRepository) ListByIDs(ids []uint) ([]models.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var orders []models.Order
	if err := r.withDetails(r.db).
		Where("id IN ?", ids).
		Order("id asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListItems 获取订单当前全部订单项
func (r *GormOrderRepository) ListItems(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AppendItems 向既有订单追加订单项（购物车合并路径）
func (r *GormOrderRepository) AppendItems(orderID uint, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return r.db.Create(&items).Error
}

// Update 更新订单字段
func (r *GormOrderRepository) Update(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateStatus 更新订单状态
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateStatusBulk 批量更新订单状态
func (r *GormOrderRepository) UpdateStatusBulk(ids []uint, status string, updates map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Order{}).Where("id IN ?", ids).Updates(updates).Error
}

// AssignPaymentGroup 将一组订单归入同一合并支付分组
func (r *GormOrderRepository) AssignPaymentGroup(ids []uint, groupID string, orderType string) error {
	if len(ids) == 0 {
		return errors.New("empty order ids")
	}
	updates := map[string]interface{}{"payment_group_id": groupID}
	if orderType != "" {
		updates["order_type"] = orderType
	}
	return r.db.Model(&models.Order{}).Where("id IN ?", ids).Updates(updates).Error
}
