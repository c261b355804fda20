package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 说明：
// 1. 这些是infrastructure层的数据模型，包含GORM tag
// 2. domain层实体不依赖GORM，Repository负责两者之间的转换
// 3. 金额统一使用decimal(10,2)

// UserModel GORM用户模型
type UserModel struct {
	ID              uint           `gorm:"primaryKey"`
	Email           string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password        string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	FirstName       string         `gorm:"size:50;not null;comment:名"`
	LastName        string         `gorm:"size:50;not null;comment:姓"`
	ShippingAddress string         `gorm:"size:255;comment:默认收货地址"`
	Role            string         `gorm:"size:10;not null;default:USER;comment:角色(USER/ADMIN)"`
	CreatedAt       time.Time      `gorm:"comment:创建时间"`
	UpdatedAt       time.Time      `gorm:"comment:更新时间"`
	DeletedAt       gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (UserModel) TableName() string {
	return "users"
}

// CategoryModel GORM分类模型
type CategoryModel struct {
	ID          uint           `gorm:"primaryKey"`
	Name        string         `gorm:"uniqueIndex;size:100;not null;comment:分类名"`
	Description string         `gorm:"size:500;comment:描述"`
	CreatedAt   time.Time      `gorm:"comment:创建时间"`
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

// BookModel GORM图书模型
// 1. ISBN有唯一索引,防止重复
// 2. 标题+作者复合索引用于检索
// 3. 分类关联存在book_categories表,由仓储显式维护
type BookModel struct {
	ID          uint            `gorm:"primaryKey"`
	Title       string          `gorm:"index:idx_books_search;size:200;not null;comment:书名"`
	Author      string          `gorm:"index:idx_books_search;size:100;not null;comment:作者"`
	ISBN        string          `gorm:"uniqueIndex;size:20;not null;comment:ISBN"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:单价"`
	Description string          `gorm:"type:text;comment:图书描述"`
	CoverImage  string          `gorm:"size:500;comment:封面图片"`
	CreatedAt   time.Time       `gorm:"index;comment:创建时间"`
	UpdatedAt   time.Time       `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt  `gorm:"index;comment:删除时间(软删除)"`
}

func (BookModel) TableName() string {
	return "books"
}

// BookCategoryModel 图书-分类多对多关联
type BookCategoryModel struct {
	BookID     uint `gorm:"primaryKey;comment:图书ID"`
	CategoryID uint `gorm:"primaryKey;index;comment:分类ID"`
}

func (BookCategoryModel) TableName() string {
	return "book_categories"
}

// CartModel GORM购物车模型
// ID与用户ID相同,不自增
type CartModel struct {
	ID        uint            `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint            `gorm:"uniqueIndex;not null;comment:用户ID"`
	Items     []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"comment:创建时间"`
	UpdatedAt time.Time       `gorm:"comment:更新时间"`
}

func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel GORM购物车明细模型
// cart_id外键保证:下单事务锁住购物车行期间,并发加购的插入会等待提交
type CartItemModel struct {
	ID        uint      `gorm:"primaryKey"`
	CartID    uint      `gorm:"index;not null;comment:购物车ID"`
	BookID    uint      `gorm:"index;not null;comment:图书ID"`
	Book      BookModel `gorm:"foreignKey:BookID"`
	Quantity  int       `gorm:"not null;comment:数量"`
	CreatedAt time.Time `gorm:"comment:加入时间"`
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel GORM订单模型
// 1. 与OrderItemModel是一对多关系
// 2. OrderNo有唯一索引(业务主键)
// 3. Status使用字符串存储,与接口层一致
type OrderModel struct {
	ID              uint             `gorm:"primaryKey"`
	OrderNo         string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID          uint             `gorm:"index;not null;comment:买家用户ID"`
	Status          string           `gorm:"index;size:20;not null;comment:订单状态"`
	OrderDate       time.Time        `gorm:"index;not null;comment:下单时间"`
	ShippingAddress string           `gorm:"size:255;not null;comment:收货地址"`
	Total           decimal.Decimal  `gorm:"type:decimal(10,2);not null;comment:订单总金额"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time        `gorm:"comment:创建时间"`
	UpdatedAt       time.Time        `gorm:"comment:更新时间"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// Price是下单时的单价快照
type OrderItemModel struct {
	ID       uint            `gorm:"primaryKey"`
	OrderID  uint            `gorm:"index;not null;comment:订单ID"`
	BookID   uint            `gorm:"index;not null;comment:图书ID"`
	Quantity int             `gorm:"not null;comment:购买数量"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:下单时单价"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}
