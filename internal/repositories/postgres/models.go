package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/devmarrima/dscommerce-api/internal/domain"
)

// Row types mirror the relational schema. Domain types stay persistence-agnostic;
// mapping happens at the repository boundary.

type userRow struct {
	ID        string     `gorm:"column:id;primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	Email     string     `gorm:"column:email;uniqueIndex;not null"`
	Phone     string     `gorm:"column:phone"`
	BirthDate *time.Time `gorm:"column:birth_date"`
	Password  string     `gorm:"column:password;not null"`
	Roles     []roleRow  `gorm:"many2many:tb_user_role;foreignKey:ID;joinForeignKey:user_id;References:ID;joinReferences:role_id"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (userRow) TableName() string { return "tb_user" }

type roleRow struct {
	ID        string `gorm:"column:id;primaryKey"`
	Authority string `gorm:"column:authority;uniqueIndex;not null"`
}

func (roleRow) TableName() string { return "tb_role" }

type productRow struct {
	ID          string          `gorm:"column:id;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ImgURL      string          `gorm:"column:img_url"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (productRow) TableName() string { return "tb_product" }

type orderRow struct {
	ID        string         `gorm:"column:id;primaryKey"`
	ClientID  string         `gorm:"column:client_id;index;not null"`
	Client    *userRow       `gorm:"foreignKey:ClientID"`
	Status    string         `gorm:"column:status;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;not null"`
	Items     []orderItemRow `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (orderRow) TableName() string { return "tb_order" }

type orderItemRow struct {
	OrderID     string          `gorm:"column:order_id;primaryKey"`
	ProductID   string          `gorm:"column:product_id;primaryKey"`
	ProductName string          `gorm:"column:product_name;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Position    int             `gorm:"column:position;not null"`
}

func (orderItemRow) TableName() string { return "tb_order_item" }

func toDomainUser(row userRow) domain.User {
	roles := make([]string, 0, len(row.Roles))
	for _, role := range row.Roles {
		roles = append(roles, role.Authority)
	}
	return domain.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Phone:        row.Phone,
		BirthDate:    row.BirthDate,
		PasswordHash: row.Password,
		Roles:        roles,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toDomainProduct(row productRow) domain.Product {
	return domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		ImgURL:      row.ImgURL,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func toDomainOrder(row orderRow) domain.Order {
	order := domain.Order{
		ID:        row.ID,
		CreatedAt: row.CreatedAt,
		Status:    domain.OrderStatus(row.Status),
		Client:    domain.OrderClient{ID: row.ClientID},
		Items:     make([]domain.OrderItem, 0, len(row.Items)),
	}
	if row.Client != nil {
		order.Client.Name = row.Client.Name
	}
	for _, item := range row.Items {
		order.Items = append(order.Items, domain.OrderItem{
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return order
}

func fromDomainOrder(order domain.Order) (orderRow, []orderItemRow) {
	row := orderRow{
		ID:        order.ID,
		ClientID:  order.Client.ID,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
	items := make([]orderItemRow, 0, len(order.Items))
	for i, item := range order.Items {
		items = append(items, orderItemRow{
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Position:    i,
		})
	}
	return row, items
}
