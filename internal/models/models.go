package models

import (
	"time"
)

// Product is a catalog entry. It is read-only for the cart/checkout flow;
// writes happen only through admin tooling.
type Product struct {
	ID               uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug             string            `gorm:"uniqueIndex;not null"     json:"slug"`
	SKU              string            `gorm:"not null"                 json:"sku"`
	Title            string            `gorm:"not null"                 json:"title"`
	ShortDescription string            `json:"short_description"`
	Price            int64             `gorm:"not null"                 json:"price"`
	OldPrice         *int64            `json:"old_price,omitempty"`
	Live             bool              `gorm:"index;default:false"      json:"live"`
	WeightGrams      uint              `gorm:"default:40"               json:"weight_grams"`
	WeightDetails    string            `json:"weight_details"`
	PackagingID      *uint             `json:"packaging_id,omitempty"`
	Packaging        *ProductPackaging `json:"packaging,omitempty"`
	Tastes           []ProductTaste    `gorm:"many2many:product_taste_links" json:"tastes,omitempty"`
	IsNew            bool              `gorm:"default:false"            json:"is_new"`
	IsSale           bool              `gorm:"default:false"            json:"is_sale"`

	GalleryImages []ProductGalleryImage `gorm:"constraint:OnDelete:CASCADE" json:"gallery_images,omitempty"`
}

type ProductTaste struct {
	ID   uint   `gorm:"primaryKey"           json:"id"`
	Name string `gorm:"not null"             json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
}

type ProductPackaging struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null"   json:"name"`
}

type ProductGalleryImage struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	SortOrder int    `gorm:"not null"       json:"sort_order"`
	URL       string `gorm:"not null"       json:"url"`
	Caption   string `json:"caption"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone"`
	City         string `json:"city"`
	AddressLine  string `json:"address_line"`
	CompanyName  string `json:"company_name"`
	OKPO         string `json:"okpo"`
	IsManager    bool   `gorm:"default:false" json:"is_manager"`
}

// Cart belongs to exactly one identity: an authenticated user or an
// anonymous session key, never both.
type Cart struct {
	ID         uint      `gorm:"primaryKey"  json:"id"`
	UserID     *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`
	SessionKey *string   `gorm:"uniqueIndex" json:"session_key,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	Items []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// TotalItems is the sum of quantities, not the number of lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, it := range c.Items {
		total += int(it.Quantity)
	}
	return total
}

// TotalPrice requires Items[].Product to be preloaded.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.Cost()
	}
	return total
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                            json:"id"`
	CartID    uint `gorm:"uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uint `gorm:"uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"            json:"quantity"`

	Product Product `json:"product"`
}

func (i CartItem) Cost() int64 {
	return i.Product.Price * int64(i.Quantity)
}

const (
	OrderStatusNew        = "new"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
)

const (
	DeliveryNovaPoshta = "nova_poshta"
	DeliveryCourier    = "courier"
	DeliveryPickup     = "pickup"
)

const (
	PaymentInvoice = "invoice"
	PaymentCard    = "card"
	PaymentCash    = "cash"
)

// Order is immutable after creation except for Status.
type Order struct {
	ID          uint      `gorm:"primaryKey"           json:"id"`
	UserID      *uint     `gorm:"index"                json:"user_id,omitempty"`
	ManagerID   *uint     `json:"manager_id,omitempty"`
	OrderNumber string    `gorm:"uniqueIndex;not null" json:"order_number"`
	CreatedAt   time.Time `json:"created_at"`
	Status      string    `gorm:"not null;default:new" json:"status"`
	TotalAmount int64     `gorm:"not null"             json:"total_amount"`
	ItemsCount  uint      `gorm:"default:0"            json:"items_count"`

	DeliveryMethod string `gorm:"not null;default:nova_poshta" json:"delivery_method"`
	PaymentMethod  string `gorm:"not null;default:card"        json:"payment_method"`

	FirstName   string `gorm:"not null" json:"first_name"`
	Phone       string `gorm:"not null" json:"phone"`
	Email       string `gorm:"not null" json:"email"`
	City        string `json:"city"`
	AddressLine string `json:"address_line"`
	CompanyName string `json:"company_name"`
	OKPO        string `json:"okpo"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem snapshots name and price at checkout time so later catalog
// edits do not rewrite order history. ProductID stays for traceability.
type OrderItem struct {
	ID          uint   `gorm:"primaryKey"     json:"id"`
	OrderID     uint   `gorm:"index;not null" json:"order_id"`
	ProductID   *uint  `json:"product_id,omitempty"`
	ProductName string `gorm:"not null"       json:"product_name"`
	Price       int64  `gorm:"not null"       json:"price"`
	Quantity    uint   `gorm:"default:1"      json:"quantity"`
}

// PaymentTransaction is an append-only payment attempt log.
type PaymentTransaction struct {
	ID          uint      `gorm:"primaryKey"               json:"id"`
	UserID      uint      `gorm:"index;not null"           json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	Amount      int64     `gorm:"not null"                 json:"amount"`
	Status      string    `gorm:"not null;default:success" json:"status"`
	Description string    `json:"description"`
}
