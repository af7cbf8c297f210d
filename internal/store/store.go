// ABOUTME: Store interface and data types for casebloom persistence
// ABOUTME: Defines catalog, order, content, and admin-user models and operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateSlug is returned when creating an entity whose slug is taken
var ErrDuplicateSlug = errors.New("slug already exists")

// ErrDuplicateUsername is returned when creating an admin user whose username is taken
var ErrDuplicateUsername = errors.New("username already exists")

// Category groups products in the storefront catalog
type Category struct {
	ID        int64
	Name      string
	Slug      string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Brand is a phone manufacturer (e.g. a handset maker)
type Brand struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}

// PhoneModel is a specific handset a case can be made for.
// TemplateURL points at the print template used by the mockup renderer.
type PhoneModel struct {
	ID          int64
	BrandID     int64
	Name        string
	Slug        string
	TemplateURL string
	CreatedAt   time.Time
}

// Product is a sellable case design
type Product struct {
	ID          int64
	CategoryID  int64
	Name        string
	Slug        string
	Description string
	PriceCents  int64 // price in minor currency units
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductImage is one gallery image of a product
type ProductImage struct {
	ID        int64
	ProductID int64
	URL       string
	Position  int
}

// OrderStatus values for the order lifecycle
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDone      OrderStatus = "done"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDone, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a customer purchase
type Order struct {
	ID            string // UUID
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Address       string
	Status        OrderStatus
	TotalCents    int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem is one line of an order
type OrderItem struct {
	ID           int64
	OrderID      string
	ProductID    int64
	PhoneModelID int64
	DesignURL    string // custom design artwork, empty for stock designs
	Quantity     int
	PriceCents   int64
}

// Shipment records the courier handoff for an order
type Shipment struct {
	ID        int64
	OrderID   string
	Courier   string
	Service   string
	WaybillID string
	FeeCents  int64
	Status    string
	CreatedAt time.Time
}

// HeroBanner is a homepage hero slide
type HeroBanner struct {
	ID       int64
	Title    string
	ImageURL string
	LinkURL  string
	Position int
	Active   bool
}

// HomepageSection is a configurable block on the storefront homepage
type HomepageSection struct {
	ID         int64
	Title      string
	Kind       string // "featured", "category", "new_arrivals"
	CategoryID *int64 // set when Kind is "category"
	Position   int
	Active     bool
}

// AdminUser is a back-office account
type AdminUser struct {
	ID           int64
	Username     string
	Email        string
	FullName     *string
	PasswordHash string // bcrypt hash
	Role         string // "admin", "manager", "staff"
	CreatedAt    time.Time
}

// ListProductsParams filters product listings
type ListProductsParams struct {
	CategoryID *int64
	ActiveOnly bool
	Limit      int // defaults to 50
	Offset     int
}

// ListOrdersParams filters order listings
type ListOrdersParams struct {
	Status *OrderStatus
	Limit  int // defaults to 50
	Offset int
}

// Store defines the interface for casebloom persistence
type Store interface {
	// Categories
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id int64) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id int64) error

	// Brands and phone models
	CreateBrand(ctx context.Context, b *Brand) error
	GetBrand(ctx context.Context, id int64) (*Brand, error)
	ListBrands(ctx context.Context) ([]*Brand, error)
	DeleteBrand(ctx context.Context, id int64) error
	CreatePhoneModel(ctx context.Context, m *PhoneModel) error
	GetPhoneModel(ctx context.Context, id int64) (*PhoneModel, error)
	ListPhoneModels(ctx context.Context, brandID *int64) ([]*PhoneModel, error)
	DeletePhoneModel(ctx context.Context, id int64) error

	// Products
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id int64) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id int64) error
	AddProductImage(ctx context.Context, img *ProductImage) error
	ListProductImages(ctx context.Context, productID int64) ([]*ProductImage, error)
	DeleteProductImage(ctx context.Context, id int64) error

	// Orders
	CreateOrder(ctx context.Context, o *Order, items []*OrderItem) error
	GetOrder(ctx context.Context, id string) (*Order, []*OrderItem, error)
	ListOrders(ctx context.Context, params ListOrdersParams) ([]*Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status OrderStatus) error
	CreateShipment(ctx context.Context, s *Shipment) error
	GetShipmentByOrder(ctx context.Context, orderID string) (*Shipment, error)

	// Homepage content
	CreateHeroBanner(ctx context.Context, b *HeroBanner) error
	ListHeroBanners(ctx context.Context, activeOnly bool) ([]*HeroBanner, error)
	UpdateHeroBanner(ctx context.Context, b *HeroBanner) error
	DeleteHeroBanner(ctx context.Context, id int64) error
	CreateHomepageSection(ctx context.Context, s *HomepageSection) error
	ListHomepageSections(ctx context.Context, activeOnly bool) ([]*HomepageSection, error)
	UpdateHomepageSection(ctx context.Context, s *HomepageSection) error
	DeleteHomepageSection(ctx context.Context, id int64) error

	// Admin users
	CreateAdminUser(ctx context.Context, u *AdminUser) error
	GetAdminUser(ctx context.Context, id int64) (*AdminUser, error)
	GetAdminUserByUsername(ctx context.Context, username string) (*AdminUser, error)
	ListAdminUsers(ctx context.Context) ([]*AdminUser, error)
	CountAdminUsers(ctx context.Context) (int, error)

	// Close releases the underlying connection pool
	Close() error
}
