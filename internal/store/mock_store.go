// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows handler tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu         sync.RWMutex
	nextID     int64
	categories map[int64]*Category
	brands     map[int64]*Brand
	models     map[int64]*PhoneModel
	products   map[int64]*Product
	images     map[int64]*ProductImage
	orders     map[string]*Order
	orderItems map[string][]*OrderItem // keyed by order ID
	shipments  map[string]*Shipment    // keyed by order ID
	banners    map[int64]*HeroBanner
	sections   map[int64]*HomepageSection
	admins     map[int64]*AdminUser
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		nextID:     1,
		categories: make(map[int64]*Category),
		brands:     make(map[int64]*Brand),
		models:     make(map[int64]*PhoneModel),
		products:   make(map[int64]*Product),
		images:     make(map[int64]*ProductImage),
		orders:     make(map[string]*Order),
		orderItems: make(map[string][]*OrderItem),
		shipments:  make(map[string]*Shipment),
		banners:    make(map[int64]*HeroBanner),
		sections:   make(map[int64]*HomepageSection),
		admins:     make(map[int64]*AdminUser),
	}
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error { return nil }

// allocID must be called with the mutex held.
func (m *MockStore) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// CreateCategory stores a new category.
func (m *MockStore) CreateCategory(ctx context.Context, c *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.categories {
		if existing.Slug == c.Slug {
			return ErrDuplicateSlug
		}
	}
	c.ID = m.allocID()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

// GetCategory retrieves a category by ID.
func (m *MockStore) GetCategory(ctx context.Context, id int64) (*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *c
	return &result, nil
}

// ListCategories returns all categories ordered by position.
func (m *MockStore) ListCategories(ctx context.Context) ([]*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var categories []*Category
	for _, c := range m.categories {
		cp := *c
		categories = append(categories, &cp)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Position != categories[j].Position {
			return categories[i].Position < categories[j].Position
		}
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

// UpdateCategory updates a stored category.
func (m *MockStore) UpdateCategory(ctx context.Context, c *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[c.ID]; !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now()
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

// DeleteCategory removes a category by ID.
func (m *MockStore) DeleteCategory(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[id]; !ok {
		return ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

// CreateBrand stores a new brand.
func (m *MockStore) CreateBrand(ctx context.Context, b *Brand) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.brands {
		if existing.Slug == b.Slug {
			return ErrDuplicateSlug
		}
	}
	b.ID = m.allocID()
	b.CreatedAt = time.Now()
	cp := *b
	m.brands[b.ID] = &cp
	return nil
}

// GetBrand retrieves a brand by ID.
func (m *MockStore) GetBrand(ctx context.Context, id int64) (*Brand, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.brands[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *b
	return &result, nil
}

// ListBrands returns all brands ordered by name.
func (m *MockStore) ListBrands(ctx context.Context) ([]*Brand, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var brands []*Brand
	for _, b := range m.brands {
		cp := *b
		brands = append(brands, &cp)
	}
	sort.Slice(brands, func(i, j int) bool { return brands[i].Name < brands[j].Name })
	return brands, nil
}

// DeleteBrand removes a brand and its phone models.
func (m *MockStore) DeleteBrand(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.brands[id]; !ok {
		return ErrNotFound
	}
	delete(m.brands, id)
	for mid, model := range m.models {
		if model.BrandID == id {
			delete(m.models, mid)
		}
	}
	return nil
}

// CreatePhoneModel stores a new phone model.
func (m *MockStore) CreatePhoneModel(ctx context.Context, pm *PhoneModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.models {
		if existing.Slug == pm.Slug {
			return ErrDuplicateSlug
		}
	}
	pm.ID = m.allocID()
	pm.CreatedAt = time.Now()
	cp := *pm
	m.models[pm.ID] = &cp
	return nil
}

// GetPhoneModel retrieves a phone model by ID.
func (m *MockStore) GetPhoneModel(ctx context.Context, id int64) (*PhoneModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pm, ok := m.models[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *pm
	return &result, nil
}

// ListPhoneModels returns phone models, optionally filtered by brand.
func (m *MockStore) ListPhoneModels(ctx context.Context, brandID *int64) ([]*PhoneModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var models []*PhoneModel
	for _, pm := range m.models {
		if brandID != nil && pm.BrandID != *brandID {
			continue
		}
		cp := *pm
		models = append(models, &cp)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models, nil
}

// DeletePhoneModel removes a phone model by ID.
func (m *MockStore) DeletePhoneModel(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.models[id]; !ok {
		return ErrNotFound
	}
	delete(m.models, id)
	return nil
}

// CreateProduct stores a new product.
func (m *MockStore) CreateProduct(ctx context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.products {
		if existing.Slug == p.Slug {
			return ErrDuplicateSlug
		}
	}
	p.ID = m.allocID()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

// GetProduct retrieves a product by ID.
func (m *MockStore) GetProduct(ctx context.Context, id int64) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *p
	return &result, nil
}

// GetProductBySlug retrieves a product by slug.
func (m *MockStore) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.products {
		if p.Slug == slug {
			result := *p
			return &result, nil
		}
	}
	return nil, ErrNotFound
}

// ListProducts returns products matching the filters, newest first.
func (m *MockStore) ListProducts(ctx context.Context, params ListProductsParams) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var products []*Product
	for _, p := range m.products {
		if params.CategoryID != nil && p.CategoryID != *params.CategoryID {
			continue
		}
		if params.ActiveOnly && !p.Active {
			continue
		}
		cp := *p
		products = append(products, &cp)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID > products[j].ID })

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	if params.Offset >= len(products) {
		return nil, nil
	}
	products = products[params.Offset:]
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

// UpdateProduct updates a stored product.
func (m *MockStore) UpdateProduct(ctx context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

// DeleteProduct removes a product and its images.
func (m *MockStore) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	for imgID, img := range m.images {
		if img.ProductID == id {
			delete(m.images, imgID)
		}
	}
	return nil
}

// AddProductImage stores a gallery image.
func (m *MockStore) AddProductImage(ctx context.Context, img *ProductImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	img.ID = m.allocID()
	cp := *img
	m.images[img.ID] = &cp
	return nil
}

// ListProductImages returns a product's images ordered by position.
func (m *MockStore) ListProductImages(ctx context.Context, productID int64) ([]*ProductImage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var images []*ProductImage
	for _, img := range m.images {
		if img.ProductID == productID {
			cp := *img
			images = append(images, &cp)
		}
	}
	sort.Slice(images, func(i, j int) bool {
		if images[i].Position != images[j].Position {
			return images[i].Position < images[j].Position
		}
		return images[i].ID < images[j].ID
	})
	return images, nil
}

// DeleteProductImage removes a gallery image by ID.
func (m *MockStore) DeleteProductImage(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.images[id]; !ok {
		return ErrNotFound
	}
	delete(m.images, id)
	return nil
}

// CreateOrder stores an order with its items.
func (m *MockStore) CreateOrder(ctx context.Context, o *Order, items []*OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	cp := *o
	m.orders[o.ID] = &cp

	var stored []*OrderItem
	for _, item := range items {
		item.ID = m.allocID()
		item.OrderID = o.ID
		icp := *item
		stored = append(stored, &icp)
	}
	m.orderItems[o.ID] = stored
	return nil
}

// GetOrder retrieves an order and its items by ID.
func (m *MockStore) GetOrder(ctx context.Context, id string) (*Order, []*OrderItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, nil, ErrNotFound
	}
	result := *o

	var items []*OrderItem
	for _, item := range m.orderItems[id] {
		cp := *item
		items = append(items, &cp)
	}
	return &result, items, nil
}

// ListOrders returns orders matching the filters, newest first.
func (m *MockStore) ListOrders(ctx context.Context, params ListOrdersParams) ([]*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var orders []*Order
	for _, o := range m.orders {
		if params.Status != nil && o.Status != *params.Status {
			continue
		}
		cp := *o
		orders = append(orders, &cp)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	if params.Offset >= len(orders) {
		return nil, nil
	}
	orders = orders[params.Offset:]
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// UpdateOrderStatus transitions a stored order's status.
func (m *MockStore) UpdateOrderStatus(ctx context.Context, id string, status OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

// CreateShipment records a shipment for an order.
func (m *MockStore) CreateShipment(ctx context.Context, sh *Shipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sh.ID = m.allocID()
	sh.CreatedAt = time.Now()
	cp := *sh
	m.shipments[sh.OrderID] = &cp
	return nil
}

// GetShipmentByOrder retrieves the shipment for an order.
func (m *MockStore) GetShipmentByOrder(ctx context.Context, orderID string) (*Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sh, ok := m.shipments[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	result := *sh
	return &result, nil
}

// CreateHeroBanner stores a banner.
func (m *MockStore) CreateHeroBanner(ctx context.Context, b *HeroBanner) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b.ID = m.allocID()
	cp := *b
	m.banners[b.ID] = &cp
	return nil
}

// ListHeroBanners returns banners ordered by position.
func (m *MockStore) ListHeroBanners(ctx context.Context, activeOnly bool) ([]*HeroBanner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var banners []*HeroBanner
	for _, b := range m.banners {
		if activeOnly && !b.Active {
			continue
		}
		cp := *b
		banners = append(banners, &cp)
	}
	sort.Slice(banners, func(i, j int) bool {
		if banners[i].Position != banners[j].Position {
			return banners[i].Position < banners[j].Position
		}
		return banners[i].ID < banners[j].ID
	})
	return banners, nil
}

// UpdateHeroBanner updates a stored banner.
func (m *MockStore) UpdateHeroBanner(ctx context.Context, b *HeroBanner) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.banners[b.ID]; !ok {
		return ErrNotFound
	}
	cp := *b
	m.banners[b.ID] = &cp
	return nil
}

// DeleteHeroBanner removes a banner by ID.
func (m *MockStore) DeleteHeroBanner(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.banners[id]; !ok {
		return ErrNotFound
	}
	delete(m.banners, id)
	return nil
}

// CreateHomepageSection stores a section.
func (m *MockStore) CreateHomepageSection(ctx context.Context, sec *HomepageSection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sec.ID = m.allocID()
	cp := *sec
	m.sections[sec.ID] = &cp
	return nil
}

// ListHomepageSections returns sections ordered by position.
func (m *MockStore) ListHomepageSections(ctx context.Context, activeOnly bool) ([]*HomepageSection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sections []*HomepageSection
	for _, sec := range m.sections {
		if activeOnly && !sec.Active {
			continue
		}
		cp := *sec
		sections = append(sections, &cp)
	}
	sort.Slice(sections, func(i, j int) bool {
		if sections[i].Position != sections[j].Position {
			return sections[i].Position < sections[j].Position
		}
		return sections[i].ID < sections[j].ID
	})
	return sections, nil
}

// UpdateHomepageSection updates a section's fields.
func (m *MockStore) UpdateHomepageSection(ctx context.Context, sec *HomepageSection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sections[sec.ID]; !ok {
		return ErrNotFound
	}
	cp := *sec
	m.sections[sec.ID] = &cp
	return nil
}

// DeleteHomepageSection removes a section by ID.
func (m *MockStore) DeleteHomepageSection(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sections[id]; !ok {
		return ErrNotFound
	}
	delete(m.sections, id)
	return nil
}

// CreateAdminUser stores an admin user.
func (m *MockStore) CreateAdminUser(ctx context.Context, u *AdminUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.admins {
		if existing.Username == u.Username {
			return ErrDuplicateUsername
		}
	}
	u.ID = m.allocID()
	u.CreatedAt = time.Now()
	cp := *u
	m.admins[u.ID] = &cp
	return nil
}

// GetAdminUser retrieves an admin user by ID.
func (m *MockStore) GetAdminUser(ctx context.Context, id int64) (*AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.admins[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *u
	return &result, nil
}

// GetAdminUserByUsername retrieves an admin user by username.
func (m *MockStore) GetAdminUserByUsername(ctx context.Context, username string) (*AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.admins {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, ErrNotFound
}

// ListAdminUsers returns all admin users ordered by username.
func (m *MockStore) ListAdminUsers(ctx context.Context) ([]*AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var users []*AdminUser
	for _, u := range m.admins {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// CountAdminUsers returns the number of admin users.
func (m *MockStore) CountAdminUsers(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.admins), nil
}
