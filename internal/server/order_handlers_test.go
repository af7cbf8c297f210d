// ABOUTME: Tests for checkout, order management, and shipment booking
// ABOUTME: Courier calls go to a stub; failures must surface as 502s

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casebloom/casebloom/internal/auth"
	"github.com/casebloom/casebloom/internal/shipping"
	"github.com/casebloom/casebloom/internal/store"
)

type stubCourier struct {
	rates       []shipping.Rate
	created     *shipping.CreateShipmentResponse
	events      []shipping.TrackingEvent
	err         error
	createCalls int
}

func (c *stubCourier) Rates(ctx context.Context, req *shipping.RateRequest) ([]shipping.Rate, error) {
	return c.rates, c.err
}

func (c *stubCourier) CreateShipment(ctx context.Context, req *shipping.CreateShipmentRequest) (*shipping.CreateShipmentResponse, error) {
	c.createCalls++
	if c.err != nil {
		return nil, c.err
	}
	return c.created, nil
}

func (c *stubCourier) Track(ctx context.Context, waybillID string) ([]shipping.TrackingEvent, error) {
	return c.events, c.err
}

// seedProduct creates a category, brand, model, and one active product.
func seedProduct(t *testing.T, ts *testServer, priceCents int64) (*store.Product, *store.PhoneModel) {
	t.Helper()
	ctx := context.Background()

	category := &store.Category{Name: "Custom", Slug: "custom"}
	require.NoError(t, ts.store.CreateCategory(ctx, category))
	brand := &store.Brand{Name: "Acme", Slug: "acme"}
	require.NoError(t, ts.store.CreateBrand(ctx, brand))
	model := &store.PhoneModel{
		BrandID:     brand.ID,
		Name:        "Acme One",
		Slug:        "acme-one",
		TemplateURL: "https://cdn.example.com/templates/acme-one.png",
	}
	require.NoError(t, ts.store.CreatePhoneModel(ctx, model))
	product := &store.Product{
		CategoryID: category.ID,
		Name:       "Custom Case",
		Slug:       "custom-case",
		PriceCents: priceCents,
		Active:     true,
	}
	require.NoError(t, ts.store.CreateProduct(ctx, product))
	return product, model
}

func checkout(t *testing.T, ts *testServer, product *store.Product, model *store.PhoneModel, qty int) OrderResponse {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/orders", CheckoutRequest{
		CustomerName:  "Dian",
		CustomerPhone: "+62811111111",
		CustomerEmail: "dian@example.com",
		Address:       "Jl. Merdeka 1, Jakarta",
		Items: []CheckoutItem{{
			ProductID:    product.ID,
			PhoneModelID: model.ID,
			DesignURL:    "https://cdn.example.com/designs/d1.png",
			Quantity:     qty,
		}},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order OrderResponse
	require.NoError(t, decodeBody(rec, &order))
	return order
}

func TestCheckout_ComputesTotalFromCatalog(t *testing.T) {
	ts := newTestServer(t)
	product, model := seedProduct(t, ts, 15000)

	order := checkout(t, ts, product, model, 3)
	assert.Equal(t, int64(45000), order.TotalCents)
	assert.Equal(t, "pending", order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(15000), order.Items[0].PriceCents)
}

func TestCheckout_Validation(t *testing.T) {
	ts := newTestServer(t)
	product, model := seedProduct(t, ts, 10000)

	tests := []struct {
		name string
		req  CheckoutRequest
	}{
		{
			name: "no items",
			req: CheckoutRequest{
				CustomerName: "Dian", CustomerPhone: "+62", Address: "Jl. Merdeka 1",
			},
		},
		{
			name: "missing address",
			req: CheckoutRequest{
				CustomerName: "Dian", CustomerPhone: "+62",
				Items: []CheckoutItem{{ProductID: product.ID, PhoneModelID: model.ID, Quantity: 1}},
			},
		},
		{
			name: "zero quantity",
			req: CheckoutRequest{
				CustomerName: "Dian", CustomerPhone: "+62", Address: "Jl. Merdeka 1",
				Items: []CheckoutItem{{ProductID: product.ID, PhoneModelID: model.ID, Quantity: 0}},
			},
		},
		{
			name: "unknown product",
			req: CheckoutRequest{
				CustomerName: "Dian", CustomerPhone: "+62", Address: "Jl. Merdeka 1",
				Items: []CheckoutItem{{ProductID: 9999, PhoneModelID: model.ID, Quantity: 1}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/orders", tt.req, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCheckout_InactiveProduct(t *testing.T) {
	ts := newTestServer(t)
	product, model := seedProduct(t, ts, 10000)
	product.Active = false
	require.NoError(t, ts.store.UpdateProduct(context.Background(), product))

	rec := ts.do(t, http.MethodPost, "/api/orders", CheckoutRequest{
		CustomerName: "Dian", CustomerPhone: "+62", Address: "Jl. Merdeka 1",
		Items: []CheckoutItem{{ProductID: product.ID, PhoneModelID: model.ID, Quantity: 1}},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrders_ListAndFilter(t *testing.T) {
	ts := newTestServer(t)
	product, model := seedProduct(t, ts, 10000)
	first := checkout(t, ts, product, model, 1)
	checkout(t, ts, product, model, 2)

	staff := ts.sessionCookie(t, auth.RoleStaff)
	rec := ts.do(t, http.MethodGet, "/api/admin/orders", nil, staff)
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []OrderResponse
	require.NoError(t, decodeBody(rec, &orders))
	assert.Len(t, orders, 2)

	// Move one order to paid and filter on it.
	admin := ts.sessionCookie(t, auth.RoleAdmin)
	rec = ts.do(t, http.MethodPut, "/api/admin/orders/"+first.ID+"/status",
		OrderStatusRequest{Status: "paid"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/admin/orders?status=paid", nil, staff)
	require.Equal(t, http.StatusOK, rec.Code)
	orders = nil
	require.NoError(t, decodeBody(rec, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)
}

func TestUpdateOrderStatus_Invalid(t *testing.T) {
	ts := newTestServer(t)
	product, model := seedProduct(t, ts, 10000)
	order := checkout(t, ts, product, model, 1)

	admin := ts.sessionCookie(t, auth.RoleAdmin)
	rec := ts.do(t, http.MethodPut, "/api/admin/orders/"+order.ID+"/status",
		OrderStatusRequest{Status: "teleported"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Staff may not change status at all.
	staff := ts.sessionCookie(t, auth.RoleStaff)
	rec = ts.do(t, http.MethodPut, "/api/admin/orders/"+order.ID+"/status",
		OrderStatusRequest{Status: "paid"}, staff)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateShipment_Success(t *testing.T) {
	ts := newTestServer(t)
	courier := &stubCourier{
		created: &shipping.CreateShipmentResponse{
			WaybillID: "WB-1234",
			FeeCents:  9000,
			Status:    "booked",
		},
	}
	ts.courier = courier

	product, model := seedProduct(t, ts, 10000)
	order := checkout(t, ts, product, model, 1)

	admin := ts.sessionCookie(t, auth.RoleAdmin)
	rec := ts.do(t, http.MethodPut, "/api/admin/orders/"+order.ID+"/status",
		OrderStatusRequest{Status: "paid"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/admin/orders/"+order.ID+"/shipment",
		ShipmentRequest{Courier: "jne", Service: "REG", WeightGrams: 200, DestPostcode: "10110"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp ShipmentResponse
	require.NoError(t, decodeBody(rec, &resp))
	assert.Equal(t, "WB-1234", resp.WaybillID)
	assert.Equal(t, int64(9000), resp.FeeCents)
	assert.Equal(t, 1, courier.createCalls)

	// The order flips to shipped and the shipment is readable back.
	updated, _, err := ts.store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, store.OrderStatusShipped, updated.Status)

	rec = ts.do(t, http.MethodGet, "/api/admin/orders/"+order.ID+"/shipment", nil, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateShipment_RequiresPaidOrder(t *testing.T) {
	ts := newTestServer(t)
	ts.courier = &stubCourier{created: &shipping.CreateShipmentResponse{WaybillID: "WB-1"}}
	product, model := seedProduct(t, ts, 10000)
	order := checkout(t, ts, product, model, 1)

	admin := ts.sessionCookie(t, auth.RoleAdmin)
	rec := ts.do(t, http.MethodPost, "/api/admin/orders/"+order.ID+"/shipment",
		ShipmentRequest{Courier: "jne", Service: "REG"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateShipment_UpstreamFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.courier = &stubCourier{err: fmt.Errorf("%w: provider returned status 500", shipping.ErrUpstream)}
	product, model := seedProduct(t, ts, 10000)
	order := checkout(t, ts, product, model, 1)

	admin := ts.sessionCookie(t, auth.RoleAdmin)
	rec := ts.do(t, http.MethodPut, "/api/admin/orders/"+order.ID+"/status",
		OrderStatusRequest{Status: "paid"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/admin/orders/"+order.ID+"/shipment",
		ShipmentRequest{Courier: "jne", Service: "REG"}, admin)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "upstream service failed", errorMessage(t, rec))

	// Nothing persisted on failure.
	_, err := ts.store.GetShipmentByOrder(context.Background(), order.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestCreateShipment_NoProviderConfigured(t *testing.T) {
	ts := newTestServer(t)
	product, model := seedProduct(t, ts, 10000)
	order := checkout(t, ts, product, model, 1)

	admin := ts.sessionCookie(t, auth.RoleAdmin)
	rec := ts.do(t, http.MethodPost, "/api/admin/orders/"+order.ID+"/shipment",
		ShipmentRequest{Courier: "jne", Service: "REG"}, admin)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestTrackShipment(t *testing.T) {
	ts := newTestServer(t)
	courier := &stubCourier{
		created: &shipping.CreateShipmentResponse{WaybillID: "WB-9", Status: "booked"},
		events: []shipping.TrackingEvent{
			{Status: "picked_up", Note: "picked up by courier", Timestamp: time.Now().UTC()},
		},
	}
	ts.courier = courier

	product, model := seedProduct(t, ts, 10000)
	order := checkout(t, ts, product, model, 1)

	admin := ts.sessionCookie(t, auth.RoleAdmin)
	rec := ts.do(t, http.MethodPut, "/api/admin/orders/"+order.ID+"/status",
		OrderStatusRequest{Status: "paid"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/admin/orders/"+order.ID+"/shipment",
		ShipmentRequest{Courier: "jne", Service: "REG"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/admin/orders/"+order.ID+"/tracking", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []shipping.TrackingEvent
	require.NoError(t, decodeBody(rec, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "picked_up", events[0].Status)
}
