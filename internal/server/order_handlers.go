// ABOUTME: Checkout, order management, and shipment handlers
// ABOUTME: Shipment creation calls the courier provider then persists the waybill

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/casebloom/casebloom/internal/auth"
	"github.com/casebloom/casebloom/internal/shipping"
	"github.com/casebloom/casebloom/internal/store"
)

// CheckoutRequest is the JSON request body for POST /api/orders.
type CheckoutRequest struct {
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	CustomerEmail string         `json:"customer_email"`
	Address       string         `json:"address"`
	Items         []CheckoutItem `json:"items"`
}

// CheckoutItem is one line of a checkout request. DesignURL carries the
// customer's uploaded artwork for custom cases and is empty for stock designs.
type CheckoutItem struct {
	ProductID    int64  `json:"product_id"`
	PhoneModelID int64  `json:"phone_model_id"`
	DesignURL    string `json:"design_url"`
	Quantity     int    `json:"quantity"`
}

// OrderResponse is the JSON shape for orders.
type OrderResponse struct {
	ID            string              `json:"id"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	CustomerEmail string              `json:"customer_email"`
	Address       string              `json:"address"`
	Status        string              `json:"status"`
	TotalCents    int64               `json:"total_cents"`
	CreatedAt     string              `json:"created_at"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}

// OrderItemResponse is one line of an order.
type OrderItemResponse struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product_id"`
	PhoneModelID int64  `json:"phone_model_id"`
	DesignURL    string `json:"design_url,omitempty"`
	Quantity     int    `json:"quantity"`
	PriceCents   int64  `json:"price_cents"`
}

// OrderStatusRequest is the JSON request body for status updates.
type OrderStatusRequest struct {
	Status string `json:"status"`
}

// ShipmentRequest is the JSON request body for creating a shipment.
type ShipmentRequest struct {
	Courier        string `json:"courier"`
	Service        string `json:"service"`
	WeightGrams    int    `json:"weight_grams"`
	OriginPostcode string `json:"origin_postcode"`
	DestPostcode   string `json:"dest_postcode"`
}

// ShipmentResponse is the JSON shape for shipments.
type ShipmentResponse struct {
	ID        int64  `json:"id"`
	OrderID   string `json:"order_id"`
	Courier   string `json:"courier"`
	Service   string `json:"service"`
	WaybillID string `json:"waybill_id"`
	FeeCents  int64  `json:"fee_cents"`
	Status    string `json:"status"`
}

func orderResponse(o *store.Order, items []*store.OrderItem) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		CustomerEmail: o.CustomerEmail,
		Address:       o.Address,
		Status:        string(o.Status),
		TotalCents:    o.TotalCents,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			PhoneModelID: item.PhoneModelID,
			DesignURL:    item.DesignURL,
			Quantity:     item.Quantity,
			PriceCents:   item.PriceCents,
		})
	}
	return resp
}

func shipmentResponse(sh *store.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:        sh.ID,
		OrderID:   sh.OrderID,
		Courier:   sh.Courier,
		Service:   sh.Service,
		WaybillID: sh.WaybillID,
		FeeCents:  sh.FeeCents,
		Status:    sh.Status,
	}
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.CustomerName == "" || req.CustomerPhone == "" || req.Address == "" {
		s.writeError(w, validationError("customer_name, customer_phone, and address are required"))
		return
	}
	if len(req.Items) == 0 {
		s.writeError(w, validationError("at least one item is required"))
		return
	}

	// Prices come from the catalog, never from the client.
	var total int64
	items := make([]*store.OrderItem, 0, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			s.writeError(w, validationError("items[%d]: quantity must be positive", i))
			return
		}
		product, err := s.store.GetProduct(r.Context(), item.ProductID)
		if err != nil {
			s.writeError(w, validationError("items[%d]: unknown product", i))
			return
		}
		if !product.Active {
			s.writeError(w, validationError("items[%d]: product is not available", i))
			return
		}
		if _, err := s.store.GetPhoneModel(r.Context(), item.PhoneModelID); err != nil {
			s.writeError(w, validationError("items[%d]: unknown phone model", i))
			return
		}
		total += product.PriceCents * int64(item.Quantity)
		items = append(items, &store.OrderItem{
			ProductID:    item.ProductID,
			PhoneModelID: item.PhoneModelID,
			DesignURL:    item.DesignURL,
			Quantity:     item.Quantity,
			PriceCents:   product.PriceCents,
		})
	}

	now := time.Now().UTC()
	order := &store.Order{
		ID:            uuid.NewString(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Address:       req.Address,
		Status:        store.OrderStatusPending,
		TotalCents:    total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateOrder(r.Context(), order, items); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("order created", "order_id", order.ID, "total_cents", total, "items", len(items))
	s.writeJSON(w, http.StatusCreated, orderResponse(order, items))
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff); err != nil {
		s.writeError(w, err)
		return
	}
	var params store.ListOrdersParams
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := store.OrderStatus(raw)
		if !store.ValidOrderStatus(status) {
			s.writeError(w, validationError("invalid status %q", raw))
			return
		}
		params.Status = &status
	}
	orders, err := s.store.ListOrders(r.Context(), params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderResponse(o, nil))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff); err != nil {
		s.writeError(w, err)
		return
	}
	order, items, err := s.store.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, orderResponse(order, items))
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	identity, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req OrderStatusRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	status := store.OrderStatus(req.Status)
	if !store.ValidOrderStatus(status) {
		s.writeError(w, validationError("invalid status %q", req.Status))
		return
	}
	orderID := r.PathValue("id")
	if err := s.store.UpdateOrderStatus(r.Context(), orderID, status); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("order status updated", "order_id", orderID, "status", status, "by", identity.Username)
	s.writeJSON(w, http.StatusOK, map[string]string{"id": orderID, "status": string(status)})
}

func (s *Server) handleOrderRates(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff); err != nil {
		s.writeError(w, err)
		return
	}
	if s.courier == nil {
		s.writeError(w, fmt.Errorf("%w: no shipping provider configured", shipping.ErrUpstream))
		return
	}
	if _, _, err := s.store.GetOrder(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	var req ShipmentRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.OriginPostcode == "" || req.DestPostcode == "" {
		s.writeError(w, validationError("origin_postcode and dest_postcode are required"))
		return
	}
	rates, err := s.courier.Rates(r.Context(), &shipping.RateRequest{
		OriginPostcode: req.OriginPostcode,
		DestPostcode:   req.DestPostcode,
		WeightGrams:    req.WeightGrams,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rates)
}

func (s *Server) handleCreateShipment(w http.ResponseWriter, r *http.Request) {
	identity, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.courier == nil {
		s.writeError(w, fmt.Errorf("%w: no shipping provider configured", shipping.ErrUpstream))
		return
	}
	orderID := r.PathValue("id")
	order, _, err := s.store.GetOrder(r.Context(), orderID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if order.Status != store.OrderStatusPaid {
		s.writeError(w, validationError("order must be paid before shipping, got %q", order.Status))
		return
	}
	var req ShipmentRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Courier == "" || req.Service == "" {
		s.writeError(w, validationError("courier and service are required"))
		return
	}

	created, err := s.courier.CreateShipment(r.Context(), &shipping.CreateShipmentRequest{
		OrderID:      orderID,
		Courier:      req.Courier,
		Service:      req.Service,
		DestName:     order.CustomerName,
		DestPhone:    order.CustomerPhone,
		DestAddress:  order.Address,
		DestPostcode: req.DestPostcode,
		WeightGrams:  req.WeightGrams,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	shipment := &store.Shipment{
		OrderID:   orderID,
		Courier:   req.Courier,
		Service:   req.Service,
		WaybillID: created.WaybillID,
		FeeCents:  created.FeeCents,
		Status:    created.Status,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateShipment(r.Context(), shipment); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.UpdateOrderStatus(r.Context(), orderID, store.OrderStatusShipped); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("shipment created",
		"order_id", orderID,
		"courier", req.Courier,
		"waybill_id", created.WaybillID,
		"by", identity.Username)
	s.writeJSON(w, http.StatusCreated, shipmentResponse(shipment))
}

func (s *Server) handleGetShipment(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff); err != nil {
		s.writeError(w, err)
		return
	}
	shipment, err := s.store.GetShipmentByOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, shipmentResponse(shipment))
}

func (s *Server) handleTrackShipment(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff); err != nil {
		s.writeError(w, err)
		return
	}
	if s.courier == nil {
		s.writeError(w, fmt.Errorf("%w: no shipping provider configured", shipping.ErrUpstream))
		return
	}
	shipment, err := s.store.GetShipmentByOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	events, err := s.courier.Track(r.Context(), shipment.WaybillID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, events)
}
