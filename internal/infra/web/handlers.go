package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
	"fieldsales-backend/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeErr maps the domain error taxonomy onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body so internals never leak.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrInvalidOrder),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrImmutableField),
		errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrBranchNotEmpty),
		errors.Is(err, domain.ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error().Err(err).Msg("request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ===== Auth / device activation =====

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	userID, err := s.activationUC.Consume(ctx, req.Code)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	profile, err := s.userUC.Get(ctx, userID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if !profile.IsActive {
		http.Error(w, "Account disabled", http.StatusForbidden)
		return
	}
	if err := s.userUC.MarkDeviceConnected(ctx, userID); err != nil {
		s.writeErr(w, err)
		return
	}
	token, err := s.auth.Mint(profile.ID, profile.Role)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Token   string         `json:"token"`
		Profile *model.Profile `json:"profile"`
	}{Token: token, Profile: profile})
}

func (s *Server) handleMarkConnected(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	if err := s.userUC.MarkDeviceConnected(r.Context(), claims.Subject); err != nil {
		s.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Users =====

func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ProfileFilter{
		Role:     model.Role(q.Get("role")),
		BranchID: q.Get("branch_id"),
	}
	if v := q.Get("active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}

	users, err := s.userUC.List(r.Context(), filter)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.Profile `json:"data"`
	}{Data: users})
}

func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request) {
	user, err := s.userUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName  *string `json:"full_name"`
		Phone     *string `json:"phone"`
		IsActive  *bool   `json:"is_active"`
		DisplayID *string `json:"display_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	// Display identifiers never change once assigned.
	if req.DisplayID != nil {
		s.writeErr(w, domain.ErrImmutableField)
		return
	}

	user, err := s.userUC.Update(r.Context(), chi.URLParam(r, "id"), usecase.ProfileUpdate{
		FullName: req.FullName,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ===== Collector provisioning =====

func (s *Server) handleCollectorCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nickname string `json:"nickname"`
		BranchID string `json:"branch_id"`
		Tag      string `json:"tag"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := s.provisionUC.CreateCollector(r.Context(), req.Nickname, req.BranchID, req.Tag)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleCodeRegenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := s.userUC.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if profile.Role != model.RoleCollector {
		http.Error(w, "Not a collector", http.StatusBadRequest)
		return
	}

	code, err := s.activationUC.Issue(ctx, profile.ID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Code      string    `json:"code"`
		ExpiresAt time.Time `json:"expires_at"`
	}{Code: code.Code, ExpiresAt: code.ExpiresAt})
}

func (s *Server) handleCodeCurrent(w http.ResponseWriter, r *http.Request) {
	code, err := s.activationUC.CurrentActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Code      string    `json:"code"`
		ExpiresAt time.Time `json:"expires_at"`
	}{Code: code.Code, ExpiresAt: code.ExpiresAt})
}

// ===== Branches =====

func (s *Server) handleBranchList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.branchUC.ListSummaries(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.BranchSummary `json:"data"`
	}{Data: summaries})
}

func (s *Server) handleBranchCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		Location *string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	branch, err := s.branchUC.Create(r.Context(), req.Name, req.Location)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, branch)
}

func (s *Server) handleBranchGet(w http.ResponseWriter, r *http.Request) {
	branch, err := s.branchUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, branch)
}

func (s *Server) handleBranchUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		Location *string `json:"location"`
		IsActive *bool   `json:"is_active"`
		Code     *string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Code != nil {
		s.writeErr(w, domain.ErrImmutableField)
		return
	}

	branch, err := s.branchUC.Update(r.Context(), chi.URLParam(r, "id"), usecase.BranchUpdate{
		Name:     req.Name,
		Location: req.Location,
		IsActive: req.IsActive,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, branch)
}

func (s *Server) handleBranchDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.branchUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Stores =====

func (s *Server) handleStoreList(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	stores, err := s.storeUC.List(r.Context(), activeOnly)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.Store `json:"data"`
	}{Data: stores})
}

func (s *Server) handleStoreGet(w http.ResponseWriter, r *http.Request) {
	store, err := s.storeUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (s *Server) handleStoreCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string  `json:"name"`
		Address *string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	store, err := s.storeUC.Create(r.Context(), req.Name, req.Address)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, store)
}

func (s *Server) handleStoreUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		Address  *string `json:"address"`
		IsActive *bool   `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	store, err := s.storeUC.Update(r.Context(), chi.URLParam(r, "id"), usecase.StoreUpdate{
		Name:     req.Name,
		Address:  req.Address,
		IsActive: req.IsActive,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

// ===== Products =====

func (s *Server) handleProductList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ProductFilter{
		Search:     q.Get("search"),
		CategoryID: q.Get("category_id"),
		ActiveOnly: q.Get("active") == "true",
	}

	products, err := s.productUC.List(r.Context(), filter)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.Product `json:"data"`
	}{Data: products})
}

func (s *Server) handleProductGet(w http.ResponseWriter, r *http.Request) {
	product, err := s.productUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleProductCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name"`
		Description  *string `json:"description"`
		CategoryID   *string `json:"category_id"`
		UnitPrice    float64 `json:"unit_price"`
		ImageURL     *string `json:"image_url"`
		InitialStock int     `json:"initial_stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	claims, _ := claimsFrom(r.Context())
	product, err := s.productUC.Create(r.Context(), usecase.ProductCreate{
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		UnitPrice:    req.UnitPrice,
		ImageURL:     req.ImageURL,
		InitialStock: req.InitialStock,
	}, claims.Subject)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (s *Server) handleProductUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          *string  `json:"name"`
		Description   *string  `json:"description"`
		CategoryID    *string  `json:"category_id"`
		UnitPrice     *float64 `json:"unit_price"`
		ImageURL      *string  `json:"image_url"`
		IsActive      *bool    `json:"is_active"`
		StockQuantity *int     `json:"stock_quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	// Stock moves only through the inventory ledger.
	if req.StockQuantity != nil {
		s.writeErr(w, domain.ErrImmutableField)
		return
	}

	product, err := s.productUC.Update(r.Context(), chi.URLParam(r, "id"), usecase.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		UnitPrice:   req.UnitPrice,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ===== Inventory =====

func (s *Server) handleInventoryAdjust(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Change int    `json:"change"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	claims, _ := claimsFrom(r.Context())
	product, err := s.inventoryUC.Adjust(r.Context(), chi.URLParam(r, "productID"), req.Change, req.Reason, claims.Subject)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleInventoryHistory(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	entries, total, err := s.inventoryUC.History(r.Context(), chi.URLParam(r, "productID"), page, pageSize)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data  []*model.InventoryHistoryEntry `json:"data"`
		Total int                            `json:"total"`
		Page  int                            `json:"page"`
	}{Data: entries, Total: total, Page: page})
}

// ===== Orders =====

func (s *Server) handleOrderCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StoreID string  `json:"store_id"`
		Notes   *string `json:"notes"`
		Items   []struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	claims, _ := claimsFrom(ctx)

	storeID := req.StoreID
	if storeID == "" {
		// Default to the branch-backed store for the collector's branch.
		profile, err := s.userUC.Get(ctx, claims.Subject)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		if profile.BranchID == nil {
			s.writeErr(w, domain.ErrInvalidOrder)
			return
		}
		store, err := s.orderUC.ResolveStore(ctx, *profile.BranchID)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		storeID = store.ID
	}

	items := make([]usecase.OrderItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.OrderItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := s.orderUC.Create(ctx, claims.Subject, storeID, req.Notes, items)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleOrderList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	claims, _ := claimsFrom(r.Context())

	filter := model.OrderFilter{
		CollectorID: q.Get("collector_id"),
		StoreID:     q.Get("store_id"),
		Status:      model.OrderStatus(q.Get("status")),
	}
	// Collectors only ever see their own orders.
	if claims.Role == model.RoleCollector {
		filter.CollectorID = claims.Subject
	}

	page, pageSize := pageParams(r)
	orders, total, err := s.orderUC.List(r.Context(), filter, page, pageSize)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data  []*model.Order `json:"data"`
		Total int            `json:"total"`
		Page  int            `json:"page"`
	}{Data: orders, Total: total, Page: page})
}

func (s *Server) handleOrderGet(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	order, err := s.orderUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	// Hidden, not forbidden: collectors must not learn other ids exist.
	if claims.Role == model.RoleCollector && order.CollectorID != claims.Subject {
		s.writeErr(w, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := s.orderUC.UpdateStatus(r.Context(), chi.URLParam(r, "id"), model.OrderStatus(req.Status))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	return page, pageSize
}

// ===== Categories =====

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") != "false"
	categories, err := s.categoryUC.List(r.Context(), activeOnly)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.Category `json:"data"`
	}{Data: categories})
}

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		SortOrder   int     `json:"sort_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cat, err := s.categoryUC.Create(r.Context(), req.Name, req.Description, req.SortOrder)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

func (s *Server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		SortOrder   *int    `json:"sort_order"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cat, err := s.categoryUC.Update(r.Context(), chi.URLParam(r, "id"), usecase.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	cat, err := s.categoryUC.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// ===== Company profile =====

func (s *Server) handleCompanyGet(w http.ResponseWriter, r *http.Request) {
	profile, err := s.companyUC.Get(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleCompanyUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyName   *string `json:"company_name"`
		Address       *string `json:"address"`
		ContactPhone  *string `json:"contact_phone"`
		ContactEmail  *string `json:"contact_email"`
		ReceiptFooter *string `json:"receipt_footer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := s.companyUC.Update(r.Context(), usecase.CompanyUpdate{
		CompanyName:   req.CompanyName,
		Address:       req.Address,
		ContactPhone:  req.ContactPhone,
		ContactEmail:  req.ContactEmail,
		ReceiptFooter: req.ReceiptFooter,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
