//go:build !integration

package web

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
)

// --- Mock repositories (ports) ---
//
// The handlers are tested against real use cases running on these in-memory
// ports, so a request exercises the full routing -> usecase -> repo path.

type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

type mockCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*model.ActivationCode
}

func newMockCodeRepo() *mockCodeRepo {
	return &mockCodeRepo{codes: map[string]*model.ActivationCode{}}
}

func (m *mockCodeRepo) Insert(_ context.Context, _ repository.Tx, code *model.ActivationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.Code == code.Code && !c.IsUsed {
			return domain.ErrAlreadyExists
		}
	}
	cp := *code
	m.codes[code.ID] = &cp
	return nil
}

func (m *mockCodeRepo) FindByCodeForUpdate(_ context.Context, _ repository.Tx, code string) (*model.ActivationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.Code == code && !c.IsUsed {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCodeRepo) MarkUsed(_ context.Context, _ repository.Tx, id string, usedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[id]
	if !ok || c.IsUsed {
		return domain.ErrInvalidCode
	}
	c.IsUsed = true
	at := usedAt
	c.UsedAt = &at
	return nil
}

func (m *mockCodeRepo) InvalidateAllForUser(_ context.Context, _ repository.Tx, userID string, usedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.UserID == userID && !c.IsUsed {
			c.IsUsed = true
			at := usedAt
			c.UsedAt = &at
		}
	}
	return nil
}

func (m *mockCodeRepo) FindActiveByUser(_ context.Context, _ repository.Tx, userID string) (*model.ActivationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var newest *model.ActivationCode
	for _, c := range m.codes {
		if c.UserID == userID && !c.IsUsed {
			if newest == nil || c.CreatedAt.After(newest.CreatedAt) {
				newest = c
			}
		}
	}
	if newest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *newest
	return &cp, nil
}

type mockProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: map[string]*model.Profile{}}
}

func (m *mockProfileRepo) Save(_ context.Context, _ repository.Tx, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

func (m *mockProfileRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProfileRepo) FindByEmail(_ context.Context, _ repository.Tx, email string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockProfileRepo) List(_ context.Context, _ repository.Tx, filter repository.ProfileFilter) ([]*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Profile
	for _, p := range m.profiles {
		if filter.Role != "" && p.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		if filter.BranchID != "" && (p.BranchID == nil || *p.BranchID != filter.BranchID) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockProfileRepo) CountByBranch(_ context.Context, _ repository.Tx, branchID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.profiles {
		if p.BranchID != nil && *p.BranchID == branchID {
			n++
		}
	}
	return n, nil
}

func (m *mockProfileRepo) DisplayIDExists(_ context.Context, _ repository.Tx, displayID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.DisplayID == displayID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProfileRepo) TouchLastSeen(_ context.Context, _ repository.Tx, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	t := at
	p.LastSeenAt = &t
	return nil
}

func (m *mockProfileRepo) SetDeviceConnected(_ context.Context, _ repository.Tx, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	t := at
	p.DeviceConnectedAt = &t
	p.LastSeenAt = &t
	return nil
}

type mockBranchRepo struct {
	mu       sync.Mutex
	branches map[string]*model.Branch
}

func newMockBranchRepo() *mockBranchRepo {
	return &mockBranchRepo{branches: map[string]*model.Branch{}}
}

func (m *mockBranchRepo) Save(_ context.Context, _ repository.Tx, b *model.Branch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.branches[b.ID] = &cp
	return nil
}

func (m *mockBranchRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.branches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBranchRepo) ListSummaries(_ context.Context, _ repository.Tx) ([]*model.BranchSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.BranchSummary
	for _, b := range m.branches {
		cp := *b
		out = append(out, &model.BranchSummary{Branch: cp})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockBranchRepo) CodeExists(_ context.Context, _ repository.Tx, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.branches {
		if b.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBranchRepo) Delete(_ context.Context, _ repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.branches[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.branches, id)
	return nil
}

type mockStoreRepo struct {
	mu     sync.Mutex
	stores map[string]*model.Store
}

func newMockStoreRepo() *mockStoreRepo {
	return &mockStoreRepo{stores: map[string]*model.Store{}}
}

func (m *mockStoreRepo) Save(_ context.Context, _ repository.Tx, s *model.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.stores[s.ID] = &cp
	return nil
}

func (m *mockStoreRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockStoreRepo) FindByName(_ context.Context, _ repository.Tx, name string) (*model.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var oldest *model.Store
	for _, s := range m.stores {
		if !strings.EqualFold(s.Name, name) {
			continue
		}
		if oldest == nil || s.CreatedAt.Before(oldest.CreatedAt) {
			oldest = s
		}
	}
	if oldest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *oldest
	return &cp, nil
}

func (m *mockStoreRepo) List(_ context.Context, _ repository.Tx, activeOnly bool) ([]*model.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Store
	for _, s := range m.stores {
		if activeOnly && !s.IsActive {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type mockProductRepo struct {
	mu       sync.Mutex
	products map[string]*model.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: map[string]*model.Product{}}
}

func (m *mockProductRepo) Save(_ context.Context, _ repository.Tx, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	if existing, ok := m.products[p.ID]; ok {
		cp.StockQuantity = existing.StockQuantity
	} else {
		cp.StockQuantity = 0
	}
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	return m.FindByID(ctx, tx, id)
}

func (m *mockProductRepo) UpdateStock(_ context.Context, _ repository.Tx, id string, newQuantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = newQuantity
	return nil
}

func (m *mockProductRepo) List(_ context.Context, _ repository.Tx, filter model.ProductFilter) ([]*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Product
	for _, p := range m.products {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != filter.CategoryID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockProductRepo) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		return p.StockQuantity
	}
	return 0
}

type mockLogRepo struct {
	mu      sync.Mutex
	entries []*model.InventoryLogEntry
}

func newMockLogRepo() *mockLogRepo { return &mockLogRepo{} }

func (m *mockLogRepo) Append(_ context.Context, _ repository.Tx, entry *model.InventoryLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *mockLogRepo) History(_ context.Context, _ repository.Tx, productID string, offset, limit int) ([]*model.InventoryHistoryEntry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*model.InventoryHistoryEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.ProductID != productID {
			continue
		}
		matched = append(matched, &model.InventoryHistoryEntry{InventoryLogEntry: *e})
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *mockLogRepo) SumByProduct(_ context.Context, _ repository.Tx, productID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0
	for _, e := range m.entries {
		if e.ProductID == productID {
			sum += e.ChangeAmount
		}
	}
	return sum, nil
}

type mockOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*model.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: map[string]*model.Order{}}
}

func (m *mockOrderRepo) Insert(_ context.Context, _ repository.Tx, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (m *mockOrderRepo) List(_ context.Context, _ repository.Tx, filter model.OrderFilter, offset, limit int) ([]*model.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*model.Order
	for _, o := range m.orders {
		if filter.CollectorID != "" && o.CollectorID != filter.CollectorID {
			continue
		}
		if filter.StoreID != "" && o.StoreID != filter.StoreID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		cp := *o
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, _ repository.Tx, id string, from, to model.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	if o.Status != from {
		return domain.ErrInvalidTransition
	}
	o.Status = to
	return nil
}

type mockCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]*model.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: map[string]*model.Category{}}
}

func (m *mockCategoryRepo) Save(_ context.Context, _ repository.Tx, c *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *mockCategoryRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockCategoryRepo) List(_ context.Context, _ repository.Tx, activeOnly bool) ([]*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Category
	for _, c := range m.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type mockCompanyRepo struct {
	mu      sync.Mutex
	profile *model.CompanyProfile
}

func newMockCompanyRepo() *mockCompanyRepo { return &mockCompanyRepo{} }

func (m *mockCompanyRepo) Get(_ context.Context, _ repository.Tx) (*model.CompanyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return nil, domain.ErrNotFound
	}
	cp := *m.profile
	return &cp, nil
}

func (m *mockCompanyRepo) Upsert(_ context.Context, _ repository.Tx, p *model.CompanyProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.profile = &cp
	return nil
}
