//go:build !integration

package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memTxManager runs the callback directly; the in-memory fakes below have no
// rollback, so atomicity tests inject failures before any state mutates.
type memTxManager struct{}

func (m *memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// -----------------------------
// Activation codes
// -----------------------------

type memActivationCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*model.ActivationCode // by id
	// insertErrs is consumed one per Insert call; nil entries succeed.
	insertErrs []error
}

func newMemActivationCodeRepo() *memActivationCodeRepo {
	return &memActivationCodeRepo{codes: map[string]*model.ActivationCode{}}
}

func (r *memActivationCodeRepo) Insert(_ context.Context, _ repository.Tx, code *model.ActivationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.insertErrs) > 0 {
		err := r.insertErrs[0]
		r.insertErrs = r.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, c := range r.codes {
		if c.Code == code.Code && !c.IsUsed {
			return domain.ErrAlreadyExists
		}
	}
	cp := *code
	r.codes[code.ID] = &cp
	return nil
}

func (r *memActivationCodeRepo) FindByCodeForUpdate(_ context.Context, _ repository.Tx, code string) (*model.ActivationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.Code == code && !c.IsUsed {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memActivationCodeRepo) MarkUsed(_ context.Context, _ repository.Tx, id string, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[id]
	if !ok || c.IsUsed {
		return domain.ErrInvalidCode
	}
	c.IsUsed = true
	at := usedAt
	c.UsedAt = &at
	return nil
}

func (r *memActivationCodeRepo) InvalidateAllForUser(_ context.Context, _ repository.Tx, userID string, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.UserID == userID && !c.IsUsed {
			c.IsUsed = true
			at := usedAt
			c.UsedAt = &at
		}
	}
	return nil
}

func (r *memActivationCodeRepo) FindActiveByUser(_ context.Context, _ repository.Tx, userID string) (*model.ActivationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var newest *model.ActivationCode
	for _, c := range r.codes {
		if c.UserID != userID || c.IsUsed {
			continue
		}
		if newest == nil || c.CreatedAt.After(newest.CreatedAt) {
			newest = c
		}
	}
	if newest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *newest
	return &cp, nil
}

func (r *memActivationCodeRepo) activeCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.codes {
		if c.UserID == userID && !c.IsUsed {
			n++
		}
	}
	return n
}

// -----------------------------
// Profiles
// -----------------------------

type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
	saveErr  error
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: map[string]*model.Profile{}}
}

func (r *memProfileRepo) Save(_ context.Context, _ repository.Tx, p *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *memProfileRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProfileRepo) FindByEmail(_ context.Context, _ repository.Tx, email string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memProfileRepo) List(_ context.Context, _ repository.Tx, filter repository.ProfileFilter) ([]*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Profile
	for _, p := range r.profiles {
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

func (r *memProfileRepo) CountByBranch(_ context.Context, _ repository.Tx, branchID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.profiles {
		if p.BranchID != nil && *p.BranchID == branchID {
			n++
		}
	}
	return n, nil
}

func (r *memProfileRepo) DisplayIDExists(_ context.Context, _ repository.Tx, displayID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.DisplayID == displayID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memProfileRepo) TouchLastSeen(_ context.Context, _ repository.Tx, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	t := at
	p.LastSeenAt = &t
	return nil
}

func (r *memProfileRepo) SetDeviceConnected(_ context.Context, _ repository.Tx, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	t := at
	p.DeviceConnectedAt = &t
	p.LastSeenAt = &t
	return nil
}

// -----------------------------
// Branches
// -----------------------------

type memBranchRepo struct {
	mu       sync.Mutex
	branches map[string]*model.Branch
}

func newMemBranchRepo() *memBranchRepo {
	return &memBranchRepo{branches: map[string]*model.Branch{}}
}

func (r *memBranchRepo) Save(_ context.Context, _ repository.Tx, b *model.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.branches[b.ID] = &cp
	return nil
}

func (r *memBranchRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.branches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memBranchRepo) ListSummaries(_ context.Context, _ repository.Tx) ([]*model.BranchSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.BranchSummary
	for _, b := range r.branches {
		cp := *b
		out = append(out, &model.BranchSummary{Branch: cp})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memBranchRepo) CodeExists(_ context.Context, _ repository.Tx, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.branches {
		if b.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBranchRepo) Delete(_ context.Context, _ repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.branches[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.branches, id)
	return nil
}

// -----------------------------
// Stores
// -----------------------------

type memStoreRepo struct {
	mu     sync.Mutex
	stores map[string]*model.Store
}

func newMemStoreRepo() *memStoreRepo {
	return &memStoreRepo{stores: map[string]*model.Store{}}
}

func (r *memStoreRepo) Save(_ context.Context, _ repository.Tx, s *model.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.stores[s.ID] = &cp
	return nil
}

func (r *memStoreRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memStoreRepo) FindByName(_ context.Context, _ repository.Tx, name string) (*model.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var oldest *model.Store
	for _, s := range r.stores {
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

func (r *memStoreRepo) List(_ context.Context, _ repository.Tx, activeOnly bool) ([]*model.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Store
	for _, s := range r.stores {
		if activeOnly && !s.IsActive {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memStoreRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// -----------------------------
// Products
// -----------------------------

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]*model.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[string]*model.Product{}}
}

func (r *memProductRepo) Save(_ context.Context, _ repository.Tx, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	if existing, ok := r.products[p.ID]; ok {
		// Stock only moves through UpdateStock.
		cp.StockQuantity = existing.StockQuantity
	} else {
		cp.StockQuantity = 0
	}
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	return r.FindByID(ctx, tx, id)
}

func (r *memProductRepo) UpdateStock(_ context.Context, _ repository.Tx, id string, newQuantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = newQuantity
	return nil
}

func (r *memProductRepo) List(_ context.Context, _ repository.Tx, filter model.ProductFilter) ([]*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Product
	for _, p := range r.products {
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

func (r *memProductRepo) stock(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		return p.StockQuantity
	}
	return 0
}

// seed puts a product in place with a given balance, bypassing the
// Save/UpdateStock split.
func (r *memProductRepo) seed(p *model.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
}

// -----------------------------
// Inventory ledger
// -----------------------------

type memInventoryLogRepo struct {
	mu        sync.Mutex
	entries   []*model.InventoryLogEntry
	appendErr error
}

func newMemInventoryLogRepo() *memInventoryLogRepo {
	return &memInventoryLogRepo{}
}

func (r *memInventoryLogRepo) Append(_ context.Context, _ repository.Tx, entry *model.InventoryLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memInventoryLogRepo) History(_ context.Context, _ repository.Tx, productID string, offset, limit int) ([]*model.InventoryHistoryEntry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*model.InventoryHistoryEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
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

func (r *memInventoryLogRepo) SumByProduct(_ context.Context, _ repository.Tx, productID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, e := range r.entries {
		if e.ProductID == productID {
			sum += e.ChangeAmount
		}
	}
	return sum, nil
}

// -----------------------------
// Orders
// -----------------------------

type memOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*model.Order
	insertErr error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[string]*model.Order{}}
}

func (r *memOrderRepo) Insert(_ context.Context, _ repository.Tx, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (r *memOrderRepo) List(_ context.Context, _ repository.Tx, filter model.OrderFilter, offset, limit int) ([]*model.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*model.Order
	for _, o := range r.orders {
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

func (r *memOrderRepo) UpdateStatus(_ context.Context, _ repository.Tx, id string, from, to model.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	if o.Status != from {
		return domain.ErrInvalidTransition
	}
	o.Status = to
	return nil
}

func (r *memOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// -----------------------------
// Categories
// -----------------------------

type memCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]*model.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: map[string]*model.Category{}}
}

func (r *memCategoryRepo) Save(_ context.Context, _ repository.Tx, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCategoryRepo) List(_ context.Context, _ repository.Tx, activeOnly bool) ([]*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Category
	for _, c := range r.categories {
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

// -----------------------------
// Company profile
// -----------------------------

type memCompanyRepo struct {
	mu      sync.Mutex
	profile *model.CompanyProfile
}

func newMemCompanyRepo() *memCompanyRepo { return &memCompanyRepo{} }

func (r *memCompanyRepo) Get(_ context.Context, _ repository.Tx) (*model.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.profile == nil {
		return nil, domain.ErrNotFound
	}
	cp := *r.profile
	return &cp, nil
}

func (r *memCompanyRepo) Upsert(_ context.Context, _ repository.Tx, p *model.CompanyProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.profile = &cp
	return nil
}
