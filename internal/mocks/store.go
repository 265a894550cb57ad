package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/store"
)

// Store is an in-memory store.Factory. Each Begin takes a deep snapshot of
// the shared state; Commit publishes the working copy back, Rollback (or
// simply dropping the unit) discards it. That reproduces the property the
// services rely on: uncommitted writes are invisible.
type Store struct {
	mu sync.Mutex

	accounts   map[uuid.UUID]*domain.Account
	categories map[uuid.UUID]*domain.Category
	listings   map[uuid.UUID]*domain.Listing
	providers  map[uuid.UUID]*domain.Provider
	skills     map[uuid.UUID]*domain.Skill

	// BeginErr and CommitErr, when set, force the corresponding call to
	// fail. Used to test error paths.
	BeginErr  error
	CommitErr error
}

var _ store.Factory = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts:   make(map[uuid.UUID]*domain.Account),
		categories: make(map[uuid.UUID]*domain.Category),
		listings:   make(map[uuid.UUID]*domain.Listing),
		providers:  make(map[uuid.UUID]*domain.Provider),
		skills:     make(map[uuid.UUID]*domain.Skill),
	}
}

// Begin implements store.Factory.
func (s *Store) Begin(ctx context.Context) (store.UnitOfWork, error) {
	if s.BeginErr != nil {
		return nil, s.BeginErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	uow := &unitOfWork{
		parent:     s,
		accounts:   cloneAccounts(s.accounts),
		categories: cloneCategories(s.categories),
		listings:   cloneListings(s.listings),
		providers:  cloneProviders(s.providers),
		skills:     cloneSkills(s.skills),
	}
	return uow, nil
}

// Seed inserts entities directly into the shared state, bypassing any
// transaction. Accepts *domain.Account, *domain.Category, *domain.Listing,
// *domain.Provider, and *domain.Skill.
func (s *Store) Seed(entities ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entities {
		switch v := e.(type) {
		case *domain.Account:
			c := *v
			s.accounts[v.ID] = &c
		case *domain.Category:
			c := *v
			s.categories[v.ID] = &c
		case *domain.Listing:
			c := *v
			s.listings[v.ID] = &c
		case *domain.Provider:
			c := cloneProvider(v)
			s.providers[v.ID] = c
		case *domain.Skill:
			c := *v
			s.skills[v.ID] = &c
		default:
			panic("mocks.Store.Seed: unsupported entity type")
		}
	}
}

// Account returns the committed account with the given username, or nil.
func (s *Store) Account(username string) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Username == username {
			c := *a
			return &c
		}
	}
	return nil
}

// SkillTitles returns the committed catalog titles.
func (s *Store) SkillTitles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	titles := make([]string, 0, len(s.skills))
	for _, sk := range s.skills {
		titles = append(titles, sk.Title)
	}
	return titles
}

// ListingCount returns the number of committed listings.
func (s *Store) ListingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listings)
}

type unitOfWork struct {
	parent *Store
	done   bool

	accounts   map[uuid.UUID]*domain.Account
	categories map[uuid.UUID]*domain.Category
	listings   map[uuid.UUID]*domain.Listing
	providers  map[uuid.UUID]*domain.Provider
	skills     map[uuid.UUID]*domain.Skill
}

var _ store.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Accounts() store.AccountRepository { return &accountRepo{u} }
func (u *unitOfWork) Categories() store.CategoryRepository { return &categoryRepo{u} }
func (u *unitOfWork) Listings() store.ListingRepository { return &listingRepo{u} }
func (u *unitOfWork) Providers() store.ProviderRepository { return &providerRepo{u} }
func (u *unitOfWork) Skills() store.SkillRepository { return &skillRepo{u} }

func (u *unitOfWork) Commit() error {
	if u.parent.CommitErr != nil {
		return u.parent.CommitErr
	}
	if u.done {
		return nil
	}
	u.done = true

	u.parent.mu.Lock()
	defer u.parent.mu.Unlock()
	u.parent.accounts = u.accounts
	u.parent.categories = u.categories
	u.parent.listings = u.listings
	u.parent.providers = u.providers
	u.parent.skills = u.skills
	return nil
}

func (u *unitOfWork) Rollback() error {
	u.done = true
	return nil
}

// account repository

type accountRepo struct{ u *unitOfWork }

func (r *accountRepo) Create(ctx context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	for _, a := range r.u.accounts {
		if a.Username == account.Username {
			return store.ErrUsernameExists
		}
		if a.Email == account.Email {
			return store.ErrEmailExists
		}
	}
	c := *account
	r.u.accounts[account.ID] = &c
	return nil
}

func (r *accountRepo) matches(a *domain.Account, f store.AccountFilter) bool {
	if f.ID != nil && a.ID != *f.ID {
		return false
	}
	if f.Username != nil && a.Username != *f.Username {
		return false
	}
	if f.Email != nil && a.Email != *f.Email {
		return false
	}
	if f.Role != nil && a.Role != *f.Role {
		return false
	}
	if f.IsActive != nil && a.IsActive != *f.IsActive {
		return false
	}
	return true
}

func (r *accountRepo) GetOne(ctx context.Context, filter store.AccountFilter) (*domain.Account, error) {
	var found *domain.Account
	for _, a := range r.u.accounts {
		if r.matches(a, filter) {
			if found != nil {
				return nil, store.ErrConflict
			}
			found = a
		}
	}
	if found == nil {
		return nil, store.ErrAccountNotFound
	}
	c := *found
	return &c, nil
}

func (r *accountRepo) List(ctx context.Context, filter store.AccountFilter) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.u.accounts {
		if r.matches(a, filter) {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *accountRepo) Update(ctx context.Context, id uuid.UUID, patch store.AccountPatch) (*domain.Account, error) {
	a, ok := r.u.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	if patch.Email != nil {
		a.Email = *patch.Email
	}
	if patch.HashedPassword != nil {
		a.HashedPassword = *patch.HashedPassword
	}
	if patch.Role != nil {
		a.Role = *patch.Role
	}
	if patch.IsActive != nil {
		a.IsActive = *patch.IsActive
	}
	c := *a
	return &c, nil
}

func (r *accountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.u.accounts, id)
	return nil
}

// category repository

type categoryRepo struct{ u *unitOfWork }

func (r *categoryRepo) Create(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	for _, c := range r.u.categories {
		if c.Title == category.Title {
			return store.ErrConflict
		}
	}
	c := *category
	r.u.categories[category.ID] = &c
	return nil
}

func (r *categoryRepo) matches(c *domain.Category, f store.CategoryFilter) bool {
	if f.ID != nil && c.ID != *f.ID {
		return false
	}
	if f.Title != nil && c.Title != *f.Title {
		return false
	}
	return true
}

func (r *categoryRepo) GetOne(ctx context.Context, filter store.CategoryFilter) (*domain.Category, error) {
	var found *domain.Category
	for _, c := range r.u.categories {
		if r.matches(c, filter) {
			if found != nil {
				return nil, store.ErrConflict
			}
			found = c
		}
	}
	if found == nil {
		return nil, store.ErrCategoryNotFound
	}
	c := *found
	return &c, nil
}

func (r *categoryRepo) List(ctx context.Context, filter store.CategoryFilter) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range r.u.categories {
		if r.matches(c, filter) {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r *categoryRepo) Update(ctx context.Context, id uuid.UUID, patch store.CategoryPatch) (*domain.Category, error) {
	c, ok := r.u.categories[id]
	if !ok {
		return nil, store.ErrCategoryNotFound
	}
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	cc := *c
	return &cc, nil
}

func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.u.categories, id)
	return nil
}

// listing repository

type listingRepo struct{ u *unitOfWork }

func (r *listingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	if err := listing.Validate(); err != nil {
		return err
	}
	if _, ok := r.u.accounts[listing.BuyerID]; !ok {
		return store.ErrInvalidEntity
	}
	if listing.CategoryID != nil {
		if _, ok := r.u.categories[*listing.CategoryID]; !ok {
			return store.ErrInvalidEntity
		}
	}
	c := *listing
	r.u.listings[listing.ID] = &c
	return nil
}

func (r *listingRepo) matches(l *domain.Listing, f store.ListingFilter) bool {
	if f.ID != nil && l.ID != *f.ID {
		return false
	}
	if f.Title != nil && l.Title != *f.Title {
		return false
	}
	if f.CategoryID != nil && (l.CategoryID == nil || *l.CategoryID != *f.CategoryID) {
		return false
	}
	if f.BuyerID != nil && l.BuyerID != *f.BuyerID {
		return false
	}
	if f.Status != nil && l.Status != *f.Status {
		return false
	}
	return true
}

func (r *listingRepo) GetOne(ctx context.Context, filter store.ListingFilter) (*domain.Listing, error) {
	var found *domain.Listing
	for _, l := range r.u.listings {
		if r.matches(l, filter) {
			if found != nil {
				return nil, store.ErrConflict
			}
			found = l
		}
	}
	if found == nil {
		return nil, store.ErrListingNotFound
	}
	c := *found
	return &c, nil
}

func (r *listingRepo) List(ctx context.Context, filter store.ListingFilter) ([]*domain.Listing, error) {
	var out []*domain.Listing
	for _, l := range r.u.listings {
		if r.matches(l, filter) {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *listingRepo) Update(ctx context.Context, id uuid.UUID, patch store.ListingPatch) (*domain.Listing, error) {
	l, ok := r.u.listings[id]
	if !ok {
		return nil, store.ErrListingNotFound
	}
	if patch.Title != nil {
		l.Title = *patch.Title
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	if patch.PriceCents != nil {
		l.PriceCents = *patch.PriceCents
	}
	if patch.CategoryID != nil {
		l.CategoryID = patch.CategoryID
	}
	if patch.DeliveryDays != nil {
		l.DeliveryDays = patch.DeliveryDays
	}
	if patch.Status != nil {
		l.Status = *patch.Status
	}
	c := *l
	return &c, nil
}

func (r *listingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.u.listings, id)
	return nil
}

// provider repository

type providerRepo struct{ u *unitOfWork }

func (r *providerRepo) Create(ctx context.Context, provider *domain.Provider) error {
	if err := provider.Validate(); err != nil {
		return err
	}
	if _, ok := r.u.accounts[provider.AccountID]; !ok {
		return store.ErrInvalidEntity
	}
	for _, p := range r.u.providers {
		if p.AccountID == provider.AccountID {
			return store.ErrProviderExists
		}
	}
	r.u.providers[provider.ID] = cloneProvider(provider)
	return nil
}

func (r *providerRepo) matches(p *domain.Provider, f store.ProviderFilter) bool {
	if f.ID != nil && p.ID != *f.ID {
		return false
	}
	if f.AccountID != nil && p.AccountID != *f.AccountID {
		return false
	}
	return true
}

func (r *providerRepo) GetOne(ctx context.Context, filter store.ProviderFilter) (*domain.Provider, error) {
	var found *domain.Provider
	for _, p := range r.u.providers {
		if r.matches(p, filter) {
			if found != nil {
				return nil, store.ErrConflict
			}
			found = p
		}
	}
	if found == nil {
		return nil, store.ErrProviderNotFound
	}
	return cloneProvider(found), nil
}

func (r *providerRepo) List(ctx context.Context, filter store.ProviderFilter) ([]*domain.Provider, error) {
	var out []*domain.Provider
	for _, p := range r.u.providers {
		if r.matches(p, filter) {
			out = append(out, cloneProvider(p))
		}
	}
	return out, nil
}

func (r *providerRepo) ListBySkills(ctx context.Context, titles []string) ([]*domain.Provider, error) {
	var out []*domain.Provider
	for _, p := range r.u.providers {
		all := true
		for _, title := range titles {
			if _, ok := p.Skills[title]; !ok {
				all = false
				break
			}
		}
		if all {
			out = append(out, cloneProvider(p))
		}
	}
	return out, nil
}

func (r *providerRepo) Update(ctx context.Context, id uuid.UUID, patch store.ProviderPatch) (*domain.Provider, error) {
	p, ok := r.u.providers[id]
	if !ok {
		return nil, store.ErrProviderNotFound
	}
	if patch.Skills != nil {
		p.Skills = patch.Skills
	}
	return cloneProvider(p), nil
}

func (r *providerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.u.providers, id)
	return nil
}

// skill repository

type skillRepo struct{ u *unitOfWork }

func (r *skillRepo) Create(ctx context.Context, skill *domain.Skill) error {
	if err := skill.Validate(); err != nil {
		return err
	}
	for _, sk := range r.u.skills {
		if sk.Title == skill.Title {
			return store.ErrSkillExists
		}
	}
	c := *skill
	r.u.skills[skill.ID] = &c
	return nil
}

func (r *skillRepo) CreateIfAbsent(ctx context.Context, skill *domain.Skill) (bool, error) {
	if err := skill.Validate(); err != nil {
		return false, err
	}
	for _, sk := range r.u.skills {
		if sk.Title == skill.Title {
			return false, nil
		}
	}
	c := *skill
	r.u.skills[skill.ID] = &c
	return true, nil
}

func (r *skillRepo) matches(sk *domain.Skill, f store.SkillFilter) bool {
	if f.ID != nil && sk.ID != *f.ID {
		return false
	}
	if f.Title != nil && sk.Title != *f.Title {
		return false
	}
	return true
}

func (r *skillRepo) GetOne(ctx context.Context, filter store.SkillFilter) (*domain.Skill, error) {
	var found *domain.Skill
	for _, sk := range r.u.skills {
		if r.matches(sk, filter) {
			if found != nil {
				return nil, store.ErrConflict
			}
			found = sk
		}
	}
	if found == nil {
		return nil, store.ErrSkillNotFound
	}
	c := *found
	return &c, nil
}

func (r *skillRepo) List(ctx context.Context, filter store.SkillFilter) ([]*domain.Skill, error) {
	var out []*domain.Skill
	for _, sk := range r.u.skills {
		if r.matches(sk, filter) {
			c := *sk
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *skillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.u.skills, id)
	return nil
}

// clone helpers

func cloneAccounts(src map[uuid.UUID]*domain.Account) map[uuid.UUID]*domain.Account {
	dst := make(map[uuid.UUID]*domain.Account, len(src))
	for k, v := range src {
		c := *v
		dst[k] = &c
	}
	return dst
}

func cloneCategories(src map[uuid.UUID]*domain.Category) map[uuid.UUID]*domain.Category {
	dst := make(map[uuid.UUID]*domain.Category, len(src))
	for k, v := range src {
		c := *v
		dst[k] = &c
	}
	return dst
}

func cloneListings(src map[uuid.UUID]*domain.Listing) map[uuid.UUID]*domain.Listing {
	dst := make(map[uuid.UUID]*domain.Listing, len(src))
	for k, v := range src {
		c := *v
		dst[k] = &c
	}
	return dst
}

func cloneProviders(src map[uuid.UUID]*domain.Provider) map[uuid.UUID]*domain.Provider {
	dst := make(map[uuid.UUID]*domain.Provider, len(src))
	for k, v := range src {
		dst[k] = cloneProvider(v)
	}
	return dst
}

func cloneProvider(p *domain.Provider) *domain.Provider {
	c := *p
	c.Skills = make(map[string]int, len(p.Skills))
	for k, v := range p.Skills {
		c.Skills[k] = v
	}
	return &c
}

func cloneSkills(src map[uuid.UUID]*domain.Skill) map[uuid.UUID]*domain.Skill {
	dst := make(map[uuid.UUID]*domain.Skill, len(src))
	for k, v := range src {
		c := *v
		dst[k] = &c
	}
	return dst
}
