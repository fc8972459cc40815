package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"tiendazo/internal/engine"
	"tiendazo/internal/models"
	"tiendazo/internal/sitegen"
	"tiendazo/internal/store"
)

type fakeShops struct {
	stores map[int64]*models.Store
}

func (f *fakeShops) FindByID(_ context.Context, id int64) (*models.Store, error) {
	return f.stores[id], nil
}

func (f *fakeShops) FindBySlug(_ context.Context, slug string) (*models.Store, error) {
	for _, st := range f.stores {
		if st.Slug == slug && st.IsPublic && st.IsActive {
			return st, nil
		}
	}
	return nil, nil
}

type fakeProducts struct {
	mu       sync.Mutex
	products map[int64][]models.Product
	featured map[int64][]models.Product
	calls    int
}

func (f *fakeProducts) List(_ context.Context, storeID int64) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.products[storeID], nil
}

func (f *fakeProducts) ListFeatured(_ context.Context, storeID int64, limit int) ([]models.Product, error) {
	items := f.featured[storeID]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// fakeThemes mimics store.ThemeStore, including the cleared site pointers
// on update and the updated_at guard on SetSitePaths.
type fakeThemes struct {
	mu     sync.Mutex
	themes map[int64]models.StoreTheme
	clock  time.Time
}

func newFakeThemes() *fakeThemes {
	return &fakeThemes{
		themes: make(map[int64]models.StoreTheme),
		clock:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeThemes) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeThemes) FindByStoreID(_ context.Context, storeID int64) (*models.StoreTheme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.themes[storeID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeThemes) FindOrCreate(ctx context.Context, storeID int64) (*models.StoreTheme, error) {
	f.mu.Lock()
	if _, ok := f.themes[storeID]; !ok {
		t := *models.NewDefaultTheme(storeID)
		t.ID = uuid.New()
		t.CreatedAt = f.tick()
		t.UpdatedAt = t.CreatedAt
		f.themes[storeID] = t
	}
	f.mu.Unlock()
	return f.FindByStoreID(ctx, storeID)
}

func (f *fakeThemes) Create(_ context.Context, t *models.StoreTheme) (*models.StoreTheme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.themes[t.StoreID]; ok {
		return nil, store.ErrThemeExists
	}
	for _, other := range f.themes {
		if t.CustomDomain != "" && other.CustomDomain == t.CustomDomain {
			return nil, store.ErrDomainTaken
		}
	}
	c := *t
	c.ID = uuid.New()
	c.CreatedAt = f.tick()
	c.UpdatedAt = c.CreatedAt
	f.themes[t.StoreID] = c
	return &c, nil
}

func (f *fakeThemes) Update(_ context.Context, t *models.StoreTheme) (*models.StoreTheme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.themes[t.StoreID]; !ok {
		return nil, nil
	}
	for id, other := range f.themes {
		if id != t.StoreID && t.CustomDomain != "" && other.CustomDomain == t.CustomDomain {
			return nil, store.ErrDomainTaken
		}
	}
	c := *t
	c.SitePath, c.IndexPath = "", ""
	c.UpdatedAt = f.tick()
	f.themes[t.StoreID] = c
	return &c, nil
}

func (f *fakeThemes) SetSitePaths(_ context.Context, storeID int64, updatedAt time.Time, sitePath, indexPath string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.themes[storeID]
	if !ok || !t.UpdatedAt.Equal(updatedAt) {
		return false, nil
	}
	t.SitePath, t.IndexPath = sitePath, indexPath
	f.themes[storeID] = t
	return true, nil
}

func (f *fakeThemes) SetDomainVerified(_ context.Context, storeID int64, verified bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.themes[storeID]; ok {
		t.DomainVerified = verified
		t.UpdatedAt = f.tick()
		f.themes[storeID] = t
	}
	return nil
}

func (f *fakeThemes) Delete(_ context.Context, storeID int64) (*models.StoreTheme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.themes[storeID]
	if !ok {
		return nil, nil
	}
	delete(f.themes, storeID)
	return &t, nil
}

type logEntry struct {
	entity string
	id     uuid.UUID
	action string
}

type fakeLog struct {
	mu      sync.Mutex
	entries []logEntry
}

func (f *fakeLog) Log(_ context.Context, entityType string, entityID uuid.UUID, action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, logEntry{entityType, entityID, action})
}

func (f *fakeLog) RecentEntries(_ context.Context, entityType string, entityID uuid.UUID, limit int) ([]store.CacheLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.CacheLogEntry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := f.entries[i]
		if e.entity == entityType && e.id == entityID {
			out = append(out, store.CacheLogEntry{ID: int64(i + 1), EntityType: e.entity, EntityID: e.id, Action: e.action})
		}
	}
	return out, nil
}

func (f *fakeLog) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.action)
	}
	return out
}

type fakePublisher struct {
	published []int64
	removed   []int64
	err       error
}

func (f *fakePublisher) PublishSite(_ context.Context, storeID int64, _ string) error {
	f.published = append(f.published, storeID)
	return f.err
}

func (f *fakePublisher) RemoveSite(_ context.Context, storeID int64) error {
	f.removed = append(f.removed, storeID)
	return f.err
}

func (f *fakePublisher) SiteURL(storeID int64) string {
	return "https://cdn.tienda.test/sites/" + strconv.FormatInt(storeID, 10) + "/index.html"
}

type fakeVerifier struct {
	ok  bool
	err error
}

func (f fakeVerifier) Verify(context.Context, string) (bool, error) {
	return f.ok, f.err
}

var errVerifierDown = errors.New("verifier down")

// fixture wires a ThemeService over fakes, a real registry and a real
// generator writing into a temp dir.
type fixture struct {
	svc       *ThemeService
	shops     *fakeShops
	products  *fakeProducts
	themes    *fakeThemes
	sites     *sitegen.Generator
	log       *fakeLog
	publisher *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gen, err := sitegen.New(t.TempDir())
	if err != nil {
		t.Fatalf("sitegen.New: %v", err)
	}

	f := &fixture{
		shops: &fakeShops{stores: map[int64]*models.Store{
			1: {ID: 1, Name: "Tienda Test", Address: "Calle 1", Slug: "tienda-test", IsActive: true, IsPublic: true},
			2: {ID: 2, Name: "Tienda Privada", Slug: "tienda-privada", IsActive: true},
		}},
		products: &fakeProducts{
			products: map[int64][]models.Product{
				1: {{ID: 10, Name: "Mochila", SellPrice: 125000}},
			},
			featured: map[int64][]models.Product{},
		},
		themes:    newFakeThemes(),
		sites:     gen,
		log:       &fakeLog{},
		publisher: &fakePublisher{},
	}

	fixed := func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	f.svc = NewThemeService(Deps{
		Shops:     f.shops,
		Products:  f.products,
		Themes:    f.themes,
		Registry:  engine.NewRegistry(engine.Options{Now: fixed}),
		Sites:     f.sites,
		CacheLog:  f.log,
		Publisher: f.publisher,
	})
	return f
}
