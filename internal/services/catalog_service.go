package services

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"bellashop/internal/catalog"
	"bellashop/internal/domain"
	applog "bellashop/internal/log"
	"bellashop/internal/repos"
	"bellashop/internal/validate"
)

// History actions recorded for a product.
const (
	ActionCreated   = "created"
	ActionDeleted   = "deleted"
	ActionSold      = "sold"
	ActionAvailable = "available"
	ActionSwept     = "swept"
)

type CatalogService struct {
	Prods   *repos.ProductRepo
	Cats    *repos.CategoryRepo
	Pools   *repos.PoolRepo
	History repos.HistoryRepo

	// Now and NewRand are swapped out in tests.
	Now     func() time.Time
	NewRand func() catalog.Rand
}

func NewCatalogService(prods *repos.ProductRepo, cats *repos.CategoryRepo, pools *repos.PoolRepo, history repos.HistoryRepo) *CatalogService {
	if history == nil {
		history = repos.NopHistory()
	}
	return &CatalogService{
		Prods:   prods,
		Cats:    cats,
		Pools:   pools,
		History: history,
		Now:     time.Now,
		NewRand: func() catalog.Rand { return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) },
	}
}

func (s *CatalogService) now() time.Time { return s.Now().UTC() }

// record appends to the status history. A failing history store never fails
// the catalog operation.
func (s *CatalogService) record(ctx context.Context, id int64, action string, at time.Time) {
	ev := domain.StatusEvent{ProductID: id, Action: action, At: at}
	if err := s.History.Record(ctx, ev); err != nil {
		applog.Error(nil, "history.record", err, map[string]any{"product_id": id, "event": action})
	}
}

// checkInput enforces the required fields shared by create and update.
func checkInput(in *domain.ProductInput, images []string) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return domain.Invalid("name", "is required")
	}
	if in.Price == nil {
		return domain.Invalid("price", "is required")
	}
	if bad(*in.Price) {
		return domain.Invalid("price", "must be a non-negative number")
	}
	dims := []struct {
		field string
		v     *float64
	}{{"length", in.Length}, {"width", in.Width}, {"height", in.Height}}
	for _, d := range dims {
		if d.v != nil && bad(*d.v) {
			return domain.Invalid(d.field, "must be a non-negative number")
		}
	}
	if len(images) == 0 {
		return domain.ErrNoImages
	}
	return nil
}

func bad(v float64) bool { return v < 0 || math.IsNaN(v) || math.IsInf(v, 0) }

func (s *CatalogService) CreateProduct(ctx context.Context, in domain.ProductInput, imageURLs []string) (domain.Product, error) {
	images := validate.CleanURLs(imageURLs)
	if err := checkInput(&in, images); err != nil {
		return domain.Product{}, err
	}
	at := s.now()
	p, err := s.Prods.Create(ctx, in, images, at)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.record(ctx, p.ID, ActionCreated, at)
	return p, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

// UpdateProduct replaces the descriptive fields and image list of id.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput, imageURLs []string) (domain.Product, error) {
	images := validate.CleanURLs(imageURLs)
	if err := checkInput(&in, images); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Update(ctx, id, in, images, s.now())
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.Prods.Delete(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	s.record(ctx, id, ActionDeleted, s.now())
	return p, nil
}

func (s *CatalogService) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.ListAvailable(ctx)
}

func (s *CatalogService) ListFeatured(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.ListFlagged(ctx, domain.FlagFeatured)
}

func (s *CatalogService) ListBestsellers(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.ListFlagged(ctx, domain.FlagBestSeller)
}

func (s *CatalogService) ListHighlighted(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.ListFlagged(ctx, domain.FlagHighlighted)
}

func (s *CatalogService) ListSold(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.ListSold(ctx)
}

func (s *CatalogService) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.ListAll(ctx)
}

// Browse is the public listing with the client filter state applied.
func (s *CatalogService) Browse(ctx context.Context, q catalog.Query) ([]domain.Product, error) {
	ps, err := s.Prods.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Apply(ps, q), nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.Cats.Available(ctx)
}

// Suggest completes prefix against names and categories of the public listing.
func (s *CatalogService) Suggest(ctx context.Context, prefix string) ([]string, error) {
	return s.suggest(ctx, prefix, s.Prods.ListAvailable)
}

// SuggestAll completes prefix against every product, sold ones included.
func (s *CatalogService) SuggestAll(ctx context.Context, prefix string) ([]string, error) {
	return s.suggest(ctx, prefix, s.Prods.ListAll)
}

func (s *CatalogService) suggest(ctx context.Context, prefix string, list func(context.Context) ([]domain.Product, error)) ([]string, error) {
	if strings.TrimSpace(prefix) == "" {
		return []string{}, nil
	}
	ps, err := list(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Suggest(ps, prefix, catalog.SuggestionLimit), nil
}

// ToggleFlag negates one placement tag of id.
func (s *CatalogService) ToggleFlag(ctx context.Context, id int64, f domain.Flag) (domain.Product, error) {
	at := s.now()
	p, err := s.Prods.ToggleFlag(ctx, id, f, at)
	if err != nil {
		return domain.Product{}, err
	}
	state := "off"
	if p.Has(f) {
		state = "on"
	}
	s.record(ctx, id, string(f)+"."+state, at)
	return p, nil
}

func (s *CatalogService) ToggleFeatured(ctx context.Context, id int64) (domain.Product, error) {
	return s.ToggleFlag(ctx, id, domain.FlagFeatured)
}

func (s *CatalogService) ToggleBestseller(ctx context.Context, id int64) (domain.Product, error) {
	return s.ToggleFlag(ctx, id, domain.FlagBestSeller)
}

func (s *CatalogService) ToggleHighlighted(ctx context.Context, id int64) (domain.Product, error) {
	return s.ToggleFlag(ctx, id, domain.FlagHighlighted)
}

// ToggleSold moves id between Available and Sold.
func (s *CatalogService) ToggleSold(ctx context.Context, id int64) (domain.Product, error) {
	at := s.now()
	p, err := s.Prods.ToggleSold(ctx, id, at)
	if err != nil {
		return domain.Product{}, err
	}
	action := ActionAvailable
	if p.IsSold() {
		action = ActionSold
	}
	s.record(ctx, id, action, at)
	return p, nil
}

func (s *CatalogService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.Prods.Stats(ctx)
}

// SweepOldSold deletes every product sold before the retention cutoff.
// Running it again with nothing due is a no-op.
func (s *CatalogService) SweepOldSold(ctx context.Context) (domain.SweepResult, error) {
	now := s.now()
	ids, err := s.Prods.DeleteSoldBefore(ctx, catalog.RetentionCutoff(now))
	if err != nil {
		return domain.SweepResult{}, fmt.Errorf("sweep sold products: %w", err)
	}
	for _, id := range ids {
		s.record(ctx, id, ActionSwept, now)
	}
	return domain.SweepResult{DeletedCount: len(ids)}, nil
}

func (s *CatalogService) StatusHistory(ctx context.Context, id int64) ([]domain.StatusEvent, error) {
	return s.History.List(ctx, id)
}

// DescriptionPools returns the built-in pools with stored overrides applied.
func (s *CatalogService) DescriptionPools(ctx context.Context) (catalog.Pools, error) {
	stored, err := s.Pools.All(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.DefaultPools().Merge(stored), nil
}

// ReplaceDescriptionPools stores overrides and returns the effective pools.
func (s *CatalogService) ReplaceDescriptionPools(ctx context.Context, override catalog.Pools) (catalog.Pools, error) {
	for key, sentences := range override {
		override[key] = validate.CleanURLs(sentences)
	}
	if err := s.Pools.Replace(ctx, override, s.now()); err != nil {
		return nil, err
	}
	return s.DescriptionPools(ctx)
}

// Describe drafts a description for a product that may not exist yet.
func (s *CatalogService) Describe(ctx context.Context, in domain.ProductInput) (string, error) {
	pools, err := s.DescriptionPools(ctx)
	if err != nil {
		return "", err
	}
	return catalog.Describe(in, pools, s.NewRand()), nil
}
