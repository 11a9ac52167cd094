// Package seed provisions a Medusa backend with the demo trek store: sales
// channel, region, tax region, warehouses, publishable key, categories,
// products and inventory levels.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trek-storefront/internal/domain"
	"trek-storefront/internal/logging"
	"trek-storefront/internal/medusa"
)

const productStatusPublished = "published"

// Admin is the subset of the Medusa admin API the seed drives.
type Admin interface {
	ListSalesChannels(ctx context.Context, name string) ([]domain.SalesChannel, error)
	CreateSalesChannel(ctx context.Context, name string) (*domain.SalesChannel, error)
	CreateRegion(ctx context.Context, in medusa.RegionInput) (*domain.Region, error)
	ListStores(ctx context.Context) ([]domain.Store, error)
	UpdateStore(ctx context.Context, id string, in medusa.StoreUpdate) error
	CreateTaxRegion(ctx context.Context, countryCode, providerID string) error
	CreateStockLocation(ctx context.Context, in medusa.StockLocationInput) (*domain.StockLocation, error)
	LinkStockLocationSalesChannels(ctx context.Context, locationID string, salesChannelIDs []string) error
	CreatePublishableKey(ctx context.Context, title string) (*domain.APIKey, error)
	LinkAPIKeySalesChannels(ctx context.Context, keyID string, salesChannelIDs []string) error
	CreateProductCategory(ctx context.Context, in medusa.CategoryInput) (*domain.ProductCategory, error)
	CreateProduct(ctx context.Context, in medusa.ProductInput) (*domain.Product, error)
	ListInventoryItems(ctx context.Context, skus []string) ([]domain.InventoryItem, error)
	CreateInventoryLevel(ctx context.Context, itemID, locationID string, stocked int) error
}

// Result carries the identifiers a storefront needs after seeding.
type Result struct {
	SalesChannelID string
	RegionID       string
	PublishableKey string
	ProductIDs     []string
}

type seeder struct {
	admin  Admin
	logger *zap.Logger

	salesChannelID string
	locations      map[string]string
	categories     map[string]string
}

// Apply provisions the catalog against the backend. It is not idempotent:
// running it twice creates a second region, key and product set, except for
// the sales channel which is reused by name.
func Apply(ctx context.Context, admin Admin, catalog Catalog, logger *zap.Logger) (*Result, error) {
	s := &seeder{
		admin:      admin,
		logger:     logging.OrNop(logger),
		locations:  make(map[string]string, len(catalog.StockLocations)),
		categories: make(map[string]string, len(catalog.Categories)),
	}
	res := &Result{}

	var err error
	if s.salesChannelID, err = s.ensureSalesChannel(ctx, catalog.SalesChannel); err != nil {
		return nil, err
	}
	res.SalesChannelID = s.salesChannelID

	if res.RegionID, err = s.storeAndRegion(ctx, catalog); err != nil {
		return nil, err
	}
	if err := s.stockLocations(ctx, catalog.StockLocations); err != nil {
		return nil, err
	}
	if res.PublishableKey, err = s.publishableKey(ctx, catalog.PublishableKey); err != nil {
		return nil, err
	}
	if err := s.productCategories(ctx, catalog.Categories); err != nil {
		return nil, err
	}
	for _, p := range catalog.Products {
		id, err := s.product(ctx, p)
		if err != nil {
			return nil, err
		}
		res.ProductIDs = append(res.ProductIDs, id)
	}

	s.logger.Info("seed finished", zap.Int("products", len(res.ProductIDs)))
	return res, nil
}

func (s *seeder) ensureSalesChannel(ctx context.Context, name string) (string, error) {
	existing, err := s.admin.ListSalesChannels(ctx, name)
	if err != nil {
		return "", fmt.Errorf("list sales channels: %w", err)
	}
	for _, sc := range existing {
		if sc.Name == name {
			s.logger.Info("reusing sales channel", zap.String("id", sc.ID))
			return sc.ID, nil
		}
	}
	sc, err := s.admin.CreateSalesChannel(ctx, name)
	if err != nil {
		return "", fmt.Errorf("create sales channel: %w", err)
	}
	s.logger.Info("created sales channel", zap.String("id", sc.ID))
	return sc.ID, nil
}

func (s *seeder) storeAndRegion(ctx context.Context, catalog Catalog) (string, error) {
	spec := catalog.Region
	region, err := s.admin.CreateRegion(ctx, medusa.RegionInput{
		Name:             spec.Name,
		CurrencyCode:     spec.CurrencyCode,
		Countries:        spec.Countries,
		PaymentProviders: spec.PaymentProviders,
	})
	if err != nil {
		return "", fmt.Errorf("create region: %w", err)
	}
	s.logger.Info("created region", zap.String("id", region.ID), zap.String("currency", spec.CurrencyCode))

	stores, err := s.admin.ListStores(ctx)
	if err != nil {
		return "", fmt.Errorf("list stores: %w", err)
	}
	if len(stores) == 0 {
		return "", fmt.Errorf("no store found on backend")
	}
	err = s.admin.UpdateStore(ctx, stores[0].ID, medusa.StoreUpdate{
		SupportedCurrencies:   []medusa.StoreCurrency{{CurrencyCode: spec.CurrencyCode, IsDefault: true}},
		DefaultRegionID:       region.ID,
		DefaultSalesChannelID: s.salesChannelID,
	})
	if err != nil {
		return "", fmt.Errorf("update store: %w", err)
	}

	for _, country := range spec.Countries {
		if err := s.admin.CreateTaxRegion(ctx, strings.ToLower(country), catalog.TaxProvider); err != nil {
			return "", fmt.Errorf("create tax region %s: %w", country, err)
		}
	}
	return region.ID, nil
}

func (s *seeder) stockLocations(ctx context.Context, specs []LocationSpec) error {
	for _, spec := range specs {
		loc, err := s.admin.CreateStockLocation(ctx, medusa.StockLocationInput{
			Name:    spec.Name,
			Address: &domain.StockAddress{CountryCode: spec.CountryCode, Address1: spec.Address1},
		})
		if err != nil {
			return fmt.Errorf("create stock location %q: %w", spec.Name, err)
		}
		s.locations[spec.Name] = loc.ID
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, id := range s.locations {
		g.Go(func() error {
			if err := s.admin.LinkStockLocationSalesChannels(gctx, id, []string{s.salesChannelID}); err != nil {
				return fmt.Errorf("link stock location %q: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("created stock locations", zap.Int("count", len(s.locations)))
	return nil
}

func (s *seeder) publishableKey(ctx context.Context, title string) (string, error) {
	key, err := s.admin.CreatePublishableKey(ctx, title)
	if err != nil {
		return "", fmt.Errorf("create publishable key: %w", err)
	}
	if err := s.admin.LinkAPIKeySalesChannels(ctx, key.ID, []string{s.salesChannelID}); err != nil {
		return "", fmt.Errorf("link publishable key: %w", err)
	}
	s.logger.Info("created publishable key", zap.String("id", key.ID))
	return key.Token, nil
}

func (s *seeder) productCategories(ctx context.Context, names []string) error {
	for _, name := range names {
		cat, err := s.admin.CreateProductCategory(ctx, medusa.CategoryInput{
			Name:     name,
			Handle:   slug.Make(name),
			IsActive: true,
		})
		if err != nil {
			return fmt.Errorf("create category %q: %w", name, err)
		}
		s.categories[name] = cat.ID
	}
	return nil
}

func (s *seeder) product(ctx context.Context, spec ProductSpec) (string, error) {
	in := medusa.ProductInput{
		Title:         spec.Title,
		Subtitle:      spec.Subtitle,
		Description:   spec.Description,
		Handle:        spec.Handle,
		Status:        productStatusPublished,
		SalesChannels: []medusa.IDRef{{ID: s.salesChannelID}},
	}
	if in.Handle == "" {
		in.Handle = slug.Make(spec.Title)
	}
	if id, ok := s.categories[spec.Category]; ok {
		in.Categories = []medusa.IDRef{{ID: id}}
	}
	for _, url := range spec.Images {
		in.Images = append(in.Images, medusa.ImageInput{URL: url})
	}
	for _, o := range spec.Options {
		in.Options = append(in.Options, medusa.OptionInput{Title: o.Title, Values: o.Values})
	}
	skus := make([]string, 0, len(spec.Variants))
	for _, v := range spec.Variants {
		vi := medusa.VariantInput{
			Title:           v.Title,
			SKU:             v.SKU,
			Options:         v.Options,
			ManageInventory: true,
		}
		for _, p := range v.Prices {
			vi.Prices = append(vi.Prices, medusa.PriceInput{Amount: p.Amount, CurrencyCode: p.CurrencyCode})
		}
		in.Variants = append(in.Variants, vi)
		skus = append(skus, v.SKU)
	}

	product, err := s.admin.CreateProduct(ctx, in)
	if err != nil {
		return "", fmt.Errorf("create product %q: %w", spec.Title, err)
	}
	s.logger.Info("created product", zap.String("id", product.ID), zap.String("handle", in.Handle))

	if err := s.inventory(ctx, spec, skus); err != nil {
		return "", err
	}
	return product.ID, nil
}

func (s *seeder) inventory(ctx context.Context, spec ProductSpec, skus []string) error {
	locationID, ok := s.locations[spec.Warehouse]
	if !ok || len(skus) == 0 {
		return nil
	}
	items, err := s.admin.ListInventoryItems(ctx, skus)
	if err != nil {
		return fmt.Errorf("list inventory items for %q: %w", spec.Title, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		g.Go(func() error {
			if err := s.admin.CreateInventoryLevel(gctx, item.ID, locationID, spec.StockedQuantity); err != nil {
				return fmt.Errorf("create inventory level for %s: %w", item.SKU, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("stocked inventory", zap.String("product", spec.Title), zap.Int("items", len(items)))
	return nil
}
