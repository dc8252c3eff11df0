// internal/domain/storefront/composer.go

// Package storefront assembles the data behind each public page.
package storefront

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shopvn/storefront/internal/domain/product"
	"github.com/shopvn/storefront/internal/pkg/boundary"
	"github.com/shopvn/storefront/internal/pkg/pagination"
)

// Products is the listing side of the product service
type Products interface {
	ListProducts(ctx context.Context, q product.SearchQuery) *product.ListResult
	GetProductBySlug(ctx context.Context, slug string) (*product.Product, error)
}

// Categories is the category lookup side of the catalog
type Categories interface {
	GetCategories(ctx context.Context) ([]product.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*product.Category, error)
}

// Composer builds pages from independent lookups issued concurrently
type Composer struct {
	products    Products
	categories  Categories
	guard       *boundary.Boundary
	info        *product.InfoCache
	placeholder string
	now         func() time.Time
}

// NewComposer creates a page composer
func NewComposer(products Products, categories Categories, guard *boundary.Boundary, placeholder string) *Composer {
	return &Composer{
		products:    products,
		categories:  categories,
		guard:       guard,
		info:        product.NewInfoCache(),
		placeholder: placeholder,
		now:         time.Now,
	}
}

// QueryEcho repeats the normalized query back to the page
type QueryEcho struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Sort     string `json:"sort"`
	MinPrice string `json:"min_price,omitempty"`
	MaxPrice string `json:"max_price,omitempty"`
	Page     int    `json:"page"`
}

func echo(q product.SearchQuery) QueryEcho {
	e := QueryEcho{
		Search:   q.Term,
		Category: q.CategorySlug,
		Sort:     string(q.Sort),
		Page:     q.Page,
	}
	if q.MinPrice != nil {
		e.MinPrice = q.MinPrice.String()
	}
	if q.MaxPrice != nil {
		e.MaxPrice = q.MaxPrice.String()
	}
	return e
}

// ListingPage is a product listing with its navigation
type ListingPage struct {
	Products        []product.Card        `json:"products"`
	Pagination      pagination.Pagination `json:"pagination"`
	Category        *product.Category     `json:"category,omitempty"`
	Categories      []product.Category    `json:"categories"`
	RelatedSearches []string              `json:"related_searches"`
	Query           QueryEcho             `json:"query"`
	Error           string                `json:"error,omitempty"`
}

// ListingPage runs the listing and the category navigation concurrently.
// Failures in either become the generic error message on the page.
func (c *Composer) ListingPage(ctx context.Context, q product.SearchQuery) ListingPage {
	var (
		listing    boundary.Result[*product.ListResult]
		navigation boundary.Result[[]product.Category]
	)

	// Both halves are guarded and degrade on their own, so neither cancels the other.
	var g errgroup.Group
	g.Go(func() error {
		listing = c.listing(ctx, q)
		return nil
	})
	g.Go(func() error {
		navigation = c.navigation(ctx)
		return nil
	})
	g.Wait()

	return c.assemble(q, listing, navigation)
}

// CategoryPage is ListingPage restricted to slug. An unknown slug is
// reported as product.ErrCategoryNotFound.
func (c *Composer) CategoryPage(ctx context.Context, slug string, q product.SearchQuery) (ListingPage, error) {
	q.CategorySlug = slug

	var (
		listing    boundary.Result[*product.ListResult]
		navigation boundary.Result[[]product.Category]
	)

	// An unknown slug cancels the listing and navigation still in flight.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res := boundary.Guard(c.guard, "category", false, func() (bool, error) {
			_, err := c.categories.GetCategoryBySlug(gctx, slug)
			if errors.Is(err, product.ErrCategoryNotFound) {
				return true, nil
			}
			return false, err
		})
		if res.Value {
			return product.ErrCategoryNotFound
		}
		return nil
	})
	g.Go(func() error {
		listing = c.listing(gctx, q)
		return nil
	})
	g.Go(func() error {
		navigation = c.navigation(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return ListingPage{}, err
	}

	return c.assemble(q, listing, navigation), nil
}

func (c *Composer) listing(ctx context.Context, q product.SearchQuery) boundary.Result[*product.ListResult] {
	return boundary.Guard(c.guard, "listing", emptyListing(q.Page), func() (*product.ListResult, error) {
		return c.products.ListProducts(ctx, q), nil
	})
}

func (c *Composer) navigation(ctx context.Context) boundary.Result[[]product.Category] {
	return boundary.Guard(c.guard, "navigation", []product.Category{}, func() ([]product.Category, error) {
		return c.categories.GetCategories(ctx)
	})
}

func emptyListing(page int) *product.ListResult {
	return &product.ListResult{
		Products:   []product.Product{},
		Pagination: pagination.New(page, 0),
	}
}

func (c *Composer) assemble(q product.SearchQuery, listing boundary.Result[*product.ListResult], navigation boundary.Result[[]product.Category]) ListingPage {
	result := listing.Value
	if result == nil {
		result = emptyListing(q.Page)
	}
	categories := navigation.Value
	if categories == nil {
		categories = []product.Category{}
	}

	page := ListingPage{
		Products:        product.NewCards(result.Products, c.now(), c.placeholder),
		Pagination:      result.Pagination,
		Category:        result.Category,
		Categories:      categories,
		RelatedSearches: product.RelatedSearches(q.Term, result.Category),
		Query:           echo(q),
	}
	if listing.Failed || navigation.Failed || result.Degraded {
		page.Error = boundary.GenericMessage
	}
	return page
}

// ProductPage is the detail view of one product
type ProductPage struct {
	Product  *product.Product  `json:"product,omitempty"`
	Card     *product.Card     `json:"card,omitempty"`
	Info     *product.Info     `json:"info,omitempty"`
	Category *product.Category `json:"category,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// ProductPage loads a product by slug with its facets. An unknown slug is
// reported as product.ErrProductNotFound.
func (c *Composer) ProductPage(ctx context.Context, slug string) (ProductPage, error) {
	notFound := false
	res := boundary.Guard(c.guard, "product", ProductPage{}, func() (ProductPage, error) {
		p, err := c.products.GetProductBySlug(ctx, slug)
		if errors.Is(err, product.ErrProductNotFound) {
			notFound = true
			return ProductPage{}, nil
		}
		if err != nil {
			return ProductPage{}, err
		}

		card := product.NewCard(p, c.now(), c.placeholder)
		info := c.info.Get(p.ID, p.Variants)
		return ProductPage{
			Product:  p,
			Card:     &card,
			Info:     &info,
			Category: p.Category,
		}, nil
	})

	if notFound {
		return ProductPage{}, product.ErrProductNotFound
	}
	page := res.Value
	if res.Failed {
		page.Error = res.Message
	}
	return page, nil
}
