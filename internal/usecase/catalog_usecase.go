package usecase

import (
	"context"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/validator"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// 詳細ページの種類
type PageKind string

const (
	PageKindCategory PageKind = "category"
	PageKindProduct  PageKind = "product"
)

type CatalogUsecase struct {
	tx         repo.TransactionManager
	categories repo.CategoryRepository
	products   repo.ProductRepository
	carts      *CartUsecase
	featured   repo.FeaturedQuery
}

func NewCatalogUsecase(
	tx repo.TransactionManager,
	categories repo.CategoryRepository,
	products repo.ProductRepository,
	carts *CartUsecase,
	featured repo.FeaturedQuery,
) *CatalogUsecase {
	return &CatalogUsecase{
		tx:         tx,
		categories: categories,
		products:   products,
		carts:      carts,
		featured:   featured,
	}
}

type ProductOutput struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Image       string          `json:"image"`
	Description *string         `json:"description"`
	Size        string          `json:"size"`
	Price       string          `json:"price"`
	InStock     bool            `json:"in_stock"`
	Category    *model.Category `json:"category,omitempty"`
}

type StorefrontOutput struct {
	Categories []model.Category `json:"categories"`
	Products   []ProductOutput  `json:"products"`
	Cart       CartOutput       `json:"cart"`
}

// カテゴリ/商品ページ。Kindで中身が決まる
type DetailPageOutput struct {
	Kind       PageKind         `json:"kind"`
	Category   *model.Category  `json:"category,omitempty"`
	Products   []ProductOutput  `json:"products,omitempty"`
	Product    *ProductOutput   `json:"product,omitempty"`
	Categories []model.Category `json:"categories"`
	Cart       CartOutput       `json:"cart"`
}

// Storefront はトップページ（カテゴリ一覧と注目商品）。
func (u *CatalogUsecase) Storefront(ctx context.Context, v Visitor) (StorefrontOutput, error) {
	categories, err := u.categories.List(ctx)
	if err != nil {
		return StorefrontOutput{}, internalError(err)
	}

	products, err := u.products.ListFeatured(ctx, u.featured)
	if err != nil {
		return StorefrontOutput{}, internalError(err)
	}

	cart, err := u.carts.GetCart(ctx, v)
	if err != nil {
		return StorefrontOutput{}, err
	}

	return StorefrontOutput{
		Categories: categories,
		Products:   toProductOutputs(products),
		Cart:       cart.Cart,
	}, nil
}

// CategoryPage はカテゴリと在庫ありの商品。
func (u *CatalogUsecase) CategoryPage(ctx context.Context, v Visitor, slug string) (DetailPageOutput, error) {
	category, err := u.categories.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return DetailPageOutput{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return DetailPageOutput{}, internalError(err)
	}

	products, err := u.products.ListInStockByCategory(ctx, category.ID)
	if err != nil {
		return DetailPageOutput{}, internalError(err)
	}

	view, err := u.carts.GetCart(ctx, v)
	if err != nil {
		return DetailPageOutput{}, err
	}

	return categoryPage(category, products, view), nil
}

// ProductPage は商品1件（カテゴリ付き）。
func (u *CatalogUsecase) ProductPage(ctx context.Context, v Visitor, slug string) (DetailPageOutput, error) {
	p, err := u.products.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return DetailPageOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return DetailPageOutput{}, internalError(err)
	}

	view, err := u.carts.GetCart(ctx, v)
	if err != nil {
		return DetailPageOutput{}, err
	}

	return productPage(p, view), nil
}

func categoryPage(c model.Category, products []model.Product, view CartViewOutput) DetailPageOutput {
	return DetailPageOutput{
		Kind:       PageKindCategory,
		Category:   &c,
		Products:   toProductOutputs(products),
		Categories: view.Categories,
		Cart:       view.Cart,
	}
}

func productPage(p model.Product, view CartViewOutput) DetailPageOutput {
	out := toProductOutput(p)
	return DetailPageOutput{
		Kind:       PageKindProduct,
		Product:    &out,
		Categories: view.Categories,
		Cart:       view.Cart,
	}
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Image:       p.Image,
		Description: p.Description,
		Size:        p.Size,
		Price:       p.Price.StringFixed(2),
		InStock:     p.InStock,
		Category:    p.Category,
	}
}

func toProductOutputs(products []model.Product) []ProductOutput {
	out := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		out = append(out, toProductOutput(p))
	}
	return out
}

// カタログ取込のYAML
type CatalogFixture struct {
	Categories []CategoryFixture `yaml:"categories"`
	Products   []ProductFixture  `yaml:"products"`
}

type CategoryFixture struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type ProductFixture struct {
	Category    string `yaml:"category"` // カテゴリのslug
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Image       string `yaml:"image"` // 画像ディレクトリからの相対パス
	Description string `yaml:"description"`
	Size        string `yaml:"size"`
	Price       string `yaml:"price"`
	InStock     bool   `yaml:"in_stock"`
}

type ImportResult struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
}

// ImportCatalog はカテゴリと商品を登録する。
// 画像・価格を全件検証してから1トランザクションで書き込む（途中で失敗したら何も残さない）。
func (u *CatalogUsecase) ImportCatalog(ctx context.Context, fixture CatalogFixture, images fs.FS) (ImportResult, error) {
	fields := map[string]string{}

	known := map[string]bool{}
	for i, c := range fixture.Categories {
		if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Slug) == "" {
			fields[fixtureKey("categories", i, c.Slug)] = "name and slug are required"
			continue
		}
		known[c.Slug] = true
	}

	prices := make([]decimal.Decimal, len(fixture.Products))
	for i, p := range fixture.Products {
		key := fixtureKey("products", i, p.Slug)
		if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Slug) == "" {
			fields[key] = "title and slug are required"
			continue
		}
		if !known[p.Category] {
			if _, err := u.categories.FindBySlug(ctx, p.Category); err != nil {
				fields[key] = "unknown category: " + p.Category
				continue
			}
		}
		if len(p.Size) > 25 {
			fields[key] = "size must be at most 25 characters"
			continue
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil || !validPrice(price) {
			fields[key] = "invalid price: " + p.Price
			continue
		}
		prices[i] = price

		if err := checkImage(images, p.Image); err != nil {
			fields[key] = err.Error()
		}
	}
	if len(fields) > 0 {
		return ImportResult{}, validationError(fields, "")
	}

	var res ImportResult
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		res = ImportResult{}
		categoryIDs := map[string]int64{}
		for _, c := range fixture.Categories {
			saved, err := r.Categories().Upsert(ctx, model.Category{Name: c.Name, Slug: c.Slug})
			if err != nil {
				return internalError(err)
			}
			categoryIDs[saved.Slug] = saved.ID
			res.Categories++
		}

		for i, p := range fixture.Products {
			categoryID, ok := categoryIDs[p.Category]
			if !ok {
				c, err := r.Categories().FindBySlug(ctx, p.Category)
				if err != nil {
					return internalError(err)
				}
				categoryID = c.ID
				categoryIDs[p.Category] = c.ID
			}

			var description *string
			if d := strings.TrimSpace(p.Description); d != "" {
				description = &d
			}

			if _, err := r.Products().Upsert(ctx, model.Product{
				CategoryID:  categoryID,
				Title:       p.Title,
				Slug:        p.Slug,
				Image:       p.Image,
				Description: description,
				Size:        p.Size,
				Price:       prices[i],
				InStock:     p.InStock,
			}); err != nil {
				return internalError(err)
			}
			res.Products++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	return res, nil
}

func checkImage(images fs.FS, name string) error {
	if images == nil || strings.TrimSpace(name) == "" {
		return validator.ErrNoImage
	}

	st, err := fs.Stat(images, name)
	if err != nil {
		return errors.Wrapf(err, "image %s", name)
	}

	f, err := images.Open(name)
	if err != nil {
		return errors.Wrapf(err, "image %s", name)
	}
	defer f.Close()

	return validator.ValidateProductImage(f, st.Size())
}

func fixtureKey(kind string, i int, slug string) string {
	if slug == "" {
		return kind + "[" + strconv.Itoa(i) + "]"
	}
	return kind + "[" + slug + "]"
}

// decimal(9,2)に収まるか
func validPrice(p decimal.Decimal) bool {
	return !p.IsNegative() &&
		p.Equal(p.Round(2)) &&
		p.LessThan(decimal.New(1, 7))
}
