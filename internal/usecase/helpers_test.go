package usecase_test

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db/dbtest"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// =====================
// sqliteで組み立てたusecase一式
// =====================

type store struct {
	db       *gorm.DB
	carts    *usecase.CartUsecase
	orders   *usecase.OrderUsecase
	catalog  *usecase.CatalogUsecase
	customer *usecase.CustomerUsecase
}

func newStore(t *testing.T) *store {
	t.Helper()
	return newStoreWithTx(t, nil)
}

// wrapがあればトランザクション内のrepoを差し替える
func newStoreWithTx(t *testing.T, wrap func(repo.TransactionManager) repo.TransactionManager) *store {
	t.Helper()

	gormDB := dbtest.Open(t)

	var txm repo.TransactionManager = infraRepo.NewTxManagerGorm(gormDB)
	if wrap != nil {
		txm = wrap(txm)
	}

	categories := infraRepo.NewCategoryGormRepository(gormDB)
	products := infraRepo.NewProductGormRepository(gormDB)
	customers := infraRepo.NewCustomerGormRepository(gormDB)

	carts := usecase.NewCartUsecase(
		txm,
		infraRepo.NewCartGormRepository(gormDB),
		infraRepo.NewCartProductGormRepository(gormDB),
		categories,
		customers,
	)

	return &store{
		db:       gormDB,
		carts:    carts,
		orders:   usecase.NewOrderUsecase(txm, carts, validator.NewFormValidator()),
		catalog:  usecase.NewCatalogUsecase(txm, categories, products, carts, repo.FeaturedQuery{SlugContains: "pan", Limit: 6}),
		customer: usecase.NewCustomerUsecase(customers),
	}
}

func anonymous(session string) usecase.Visitor {
	return usecase.Visitor{SessionID: session}
}

func validOrderInput() usecase.PlaceOrderInput {
	return usecase.PlaceOrderInput{
		FirstName:   "Ann",
		LastName:    "Lee",
		PhoneNumber: "+15550100",
		Address:     "1 Main St",
		OrderDate:   "2026-11-01",
	}
}

func countRows(t *testing.T, gormDB *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gormDB.Model(m).Count(&n).Error)
	return n
}

func loadCart(t *testing.T, gormDB *gorm.DB, id int64) model.Cart {
	t.Helper()
	var c model.Cart
	require.NoError(t, gormDB.First(&c, id).Error)
	return c
}

func assertHTTPStatus(t *testing.T, err error, status int) *usecase.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, status, he.Status)
	return he
}

// =====================
// 失敗を注入するTxRepos
// =====================

type faultyTx struct {
	inner repo.TransactionManager

	failOrderCreate   bool
	failAppendOrder   bool
	failProductUpsert bool
}

func (f *faultyTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return f.inner.WithinTx(ctx, func(r repo.TxRepos) error {
		return fn(&faultyRepos{TxRepos: r, tx: f})
	})
}

type faultyRepos struct {
	repo.TxRepos
	tx *faultyTx
}

func (r *faultyRepos) Orders() repo.OrderRepository {
	if r.tx.failOrderCreate {
		return failingOrders{r.TxRepos.Orders()}
	}
	return r.TxRepos.Orders()
}

func (r *faultyRepos) Customers() repo.CustomerRepository {
	if r.tx.failAppendOrder {
		return failingCustomers{r.TxRepos.Customers()}
	}
	return r.TxRepos.Customers()
}

func (r *faultyRepos) Products() repo.ProductRepository {
	if r.tx.failProductUpsert {
		return failingProducts{r.TxRepos.Products()}
	}
	return r.TxRepos.Products()
}

type failingOrders struct{ repo.OrderRepository }

func (failingOrders) Create(ctx context.Context, order model.Order) (model.Order, error) {
	return model.Order{}, assert.AnError
}

type failingCustomers struct{ repo.CustomerRepository }

func (failingCustomers) AppendOrder(ctx context.Context, customerID int64, orderID int64) error {
	return assert.AnError
}

type failingProducts struct{ repo.ProductRepository }

func (failingProducts) Upsert(ctx context.Context, p model.Product) (model.Product, error) {
	return model.Product{}, assert.AnError
}
