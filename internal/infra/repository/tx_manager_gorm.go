package repository

import (
	"context"

	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	categories   repo.CategoryRepository
	carts        repo.CartRepository
	cartProducts repo.CartProductRepository
	products     repo.ProductRepository
	orders       repo.OrderRepository
	customers    repo.CustomerRepository
}

func (r *txReposGorm) Categories() repo.CategoryRepository     { return r.categories }
func (r *txReposGorm) Carts() repo.CartRepository               { return r.carts }
func (r *txReposGorm) CartProducts() repo.CartProductRepository { return r.cartProducts }
func (r *txReposGorm) Products() repo.ProductRepository         { return r.products }
func (r *txReposGorm) Orders() repo.OrderRepository             { return r.orders }
func (r *txReposGorm) Customers() repo.CustomerRepository       { return r.customers }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			categories:   NewCategoryGormRepository(tx),
			carts:        NewCartGormRepository(tx),
			cartProducts: NewCartProductGormRepository(tx),
			products:     NewProductGormRepository(tx),
			orders:       NewOrderGormRepository(tx),
			customers:    NewCustomerGormRepository(tx),
		}
		return fn(r)
	})
}
