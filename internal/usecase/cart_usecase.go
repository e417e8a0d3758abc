package usecase

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// 画面に返す通知メッセージ
const (
	MessageProductAdded   = "Product added to cart"
	MessageProductRemoved = "Product removed from cart"
	MessageQtyChanged     = "Quantity changed"
)

const cartRedirect = "/cart/"

// CartUsecase はカートの解決・明細操作・集計を行う。
type CartUsecase struct {
	tx           repo.TransactionManager
	carts        repo.CartRepository
	cartProducts repo.CartProductRepository
	categories   repo.CategoryRepository
	customers    repo.CustomerRepository
}

func NewCartUsecase(
	tx repo.TransactionManager,
	carts repo.CartRepository,
	cartProducts repo.CartProductRepository,
	categories repo.CategoryRepository,
	customers repo.CustomerRepository,
) *CartUsecase {
	return &CartUsecase{
		tx:           tx,
		carts:        carts,
		cartProducts: cartProducts,
		categories:   categories,
		customers:    customers,
	}
}

type CartLineOutput struct {
	ProductID  int64  `json:"product_id"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Price      string `json:"price"`
	Qty        int64  `json:"qty"`
	FinalPrice string `json:"final_price"`
}

type CartOutput struct {
	ID               int64            `json:"id"`
	ForAnonymousUser bool             `json:"for_anonymous_user"`
	InOrder          bool             `json:"in_order"`
	TotalProducts    int64            `json:"total_products"`
	FinalPrice       string           `json:"final_price"`
	Items            []CartLineOutput `json:"items"`
}

// 明細操作の結果（通知＋遷移先＋最新のカート）
type CartActionOutput struct {
	Message  string     `json:"message"`
	Redirect string     `json:"redirect"`
	Cart     CartOutput `json:"cart"`
}

type CartViewOutput struct {
	Cart       CartOutput       `json:"cart"`
	Categories []model.Category `json:"categories"`
}

// ResolveCart は来訪者の未注文カートを返す（無ければ作る）。
func (u *CartUsecase) ResolveCart(ctx context.Context, v Visitor) (model.Cart, error) {
	var customer *model.Customer
	if v.IsAuthenticated() {
		c, err := u.customers.FindByUserID(ctx, v.UserID)
		if errors.Is(err, repo.ErrNotFound) {
			return model.Cart{}, NewHTTPError(http.StatusNotFound, "customer not found")
		}
		if err != nil {
			return model.Cart{}, internalError(err)
		}
		customer = &c
	}

	seed, err := cartSeed(v, customer)
	if err != nil {
		return model.Cart{}, err
	}

	cart, err := u.carts.GetOrCreateOpen(ctx, seed)
	if err != nil {
		return model.Cart{}, internalError(err)
	}
	return cart, nil
}

// GetCart はカート画面の内容。
func (u *CartUsecase) GetCart(ctx context.Context, v Visitor) (CartViewOutput, error) {
	cart, items, err := u.loadCart(ctx, v)
	if err != nil {
		return CartViewOutput{}, err
	}

	categories, err := u.categories.List(ctx)
	if err != nil {
		return CartViewOutput{}, internalError(err)
	}

	return CartViewOutput{
		Cart:       toCartOutput(cart, items),
		Categories: categories,
	}, nil
}

// AddToCart は商品を明細に追加する。
// 既に明細があれば数量は増やさない（2回目以降の追加は何も変えない）。
func (u *CartUsecase) AddToCart(ctx context.Context, v Visitor, productSlug string) (CartActionOutput, error) {
	cart, err := u.ResolveCart(ctx, v)
	if err != nil {
		return CartActionOutput{}, err
	}

	var out CartOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := lockOpenCart(ctx, r, cart.ID); err != nil {
			return err
		}

		p, err := findProduct(ctx, r, productSlug)
		if err != nil {
			return err
		}

		if _, _, err := r.CartProducts().GetOrCreate(ctx, cart.ID, p.ID, p.Price); err != nil {
			return internalError(err)
		}

		updated, items, err := recomputeTotals(ctx, r, cart.ID)
		if err != nil {
			return err
		}
		out = toCartOutput(updated, items)
		return nil
	})
	if err != nil {
		return CartActionOutput{}, err
	}

	return CartActionOutput{Message: MessageProductAdded, Redirect: cartRedirect, Cart: out}, nil
}

// RemoveFromCart は明細を削除する。
func (u *CartUsecase) RemoveFromCart(ctx context.Context, v Visitor, productSlug string) (CartActionOutput, error) {
	cart, err := u.ResolveCart(ctx, v)
	if err != nil {
		return CartActionOutput{}, err
	}

	var out CartOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := lockOpenCart(ctx, r, cart.ID); err != nil {
			return err
		}

		p, err := findProduct(ctx, r, productSlug)
		if err != nil {
			return err
		}

		err = r.CartProducts().DeleteByCartAndProduct(ctx, cart.ID, p.ID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		if err != nil {
			return internalError(err)
		}

		updated, items, err := recomputeTotals(ctx, r, cart.ID)
		if err != nil {
			return err
		}
		out = toCartOutput(updated, items)
		return nil
	})
	if err != nil {
		return CartActionOutput{}, err
	}

	return CartActionOutput{Message: MessageProductRemoved, Redirect: cartRedirect, Cart: out}, nil
}

// ChangeQty は明細の数量を変更する。
// 0は受け付ける（小計0.00のまま残る）。負数は拒否。
func (u *CartUsecase) ChangeQty(ctx context.Context, v Visitor, productSlug string, rawQty string) (CartActionOutput, error) {
	qty, err := strconv.ParseInt(strings.TrimSpace(rawQty), 10, 64)
	if err != nil {
		return CartActionOutput{}, validationError(map[string]string{"qty": "must be an integer"}, cartRedirect)
	}
	if qty < 0 {
		return CartActionOutput{}, validationError(map[string]string{"qty": "must be >= 0"}, cartRedirect)
	}
	if qty > model.MaxQty {
		return CartActionOutput{}, validationError(map[string]string{"qty": "must be <= " + strconv.FormatInt(model.MaxQty, 10)}, cartRedirect)
	}

	cart, err := u.ResolveCart(ctx, v)
	if err != nil {
		return CartActionOutput{}, err
	}

	var out CartOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := lockOpenCart(ctx, r, cart.ID); err != nil {
			return err
		}

		p, err := findProduct(ctx, r, productSlug)
		if err != nil {
			return err
		}

		item, err := r.CartProducts().FindByCartAndProduct(ctx, cart.ID, p.ID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		if err != nil {
			return internalError(err)
		}

		linePrice := model.LinePrice(p.Price, qty)
		if err := checkQtyFits(ctx, r, cart.ID, item.ID, qty, linePrice); err != nil {
			return err
		}

		if err := r.CartProducts().UpdateQty(ctx, item.ID, qty, linePrice); err != nil {
			return internalError(err)
		}

		updated, items, err := recomputeTotals(ctx, r, cart.ID)
		if err != nil {
			return err
		}
		out = toCartOutput(updated, items)
		return nil
	})
	if err != nil {
		return CartActionOutput{}, err
	}

	return CartActionOutput{Message: MessageQtyChanged, Redirect: cartRedirect, Cart: out}, nil
}

// 来訪者のカートと明細
func (u *CartUsecase) loadCart(ctx context.Context, v Visitor) (model.Cart, []model.CartProduct, error) {
	cart, err := u.ResolveCart(ctx, v)
	if err != nil {
		return model.Cart{}, nil, err
	}

	items, err := u.cartProducts.ListByCartID(ctx, cart.ID)
	if err != nil {
		return model.Cart{}, nil, internalError(err)
	}
	return cart, items, nil
}

// カート行をロックし、注文済みでないことを確認
func lockOpenCart(ctx context.Context, r repo.TxRepos, cartID int64) error {
	cart, err := r.Carts().FindByIDForUpdate(ctx, cartID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return internalError(err)
	}
	if cart.InOrder {
		return NewHTTPError(http.StatusConflict, "cart already ordered")
	}
	return nil
}

func findProduct(ctx context.Context, r repo.TxRepos, slug string) (model.Product, error) {
	p, err := r.Products().FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, internalError(err)
	}
	return p, nil
}

// total_products = Σqty, final_price = Σ明細小計 を保存する。
// 呼び出し元と同じトランザクションで実行すること。
func recomputeTotals(ctx context.Context, r repo.TxRepos, cartID int64) (model.Cart, []model.CartProduct, error) {
	items, err := r.CartProducts().ListByCartID(ctx, cartID)
	if err != nil {
		return model.Cart{}, nil, internalError(err)
	}

	totalProducts, finalPrice := sumLines(items)

	if err := r.Carts().UpdateTotals(ctx, cartID, totalProducts, finalPrice); err != nil {
		return model.Cart{}, nil, internalError(err)
	}

	cart, err := r.Carts().FindByID(ctx, cartID)
	if err != nil {
		return model.Cart{}, nil, internalError(err)
	}
	cart.TotalProducts = totalProducts
	cart.FinalPrice = finalPrice
	return cart, items, nil
}

// 変更後の明細小計・カート合計がdecimal(9,2)に、数量合計が上限に収まるか
func checkQtyFits(ctx context.Context, r repo.TxRepos, cartID, itemID, qty int64, linePrice decimal.Decimal) error {
	items, err := r.CartProducts().ListByCartID(ctx, cartID)
	if err != nil {
		return internalError(err)
	}

	totalQty := qty
	total := linePrice
	for _, it := range items {
		if it.ID == itemID {
			continue
		}
		totalQty += it.Qty
		total = total.Add(it.FinalPrice)
	}

	if !validPrice(linePrice) || !validPrice(total) || totalQty > model.MaxQty {
		return validationError(map[string]string{"qty": "quantity too large for this cart"}, cartRedirect)
	}
	return nil
}

func sumLines(items []model.CartProduct) (int64, decimal.Decimal) {
	var totalProducts int64
	finalPrice := decimal.Zero
	for _, it := range items {
		totalProducts += it.Qty
		finalPrice = finalPrice.Add(it.FinalPrice)
	}
	return totalProducts, finalPrice
}

func toCartOutput(cart model.Cart, items []model.CartProduct) CartOutput {
	lines := make([]CartLineOutput, 0, len(items))
	for _, it := range items {
		line := CartLineOutput{
			ProductID:  it.ProductID,
			Qty:        it.Qty,
			FinalPrice: it.FinalPrice.StringFixed(2),
		}
		if it.Product != nil {
			line.Slug = it.Product.Slug
			line.Title = it.Product.Title
			line.Price = it.Product.Price.StringFixed(2)
		}
		lines = append(lines, line)
	}

	return CartOutput{
		ID:               cart.ID,
		ForAnonymousUser: cart.ForAnonymousUser,
		InOrder:          cart.InOrder,
		TotalProducts:    cart.TotalProducts,
		FinalPrice:       cart.FinalPrice.StringFixed(2),
		Items:            lines,
	}
}
