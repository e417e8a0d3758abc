package server

import (
	"context"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

// New はrepo/usecase/handlerを組み立ててechoを返す。
func New(cfg config.Config, gormDB *gorm.DB) (*echo.Echo, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, errors.Wrap(err, "sql db")
	}

	//Repository（GORM実装）生成
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartProductRepo := infraRepo.NewCartProductGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	cartUC := usecase.NewCartUsecase(txm, cartRepo, cartProductRepo, categoryRepo, customerRepo)
	orderUC := usecase.NewOrderUsecase(txm, cartUC, validator.NewFormValidator())
	customerUC := usecase.NewCustomerUsecase(customerRepo)
	catalogUC := usecase.NewCatalogUsecase(txm, categoryRepo, productRepo, cartUC, repository.FeaturedQuery{
		SlugContains: cfg.Catalog.FeaturedSlug,
		Limit:        cfg.Catalog.FeaturedLimit,
	})

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.GoEnv))

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(requestLoggerConfig(e.Logger)))
	e.Use(middleware.AuthJWT(cfg.JWTSecret))
	e.Use(middleware.VisitorSession(cfg.CookieSecure))

	//Handler生成
	RegisterRoutes(e, Handlers{
		Catalog:  handler.NewCatalogHandler(catalogUC),
		Cart:     handler.NewCartHandler(cartUC),
		Order:    handler.NewOrderHandler(orderUC),
		Customer: handler.NewCustomerHandler(customerUC),
		Health:   handler.NewHealthHandler(sqlDB),
	})

	return e, nil
}

// Start はctxが終わるまでサーバーを動かし、終わったらgraceful shutdownする。
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "start server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown server")
	}
	return nil
}

func logLevel(goEnv string) log.Lvl {
	if goEnv == "prod" {
		return log.INFO
	}
	return log.DEBUG
}

// 1リクエスト1行のアクセスログ
func requestLoggerConfig(logger echo.Logger) echomw.RequestLoggerConfig {
	return echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := log.JSON{
				"method":    v.Method,
				"uri":       v.URI,
				"status":    v.Status,
				"latency":   v.Latency.String(),
				"remote_ip": v.RemoteIP,
			}
			if v.Error != nil {
				fields["error"] = v.Error.Error()
				logger.Errorj(fields)
				return nil
			}
			logger.Infoj(fields)
			return nil
		},
	}
}
