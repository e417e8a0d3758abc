package cmd

import (
	"os"
	"path/filepath"

	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/cockroachdb/errors"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var seedImagesDir string

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Import categories and products from a YAML fixture",
	Long: `Import categories and products from a YAML fixture.

Every product image is checked (size and dimensions) before anything is
written. Image paths are relative to --images (default: the fixture's directory).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture, err := readFixture(args[0])
		if err != nil {
			return err
		}

		dir := seedImagesDir
		if dir == "" {
			dir = filepath.Dir(args[0])
		}

		gormDB, err := openDB(true)
		if err != nil {
			return err
		}
		defer closeDB(gormDB)

		uc := usecase.NewCatalogUsecase(
			infraRepo.NewTxManagerGorm(gormDB),
			infraRepo.NewCategoryGormRepository(gormDB),
			infraRepo.NewProductGormRepository(gormDB),
			nil,
			repository.FeaturedQuery{},
		)

		res, err := uc.ImportCatalog(cmd.Context(), fixture, os.DirFS(dir))
		if he, ok := usecase.AsHTTPError(err); ok && len(he.Fields) > 0 {
			for k, msg := range he.Fields {
				log.Errorf("%s: %s", k, msg)
			}
		}
		if err != nil {
			return err
		}

		log.Infof("imported %d categories, %d products", res.Categories, res.Products)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedImagesDir, "images", "", "directory holding product images")
	rootCmd.AddCommand(seedCmd)
}

func readFixture(path string) (usecase.CatalogFixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return usecase.CatalogFixture{}, errors.Wrap(err, "read fixture")
	}

	var fixture usecase.CatalogFixture
	if err := yaml.Unmarshal(b, &fixture); err != nil {
		return usecase.CatalogFixture{}, errors.Wrap(err, "parse fixture")
	}
	return fixture, nil
}
