package cmd

import (
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/usecase"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var (
	customerUserID  int64
	customerPhone   string
	customerAddress string
)

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Manage customers",
}

// 会員登録フローの代わり
var customerCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a customer for an authenticated user id",
	RunE: func(cmd *cobra.Command, args []string) error {
		gormDB, err := openDB(true)
		if err != nil {
			return err
		}
		defer closeDB(gormDB)

		uc := usecase.NewCustomerUsecase(infraRepo.NewCustomerGormRepository(gormDB))
		c, err := uc.Register(cmd.Context(), usecase.RegisterCustomerInput{
			UserID:  customerUserID,
			Phone:   customerPhone,
			Address: customerAddress,
		})
		if err != nil {
			return err
		}

		log.Infof("customer %d created for user %d", c.ID, c.UserID)
		return nil
	},
}

func init() {
	customerCreateCmd.Flags().Int64Var(&customerUserID, "user-id", 0, "authenticated user id")
	customerCreateCmd.Flags().StringVar(&customerPhone, "phone", "", "phone number")
	customerCreateCmd.Flags().StringVar(&customerAddress, "address", "", "address")
	_ = customerCreateCmd.MarkFlagRequired("user-id")

	customerCmd.AddCommand(customerCreateCmd)
	rootCmd.AddCommand(customerCmd)
}
