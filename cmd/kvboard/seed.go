package main

import (
	"fmt"
	"log/slog"

	"github.com/danghoang/kvboard/internal/catalog"
	"github.com/danghoang/kvboard/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the local catalog database",
		Long: `Populate the local SQLite catalog: insert the fixed service-category list
and mirror customers and products from KiotViet. With no flags every job
runs. All jobs are idempotent and safe to repeat.`,
		RunE: runSeed,
	}

	cmd.Flags().Bool("categories", false, "seed the service-category list")
	cmd.Flags().Bool("customers", false, "sync customers from KiotViet")
	cmd.Flags().Bool("products", false, "sync products from KiotViet")

	_ = viper.BindPFlag("seed.categories", cmd.Flags().Lookup("categories"))
	_ = viper.BindPFlag("seed.customers", cmd.Flags().Lookup("customers"))
	_ = viper.BindPFlag("seed.products", cmd.Flags().Lookup("products"))

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	doCategories := viper.GetBool("seed.categories")
	doCustomers := viper.GetBool("seed.customers")
	doProducts := viper.GetBool("seed.products")
	if !doCategories && !doCustomers && !doProducts {
		doCategories, doCustomers, doProducts = true, true, true
	}

	store, err := newCatalogStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var seeder *catalog.Seeder
	if doCustomers || doProducts {
		apiClient, err := newKiotVietClient(ctx, logger)
		if err != nil {
			return err
		}
		seeder = catalog.NewSeeder(apiClient, store, true, logger)
	} else {
		seeder = catalog.NewSeeder(nil, store, false, logger)
	}

	fmt.Println(cli.FormatTitle("Seeding catalog"))

	if doCategories {
		inserted, err := seeder.SeedCategories(ctx)
		if err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("categories: %d inserted", inserted)))
	}

	if doCustomers {
		synced, err := seeder.SyncCustomers(ctx)
		if err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("customers: %d synced", synced)))
	}

	if doProducts {
		synced, err := seeder.SyncProducts(ctx)
		if err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("products: %d synced", synced)))
	}

	return nil
}
