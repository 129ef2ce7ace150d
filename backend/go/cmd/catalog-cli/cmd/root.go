package cmd

import (
	"context"
	"fmt"
	"os"

	"filmoteca/backend/go/internal/catalog_service/service"
	"filmoteca/backend/go/internal/catalog_service/store"
	"filmoteca/backend/go/internal/config"
	"filmoteca/backend/go/internal/database/mysql"
	"filmoteca/backend/go/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "catalog-cli",
	Short:        "A CLI to manage the Filmoteca movie catalog",
	Long:         `A command-line interface for importing catalog data and inspecting movies and their related-movie ranking.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $CONFIG_PATH or ./config.yaml)")
}

// openDB is swapped out in tests.
var openDB = func(cfg *config.AppConfig) (*gorm.DB, error) {
	return mysql.GetDB(&cfg.Databases.MySQL)
}

// catalogApp holds the dependencies shared by every subcommand.
type catalogApp struct {
	cfg     *config.AppConfig
	log     *logger.Logger
	store   *store.Store
	service *service.Service
	cache   service.RelatedCache
}

func loadApp(ctx context.Context) (*catalogApp, error) {
	path := cfgFile
	if path == "" {
		path = config.PathFromEnv()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	logger.InitWithOutput(logger.ParseLevel(cfg.Logger.Level), os.Stderr)
	log := logger.New("catalog-cli", "", "")

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := mysql.Migrate(db.WithContext(ctx)); err != nil {
		return nil, err
	}

	cache, err := service.NewCacheFromConfig(cfg, log)
	if err != nil {
		return nil, err
	}

	catalogStore := store.NewStore(db)
	return &catalogApp{
		cfg:     cfg,
		log:     log,
		store:   catalogStore,
		service: service.NewService(catalogStore, cache, service.LimitsFromConfig(cfg.Catalog), log),
		cache:   cache,
	}, nil
}
