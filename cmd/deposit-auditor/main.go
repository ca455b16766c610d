package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/depositlabs/deposit-auditor/auditor"
	"github.com/depositlabs/deposit-auditor/cache"
	"github.com/depositlabs/deposit-auditor/config"
	auditdb "github.com/depositlabs/deposit-auditor/db"
	"github.com/depositlabs/deposit-auditor/logging"
	"github.com/depositlabs/deposit-auditor/metrics"
	"github.com/depositlabs/deposit-auditor/restapi"
	"github.com/depositlabs/deposit-auditor/service"
)

func initFlags() {
	flag.String(config.FlagConfigPath, "", "config file path")
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	err := viper.BindPFlags(pflag.CommandLine)
	if err != nil {
		panic(err)
	}
}

func printUsage() {
	fmt.Print("usage: ./deposit-auditor --config-path configFile\n")
}

func main() {
	initFlags()
	configFilePath := viper.GetString(config.FlagConfigPath)
	if configFilePath == "" {
		configFilePath = os.Getenv(config.EnvVarConfigFilePath)
	}
	if configFilePath == "" {
		printUsage()
		os.Exit(1)
	}

	cfg := config.ParseConfigFromFile(configFilePath)
	if cfg == nil {
		panic("failed to get configuration")
	}
	cfg.Validate()
	logging.InitLogger(&cfg.LogConfig)

	gormDB := config.InitDBWithConfig(&cfg.DBConfig)
	if err := auditdb.AutoMigrate(gormDB); err != nil {
		panic(fmt.Sprintf("failed to migrate db, err=%s", err.Error()))
	}
	auditDao := auditdb.NewAuditSvcDB(gormDB)

	if cfg.ServerConfig.MetricsAddress != "" {
		metrics.NewMetrics(cfg.ServerConfig.MetricsAddress).Start()
	}
	if cfg.ServerConfig.APIAddress != "" {
		localCache, err := cache.NewLocalCache(cfg.CacheConfig.GetCacheSize())
		if err != nil {
			panic(fmt.Sprintf("failed to create cache, err=%s", err.Error()))
		}
		depositSvc := service.NewDepositService(auditDao, localCache)
		restapi.NewServer(cfg.ServerConfig.APIAddress, depositSvc).Start()
	}

	a := auditor.NewAuditor(auditDao, cfg)
	if err := a.Run(context.Background()); err != nil {
		logging.Logger.Errorf("audit failed: %s", err.Error())
		os.Exit(1)
	}

	// keep serving audit results after a successful run
	if cfg.ServerConfig.APIAddress != "" {
		select {}
	}
}
