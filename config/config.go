package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/depositlabs/deposit-auditor/cache"
)

type Config struct {
	LogConfig    LogConfig    `json:"log_config"`
	DBConfig     DBConfig     `json:"db_config"`
	AuditConfig  AuditConfig  `json:"audit_config"`
	ServerConfig ServerConfig `json:"server_config"`
	CacheConfig  CacheConfig  `json:"cache_config"`
}

type AuditConfig struct {
	RPCAddrs        []string `json:"rpc_addrs"`        // RPCAddrs is a list of execution layer JSON-RPC addresses, the first is used
	DepositContract string   `json:"deposit_contract"` // DepositContract is the deposit contract address to audit
	StartBlock      uint64   `json:"start_block"`      // StartBlock is the first block of the audited interval
	EndBlock        uint64   `json:"end_block"`        // EndBlock bounds the interval (exclusive), 0 means current chain head
	ChunkSize       uint64   `json:"chunk_size"`       // ChunkSize is the max number of blocks per eth_getLogs query
	RPCTimeoutSec   uint64   `json:"rpc_timeout_sec"`  // RPCTimeoutSec bounds every single RPC round trip
}

func (cfg *AuditConfig) Validate() {
	if len(cfg.RPCAddrs) == 0 {
		panic("rpc_addrs should not be empty")
	}
	if !common.IsHexAddress(cfg.DepositContract) {
		panic(fmt.Sprintf("deposit_contract %q is not a valid address", cfg.DepositContract))
	}
	if cfg.EndBlock != 0 && cfg.EndBlock <= cfg.StartBlock {
		panic("end_block should be larger than start_block")
	}
}

func (cfg *AuditConfig) GetChunkSize() uint64 {
	if cfg.ChunkSize != 0 {
		return cfg.ChunkSize
	}
	return DefaultChunkSize
}

func (cfg *AuditConfig) GetRPCTimeoutSec() uint64 {
	if cfg.RPCTimeoutSec != 0 {
		return cfg.RPCTimeoutSec
	}
	return DefaultRPCTimeoutSec
}

type ServerConfig struct {
	APIAddress     string `json:"api_address"`     // APIAddress serves the audit read API, empty disables it
	MetricsAddress string `json:"metrics_address"` // MetricsAddress serves prometheus metrics, empty disables it
}

type CacheConfig struct {
	CacheSize uint64 `json:"cache_size"`
}

func (c *CacheConfig) GetCacheSize() uint64 {
	if c.CacheSize != 0 {
		return c.CacheSize
	}
	return cache.DefaultCacheSize
}

type DBConfig struct {
	Dialect      string `json:"dialect"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	Url          string `json:"url"`
	MaxIdleConns int    `json:"max_idle_conns"`
	MaxOpenConns int    `json:"max_open_conns"`
}

func (cfg *DBConfig) Validate() {
	if cfg.Dialect != DBDialectMysql && cfg.Dialect != DBDialectSqlite3 {
		panic(fmt.Sprintf("only %s and %s supported", DBDialectMysql, DBDialectSqlite3))
	}
	if cfg.Dialect == DBDialectMysql && (cfg.Username == "" || cfg.Url == "") {
		panic("db config is not correct, missing username and/or url")
	}
}

type LogConfig struct {
	Level                        string `json:"level"`
	Filename                     string `json:"filename"`
	MaxFileSizeInMB              int    `json:"max_file_size_in_mb"`
	MaxBackupsOfLogFiles         int    `json:"max_backups_of_log_files"`
	MaxAgeToRetainLogFilesInDays int    `json:"max_age_to_retain_log_files_in_days"`
	UseConsoleLogger             bool   `json:"use_console_logger"`
	UseFileLogger                bool   `json:"use_file_logger"`
	Compress                     bool   `json:"compress"`
}

func (cfg *LogConfig) Validate() {
	if cfg.UseFileLogger {
		if cfg.Filename == "" {
			panic("filename should not be empty if use file logger")
		}
		if cfg.MaxFileSizeInMB <= 0 {
			panic("max_file_size_in_mb should be larger than 0 if use file logger")
		}
		if cfg.MaxBackupsOfLogFiles <= 0 {
			panic("max_backups_of_log_files should be larger than 0 if use file logger")
		}
	}
}

func (cfg *Config) Validate() {
	cfg.LogConfig.Validate()
	cfg.DBConfig.Validate()
	cfg.AuditConfig.Validate()
}

func ParseConfigFromJson(content string) *Config {
	var config Config
	if err := json.Unmarshal([]byte(content), &config); err != nil {
		panic(err)
	}
	return &config
}

func ParseConfigFromFile(filePath string) *Config {
	bz, err := os.ReadFile(filePath)
	if err != nil {
		panic(err)
	}

	var config Config
	if err := json.Unmarshal(bz, &config); err != nil {
		panic(err)
	}
	return &config
}
