package auditor

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/depositlabs/deposit-auditor/config"
	"github.com/depositlabs/deposit-auditor/db"
	"github.com/depositlabs/deposit-auditor/deposit"
	"github.com/depositlabs/deposit-auditor/external/eth"
	"github.com/depositlabs/deposit-auditor/logging"
	"github.com/depositlabs/deposit-auditor/metrics"
	"github.com/depositlabs/deposit-auditor/types"
)

// Auditor walks the configured block interval chunk by chunk, fetching,
// decoding and validating every deposit log. The first failure at any
// layer aborts the whole run, no chunk is retried.
type Auditor struct {
	client    *eth.Client
	auditDao  db.AuditDao
	validator *ContiguityValidator
	config    *config.Config
}

func NewAuditor(auditDao db.AuditDao, cfg *config.Config) *Auditor {
	timeout := time.Duration(cfg.AuditConfig.GetRPCTimeoutSec()) * time.Second
	client := eth.NewClient(cfg.AuditConfig.RPCAddrs[0], timeout)
	return &Auditor{
		client:    client,
		auditDao:  auditDao,
		validator: NewContiguityValidator(),
		config:    cfg,
	}
}

// Run performs the whole audit. The returned error is the first failure
// encountered; nil means every chunk was fetched, decoded and validated.
func (a *Auditor) Run(ctx context.Context) error {
	cfg := &a.config.AuditConfig

	chainID, err := a.client.ChainID(ctx)
	if err != nil {
		return err
	}
	networkID, err := a.client.NetworkVersion(ctx)
	if err != nil {
		return err
	}
	logging.Logger.Infof("auditing deposit contract %s on chain %s (network id %s)", cfg.DepositContract, chainID, networkID)

	endBlock := cfg.EndBlock
	if endBlock == 0 {
		endBlock, err = a.client.BlockNumber(ctx)
		if err != nil {
			return err
		}
		logging.Logger.Infof("using current chain head %d as end block", endBlock)
	}

	chunks := types.SplitRange(types.BlockRange{Start: cfg.StartBlock, End: endBlock}, cfg.GetChunkSize())
	logging.Logger.Infof("auditing blocks [%d, %d) in %d chunks", cfg.StartBlock, endBlock, len(chunks))

	for _, chunk := range chunks {
		if err := a.processChunk(ctx, chunk); err != nil {
			return err
		}
	}

	logging.Logger.Infof("audit complete: %d deposits accepted, next expected index %d",
		a.validator.AcceptedCount(), a.validator.NextExpected())
	a.crossCheckContractCount(ctx)
	return nil
}

func (a *Auditor) processChunk(ctx context.Context, chunk types.BlockRange) error {
	logs, err := a.client.DepositLogs(ctx, a.config.AuditConfig.DepositContract, chunk)
	if err != nil {
		return err
	}

	accepted := make([]*db.Deposit, 0, len(logs))
	for _, log := range logs {
		record, err := deposit.Decode(log)
		if err != nil {
			return fmt.Errorf("block %d: %w", log.BlockNumber, err)
		}
		newlyAccepted, err := a.validator.Process(record)
		if err != nil {
			return err
		}
		if newlyAccepted {
			accepted = append(accepted, toDepositModel(record))
		}
	}

	if a.auditDao != nil {
		dbChunk := &db.Chunk{
			StartBlock: chunk.Start,
			EndBlock:   chunk.End,
			LogCount:   len(logs),
			Status:     db.Audited,
		}
		if err := a.auditDao.SaveChunkAndDeposits(dbChunk, accepted); err != nil {
			return fmt.Errorf("failed to save audited chunk [%d, %d): %w", chunk.Start, chunk.End, err)
		}
	}

	metrics.AuditedBlockHeightGauge.Set(float64(chunk.End))
	metrics.AcceptedDepositCountGauge.Set(float64(a.validator.AcceptedCount()))
	logging.Logger.Infof("audited blocks [%d, %d): %d logs, %d new deposits", chunk.Start, chunk.End, len(logs), len(accepted))
	return nil
}

// crossCheckContractCount compares the validator's accepted total with
// the contract's own counter. The head may have advanced since the run
// started, so a mismatch is reported but not fatal.
func (a *Auditor) crossCheckContractCount(ctx context.Context) {
	count, err := a.client.DepositCount(ctx, a.config.AuditConfig.DepositContract)
	if err != nil {
		logging.Logger.Errorf("failed to read deposit count from contract, err=%s", err.Error())
		return
	}
	if count != a.validator.NextExpected() {
		logging.Logger.Errorf("contract reports %d deposits, audit accepted %d; the chain head may have advanced", count, a.validator.NextExpected())
		return
	}
	root, err := a.client.DepositRoot(ctx, a.config.AuditConfig.DepositContract)
	if err != nil {
		logging.Logger.Errorf("failed to read deposit root from contract, err=%s", err.Error())
		return
	}
	logging.Logger.Infof("contract deposit count matches, deposit root 0x%s", hex.EncodeToString(root))
}

func toDepositModel(record *deposit.Record) *db.Deposit {
	return &db.Deposit{
		Idx:                   record.Index,
		BlockNumber:           record.BlockNumber,
		Pubkey:                hexutil.Encode(record.Pubkey),
		WithdrawalCredentials: hexutil.Encode(record.WithdrawalCredentials),
		Amount:                record.Amount,
		Signature:             hexutil.Encode(record.Signature),
	}
}
