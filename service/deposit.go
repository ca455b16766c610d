package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/depositlabs/deposit-auditor/cache"
	"github.com/depositlabs/deposit-auditor/db"
	"github.com/depositlabs/deposit-auditor/util"
)

// DepositInfo is the read-API view of one accepted deposit.
type DepositInfo struct {
	Index                 uint64 `json:"index"`
	BlockNumber           uint64 `json:"block_number"`
	Pubkey                string `json:"pubkey"`
	WithdrawalCredentials string `json:"withdrawal_credentials"`
	Amount                uint64 `json:"amount"`
	Signature             string `json:"signature"`
}

// AuditStatus summarizes the persisted state of the current or last run.
type AuditStatus struct {
	AuditedChunks    int64  `json:"audited_chunks"`
	AcceptedDeposits int64  `json:"accepted_deposits"`
	AuditedToBlock   uint64 `json:"audited_to_block"`
}

type Deposit interface {
	GetDeposit(index uint64) (*DepositInfo, error)
	GetStatus() (*AuditStatus, error)
}

type DepositService struct {
	auditDB      db.AuditDao
	cacheService cache.Cache
}

func NewDepositService(auditDB db.AuditDao, cache cache.Cache) Deposit {
	return &DepositService{
		auditDB:      auditDB,
		cacheService: cache,
	}
}

func (s *DepositService) GetDeposit(index uint64) (*DepositInfo, error) {
	key := util.Uint64ToString(index)
	if cached, found := s.cacheService.Get(key); found {
		return cached.(*DepositInfo), nil
	}
	record, err := s.auditDB.GetDeposit(index)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}
	info := &DepositInfo{
		Index:                 record.Idx,
		BlockNumber:           record.BlockNumber,
		Pubkey:                record.Pubkey,
		WithdrawalCredentials: record.WithdrawalCredentials,
		Amount:                record.Amount,
		Signature:             record.Signature,
	}
	s.cacheService.Set(key, info)
	return info, nil
}

func (s *DepositService) GetStatus() (*AuditStatus, error) {
	chunkCount, err := s.auditDB.GetChunkCount()
	if err != nil {
		return nil, err
	}
	depositCount, err := s.auditDB.GetDepositCount()
	if err != nil {
		return nil, err
	}
	latest, err := s.auditDB.GetLatestChunk()
	if err != nil {
		return nil, err
	}
	return &AuditStatus{
		AuditedChunks:    chunkCount,
		AcceptedDeposits: depositCount,
		AuditedToBlock:   latest.EndBlock,
	}, nil
}
