package db

import (
	"gorm.io/gorm"
)

type AuditDao interface {
	ChunkDB
	DepositDB
	SaveChunkAndDeposits(chunk *Chunk, deposits []*Deposit) error
}

type AuditSvcDB struct {
	db *gorm.DB
}

func NewAuditSvcDB(db *gorm.DB) AuditDao {
	return &AuditSvcDB{
		db,
	}
}

// AutoMigrate creates the audit tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Chunk{}, &Deposit{})
}

type ChunkDB interface {
	GetLatestChunk() (*Chunk, error)
	GetChunkCount() (int64, error)
}

func (d *AuditSvcDB) GetLatestChunk() (*Chunk, error) {
	chunk := Chunk{}
	err := d.db.Model(Chunk{}).Order("start_block desc").Take(&chunk).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return &chunk, nil
}

func (d *AuditSvcDB) GetChunkCount() (int64, error) {
	var count int64
	if err := d.db.Model(Chunk{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type DepositDB interface {
	GetDeposit(index uint64) (*Deposit, error)
	GetDepositsByBlockRange(startBlock, endBlock uint64) ([]*Deposit, error)
	GetDepositCount() (int64, error)
}

func (d *AuditSvcDB) GetDeposit(index uint64) (*Deposit, error) {
	deposit := Deposit{}
	err := d.db.Model(Deposit{}).Where("idx = ?", index).Take(&deposit).Error
	if err != nil {
		return nil, err
	}
	return &deposit, nil
}

func (d *AuditSvcDB) GetDepositsByBlockRange(startBlock, endBlock uint64) ([]*Deposit, error) {
	deposits := make([]*Deposit, 0)
	if err := d.db.Where("block_number >= ? and block_number < ?", startBlock, endBlock).Order("idx asc").Find(&deposits).Error; err != nil {
		return deposits, err
	}
	return deposits, nil
}

func (d *AuditSvcDB) GetDepositCount() (int64, error) {
	var count int64
	if err := d.db.Model(Deposit{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (d *AuditSvcDB) SaveChunkAndDeposits(chunk *Chunk, deposits []*Deposit) error {
	return d.db.Transaction(func(dbTx *gorm.DB) error {
		err := dbTx.Save(chunk).Error
		if err != nil {
			return err
		}
		if len(deposits) != 0 {
			err = dbTx.Save(deposits).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
