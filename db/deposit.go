package db

// Deposit is one accepted deposit record. Byte fields are stored as
// 0x-prefixed hex strings.
type Deposit struct {
	Id                    int64
	Idx                   uint64 `gorm:"NOT NULL;uniqueIndex:idx_deposit_idx"`
	BlockNumber           uint64 `gorm:"NOT NULL;index:idx_deposit_block_number"`
	Pubkey                string `gorm:"NOT NULL;size:98"`
	WithdrawalCredentials string `gorm:"NOT NULL;size:66"`
	Amount                uint64 `gorm:"NOT NULL"`
	Signature             string `gorm:"NOT NULL;size:194"`
}

func (*Deposit) TableName() string {
	return "deposit"
}
