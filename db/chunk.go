package db

type Status int

const (
	Audited Status = 0 // all logs in the chunk were decoded and validated
)

// Chunk records one audited block sub-range.
type Chunk struct {
	Id         int64
	StartBlock uint64 `gorm:"NOT NULL;uniqueIndex:idx_chunk_start_block"`
	EndBlock   uint64 `gorm:"NOT NULL"`
	LogCount   int
	Status     Status
}

func (*Chunk) TableName() string {
	return "chunk"
}
