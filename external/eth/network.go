package eth

import "fmt"

// Network identifies an execution-layer chain or network id.
type Network uint64

const (
	Mainnet Network = 1
	Goerli  Network = 5
)

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Goerli:
		return "goerli"
	default:
		return fmt.Sprintf("custom(%d)", uint64(n))
	}
}
