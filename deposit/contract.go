package deposit

// Constants for the eth2 deposit contract. There is no ABI parsing in
// this repository, all signatures and topics are hard-coded.
const (
	// EventTopic is keccak("DepositEvent(bytes,bytes,bytes,bytes,bytes)").
	EventTopic = "0x649bbc62d0e31342afea4e5cd82d4049e7e1ee912fc0889aa790803be39038c5"

	// EventSignature is the solidity event signature hashed into EventTopic.
	EventSignature = "DepositEvent(bytes,bytes,bytes,bytes,bytes)"

	// RootFnSelector is keccak("get_deposit_root()")[0..4].
	RootFnSelector = "0xc5f2892f"

	// CountFnSelector is keccak("get_deposit_count()")[0..4].
	CountFnSelector = "0x621fd130"

	// CountResponseBytes is the length of a get_deposit_count() return
	// payload: offset word, length word, little-endian u64 padded to 32.
	CountResponseBytes = 96

	// RootResponseBytes is the length of a get_deposit_root() return value.
	RootResponseBytes = 32

	// MainnetContract is the deposit contract address on mainnet.
	MainnetContract = "0x00000000219ab540356cBB839Cbe05303d7705Fa"

	// MainnetDeployBlock is the block the mainnet contract was deployed in,
	// the default audit start point.
	MainnetDeployBlock = 11184524
)
