package merkle

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Allocation is one (index, account, amount) entry of the allow-list.
type Allocation struct {
	Index   uint64
	Account common.Address
	Amount  *big.Int
}

// MerkleTree represents the distributor's binary merkle tree.
// Pairs are hashed in sorted order so proofs carry no path bits, matching
// OpenZeppelin's MerkleProof.verify used by the distributor contract.
type MerkleTree struct {
	// Leaves contains the leaf hashes in allocation order
	Leaves [][32]byte

	// Root is the merkle root hash
	Root [32]byte

	// levels[0] = leaves, levels[len-1] = root
	levels [][][32]byte
}

// MerkleProof represents a proof that a leaf is included in the tree.
type MerkleProof struct {
	// LeafIndex is the position of the leaf in the tree
	LeafIndex int

	// Leaf is the hash of the leaf being proven
	Leaf [32]byte

	// Proof contains the sibling hashes from leaf to root
	Proof [][32]byte
}
