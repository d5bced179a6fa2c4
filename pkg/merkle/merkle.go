package merkle

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
)

// BuildMerkleTree creates the distribution tree from allocations in the order given.
// A node without a sibling is promoted unchanged to the next level.
func BuildMerkleTree(allocations []*Allocation) (*MerkleTree, error) {
	if len(allocations) == 0 {
		return nil, fmt.Errorf("cannot build merkle tree from empty allocation list")
	}

	leaves := make([][32]byte, len(allocations))
	for i, a := range allocations {
		if a.Amount == nil || a.Amount.Sign() < 0 {
			return nil, fmt.Errorf("allocation %d has invalid amount", a.Index)
		}
		leaves[i] = HashLeaf(a.Index, a.Account, a.Amount)
	}

	levels := make([][][32]byte, 0)
	levels = append(levels, leaves)

	currentLevel := leaves
	for len(currentLevel) > 1 {
		nextLevel := make([][32]byte, 0, (len(currentLevel)+1)/2)

		for i := 0; i < len(currentLevel); i += 2 {
			if i+1 < len(currentLevel) {
				nextLevel = append(nextLevel, hashPair(currentLevel[i], currentLevel[i+1]))
			} else {
				nextLevel = append(nextLevel, currentLevel[i])
			}
		}

		levels = append(levels, nextLevel)
		currentLevel = nextLevel
	}

	return &MerkleTree{
		Leaves: leaves,
		Root:   currentLevel[0],
		levels: levels,
	}, nil
}

// GenerateProof creates a merkle proof for the leaf at the given position.
// Levels where the node was promoted contribute no sibling.
func (mt *MerkleTree) GenerateProof(leafIndex int) (*MerkleProof, error) {
	if leafIndex < 0 || leafIndex >= len(mt.Leaves) {
		return nil, fmt.Errorf("leaf index %d out of bounds (tree has %d leaves)", leafIndex, len(mt.Leaves))
	}

	proof := make([][32]byte, 0)
	index := leafIndex

	for level := 0; level < len(mt.levels)-1; level++ {
		currentLevel := mt.levels[level]

		siblingIndex := index + 1
		if index%2 == 1 {
			siblingIndex = index - 1
		}
		if siblingIndex < len(currentLevel) {
			proof = append(proof, currentLevel[siblingIndex])
		}

		index = index / 2
	}

	return &MerkleProof{
		LeafIndex: leafIndex,
		Leaf:      mt.Leaves[leafIndex],
		Proof:     proof,
	}, nil
}

// ComputeRoot folds a leaf with its sibling hashes.
func ComputeRoot(leaf [32]byte, proof [][32]byte) [32]byte {
	current := leaf
	for _, sibling := range proof {
		current = hashPair(current, sibling)
	}
	return current
}

// VerifyProof verifies that a leaf is included in the tree with the given root.
func VerifyProof(proof *MerkleProof, root [32]byte) bool {
	if proof == nil {
		return false
	}
	return ComputeRoot(proof.Leaf, proof.Proof) == root
}

// VerifyClaim checks a backend-issued proof against a published root exactly as
// the distributor contract would.
func VerifyClaim(p *types.MerkleProof, root [32]byte) bool {
	if p == nil || p.Amount == nil {
		return false
	}
	leaf := HashLeaf(p.Index, p.Account, p.Amount)
	return ComputeRoot(leaf, p.Proof) == root
}

// HashLeaf returns keccak256(abi.encodePacked(uint256 index, address account, uint256 amount)).
func HashLeaf(index uint64, account common.Address, amount *big.Int) [32]byte {
	data := make([]byte, 0, 32+20+32)
	data = append(data, math.U256Bytes(new(big.Int).SetUint64(index))...)
	data = append(data, account.Bytes()...)
	data = append(data, math.U256Bytes(new(big.Int).Set(amount))...)

	return [32]byte(crypto.Keccak256Hash(data))
}

// hashPair computes keccak256(min(a,b) || max(a,b)).
func hashPair(a, b [32]byte) [32]byte {
	data := make([]byte, 64)
	if bytes.Compare(a[:], b[:]) <= 0 {
		copy(data[0:32], a[:])
		copy(data[32:64], b[:])
	} else {
		copy(data[0:32], b[:])
		copy(data[32:64], a[:])
	}

	return [32]byte(crypto.Keccak256Hash(data))
}
