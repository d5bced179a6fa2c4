package merkle

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
)

// createTestAllocations creates n allocations with distinct accounts and amounts
func createTestAllocations(n int) []*Allocation {
	allocs := make([]*Allocation, n)
	for i := 0; i < n; i++ {
		allocs[i] = &Allocation{
			Index:   uint64(i),
			Account: common.BigToAddress(big.NewInt(int64(i + 1))),
			Amount:  new(big.Int).Mul(big.NewInt(int64(i+1)), big.NewInt(1e18)),
		}
	}
	return allocs
}

func TestBuildMerkleTree(t *testing.T) {
	testCases := []struct {
		name    string
		numLeaf int
	}{
		{"Single allocation", 1},
		{"Two allocations", 2},
		{"Three allocations", 3},
		{"Four allocations (power of 2)", 4},
		{"Seven allocations", 7},
		{"Eight allocations (power of 2)", 8},
		{"Fifteen allocations", 15},
		{"Sixteen allocations (power of 2)", 16},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			allocs := createTestAllocations(tc.numLeaf)
			tree, err := BuildMerkleTree(allocs)
			require.NoError(t, err)
			require.NotNil(t, tree)

			require.Equal(t, tc.numLeaf, len(tree.Leaves))
			require.NotEqual(t, [32]byte{}, tree.Root)

			for i := 0; i < tc.numLeaf; i++ {
				proof, err := tree.GenerateProof(i)
				require.NoError(t, err)
				require.Equal(t, i, proof.LeafIndex)
				require.Equal(t, tree.Leaves[i], proof.Leaf)
				require.True(t, VerifyProof(proof, tree.Root), "Proof for leaf %d should be valid", i)
			}
		})
	}
}

func TestBuildMerkleTreeEmpty(t *testing.T) {
	tree, err := BuildMerkleTree([]*Allocation{})
	require.Error(t, err)
	require.Nil(t, tree)
}

func TestBuildMerkleTreeInvalidAmount(t *testing.T) {
	allocs := createTestAllocations(2)
	allocs[1].Amount = nil
	_, err := BuildMerkleTree(allocs)
	require.Error(t, err)
}

func TestSingleLeafRootIsLeaf(t *testing.T) {
	tree, err := BuildMerkleTree(createTestAllocations(1))
	require.NoError(t, err)
	require.Equal(t, tree.Leaves[0], tree.Root)

	proof, err := tree.GenerateProof(0)
	require.NoError(t, err)
	require.Empty(t, proof.Proof)
}

func TestGenerateProofOutOfBounds(t *testing.T) {
	tree, err := BuildMerkleTree(createTestAllocations(3))
	require.NoError(t, err)

	_, err = tree.GenerateProof(-1)
	require.Error(t, err)
	_, err = tree.GenerateProof(3)
	require.Error(t, err)
}

func TestHashPairIsCommutative(t *testing.T) {
	a := [32]byte{1}
	b := [32]byte{2}
	require.Equal(t, hashPair(a, b), hashPair(b, a))
}

func TestVerifyClaim(t *testing.T) {
	allocs := createTestAllocations(5)
	tree, err := BuildMerkleTree(allocs)
	require.NoError(t, err)

	for i, a := range allocs {
		t.Run(fmt.Sprintf("Leaf %d", i), func(t *testing.T) {
			p, err := tree.GenerateProof(i)
			require.NoError(t, err)

			claim := &types.MerkleProof{
				Index:   a.Index,
				Account: a.Account,
				Amount:  new(big.Int).Set(a.Amount),
				Proof:   p.Proof,
			}
			require.True(t, VerifyClaim(claim, tree.Root))

			tampered := *claim
			tampered.Amount = new(big.Int).Add(a.Amount, big.NewInt(1))
			require.False(t, VerifyClaim(&tampered, tree.Root))

			wrongAccount := *claim
			wrongAccount.Account = common.HexToAddress("0xdead")
			require.False(t, VerifyClaim(&wrongAccount, tree.Root))
		})
	}

	require.False(t, VerifyClaim(nil, tree.Root))
}

func TestVerifyProofTamperedSibling(t *testing.T) {
	tree, err := BuildMerkleTree(createTestAllocations(4))
	require.NoError(t, err)

	proof, err := tree.GenerateProof(2)
	require.NoError(t, err)
	proof.Proof[0][0] ^= 0xff
	require.False(t, VerifyProof(proof, tree.Root))
	require.False(t, VerifyProof(nil, tree.Root))
}

func TestHashLeafDoesNotMutateAmount(t *testing.T) {
	amount := big.NewInt(42)
	_ = HashLeaf(1, common.HexToAddress("0x1"), amount)
	require.Equal(t, int64(42), amount.Int64())
}
