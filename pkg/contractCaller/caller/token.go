package caller

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// ERC20MetaData holds the slice of the ERC-20 ABI the claimer reads.
var ERC20MetaData = &bind.MetaData{
	ABI: "[{\"type\":\"function\",\"name\":\"totalSupply\",\"inputs\":[],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"}]",
}

// GetTokenTotalSupply reads totalSupply() of the ERC-20 at token, in base units.
func (cc *ContractCaller) GetTokenTotalSupply(ctx context.Context, token common.Address) (*big.Int, error) {
	parsed, err := ERC20MetaData.GetAbi()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ERC20 ABI")
	}

	contract := bind.NewBoundContract(token, *parsed, cc.backend, cc.backend, cc.backend)
	var out []interface{}
	if err := contract.Call(callOpts(ctx), &out, "totalSupply"); err != nil {
		return nil, errors.Wrapf(err, "failed to get total supply of %s", token.Hex())
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}
