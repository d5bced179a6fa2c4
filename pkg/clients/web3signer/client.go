package web3signer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

type Config struct {
	Url     string
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Url:     "http://localhost:9000",
		Timeout: 30 * time.Second,
	}
}

// TransactionArgs is the eth_signTransaction parameter object. The claimer
// only builds legacy transactions, so Type is always 0x0.
type TransactionArgs struct {
	From     common.Address  `json:"from"`
	To       *common.Address `json:"to,omitempty"`
	Gas      hexutil.Uint64  `json:"gas"`
	GasPrice *hexutil.Big    `json:"gasPrice"`
	Value    *hexutil.Big    `json:"value"`
	Nonce    hexutil.Uint64  `json:"nonce"`
	Data     hexutil.Bytes   `json:"data"`
	ChainID  *hexutil.Big    `json:"chainId"`
	Type     hexutil.Uint64  `json:"type"`
}

type Client struct {
	rpc    *rpc.Client
	url    string
	logger *zap.Logger
}

// NewClient dials the signer lazily; no request is made until the first call.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Url == "" {
		return nil, fmt.Errorf("web3signer url is required")
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	c, err := rpc.DialOptions(context.Background(), cfg.Url, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create web3signer rpc client: %w", err)
	}

	return &Client{
		rpc:    c,
		url:    cfg.Url,
		logger: logger,
	}, nil
}

// NewClientFromURL is a convenience wrapper using the default timeout.
func NewClientFromURL(url string, logger *zap.Logger) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Url = url
	return NewClient(cfg, logger)
}

func (c *Client) EthAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := c.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("eth_accounts failed: %w", err)
	}
	return accounts, nil
}

func (c *Client) EthSignTransaction(ctx context.Context, tx *TransactionArgs) (hexutil.Bytes, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is required")
	}
	c.logger.Sugar().Debugw("Requesting transaction signature",
		"signer", c.url,
		"from", tx.From.Hex(),
		"nonce", uint64(tx.Nonce),
	)

	var signed hexutil.Bytes
	if err := c.rpc.CallContext(ctx, &signed, "eth_signTransaction", tx); err != nil {
		return nil, fmt.Errorf("eth_signTransaction failed: %w", err)
	}
	if len(signed) == 0 {
		return nil, fmt.Errorf("eth_signTransaction returned an empty result")
	}
	return signed, nil
}

func (c *Client) EthSign(ctx context.Context, account common.Address, data []byte) (hexutil.Bytes, error) {
	var sig hexutil.Bytes
	if err := c.rpc.CallContext(ctx, &sig, "eth_sign", account, hexutil.Bytes(data)); err != nil {
		return nil, fmt.Errorf("eth_sign failed: %w", err)
	}
	return sig, nil
}

func (c *Client) Close() {
	c.rpc.Close()
}
