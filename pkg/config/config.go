package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the claimer configuration
const (
	EnvClaimerChainID         = "CLAIMER_CHAIN_ID"
	EnvClaimerSupportedChains = "CLAIMER_CHAIN_IDS"
	EnvClaimerRPCURL          = "CLAIMER_RPC_URL"
	EnvClaimerServerURL       = "CLAIMER_SERVER_URL"
	EnvClaimerAirdropAddress  = "CLAIMER_AIRDROP_ADDRESS"
	EnvClaimerPrivateKey      = "CLAIMER_PRIVATE_KEY"
	EnvClaimerAccount         = "CLAIMER_ACCOUNT"
	EnvClaimerPersistenceType = "CLAIMER_PERSISTENCE_TYPE"
	EnvClaimerDataPath        = "CLAIMER_DATA_PATH"
	EnvClaimerRedisAddress    = "CLAIMER_REDIS_ADDRESS"
	EnvClaimerRedisPassword   = "CLAIMER_REDIS_PASSWORD"
	EnvClaimerRedisDB         = "CLAIMER_REDIS_DB"
	EnvClaimerPort            = "CLAIMER_PORT"
	EnvClaimerVerbose         = "CLAIMER_VERBOSE"
	EnvClaimerWeb3SignerURL   = "CLAIMER_WEB3SIGNER_URL"
)

type ChainId uint

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_Ropsten         ChainId = 3
	ChainId_Rinkeby         ChainId = 4
	ChainId_Goerli          ChainId = 5
	ChainId_Kovan           ChainId = 42
	ChainId_BSC             ChainId = 56
	ChainId_BSCTest         ChainId = 97
	ChainId_PolygonMumbai   ChainId = 80001
	ChainId_Anvil           ChainId = 31337
)

// DefaultChainId is used when neither a flag nor CLAIMER_CHAIN_ID is set.
const DefaultChainId = ChainId_BSC

type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// ChainInfo describes a network the claimer can talk to.
type ChainInfo struct {
	Id             ChainId        `json:"id"`
	Hex            string         `json:"hex"`
	Symbol         string         `json:"symbol"`
	Name           string         `json:"name"`
	NativeCurrency NativeCurrency `json:"nativeCurrency"`
	RpcUrls        []string       `json:"rpcUrls"`
	ExplorerUrls   []string       `json:"blockExplorerUrls"`
}

var (
	ethCurrency   = NativeCurrency{Name: "Ethereum", Symbol: "ETH", Decimals: 18}
	bnbCurrency   = NativeCurrency{Name: "Binance Coin", Symbol: "BNB", Decimals: 18}
	maticCurrency = NativeCurrency{Name: "MATIC", Symbol: "MATIC", Decimals: 18}

	Chains = map[ChainId]*ChainInfo{
		ChainId_EthereumMainnet: {
			Id: ChainId_EthereumMainnet, Hex: "0x1", Symbol: "ETH", Name: "ETH Network",
			NativeCurrency: ethCurrency,
			RpcUrls:        []string{"https://mainnet.infura.io/v3"},
			ExplorerUrls:   []string{"https://etherscan.com"},
		},
		ChainId_Ropsten: {
			Id: ChainId_Ropsten, Hex: "0x3", Symbol: "Ropsten", Name: "Ropsten Test Network",
			NativeCurrency: NativeCurrency{Name: "Ropsten", Symbol: "ETH", Decimals: 18},
			RpcUrls:        []string{"https://ropsten.infura.io/v3/"},
			ExplorerUrls:   []string{"https://ropsten.etherscan.io/"},
		},
		ChainId_Rinkeby: {
			Id: ChainId_Rinkeby, Hex: "0x4", Symbol: "Rinkeby", Name: "Rinkeby Testnet",
			NativeCurrency: NativeCurrency{Name: "Rinkeby", Symbol: "ETH", Decimals: 18},
			RpcUrls:        []string{"https://rinkeby.infura.io/v3/"},
			ExplorerUrls:   []string{"https://rinkeby.etherscan.io/"},
		},
		ChainId_Goerli: {
			Id: ChainId_Goerli, Hex: "0x5", Symbol: "Goerli", Name: "Goerli Testnet",
			NativeCurrency: NativeCurrency{Name: "Goerli ETH", Symbol: "ETH", Decimals: 18},
			RpcUrls:        []string{"https://goerli.infura.io/v3/"},
			ExplorerUrls:   []string{"https://goerli.etherscan.io/"},
		},
		ChainId_Kovan: {
			Id: ChainId_Kovan, Hex: "0x2a", Symbol: "Kovan", Name: "Kovan Testnet",
			NativeCurrency: NativeCurrency{Name: "Kovan", Symbol: "ETH", Decimals: 18},
			RpcUrls:        []string{"https://kovan.infura.io/v3/"},
			ExplorerUrls:   []string{"https://kovan.etherscan.io/"},
		},
		ChainId_BSC: {
			Id: ChainId_BSC, Hex: "0x38", Symbol: "BSC", Name: "Binance Smart Chain",
			NativeCurrency: bnbCurrency,
			RpcUrls:        []string{"https://bsc-dataseed.binance.org"},
			ExplorerUrls:   []string{"https://bscscan.com"},
		},
		ChainId_BSCTest: {
			Id: ChainId_BSCTest, Hex: "0x61", Symbol: "BSCTEST", Name: "Binance Testnet",
			NativeCurrency: bnbCurrency,
			RpcUrls:        []string{"https://data-seed-prebsc-1-s1.binance.org:8545/"},
			ExplorerUrls:   []string{"https://testnet.bscscan.com/"},
		},
		ChainId_PolygonMumbai: {
			Id: ChainId_PolygonMumbai, Hex: "0x13881", Symbol: "Polygon mumbai", Name: "Polygon mumbai",
			NativeCurrency: maticCurrency,
			RpcUrls:        []string{"https://rpc.ankr.com/polygon_mumbai"},
			ExplorerUrls:   []string{"https://mumbai.polygonscan.com/"},
		},
		ChainId_Anvil: {
			Id: ChainId_Anvil, Hex: "0x7a69", Symbol: "Anvil", Name: "Local devnet",
			NativeCurrency: ethCurrency,
			RpcUrls:        []string{"http://localhost:8545"},
		},
	}
)

func GetChainInfo(chainId ChainId) (*ChainInfo, error) {
	info, ok := Chains[chainId]
	if !ok {
		return nil, fmt.Errorf("unsupported chain ID: %d", chainId)
	}
	return info, nil
}

type ExplorerLinkType string

const (
	ExplorerLink_Transaction ExplorerLinkType = "tx"
	ExplorerLink_Token       ExplorerLinkType = "token"
	ExplorerLink_Block       ExplorerLinkType = "block"
	ExplorerLink_Address     ExplorerLinkType = "address"
)

// ExplorerLink returns the block explorer page for data, or "" when the chain
// has no explorer.
func (c *ChainInfo) ExplorerLink(data string, kind ExplorerLinkType) string {
	if len(c.ExplorerUrls) == 0 {
		return ""
	}
	base := strings.TrimSuffix(c.ExplorerUrls[0], "/")
	return fmt.Sprintf("%s/%s/%s", base, kind, data)
}

// IsTestnet reports whether balances on the chain are worthless.
func IsTestnet(chainId ChainId) bool {
	switch chainId {
	case ChainId_EthereumMainnet, ChainId_BSC:
		return false
	default:
		return true
	}
}

// ParseSupportedChainIds parses a comma separated chain id list such as "56,97".
// An empty string yields the default chain only.
func ParseSupportedChainIds(raw string) ([]ChainId, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []ChainId{DefaultChainId}, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]ChainId, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain id %q: %w", p, err)
		}
		if _, ok := Chains[ChainId(v)]; !ok {
			return nil, fmt.Errorf("unsupported chain ID: %d", v)
		}
		ids = append(ids, ChainId(v))
	}
	return ids, nil
}

// GetSupportedChainIDsString returns supported chain IDs as strings for CLI help
func GetSupportedChainIDsString() string {
	return fmt.Sprintf("%d (mainnet), %d (bsc), %d (bsc testnet), %d (goerli), %d (mumbai), %d (anvil)",
		ChainId_EthereumMainnet, ChainId_BSC, ChainId_BSCTest, ChainId_Goerli, ChainId_PolygonMumbai, ChainId_Anvil)
}

// TokenInfo is the ERC20 being distributed by the airdrop contract.
type TokenInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

var STPTToken = TokenInfo{Symbol: "STPT", Name: "Standard Tokenization Protocol", Decimals: 18}

type PersistenceType string

const (
	PersistenceType_Memory PersistenceType = "memory"
	PersistenceType_Badger PersistenceType = "badger"
	PersistenceType_Redis  PersistenceType = "redis"
)

type RedisSettings struct {
	Address   string `json:"address"`
	Password  string `json:"password"`
	DB        int    `json:"db"`
	KeyPrefix string `json:"keyPrefix"`
}

type PersistenceConfig struct {
	Type     PersistenceType `json:"type"`
	DataPath string          `json:"dataPath"`
	Redis    *RedisSettings  `json:"redis,omitempty"`
}

// ClaimerConfig represents the complete configuration for the claimer
type ClaimerConfig struct {
	ChainID           ChainId   `json:"chain_id"`
	SupportedChainIDs []ChainId `json:"supported_chain_ids"`

	RpcUrl         string `json:"rpc_url"`
	ServerUrl      string `json:"server_url"`
	AirdropAddress string `json:"airdrop_address"`

	// Exactly one signing source may be configured. Neither is valid for
	// read-only commands, which then need Account.
	PrivateKey    string `json:"-"`
	Web3SignerUrl string `json:"web3signer_url"`
	Account       string `json:"account"`

	Persistence PersistenceConfig `json:"persistence"`

	Port          int           `json:"port"`
	RefreshPeriod time.Duration `json:"refresh_period"`

	Debug   bool `json:"debug"`
	Verbose bool `json:"verbose"`

	// populated by Validate
	Chain *ChainInfo `json:"chain,omitempty"`
	Token TokenInfo  `json:"token"`
}

// Validate validates the claimer configuration and fills derived fields.
func (c *ClaimerConfig) Validate() error {
	var allErrors field.ErrorList

	chain, err := GetChainInfo(c.ChainID)
	if err != nil {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("chainId"), c.ChainID, supportedChainNames()))
	}
	if len(c.SupportedChainIDs) > 0 && chain != nil {
		found := false
		for _, id := range c.SupportedChainIDs {
			if id == c.ChainID {
				found = true
				break
			}
		}
		if !found {
			allErrors = append(allErrors, field.Invalid(field.NewPath("chainId"), c.ChainID, "chain is not in the supported chain list"))
		}
	}

	if c.RpcUrl == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("rpcUrl"), "rpcUrl is required"))
	}
	if c.ServerUrl == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("serverUrl"), "serverUrl is required"))
	} else if u, err := url.Parse(c.ServerUrl); err != nil || u.Host == "" {
		allErrors = append(allErrors, field.Invalid(field.NewPath("serverUrl"), c.ServerUrl, "must be an absolute URL"))
	}
	if !common.IsHexAddress(c.AirdropAddress) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("airdropAddress"), c.AirdropAddress, "must be a hex address"))
	}

	if c.PrivateKey != "" && c.Web3SignerUrl != "" {
		allErrors = append(allErrors, field.Forbidden(field.NewPath("web3SignerUrl"), "cannot be combined with privateKey"))
	}
	if c.PrivateKey != "" {
		pk := strings.TrimPrefix(c.PrivateKey, "0x")
		if len(pk) != 64 {
			allErrors = append(allErrors, field.Invalid(field.NewPath("privateKey"), "<redacted>",
				fmt.Sprintf("must be 32 bytes (64 hex chars), got %d chars", len(pk))))
		}
	}
	if c.Account != "" && !common.IsHexAddress(c.Account) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("account"), c.Account, "must be a hex address"))
	}
	if c.Web3SignerUrl != "" && c.Account == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("account"), "account is required when signing with web3signer"))
	}

	switch c.Persistence.Type {
	case "", PersistenceType_Memory:
	case PersistenceType_Badger:
		if c.Persistence.DataPath == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("persistence", "dataPath"), "dataPath is required for badger"))
		}
	case PersistenceType_Redis:
		if c.Persistence.Redis == nil || c.Persistence.Redis.Address == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("persistence", "redis", "address"), "address is required for redis"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(field.NewPath("persistence", "type"), c.Persistence.Type,
			[]string{string(PersistenceType_Memory), string(PersistenceType_Badger), string(PersistenceType_Redis)}))
	}

	if c.Port != 0 && (c.Port < 1 || c.Port > 65535) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("port"), c.Port, "must be between 1-65535"))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}

	c.Chain = chain
	if c.Token.Decimals == 0 && c.Token.Symbol == "" {
		c.Token = STPTToken
	}
	if c.RefreshPeriod == 0 {
		c.RefreshPeriod = 15 * time.Second
	}
	return nil
}

// CanSign reports whether a signing source is configured.
func (c *ClaimerConfig) CanSign() bool {
	return c.PrivateKey != "" || c.Web3SignerUrl != ""
}

func supportedChainNames() []string {
	names := make([]string, 0, len(Chains))
	for id := range Chains {
		names = append(names, strconv.FormatUint(uint64(id), 10))
	}
	sort.Strings(names)
	return names
}
