package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/config"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "airdrop-claimer",
		Usage: "Claim the STPT Merkle airdrop and take part in DAO governance",
		Description: `Resolves airdrop eligibility for an account from the backend proof API and
submits the claim to the Merkle distributor contract.

Submitted transactions are tracked until their receipts settle. The same
submission path serves the DAO governance actions (create, cancel and vote on
proposals). The serve command exposes everything over a local HTTP API.`,
		Version: "1.0.0",
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			{
				Name:  "eligibility",
				Usage: "Show whether the account is on the airdrop allow-list",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "verify",
						Usage: "Check the proof against the distributor's published merkle root",
					},
				},
				Action: runEligibility,
			},
			{
				Name:  "claim",
				Usage: "Claim the airdrop for the signing account",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Sign without asking for confirmation",
					},
					&cli.BoolFlag{
						Name:  "wait",
						Usage: "Follow new blocks until the claim transaction settles",
					},
				},
				Action: runClaim,
			},
			{
				Name:   "status",
				Usage:  "Show the claim status of the account",
				Action: runStatus,
			},
			{
				Name:   "supply",
				Usage:  "Show the total supply of the airdropped token",
				Action: runSupply,
			},
			{
				Name:   "serve",
				Usage:  "Serve the local HTTP API and follow the chain",
				Action: runServe,
			},
			{
				Name:        "proposal",
				Usage:       "Submit DAO governance transactions",
				Subcommands: proposalCommands(),
			},
			{
				Name:  "daos",
				Usage: "List DAOs, joined DAOs or the account's tokens",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "keyword", Usage: "Filter by name"},
					&cli.StringFlag{Name: "category", Usage: "Filter by category"},
					&cli.IntFlag{Name: "page", Value: 1, Usage: "Page number, 8 DAOs per page"},
					&cli.BoolFlag{Name: "joined", Usage: "List the DAOs the account joined instead"},
					&cli.BoolFlag{Name: "tokens", Usage: "List the account's tokens instead, 10 per page"},
				},
				Action: runDaos,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Uint64Flag{
			Name:    "chain-id",
			Aliases: []string{"chain"},
			Usage:   fmt.Sprintf("Chain ID: %s", config.GetSupportedChainIDsString()),
			Value:   uint64(config.DefaultChainId),
			EnvVars: []string{config.EnvClaimerChainID},
		},
		&cli.StringFlag{
			Name:    "supported-chain-ids",
			Usage:   "Comma separated chain IDs the deployment allows",
			EnvVars: []string{config.EnvClaimerSupportedChains},
		},
		&cli.StringFlag{
			Name:    "rpc-url",
			Aliases: []string{"rpc"},
			Usage:   "Ethereum RPC endpoint URL",
			Value:   "http://localhost:8545",
			EnvVars: []string{config.EnvClaimerRPCURL},
		},
		&cli.StringFlag{
			Name:     "server-url",
			Usage:    "Backend API base URL",
			EnvVars:  []string{config.EnvClaimerServerURL},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "airdrop-address",
			Usage:    "Merkle distributor contract address",
			EnvVars:  []string{config.EnvClaimerAirdropAddress},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "private-key",
			Usage:   "Hex private key to sign with",
			EnvVars: []string{config.EnvClaimerPrivateKey},
		},
		&cli.StringFlag{
			Name:    "web3signer-url",
			Usage:   "Web3Signer endpoint to sign with; requires --account",
			EnvVars: []string{config.EnvClaimerWeb3SignerURL},
		},
		&cli.StringFlag{
			Name:    "account",
			Usage:   "Account to act for when signing remotely or reading only",
			EnvVars: []string{config.EnvClaimerAccount},
		},
		&cli.StringFlag{
			Name:    "persistence-type",
			Usage:   "Transaction store: memory, badger or redis",
			Value:   string(config.PersistenceType_Memory),
			EnvVars: []string{config.EnvClaimerPersistenceType},
		},
		&cli.StringFlag{
			Name:    "data-path",
			Usage:   "Badger data directory",
			EnvVars: []string{config.EnvClaimerDataPath},
		},
		&cli.StringFlag{
			Name:    "redis-address",
			Usage:   "Redis host:port",
			EnvVars: []string{config.EnvClaimerRedisAddress},
		},
		&cli.StringFlag{
			Name:    "redis-password",
			EnvVars: []string{config.EnvClaimerRedisPassword},
		},
		&cli.IntFlag{
			Name:    "redis-db",
			EnvVars: []string{config.EnvClaimerRedisDB},
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Value:   8080,
			Usage:   "HTTP server port for serve",
			EnvVars: []string{config.EnvClaimerPort},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "Enable verbose logging",
			EnvVars: []string{config.EnvClaimerVerbose},
		},
	}
}

func parseClaimerConfig(c *cli.Context) (*config.ClaimerConfig, error) {
	var supported []config.ChainId
	if c.IsSet("supported-chain-ids") {
		ids, err := config.ParseSupportedChainIds(c.String("supported-chain-ids"))
		if err != nil {
			return nil, err
		}
		supported = ids
	}

	cfg := &config.ClaimerConfig{
		ChainID:           config.ChainId(c.Uint64("chain-id")),
		SupportedChainIDs: supported,
		RpcUrl:            c.String("rpc-url"),
		ServerUrl:         c.String("server-url"),
		AirdropAddress:    c.String("airdrop-address"),
		PrivateKey:        c.String("private-key"),
		Web3SignerUrl:     c.String("web3signer-url"),
		Account:           c.String("account"),
		Persistence: config.PersistenceConfig{
			Type:     config.PersistenceType(c.String("persistence-type")),
			DataPath: c.String("data-path"),
		},
		Port:    c.Int("port"),
		Debug:   c.Bool("verbose"),
		Verbose: c.Bool("verbose"),
	}
	if addr := c.String("redis-address"); addr != "" {
		cfg.Persistence.Redis = &config.RedisSettings{
			Address:   addr,
			Password:  c.String("redis-password"),
			DB:        c.Int("redis-db"),
			KeyPrefix: fmt.Sprintf("%d:", cfg.ChainID),
		}
	}
	return cfg, nil
}
