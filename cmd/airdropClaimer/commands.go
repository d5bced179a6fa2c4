package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/airdrop"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/amount"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/app"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/config"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/daolist"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/logger"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/server"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/transactionSigner"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	EVMChainPoller "github.com/Layr-Labs/chain-indexer/pkg/chainPollers/evm"
	"github.com/Layr-Labs/chain-indexer/pkg/chainPollers/persistence/memory"
	"github.com/Layr-Labs/chain-indexer/pkg/clients/ethereum"
	chainIndexerConfig "github.com/Layr-Labs/chain-indexer/pkg/config"
	"github.com/Layr-Labs/chain-indexer/pkg/contractStore/inMemoryContractStore"
	"github.com/Layr-Labs/chain-indexer/pkg/transactionLogParser"
	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// session is one command's wired application plus a way to follow new blocks.
type session struct {
	cfg    *config.ClaimerConfig
	app    *app.Application
	logger *zap.Logger

	startPoller func(ctx context.Context) error
}

func openSession(c *cli.Context, prompt transactionSigner.PromptFunc) (*session, error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cfg, err := parseClaimerConfig(c)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	l.Sugar().Debugw("Using chain", "name", cfg.Chain.Name, "chain_id", cfg.ChainID)

	ethClient := ethereum.NewEthereumClient(&ethereum.EthereumClientConfig{
		BaseUrl:   cfg.RpcUrl,
		BlockType: ethereum.BlockType_Latest,
	}, l)

	backend, err := ethClient.GetEthereumContractCaller()
	if err != nil {
		return nil, fmt.Errorf("failed to get Ethereum contract caller: %w", err)
	}

	a, err := app.New(c.Context, &app.Options{Config: cfg, Backend: backend, Prompt: prompt}, l)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, app: a, logger: l}
	s.startPoller = func(ctx context.Context) error {
		// the poller only delivers blocks; no contract logs are parsed
		cs := inMemoryContractStore.NewInMemoryContractStore(nil, l)
		logParser := transactionLogParser.NewTransactionLogParser(cs, l)
		pollerStore := memory.NewInMemoryChainPollerPersistence()

		poller, err := EVMChainPoller.NewEVMChainPoller(
			ethClient,
			logParser,
			&EVMChainPoller.EVMChainPollerConfig{
				ChainId: chainIndexerConfig.ChainId(cfg.ChainID),
			},
			pollerStore, a.BlockHandler, l)
		if err != nil {
			return fmt.Errorf("failed to create EVM chain poller: %w", err)
		}
		return poller.Start(ctx)
	}
	return s, nil
}

func (s *session) close() {
	if err := s.app.Close(); err != nil {
		s.logger.Sugar().Warnw("Failed to close application", "error", err)
	}
	_ = s.logger.Sync()
}

func (s *session) account() (common.Address, error) {
	acct := s.app.Account()
	if acct == nil {
		return common.Address{}, errors.New("no account: set --private-key, --web3signer-url or --account")
	}
	return *acct, nil
}

func (s *session) txLink(hash common.Hash) string {
	if link := s.cfg.Chain.ExplorerLink(hash.Hex(), config.ExplorerLink_Transaction); link != "" {
		return link
	}
	return hash.Hex()
}

func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// stdinPrompt shows the transaction and asks for a y/N answer.
func stdinPrompt(ctx context.Context, tx *ethTypes.Transaction) (bool, error) {
	to := "<contract creation>"
	if tx.To() != nil {
		to = tx.To().Hex()
	}
	fmt.Printf("About to sign a transaction\n")
	fmt.Printf("  to:        %s\n", to)
	fmt.Printf("  gas limit: %d\n", tx.Gas())
	fmt.Printf("  gas price: %s wei\n", tx.GasPrice().String())
	fmt.Printf("Send it? [y/N]: ")

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer <- strings.ToLower(strings.TrimSpace(line))
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-answer:
		return a == "y" || a == "yes", nil
	}
}

func runEligibility(c *cli.Context) error {
	s, err := openSession(c, nil)
	if err != nil {
		return err
	}
	defer s.close()

	account, err := s.account()
	if err != nil {
		return err
	}
	if err := s.app.Start(c.Context); err != nil {
		return err
	}

	res, err := s.app.Resolver.Await(c.Context)
	if err != nil {
		return fmt.Errorf("eligibility lookup failed: %w", err)
	}
	if res == nil || res.Result == nil || !res.Result.IsWhitelisted {
		fmt.Printf("%s is not eligible for the airdrop\n", account.Hex())
		return nil
	}

	fmt.Printf("%s is eligible\n", account.Hex())
	fmt.Printf("  amount: %s %s\n",
		amount.Format(res.Result.Amount, int32(s.cfg.Token.Decimals), 6), s.cfg.Token.Symbol)
	fmt.Printf("  index:  %d\n", res.Proof.Index)

	if c.Bool("verify") {
		ok, err := s.app.VerifyProof(c.Context, res.Proof)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("proof does not match the published merkle root")
		}
		fmt.Println("  proof matches the published merkle root")
	}
	return nil
}

func runClaim(c *cli.Context) error {
	var prompt transactionSigner.PromptFunc
	if !c.Bool("yes") {
		prompt = stdinPrompt
	}

	s, err := openSession(c, prompt)
	if err != nil {
		return err
	}
	defer s.close()

	if s.app.Signer == nil {
		return errors.New("claim needs a signer: set --private-key or --web3signer-url")
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	if err := s.app.Start(ctx); err != nil {
		return err
	}
	if _, err := s.app.Resolver.Await(ctx); err != nil {
		s.logger.Sugar().Warnw("Eligibility lookup failed", "error", err)
	}

	state, err := s.app.Claims.Claim(ctx)
	switch {
	case errors.Is(err, airdrop.ErrAlreadyClaimed):
		fmt.Println("The airdrop was already claimed for this account")
		return nil
	case errors.Is(err, airdrop.ErrClaimInProgress) && state != nil:
		fmt.Printf("A claim is already in flight: %s\n", s.txLink(state.TxHash))
		return nil
	case err != nil:
		return err
	}

	fmt.Printf("Claim submitted: %s\n", s.txLink(state.TxHash))
	if !c.Bool("wait") {
		return nil
	}

	if err := s.startPoller(ctx); err != nil {
		return err
	}
	fmt.Println("Waiting for the transaction to settle...")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			state = s.app.Claims.State(state.Account)
			switch state.Status {
			case types.ClaimStatus_Confirmed:
				fmt.Println("Claim confirmed")
				return nil
			case types.ClaimStatus_Failed:
				return fmt.Errorf("claim failed: %s", state.Reason)
			}
		}
	}
}

func runStatus(c *cli.Context) error {
	s, err := openSession(c, nil)
	if err != nil {
		return err
	}
	defer s.close()

	account, err := s.account()
	if err != nil {
		return err
	}

	state, err := s.app.Claims.Status(c.Context, account)
	if err != nil {
		s.logger.Sugar().Warnw("Showing local claim state only", "error", err)
	}
	if state == nil {
		return fmt.Errorf("claim status unavailable: %w", err)
	}

	fmt.Printf("%s: %s\n", account.Hex(), state.Status)
	if state.TxHash != (common.Hash{}) {
		fmt.Printf("  transaction: %s\n", s.txLink(state.TxHash))
	}
	if state.Reason != "" {
		fmt.Printf("  reason: %s\n", state.Reason)
	}
	return nil
}

func runSupply(c *cli.Context) error {
	s, err := openSession(c, nil)
	if err != nil {
		return err
	}
	defer s.close()

	token, supply, err := s.app.AirdropTokenSupply(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("%s total supply: %s %s\n",
		token.Hex(), amount.Format(supply, int32(s.cfg.Token.Decimals), 6), s.cfg.Token.Symbol)
	return nil
}

func runServe(c *cli.Context) error {
	s, err := openSession(c, nil)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := signalContext(c)
	defer cancel()

	if err := s.app.Start(ctx); err != nil {
		return err
	}
	if err := s.startPoller(ctx); err != nil {
		return err
	}
	go s.app.RunRefresh(ctx)

	srv := server.NewServer(s.app.Resolver, s.app.Claims, s.app.HomeList, s.app.Tracker, s.cfg.Token, s.cfg.Port, s.logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	s.logger.Sugar().Infow("Airdrop claimer running", "port", s.cfg.Port, "chain", s.cfg.Chain.Name)
	s.logger.Sugar().Infow("Available endpoints",
		"eligibility", "GET /eligibility?account=",
		"claim", "POST /claim",
		"status", "GET /claim/status?account=",
		"daos", "GET /daos",
		"transactions", "GET /transactions")

	<-ctx.Done()
	s.logger.Sugar().Info("Shutting down")
	return nil
}

func runDaos(c *cli.Context) error {
	s, err := openSession(c, nil)
	if err != nil {
		return err
	}
	defer s.close()

	var account string
	if acct := s.app.Account(); acct != nil {
		account = acct.Hex()
	}

	switch {
	case c.Bool("joined"):
		daos, err := daolist.JoinedDaos(c.Context, s.app.DaoServer, account, s.logger)
		if err != nil {
			return err
		}
		return printJSON(daos)
	case c.Bool("tokens"):
		if account == "" {
			return errors.New("token list needs --account")
		}
		if err := s.app.Tokens.SetOwner(c.Context, account, s.cfg.ChainID); err != nil {
			return err
		}
		if page := c.Int("page"); page > 1 {
			if err := s.app.Tokens.SetPage(c.Context, page); err != nil {
				return err
			}
		}
		return printJSON(s.app.Tokens.View())
	}

	if account != "" {
		if err := s.app.HomeList.SetAccount(c.Context, account); err != nil {
			return err
		}
	}
	if err := s.app.HomeList.Apply(c.Context, c.String("keyword"), c.String("category"), c.Int("page")); err != nil {
		return err
	}
	return printJSON(s.app.HomeList.View())
}

func parseBig(name, raw string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok {
		return nil, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}
