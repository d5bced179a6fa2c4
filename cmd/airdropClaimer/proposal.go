package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/amount"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/contractCaller"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/governance"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/urfave/cli/v2"
)

func daoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "dao", Usage: "DAO contract address", Required: true},
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Sign without asking for confirmation"},
	}
}

// verifierFlags describe the backend-issued balance attestation governance
// calls carry.
func verifierFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "token", Usage: "Governance token address the balance was attested for", Required: true},
		&cli.StringFlag{Name: "balance", Usage: "Attested balance in token base units", Required: true},
		&cli.StringFlag{Name: "signature", Usage: "Hex attestation signature", Required: true},
	}
}

func proposalCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create",
			Usage: "Create a proposal",
			Flags: append(append(daoFlags(), verifierFlags()...),
				&cli.StringFlag{Name: "title", Required: true},
				&cli.StringFlag{Name: "introduction"},
				&cli.StringFlag{Name: "content", Usage: "Proposal body"},
				&cli.StringFlag{Name: "content-file", Usage: "Read the proposal body from a file"},
				&cli.Int64Flag{Name: "start", Usage: "Voting start, unix seconds", Required: true},
				&cli.Int64Flag{Name: "end", Usage: "Voting end, unix seconds", Required: true},
				&cli.UintFlag{Name: "voting-type", Usage: "0 for single choice, 1 for multiple"},
				&cli.StringSliceFlag{Name: "option", Usage: "Voting option; repeat per option", Required: true},
			),
			Action: runCreateProposal,
		},
		{
			Name:   "cancel",
			Usage:  "Cancel a proposal",
			Flags:  append(daoFlags(), &cli.StringFlag{Name: "id", Usage: "Proposal id", Required: true}),
			Action: runCancelProposal,
		},
		{
			Name:  "vote",
			Usage: "Vote on a proposal",
			Flags: append(append(daoFlags(), verifierFlags()...),
				&cli.StringFlag{Name: "id", Usage: "Proposal id", Required: true},
				&cli.StringSliceFlag{Name: "option", Usage: "Option index; repeat per option", Required: true},
				&cli.StringSliceFlag{Name: "amount", Usage: "Votes for the matching option, in whole tokens", Required: true},
				&cli.UintFlag{Name: "decimals", Value: 18, Usage: "Governance token decimals"},
			),
			Action: runVote,
		},
		{
			Name:  "count",
			Usage: "Show how many proposals a DAO has",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "dao", Usage: "DAO contract address", Required: true},
			},
			Action: runProposalCount,
		},
	}
}

func daoAddress(c *cli.Context) (common.Address, error) {
	raw := c.String("dao")
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("invalid dao address %q", raw)
	}
	return common.HexToAddress(raw), nil
}

func verifierInfo(c *cli.Context, s *session, signType governance.SignType) (contractCaller.VerifyInfo, []byte, error) {
	if !common.IsHexAddress(c.String("token")) {
		return contractCaller.VerifyInfo{}, nil, fmt.Errorf("invalid token address %q", c.String("token"))
	}
	balance, err := parseBig("balance", c.String("balance"))
	if err != nil {
		return contractCaller.VerifyInfo{}, nil, err
	}
	signature, err := hexutil.Decode(c.String("signature"))
	if err != nil {
		return contractCaller.VerifyInfo{}, nil, fmt.Errorf("invalid signature: %w", err)
	}
	return contractCaller.VerifyInfo{
		ChainId:      new(big.Int).SetUint64(uint64(s.cfg.ChainID)),
		TokenAddress: common.HexToAddress(c.String("token")),
		Balance:      balance,
		SignType:     uint8(signType),
	}, signature, nil
}

func openSigningSession(c *cli.Context) (*session, error) {
	prompt := stdinPrompt
	if c.Bool("yes") {
		prompt = nil
	}
	s, err := openSession(c, prompt)
	if err != nil {
		return nil, err
	}
	if s.app.Signer == nil {
		s.close()
		return nil, fmt.Errorf("%s needs a signer: set --private-key or --web3signer-url", c.Command.Name)
	}
	return s, nil
}

func (s *session) reportSubmitted(what string, tx *ethTypes.Transaction) {
	fmt.Printf("%s submitted: %s\n", what, s.txLink(tx.Hash()))
}

func runCreateProposal(c *cli.Context) error {
	dao, err := daoAddress(c)
	if err != nil {
		return err
	}

	content := c.String("content")
	if path := c.String("content-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read content file: %w", err)
		}
		content = string(data)
	}

	s, err := openSigningSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	verifier, signature, err := verifierInfo(c, s, governance.SignType_CreateProposal)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	tx, err := s.app.Governance.CreateProposal(ctx, dao, &governance.Proposal{
		Title:        c.String("title"),
		Introduction: c.String("introduction"),
		Content:      content,
		StartTime:    c.Int64("start"),
		EndTime:      c.Int64("end"),
		VotingType:   uint8(c.Uint("voting-type")),
		Options:      c.StringSlice("option"),
	}, verifier, signature)
	if err != nil {
		return err
	}
	s.reportSubmitted("Proposal", tx)
	return nil
}

func runCancelProposal(c *cli.Context) error {
	dao, err := daoAddress(c)
	if err != nil {
		return err
	}
	id, err := parseBig("id", c.String("id"))
	if err != nil {
		return err
	}

	s, err := openSigningSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := signalContext(c)
	defer cancel()

	tx, err := s.app.Governance.CancelProposal(ctx, dao, id)
	if err != nil {
		return err
	}
	s.reportSubmitted("Cancellation", tx)
	return nil
}

func runVote(c *cli.Context) error {
	dao, err := daoAddress(c)
	if err != nil {
		return err
	}
	id, err := parseBig("id", c.String("id"))
	if err != nil {
		return err
	}

	options := c.StringSlice("option")
	amounts := c.StringSlice("amount")
	if len(options) != len(amounts) {
		return fmt.Errorf("got %d options and %d amounts", len(options), len(amounts))
	}

	indexes := make([]*big.Int, len(options))
	units := make([]*big.Int, len(amounts))
	for i := range options {
		if indexes[i], err = parseBig("option", options[i]); err != nil {
			return err
		}
		if units[i], err = amount.ParseUnits(amounts[i], int32(c.Uint("decimals"))); err != nil {
			return fmt.Errorf("invalid amount %q: %w", amounts[i], err)
		}
	}

	s, err := openSigningSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	verifier, signature, err := verifierInfo(c, s, governance.SignType_Vote)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	tx, err := s.app.Governance.Vote(ctx, dao, id, indexes, units, verifier, signature)
	if err != nil {
		return err
	}
	s.reportSubmitted("Vote", tx)
	return nil
}

func runProposalCount(c *cli.Context) error {
	dao, err := daoAddress(c)
	if err != nil {
		return err
	}

	s, err := openSession(c, nil)
	if err != nil {
		return err
	}
	defer s.close()

	count, err := s.app.Governance.ProposalCount(c.Context, dao)
	if err != nil {
		return err
	}
	fmt.Printf("%s has %s proposals\n", dao.Hex(), count.String())
	return nil
}
