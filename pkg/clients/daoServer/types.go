package daoServer

import (
	"encoding/json"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/config"
)

// envelope is the backend's standard response wrapper. Data is null when the
// requested record does not exist.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (e *envelope) hasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// ErrorReport is a diagnostics entry committed to the backend.
type ErrorReport struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Func    string `json:"func"`
	Params  string `json:"params"`
}

type proposalContentRequest struct {
	Content string `json:"content"`
}

type proposalContentResponse struct {
	UUID string `json:"uuid"`
}

// HomeDaoListQuery filters the home DAO list.
type HomeDaoListQuery struct {
	Account  string
	Category string
	Keyword  string
}

// DaoSummary is one row of the home DAO list.
type DaoSummary struct {
	DaoName         string         `json:"daoName"`
	DaoLogo         string         `json:"daoLogo"`
	DaoAddress      string         `json:"daoAddress"`
	ChainId         config.ChainId `json:"chainId"`
	TotalProposals  int            `json:"totalProposals"`
	ActiveProposals int            `json:"activeProposals"`
	SoonProposals   int            `json:"soonProposals"`
	Members         int            `json:"members"`
	JoinSwitch      bool           `json:"joinSwitch"`
}

type DaoPage struct {
	Total int           `json:"total"`
	List  []*DaoSummary `json:"list"`
}

type JoinedDao struct {
	ChainId    config.ChainId `json:"chainId"`
	DaoName    string         `json:"daoName"`
	DaoAddress string         `json:"daoAddress"`
}

type DaoInfo struct {
	JoinSwitch bool `json:"joinSwitch"`
	Members    int  `json:"members"`
}

type daoAdmin struct {
	Account string `json:"account"`
}

type TokenEntry struct {
	ChainId      config.ChainId `json:"chainId"`
	TokenAddress string         `json:"tokenAddress"`
}

type TokenPage struct {
	Total int           `json:"total"`
	List  []*TokenEntry `json:"list"`
}

// SwitchJoinRequest joins (Join=true) or leaves a DAO on behalf of Account.
type SwitchJoinRequest struct {
	Account    string         `json:"account"`
	ChainId    config.ChainId `json:"chainId"`
	DaoAddress string         `json:"daoAddress"`
	Join       bool           `json:"join"`
	Signature  string         `json:"signature"`
}
