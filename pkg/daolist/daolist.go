// Package daolist keeps paged views over the backend's DAO and token listings.
package daolist

import (
	"context"
	"time"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/clients/daoServer"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/config"
	"go.uber.org/zap"
)

const (
	HomePageSize    = 8
	TokenPageSize   = 10
	RefreshInterval = 15 * time.Second
)

// Backend is satisfied by *daoServer.Client.
type Backend interface {
	GetHomeDaoList(ctx context.Context, q daoServer.HomeDaoListQuery, offset, count int) (*daoServer.DaoPage, error)
	GetMyJoinedDao(ctx context.Context, account string) ([]*daoServer.JoinedDao, error)
	GetDaoInfo(ctx context.Context, account, daoAddress string, chainId config.ChainId) (*daoServer.DaoInfo, error)
	GetDaoAdmins(ctx context.Context, daoAddress string, chainId config.ChainId) ([]string, error)
	GetTokenList(ctx context.Context, chainId config.ChainId, account string, offset, count int) (*daoServer.TokenPage, error)
	SwitchJoinDao(ctx context.Context, r *daoServer.SwitchJoinRequest) error
}

type Page struct {
	Current   int `json:"currentPage"`
	Total     int `json:"total"`
	TotalPage int `json:"totalPage"`
	PageSize  int `json:"pageSize"`
}

func newPage(current, total, size int) Page {
	return Page{
		Current:   current,
		Total:     total,
		TotalPage: (total + size - 1) / size,
		PageSize:  size,
	}
}

func offset(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}

// JoinedDaos lists the DAOs account has joined. No account yields an empty list
// without a backend call; a failed lookup also yields an empty list.
func JoinedDaos(ctx context.Context, backend Backend, account string, logger *zap.Logger) ([]*daoServer.JoinedDao, error) {
	if account == "" {
		return []*daoServer.JoinedDao{}, nil
	}
	list, err := backend.GetMyJoinedDao(ctx, account)
	if err != nil {
		logger.Sugar().Warnw("Failed to load joined DAOs", "account", account, "error", err)
		return []*daoServer.JoinedDao{}, err
	}
	return list, nil
}

// DaoInfo reads the join switch and member count of a DAO as seen by account.
func DaoInfo(ctx context.Context, backend Backend, account, daoAddress string, chainId config.ChainId) (*daoServer.DaoInfo, error) {
	return backend.GetDaoInfo(ctx, account, daoAddress, chainId)
}

// DaoAdmins lists the admins of a DAO followed by extra.
func DaoAdmins(ctx context.Context, backend Backend, daoAddress string, chainId config.ChainId, extra ...string) ([]string, error) {
	admins, err := backend.GetDaoAdmins(ctx, daoAddress, chainId)
	if err != nil {
		return nil, err
	}
	return append(admins, extra...), nil
}
