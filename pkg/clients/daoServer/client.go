// Package daoServer is the REST client for the DAO backend: airdrop proofs,
// diagnostics intake, proposal content storage and the DAO/token listings.
package daoServer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/config"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-retryablehttp"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	pathProof           = "/airdrop/proof"
	pathErrorCommit     = "/error/commit"
	pathProposalContent = "/proposal/content"
	pathHomeDaoList     = "/dao/list"
	pathJoinedDao       = "/dao/joined"
	pathDaoInfo         = "/dao/info"
	pathDaoAdmins       = "/dao/admins"
	pathDaoJoin         = "/dao/join"
	pathTokenList       = "/token/list"
)

var ErrInvalidRequest = errors.New("invalid request")

type Config struct {
	BaseURL        string
	MaxRetries     int
	RetryDelay     time.Duration
	Timeout        time.Duration
	ProofCacheSize int
}

func DefaultConfig(baseURL string) *Config {
	return &Config{
		BaseURL:        baseURL,
		MaxRetries:     3,
		RetryDelay:     500 * time.Millisecond,
		Timeout:        15 * time.Second,
		ProofCacheSize: 1024,
	}
}

type Client struct {
	baseURL    *url.URL
	client     *retryablehttp.Client
	proofCache *lru.Cache[common.Address, *types.MerkleProof]
	logger     *zap.Logger
}

// A wrapper around zap.Logger to make it compatible with
// retryablehttp.LeveledLogger interface.
type retryableHttpLogger struct {
	inner *zap.Logger
}

func (r retryableHttpLogger) Error(format string, args ...any) {
	r.inner.Sugar().Errorw(format, args...)
}

func (r retryableHttpLogger) Info(format string, args ...any) {
	r.inner.Sugar().Infow(format, args...)
}

func (r retryableHttpLogger) Warn(format string, args ...any) {
	r.inner.Sugar().Warnw(format, args...)
}

func (r retryableHttpLogger) Debug(format string, args ...any) {
	r.inner.Sugar().Debugw(format, args...)
}

func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", cfg.BaseURL)
	}

	cacheSize := cfg.ProofCacheSize
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New[common.Address, *types.MerkleProof](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating proof cache: %w", err)
	}

	client := &retryablehttp.Client{
		HTTPClient:   &http.Client{Timeout: cfg.Timeout},
		RetryMax:     cfg.MaxRetries,
		RetryWaitMin: cfg.RetryDelay,
		RetryWaitMax: 2 * cfg.RetryDelay,
		Backoff:      retryablehttp.LinearJitterBackoff,
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Logger:       &retryableHttpLogger{inner: logger},
		ResponseLogHook: func(_ retryablehttp.Logger, resp *http.Response) {
			logger.Debug("dao server response received",
				zap.Stringer("url", resp.Request.URL),
				zap.Int("status", resp.StatusCode),
			)
		},
	}

	return &Client{
		baseURL:    baseURL,
		client:     client,
		proofCache: cache,
		logger:     logger,
	}, nil
}

// req performs one JSON request and decodes the envelope. It returns
// (false, nil) when the backend answered with null data.
func (c *Client) req(ctx context.Context, method, path string, query url.Values, reqBody, resData interface{}) (bool, error) {
	var body interface{}
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return false, fmt.Errorf("marshaling request body: %w", err)
		}
		body = data
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return false, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("doing request: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return false, fmt.Errorf("reading response body: %w", err)
	}

	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
	case res.StatusCode == http.StatusBadRequest:
		return false, fmt.Errorf("%w: response status code: %s, body: %s", ErrInvalidRequest, res.Status, string(data))
	default:
		return false, fmt.Errorf("unrecognized error: status code: %s, body: %s", res.Status, string(data))
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false, fmt.Errorf("decoding response envelope: %w", err)
	}
	if !env.hasData() {
		return false, nil
	}
	if resData != nil {
		if err := json.Unmarshal(env.Data, resData); err != nil {
			return false, fmt.Errorf("decoding response data: %w", err)
		}
	}
	return true, nil
}

// GetProof returns the allow-list proof for account, or nil when the account has
// no record. Found proofs are cached since a published tree never changes.
func (c *Client) GetProof(ctx context.Context, account common.Address) (*types.MerkleProof, error) {
	if cached, ok := c.proofCache.Get(account); ok {
		return cached, nil
	}

	query := url.Values{}
	query.Set("account", account.Hex())

	var res types.ProofResponse
	found, err := c.req(ctx, http.MethodGet, pathProof, query, nil, &res)
	if err != nil {
		return nil, fmt.Errorf("fetching proof for %s: %w", account.Hex(), err)
	}
	if !found {
		return nil, nil
	}

	proof, err := res.ToMerkleProof(account)
	if err != nil {
		return nil, fmt.Errorf("decoding proof for %s: %w", account.Hex(), err)
	}

	c.proofCache.Add(account, proof)
	return proof, nil
}

func (c *Client) CommitErrorMsg(ctx context.Context, report *ErrorReport) error {
	if report == nil {
		return fmt.Errorf("%w: nil error report", ErrInvalidRequest)
	}
	_, err := c.req(ctx, http.MethodPost, pathErrorCommit, nil, report, nil)
	return err
}

// SaveProposalContent stores long-form proposal text and returns the uuid the
// contract stores as the content tag.
func (c *Client) SaveProposalContent(ctx context.Context, content string) (string, error) {
	var res proposalContentResponse
	found, err := c.req(ctx, http.MethodPost, pathProposalContent, nil, &proposalContentRequest{Content: content}, &res)
	if err != nil {
		return "", err
	}
	if !found || res.UUID == "" {
		return "", fmt.Errorf("proposal content response carried no uuid")
	}
	return res.UUID, nil
}

func pageQuery(offset, count int) url.Values {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("count", strconv.Itoa(count))
	return query
}

// GetHomeDaoList returns an empty page when the backend has no data.
func (c *Client) GetHomeDaoList(ctx context.Context, q HomeDaoListQuery, offset, count int) (*DaoPage, error) {
	query := pageQuery(offset, count)
	query.Set("account", q.Account)
	query.Set("category", q.Category)
	query.Set("keyword", q.Keyword)

	page := &DaoPage{}
	found, err := c.req(ctx, http.MethodGet, pathHomeDaoList, query, nil, page)
	if err != nil {
		return nil, err
	}
	if !found {
		return &DaoPage{List: []*DaoSummary{}}, nil
	}
	return page, nil
}

func (c *Client) GetMyJoinedDao(ctx context.Context, account string) ([]*JoinedDao, error) {
	query := url.Values{}
	query.Set("account", account)

	var list []*JoinedDao
	found, err := c.req(ctx, http.MethodGet, pathJoinedDao, query, nil, &list)
	if err != nil {
		return nil, err
	}
	if !found {
		return []*JoinedDao{}, nil
	}
	return list, nil
}

func (c *Client) GetDaoInfo(ctx context.Context, account, daoAddress string, chainId config.ChainId) (*DaoInfo, error) {
	query := url.Values{}
	query.Set("account", account)
	query.Set("daoAddress", daoAddress)
	query.Set("chainId", strconv.FormatUint(uint64(chainId), 10))

	info := &DaoInfo{}
	found, err := c.req(ctx, http.MethodGet, pathDaoInfo, query, nil, info)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no info for dao %s on chain %d", daoAddress, chainId)
	}
	return info, nil
}

// GetDaoAdmins returns the admin accounts of a DAO.
func (c *Client) GetDaoAdmins(ctx context.Context, daoAddress string, chainId config.ChainId) ([]string, error) {
	query := url.Values{}
	query.Set("daoAddress", daoAddress)
	query.Set("chainId", strconv.FormatUint(uint64(chainId), 10))

	var admins []*daoAdmin
	if _, err := c.req(ctx, http.MethodGet, pathDaoAdmins, query, nil, &admins); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(admins))
	for _, a := range admins {
		out = append(out, a.Account)
	}
	return out, nil
}

func (c *Client) GetTokenList(ctx context.Context, chainId config.ChainId, account string, offset, count int) (*TokenPage, error) {
	query := pageQuery(offset, count)
	query.Set("account", account)
	if chainId != 0 {
		query.Set("chainId", strconv.FormatUint(uint64(chainId), 10))
	}

	page := &TokenPage{}
	found, err := c.req(ctx, http.MethodGet, pathTokenList, query, nil, page)
	if err != nil {
		return nil, err
	}
	if !found {
		return &TokenPage{List: []*TokenEntry{}}, nil
	}
	return page, nil
}

func (c *Client) SwitchJoinDao(ctx context.Context, r *SwitchJoinRequest) error {
	if r == nil || strings.TrimSpace(r.Account) == "" || strings.TrimSpace(r.Signature) == "" {
		return fmt.Errorf("%w: account and signature are required", ErrInvalidRequest)
	}
	_, err := c.req(ctx, http.MethodPost, pathDaoJoin, nil, r, nil)
	return err
}
