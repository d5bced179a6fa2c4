package daolist

import (
	"context"
	"sync"
	"time"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/clients/daoServer"
	"go.uber.org/zap"
)

// HomeView is a snapshot of the home DAO list.
type HomeView struct {
	Keyword  string                  `json:"keyword"`
	Category string                  `json:"category"`
	Page     Page                    `json:"page"`
	Result   []*daoServer.DaoSummary `json:"result"`
	Loading  bool                    `json:"loading"`
}

// HomeList is the paged, filtered DAO list shown on the home page. Changing a
// filter returns to the first page.
type HomeList struct {
	backend Backend
	logger  *zap.Logger

	mu       sync.RWMutex
	account  string
	keyword  string
	category string
	current  int
	total    int
	result   []*daoServer.DaoSummary
	loading  bool
}

func NewHomeList(backend Backend, logger *zap.Logger) *HomeList {
	return &HomeList{
		backend: backend,
		logger:  logger,
		current: 1,
		result:  []*daoServer.DaoSummary{},
	}
}

func (h *HomeList) query() (daoServer.HomeDaoListQuery, int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return daoServer.HomeDaoListQuery{
		Account:  h.account,
		Category: h.category,
		Keyword:  h.keyword,
	}, h.current
}

// Load fetches the current page. A failure clears the list.
func (h *HomeList) Load(ctx context.Context) error {
	q, current := h.query()

	h.mu.Lock()
	h.loading = true
	h.mu.Unlock()

	page, err := h.backend.GetHomeDaoList(ctx, q, offset(current, HomePageSize), HomePageSize)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = false

	if err != nil {
		h.logger.Sugar().Warnw("Failed to load home DAO list", "page", current, "error", err)
		h.result = []*daoServer.DaoSummary{}
		h.total = 0
		return err
	}
	h.result = page.List
	h.total = page.Total
	return nil
}

// Refresh re-reads the current page in the background. Unlike Load, a failure
// keeps the last good page.
func (h *HomeList) Refresh(ctx context.Context) error {
	q, current := h.query()

	page, err := h.backend.GetHomeDaoList(ctx, q, offset(current, HomePageSize), HomePageSize)
	if err != nil {
		h.logger.Sugar().Debugw("Home DAO list refresh failed", "page", current, "error", err)
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	// the view moved on while the refresh was in flight
	if h.current != current || h.keyword != q.Keyword || h.category != q.Category || h.account != q.Account {
		return nil
	}
	h.result = page.List
	h.total = page.Total
	return nil
}

// Run refreshes every interval until ctx is done.
func (h *HomeList) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = RefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = h.Refresh(ctx)
		}
	}
}

func (h *HomeList) SetAccount(ctx context.Context, account string) error {
	h.mu.Lock()
	h.account = account
	h.mu.Unlock()
	return h.Load(ctx)
}

func (h *HomeList) SetKeyword(ctx context.Context, keyword string) error {
	h.mu.Lock()
	if h.keyword != keyword {
		h.keyword = keyword
		h.current = 1
	}
	h.mu.Unlock()
	return h.Load(ctx)
}

func (h *HomeList) SetCategory(ctx context.Context, category string) error {
	h.mu.Lock()
	if h.category != category {
		h.category = category
		h.current = 1
	}
	h.mu.Unlock()
	return h.Load(ctx)
}

func (h *HomeList) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	h.mu.Lock()
	h.current = page
	h.mu.Unlock()
	return h.Load(ctx)
}

// Apply sets both filters and the page, then loads once. A changed filter wins
// over page and returns to the first page; page 0 keeps the current page.
func (h *HomeList) Apply(ctx context.Context, keyword, category string, page int) error {
	h.mu.Lock()
	if page > 0 {
		h.current = page
	}
	if h.keyword != keyword || h.category != category {
		h.keyword = keyword
		h.category = category
		h.current = 1
	}
	h.mu.Unlock()
	return h.Load(ctx)
}

func (h *HomeList) View() *HomeView {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]*daoServer.DaoSummary, len(h.result))
	copy(result, h.result)
	return &HomeView{
		Keyword:  h.keyword,
		Category: h.category,
		Page:     newPage(h.current, h.total, HomePageSize),
		Result:   result,
		Loading:  h.loading,
	}
}
