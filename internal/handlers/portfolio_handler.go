package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "folio/internal/errors"
	"folio/internal/ledger"
	"folio/internal/models"
	"folio/internal/pagination"
	"folio/internal/services"
)

// PortfolioHandler handles portfolio requests for the authenticated user.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
	userService      services.UserServicer
	auditService     services.AuditServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer, userService services.UserServicer, auditService services.AuditServicer) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		userService:      userService,
		auditService:     auditService,
	}
}

// BuyRequest represents the request payload for buying shares.
type BuyRequest struct {
	Ticker       string           `json:"ticker" binding:"required,ticker"`
	Name         string           `json:"name" binding:"max=200"`
	Shares       decimal.Decimal  `json:"shares" binding:"gt=0"`
	Price        decimal.Decimal  `json:"price" binding:"gte=0"`
	TargetWeight *decimal.Decimal `json:"targetWeight" binding:"omitempty,gte=0,lte=1"`
	UseCash      bool             `json:"useCash"`
	Date         *time.Time       `json:"date"`
}

// SellRequest represents the request payload for selling shares.
type SellRequest struct {
	Ticker  string          `json:"ticker" binding:"required,ticker"`
	Shares  decimal.Decimal `json:"shares" binding:"gt=0"`
	Price   decimal.Decimal `json:"price" binding:"gte=0"`
	UseCash bool            `json:"useCash"`
}

// TickerRequest names a single ticker.
type TickerRequest struct {
	Ticker string `json:"ticker" binding:"required,ticker"`
}

// AllocationRequest replaces every holding at once.
type AllocationRequest struct {
	Stocks []AllocationEntry `json:"stocks" binding:"required,dive"`
}

// AllocationEntry is one holding in an AllocationRequest.
type AllocationEntry struct {
	Ticker        string           `json:"ticker" binding:"required,ticker"`
	Name          string           `json:"name" binding:"max=200"`
	Shares        decimal.Decimal  `json:"shares" binding:"gte=0"`
	Price         decimal.Decimal  `json:"price" binding:"gte=0"`
	CostBasis     decimal.Decimal  `json:"costBasis" binding:"gte=0"`
	CurrentWeight decimal.Decimal  `json:"currentWeight" binding:"gte=0,lte=1"`
	TargetWeight  *decimal.Decimal `json:"targetWeight" binding:"omitempty,gte=0,lte=1"`
	Date          *time.Time       `json:"date"`
}

// CashRequest adjusts the cash balance by a signed amount.
type CashRequest struct {
	Cash *decimal.Decimal `json:"cash" binding:"required"`
}

// PriceResponse carries a single quote.
type PriceResponse struct {
	LatestPrice decimal.Decimal `json:"latestPrice"`
}

// GetPortfolio returns the stored snapshot.
// @Summary     Get portfolio
// @Description Get the authenticated user's cash and positions
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Assets "Portfolio"
// @Failure     401 {object} ErrorResponse "Invalid token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio [get]
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assets, err := h.portfolioService.GetPortfolio(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, assets)
}

// Buy handles buying shares.
// @Summary     Buy shares
// @Description Add shares to a position, averaging the cost basis into an existing one
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BuyRequest true "Order"
// @Success     200 {object} models.Assets "Updated portfolio"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient cash"
// @Failure     401 {object} ErrorResponse "Invalid token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/asset [post]
func (h *PortfolioHandler) Buy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BuyRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	ticker := strings.ToUpper(req.Ticker)

	assets, err := h.portfolioService.Buy(c.Request.Context(), userID, ledger.Purchase{
		Ticker:       ticker,
		Name:         req.Name,
		Shares:       req.Shares,
		Price:        req.Price,
		TargetWeight: req.TargetWeight,
		UseCash:      req.UseCash,
		Date:         req.Date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionBuy, "position", ticker, c.ClientIP(),
		map[string]interface{}{"shares": req.Shares, "price": req.Price, "use_cash": req.UseCash})

	c.JSON(http.StatusOK, assets)
}

// Sell handles selling shares.
// @Summary     Sell shares
// @Description Remove shares from a position; a position sold to zero is dropped
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SellRequest true "Order"
// @Success     200 {object} models.Assets "Updated portfolio"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Not owned, insufficient shares or invalid token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/sell [post]
func (h *PortfolioHandler) Sell(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SellRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	ticker := strings.ToUpper(req.Ticker)

	assets, err := h.portfolioService.Sell(c.Request.Context(), userID, ledger.SaleOrder{
		Ticker:  ticker,
		Shares:  req.Shares,
		Price:   req.Price,
		UseCash: req.UseCash,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionSell, "position", ticker, c.ClientIP(),
		map[string]interface{}{"shares": req.Shares, "price": req.Price, "use_cash": req.UseCash})

	c.JSON(http.StatusOK, assets)
}

// Reprice refreshes every position's price.
// @Summary     Reprice portfolio
// @Description Fetch the latest quote for every holding and recompute weights
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Assets "Repriced portfolio"
// @Failure     401 {object} ErrorResponse "Provider failure or invalid token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/update [post]
func (h *PortfolioHandler) Reprice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assets, err := h.portfolioService.Reprice(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionReprice, "portfolio", userID, c.ClientIP(),
		map[string]interface{}{"positions": len(assets.Stocks)})

	c.JSON(http.StatusOK, assets)
}

// Chart returns the price history of a held ticker.
// @Summary     Position chart
// @Description Daily closes for a held ticker, served from cache while fresh
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TickerRequest true "Ticker"
// @Success     200 {array}  models.ChartPoint "Chart"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Provider failure or invalid token"
// @Failure     404 {object} ErrorResponse "Ticker not held"
// @Router      /portfolio/chart [post]
func (h *PortfolioHandler) Chart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TickerRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	chart, err := h.portfolioService.Chart(c.Request.Context(), userID, strings.ToUpper(req.Ticker))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, chart)
}

// ReplaceAllocations swaps all holdings.
// @Summary     Replace holdings
// @Description Replace every position at once, for example after a rebalance
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AllocationRequest true "Holdings"
// @Success     200 {object} models.Assets "Updated portfolio"
// @Failure     400 {object} ErrorResponse "Missing stocks or duplicate ticker"
// @Failure     401 {object} ErrorResponse "Invalid token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/allocation [post]
func (h *PortfolioHandler) ReplaceAllocations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AllocationRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	holdings := make([]models.Position, len(req.Stocks))
	for i, s := range req.Stocks {
		holdings[i] = models.Position{
			Ticker:        strings.ToUpper(s.Ticker),
			Name:          s.Name,
			Shares:        s.Shares,
			Price:         s.Price,
			CostBasis:     s.CostBasis,
			CurrentWeight: s.CurrentWeight,
			TargetWeight:  s.TargetWeight,
			Date:          s.Date,
		}
	}

	assets, err := h.portfolioService.ReplaceAllocations(c.Request.Context(), userID, holdings)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionReplaceAllocations, "portfolio", userID, c.ClientIP(),
		map[string]interface{}{"positions": len(assets.Stocks)})

	c.JSON(http.StatusOK, assets)
}

// AdjustCash adds a signed amount to the cash balance.
// @Summary     Adjust cash
// @Description Deposit (positive) or withdraw (negative) cash
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CashRequest true "Amount"
// @Success     200 {object} models.Assets "Updated portfolio"
// @Failure     400 {object} ErrorResponse "Invalid input or negative balance"
// @Failure     401 {object} ErrorResponse "Invalid token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/cash [post]
func (h *PortfolioHandler) AdjustCash(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CashRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	assets, err := h.portfolioService.AdjustCash(c.Request.Context(), userID, *req.Cash)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionAdjustCash, "portfolio", userID, c.ClientIP(),
		map[string]interface{}{"delta": *req.Cash, "cash": assets.Cash})

	c.JSON(http.StatusOK, assets)
}

// LatestPrice looks up the current price of a ticker.
// @Summary     Latest price
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TickerRequest true "Ticker"
// @Success     200 {object} PriceResponse "Price"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Stock not found or invalid token"
// @Router      /portfolio/price [post]
func (h *PortfolioHandler) LatestPrice(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req TickerRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	price, err := h.portfolioService.LatestPrice(c.Request.Context(), strings.ToUpper(req.Ticker))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, PriceResponse{LatestPrice: price})
}

// Drift lists positions that moved past the rebalancing threshold.
// @Summary     Allocation drift
// @Description Positions whose weight is further than the threshold from their target, in percentage points
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       threshold query number false "Override the user's balance threshold"
// @Success     200 {object} services.DriftReport "Drift"
// @Failure     400 {object} ErrorResponse "Invalid threshold"
// @Failure     401 {object} ErrorResponse "Invalid token"
// @Router      /portfolio/drift [get]
func (h *PortfolioHandler) Drift(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var threshold decimal.Decimal
	if raw := c.Query("threshold"); raw != "" {
		threshold, err = decimal.NewFromString(raw)
		if err != nil || threshold.IsNegative() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "threshold must be a non-negative number"))
			return
		}
	} else {
		user, err := h.userService.GetUserByID(userID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		threshold = user.Settings.BalanceThreshold
	}

	report, err := h.portfolioService.Drift(c.Request.Context(), userID, threshold)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Activity lists the user's recorded portfolio changes, newest first.
// @Summary     Activity log
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       page     query int false "Page number (default 1)"
// @Param       pageSize query int false "Items per page (default 25, max 100)"
// @Success     200 {object} pagination.Page[models.AuditLog] "Activity"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid token"
// @Router      /portfolio/activity [get]
func (h *PortfolioHandler) Activity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.auditService.ListByUser(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
