package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/domain"
)

// Detector computes cross-exchange arbitrage opportunities from the current
// cache snapshot. It holds no state of its own: calling Detect twice on the
// same snapshot yields identical, identically-ordered results.
type Detector struct {
	cache *PriceCache
}

// NewDetector creates a detector reading from the given cache
func NewDetector(cache *PriceCache) *Detector {
	return &Detector{cache: cache}
}

// Detect returns every cross-exchange pair for the symbol that clears the
// minimum profit percentage, sorted best-first. Buying happens at the buy
// side's ask and selling at the sell side's bid.
//
// maxPriceDiff is a data-quality guard on the absolute gap: an implausibly
// large difference more likely means a bad or stale quote than free money,
// so the pair is suppressed instead of reported.
func (d *Detector) Detect(symbol string, minProfitPercent, maxPriceDiff decimal.Decimal) []domain.ArbitrageOpportunity {
	quotes := d.cache.GetAll(symbol)
	if len(quotes) < 2 {
		return nil
	}

	var opps []domain.ArbitrageOpportunity
	for _, buy := range quotes {
		for _, sell := range quotes {
			if buy.Exchange == sell.Exchange {
				continue
			}

			buyPrice, sellPrice := buy.Ask, sell.Bid
			if sellPrice.LessThanOrEqual(buyPrice) {
				continue
			}

			gap := sellPrice.Sub(buyPrice)
			if gap.GreaterThan(maxPriceDiff) {
				continue
			}

			opp := domain.NewArbitrageOpportunity(symbol, buy.Exchange, buyPrice, sell.Exchange, sellPrice)
			if opp.ProfitPercent.LessThan(minProfitPercent) {
				continue
			}
			opps = append(opps, opp)
		}
	}

	sortOpportunities(opps)
	return opps
}

// Compare summarizes the symbol's current quotes across exchanges, or nil
// when fewer than two non-stale quotes exist.
func (d *Detector) Compare(symbol string) *domain.PriceComparison {
	return domain.NewPriceComparison(symbol, d.cache.GetAll(symbol))
}

// sortOpportunities orders by descending profit, breaking ties by exchange
// names so results are stable across runs.
func sortOpportunities(opps []domain.ArbitrageOpportunity) {
	sort.Slice(opps, func(i, j int) bool {
		if !opps[i].ProfitPercent.Equal(opps[j].ProfitPercent) {
			return opps[i].ProfitPercent.GreaterThan(opps[j].ProfitPercent)
		}
		if opps[i].BuyExchange != opps[j].BuyExchange {
			return opps[i].BuyExchange < opps[j].BuyExchange
		}
		return opps[i].SellExchange < opps[j].SellExchange
	})
}
