// Package models defines data structures for the IPO engine
package models

// HealthStatus is the traffic-light status of a health check item.
type HealthStatus string

const (
	HealthGreen  HealthStatus = "GREEN"
	HealthYellow HealthStatus = "YELLOW"
	HealthRed    HealthStatus = "RED"
)

// Recommendation is the position advice verdict.
type Recommendation string

const (
	RecommendationGo   Recommendation = "GO"
	RecommendationNoGo Recommendation = "NO-GO"
)

// ScenarioType tags one of the three outcome scenarios.
type ScenarioType string

const (
	ScenarioConservative ScenarioType = "Conservative"
	ScenarioBase         ScenarioType = "Base"
	ScenarioOptimistic   ScenarioType = "Optimistic"
)

// Sentiment trend values for MarketSentiment.SentimentTrend.
const (
	TrendBullish = "Bullish"
	TrendNeutral = "Neutral"
	TrendBearish = "Bearish"
)

// Anchor heat status values for AnchorHeatIndex.Status.
const (
	HeatCold    = "Cold"
	HeatNeutral = "Neutral"
	HeatHot     = "Hot"
	HeatVeryHot = "Very Hot"
)

// Lock-up risk levels for LockUpRisk.RiskLevel.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Investor types for ExitStrategy.InvestorType.
const (
	InvestorAnchor      = "Anchor (Short-Term)"
	InvestorCornerstone = "Cornerstone (Long-Term)"
)

// BusinessInfo describes the company's business.
type BusinessInfo struct {
	Description      string   `json:"description"`
	MainProducts     []string `json:"mainProducts"`
	IndustryPosition string   `json:"industryPosition"`
}

// FinancialYearData is one year of reported financials. All values are
// strings with units as reported in the prospectus.
type FinancialYearData struct {
	Year        string `json:"year"`
	Revenue     string `json:"revenue"`
	NetProfit   string `json:"netProfit"`
	GrossMargin string `json:"grossMargin"`
	GrowthRate  string `json:"growthRate,omitempty"` // Revenue YoY
}

// FinancialInfo holds multi-year financials and commentary.
type FinancialInfo struct {
	YearlyData       []FinancialYearData `json:"yearlyData"`
	CAGR             string              `json:"cagr"`
	RevenueStructure []string            `json:"revenueStructure"`
	Summary          string              `json:"summary"`
}

// IssuanceInfo describes the global offering structure.
type IssuanceInfo struct {
	TotalShares             string `json:"totalShares"`
	PublicTranchePct        string `json:"publicTranchePct"`        // e.g. "10%"
	InternationalTranchePct string `json:"internationalTranchePct"` // e.g. "90%"
	CornerstonePctOfOffer   string `json:"cornerstonePctOfOffer"`
	GreenshoeOption         string `json:"greenshoeOption"` // over-allotment status
}

// CornerstoneItem is one cornerstone investor commitment.
type CornerstoneItem struct {
	Name    string `json:"name"`
	Details string `json:"details,omitempty"` // amount or share info
	Lockup  string `json:"lockup,omitempty"`
}

// PreIPORound is one pre-IPO financing round.
type PreIPORound struct {
	Round     string   `json:"round"` // e.g. "Series A"
	Investors []string `json:"investors"`
	Date      string   `json:"date"`
	Amount    string   `json:"amount"`
	Valuation string   `json:"valuation"` // post-money
	Discount  string   `json:"discount"`  // discount to IPO price
}

// PreIPOInfo covers filing status, underwriters, and primary-market history.
type PreIPOInfo struct {
	Status          string        `json:"status"` // e.g. "Passed Hearing"
	Underwriters    []string      `json:"underwriters"`
	KeyInvestors    []string      `json:"keyInvestors"`
	FinancingRounds []PreIPORound `json:"financingRounds"`
}

// MarketSentiment captures subscription heat and analyst mood.
type MarketSentiment struct {
	InternationalSubscription string  `json:"internationalSubscription"` // e.g. "5.5x"
	PublicSubscription        string  `json:"publicSubscription"`        // e.g. "120x"
	SentimentScore            float64 `json:"sentimentScore"`            // 0-100
	SentimentTrend            string  `json:"sentimentTrend"`            // Bullish | Neutral | Bearish
	AnalystConsensus          string  `json:"analystConsensus"`
}

// ScreeningMetrics are the smart-screening data points.
type ScreeningMetrics struct {
	Sector        string   `json:"sector"`
	ListingRule   string   `json:"listingRule"` // e.g. "18C", "18A", "Main Board"
	RevenueGrowth string   `json:"revenueGrowth"`
	GrossMargin   string   `json:"grossMargin"`
	ValuationBand string   `json:"valuationBand"`
	PEGRatio      string   `json:"pegRatio"`
	KeyTags       []string `json:"keyTags"`
}

// IPORadar combines sentiment and screening.
type IPORadar struct {
	MarketSentiment  MarketSentiment  `json:"marketSentiment"`
	ScreeningMetrics ScreeningMetrics `json:"screeningMetrics"`
}

// AnchorHeatIndex scores anchor quota scarcity.
type AnchorHeatIndex struct {
	Score   float64 `json:"score"`  // 0-100, higher is hotter
	Status  string  `json:"status"` // Cold | Neutral | Hot | Very Hot
	Comment string  `json:"comment"`
}

// LockUpRisk estimates post-lockup selling pressure.
type LockUpRisk struct {
	RiskLevel                  string `json:"riskLevel"` // Low | Medium | High
	SellingPressure            string `json:"sellingPressure"`
	MarketVolatilityPrediction string `json:"marketVolatilityPrediction"`
}

// RetailSentiment covers the public tranche.
type RetailSentiment struct {
	SubscriptionMultiple string `json:"subscriptionMultiple"`
	ClawbackPrediction   string `json:"clawbackPrediction"` // e.g. "Likely to trigger 30% clawback"
}

// LiquidityAnalysis groups the liquidity and risk blocks.
type LiquidityAnalysis struct {
	AnchorHeatIndex AnchorHeatIndex `json:"anchorHeatIndex"`
	LockUpRisk      LockUpRisk      `json:"lockUpRisk"`
	RetailSentiment RetailSentiment `json:"retailSentiment"`
}

// PeerComparison is one comparable listed company.
type PeerComparison struct {
	Name      string `json:"name"`
	Ticker    string `json:"ticker"`
	PE        string `json:"pe,omitempty"`
	PB        string `json:"pb,omitempty"`
	MarketCap string `json:"marketCap,omitempty"`
}

// ValuationData holds peer comps and fair value estimates.
type ValuationData struct {
	Peers            []PeerComparison `json:"peers"`
	FairValueRange   string           `json:"fairValueRange"`      // market cap range
	FairPrice        string           `json:"fairPrice,omitempty"` // per-share range
	ValuationComment string           `json:"valuationComment"`
}

// HealthCheckItem is one line of the prospectus health check.
type HealthCheckItem struct {
	ID     string       `json:"id"` // unique within a report
	Label  string       `json:"label"`
	Status HealthStatus `json:"status"`
	Value  string       `json:"value"`
	Issue  string       `json:"issue,omitempty"`
}

// DimensionScore is one weighted scoring dimension. Weights are descriptive
// metadata from the backend; they are not required to sum to 1 and are never
// used to recompute TotalScore.
type DimensionScore struct {
	Name    string  `json:"name"`
	Score   float64 `json:"score"`  // 0-100
	Weight  float64 `json:"weight"` // 0-1
	Comment string  `json:"comment"`
}

// ScoringModel is the overall score with its dimensions.
type ScoringModel struct {
	TotalScore float64          `json:"totalScore"` // 0-100
	Dimensions []DimensionScore `json:"dimensions"`
	Summary    string           `json:"summary"`
}

// ScenarioResult is one of the three outcome scenarios.
type ScenarioResult struct {
	Type                 ScenarioType `json:"type"`
	SubscriptionMultiple string       `json:"subscriptionMultiple"` // e.g. "15x - 20x"
	ExpectedReturn       string       `json:"expectedReturn"`
	Liquidity            string       `json:"liquidity"`
	Action               string       `json:"action"`
}

// PositionAdvice is the final verdict.
type PositionAdvice struct {
	Recommendation       Recommendation `json:"recommendation"`
	Rationale            string         `json:"rationale"`
	MaxDrawdownTolerance string         `json:"maxDrawdownTolerance"`
}

// ExitStrategy is the exit plan for one investor type.
type ExitStrategy struct {
	InvestorType         string   `json:"investorType"` // Anchor (Short-Term) | Cornerstone (Long-Term)
	Horizon              string   `json:"horizon"`
	PrimaryAction        string   `json:"primaryAction"`
	KeyObservationPoints []string `json:"keyObservationPoints"`
	StopLossOrHedge      string   `json:"stopLossOrHedge"`
}

// Analysis is the full IPO analysis report produced by one orchestration
// call. It is immutable after creation except for DataSources, which is
// append-only (see AppendSources).
type Analysis struct {
	CompanyName   string `json:"companyName"`
	StockCode     string `json:"stockCode"`
	Sector        string `json:"sector"`
	ListingDate   string `json:"listingDate"`
	PriceRange    string `json:"priceRange"`
	MarketCap     string `json:"marketCap"`
	ProspectusURL string `json:"prospectusUrl,omitempty"`

	Business   BusinessInfo  `json:"business"`
	Financials FinancialInfo `json:"financials"`

	IssuanceInfo IssuanceInfo      `json:"issuanceInfo"`
	Cornerstones []CornerstoneItem `json:"cornerstones"`
	PreIPO       PreIPOInfo        `json:"preIpo"`

	IPORadar          IPORadar          `json:"ipoRadar"`
	LiquidityAnalysis LiquidityAnalysis `json:"liquidityAnalysis"`
	Valuation         ValuationData     `json:"valuation"`
	ExitStrategies    []ExitStrategy    `json:"exitStrategies"`

	HealthCheck    []HealthCheckItem `json:"healthCheck"`
	Scoring        ScoringModel      `json:"scoring"`
	Scenarios      []ScenarioResult  `json:"scenarios"`
	PositionAdvice PositionAdvice    `json:"positionAdvice"`

	LastUpdated string   `json:"lastUpdated"`
	DataSources []string `json:"dataSources"`
}

// Sanitize normalizes a freshly parsed report so that absent fields read as
// semantically empty rather than nil. The backend is free to omit anything
// except the company name, which the orchestrator validates separately.
func (a *Analysis) Sanitize() {
	if a.Business.MainProducts == nil {
		a.Business.MainProducts = []string{}
	}
	if a.Financials.YearlyData == nil {
		a.Financials.YearlyData = []FinancialYearData{}
	}
	if a.Financials.RevenueStructure == nil {
		a.Financials.RevenueStructure = []string{}
	}
	if a.Cornerstones == nil {
		a.Cornerstones = []CornerstoneItem{}
	}
	if a.PreIPO.Underwriters == nil {
		a.PreIPO.Underwriters = []string{}
	}
	if a.PreIPO.KeyInvestors == nil {
		a.PreIPO.KeyInvestors = []string{}
	}
	if a.PreIPO.FinancingRounds == nil {
		a.PreIPO.FinancingRounds = []PreIPORound{}
	}
	if a.IPORadar.ScreeningMetrics.KeyTags == nil {
		a.IPORadar.ScreeningMetrics.KeyTags = []string{}
	}
	if a.Valuation.Peers == nil {
		a.Valuation.Peers = []PeerComparison{}
	}
	for i := range a.ExitStrategies {
		if a.ExitStrategies[i].KeyObservationPoints == nil {
			a.ExitStrategies[i].KeyObservationPoints = []string{}
		}
	}
	if a.ExitStrategies == nil {
		a.ExitStrategies = []ExitStrategy{}
	}
	if a.HealthCheck == nil {
		a.HealthCheck = []HealthCheckItem{}
	}
	if a.Scoring.Dimensions == nil {
		a.Scoring.Dimensions = []DimensionScore{}
	}
	if a.Scenarios == nil {
		a.Scenarios = []ScenarioResult{}
	}
	if a.DataSources == nil {
		a.DataSources = []string{}
	}
}

// AppendSources appends URIs to DataSources, dropping duplicates while
// preserving first-seen order. Existing entries are never removed.
func (a *Analysis) AppendSources(uris ...string) {
	seen := make(map[string]bool, len(a.DataSources)+len(uris))
	for _, s := range a.DataSources {
		seen[s] = true
	}
	for _, u := range uris {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		a.DataSources = append(a.DataSources, u)
	}
}
