package server

import (
	"net/http"

	"github.com/JasperZhi/hk-ipo-engine/internal/metrics"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

// derivedMetrics are the display-ready values computed from a report's
// numeric-as-text fields: normalized subscription multiples with their
// log-scale bar widths, the tranche split, and score bands.
type derivedMetrics struct {
	InternationalSubscription float64 `json:"internationalSubscription"`
	InternationalBarWidth     float64 `json:"internationalBarWidth"`
	PublicSubscription        float64 `json:"publicSubscription"`
	PublicBarWidth            float64 `json:"publicBarWidth"`

	PublicTranchePct        float64 `json:"publicTranchePct"`
	InternationalTranchePct float64 `json:"internationalTranchePct"`

	TotalScoreTier  string `json:"totalScoreTier"`
	TotalScoreColor string `json:"totalScoreColor"`
	SentimentTier   string `json:"sentimentTier"`
	SentimentColor  string `json:"sentimentColor"`
	AnchorHeatTier  string `json:"anchorHeatTier"`
	AnchorHeatColor string `json:"anchorHeatColor"`
}

func deriveMetrics(report *models.Analysis) derivedMetrics {
	sentiment := report.IPORadar.MarketSentiment

	public, international := metrics.TrancheSplit(
		report.IssuanceInfo.PublicTranchePct,
		report.IssuanceInfo.InternationalTranchePct,
	)

	totalBand := metrics.ScoreBand(report.Scoring.TotalScore)
	sentimentBand := metrics.ScoreBand(sentiment.SentimentScore)
	heatBand := metrics.ScoreBand(report.LiquidityAnalysis.AnchorHeatIndex.Score)

	return derivedMetrics{
		InternationalSubscription: metrics.ParseMultiple(sentiment.InternationalSubscription),
		InternationalBarWidth:     metrics.LogBarWidth(sentiment.InternationalSubscription),
		PublicSubscription:        metrics.ParseMultiple(sentiment.PublicSubscription),
		PublicBarWidth:            metrics.LogBarWidth(sentiment.PublicSubscription),

		PublicTranchePct:        public,
		InternationalTranchePct: international,

		TotalScoreTier:  totalBand.Tier,
		TotalScoreColor: totalBand.ColorKey,
		SentimentTier:   sentimentBand.Tier,
		SentimentColor:  sentimentBand.ColorKey,
		AnchorHeatTier:  heatBand.Tier,
		AnchorHeatColor: heatBand.ColorKey,
	}
}

// handleMetricsDerive handles POST /api/metrics/derive. Clients submit a
// report and get back the normalized display values, so the text-to-number
// rules live in one place instead of each rendering surface.
func (s *Server) handleMetricsDerive(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Report *models.Analysis `json:"report"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Report == nil {
		WriteError(w, http.StatusBadRequest, "report is required")
		return
	}

	WriteJSON(w, http.StatusOK, deriveMetrics(req.Report))
}
