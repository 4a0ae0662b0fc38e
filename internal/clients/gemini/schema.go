package gemini

import "google.golang.org/genai"

// analysisSchema is the structured-output contract sent with every analysis
// request. It mirrors models.Analysis field for field; the backend must
// return JSON in exactly this shape.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"companyName": {Type: genai.TypeString},
		"stockCode":   {Type: genai.TypeString},
		"sector":      {Type: genai.TypeString},
		"listingDate": {Type: genai.TypeString},
		"priceRange":  {Type: genai.TypeString},
		"marketCap":   {Type: genai.TypeString},
		"prospectusUrl": {
			Type:        genai.TypeString,
			Description: "Direct link to a prospectus PDF or the HKEX news page, if found",
		},
		"business": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"description":      {Type: genai.TypeString},
				"mainProducts":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"industryPosition": {Type: genai.TypeString},
			},
		},
		"financials": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"yearlyData": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"year":        {Type: genai.TypeString, Description: "Year label, e.g. 2021, 2022, 2023"},
							"revenue":     {Type: genai.TypeString, Description: "Revenue with unit"},
							"netProfit":   {Type: genai.TypeString, Description: "Net profit with unit"},
							"grossMargin": {Type: genai.TypeString, Description: "Gross margin %"},
							"growthRate":  {Type: genai.TypeString, Description: "YoY revenue growth %"},
						},
					},
				},
				"cagr": {Type: genai.TypeString, Description: "Compound annual growth rate (revenue)"},
				"revenueStructure": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					Description: "Detailed breakdown of revenue sources/segments",
				},
				"summary": {Type: genai.TypeString, Description: "Institutional financial commentary"},
			},
		},
		"issuanceInfo": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"totalShares":             {Type: genai.TypeString, Description: "Total number of shares offered"},
				"publicTranchePct":        {Type: genai.TypeString, Description: "Initial public offering % (e.g. 10%)"},
				"internationalTranchePct": {Type: genai.TypeString, Description: "International placing % (e.g. 90%)"},
				"cornerstonePctOfOffer":   {Type: genai.TypeString, Description: "Percentage of total offer taken by cornerstones"},
				"greenshoeOption":         {Type: genai.TypeString, Description: "Over-allotment status"},
			},
		},
		"cornerstones": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":    {Type: genai.TypeString},
					"details": {Type: genai.TypeString, Description: "Investment amount or %"},
					"lockup":  {Type: genai.TypeString, Description: "Lock-up period (e.g. 6 months)"},
				},
			},
		},
		"preIpo": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"status":       {Type: genai.TypeString},
				"underwriters": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"keyInvestors": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"financingRounds": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"round":     {Type: genai.TypeString, Description: "Round name (Series A)"},
							"investors": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
							"date":      {Type: genai.TypeString, Description: "Date of investment"},
							"amount":    {Type: genai.TypeString, Description: "Amount invested"},
							"valuation": {Type: genai.TypeString, Description: "Post-money valuation"},
							"discount":  {Type: genai.TypeString, Description: "Discount to IPO price"},
						},
					},
				},
			},
		},
		"ipoRadar": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"marketSentiment": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"internationalSubscription": {Type: genai.TypeString, Description: "Est. international subscription multiple (e.g. '15x')"},
						"publicSubscription":        {Type: genai.TypeString, Description: "Est. public subscription multiple (e.g. '3000x')"},
						"sentimentScore":            {Type: genai.TypeNumber, Description: "0-100 score based on media/analyst sentiment"},
						"sentimentTrend":            {Type: genai.TypeString, Enum: []string{"Bullish", "Neutral", "Bearish"}},
						"analystConsensus":          {Type: genai.TypeString},
					},
				},
				"screeningMetrics": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"sector":        {Type: genai.TypeString},
						"listingRule":   {Type: genai.TypeString, Description: "e.g. 18C, 18A, Main Board"},
						"revenueGrowth": {Type: genai.TypeString},
						"grossMargin":   {Type: genai.TypeString},
						"valuationBand": {Type: genai.TypeString},
						"pegRatio":      {Type: genai.TypeString},
						"keyTags":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					},
				},
			},
		},
		"liquidityAnalysis": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"anchorHeatIndex": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"score":   {Type: genai.TypeNumber, Description: "0-100 score indicating scarcity of quota"},
						"status":  {Type: genai.TypeString, Enum: []string{"Cold", "Neutral", "Hot", "Very Hot"}},
						"comment": {Type: genai.TypeString},
					},
				},
				"lockUpRisk": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"riskLevel":                  {Type: genai.TypeString, Enum: []string{"Low", "Medium", "High"}},
						"sellingPressure":            {Type: genai.TypeString, Description: "Estimated post-lockup selling pressure"},
						"marketVolatilityPrediction": {Type: genai.TypeString, Description: "Predicted market volatility in 6 months"},
					},
				},
				"retailSentiment": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"subscriptionMultiple": {Type: genai.TypeString},
						"clawbackPrediction":   {Type: genai.TypeString, Description: "Prediction of retail clawback ratio (e.g. 10%, 30%, 50%)"},
					},
				},
			},
		},
		"valuation": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"peers": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"name":      {Type: genai.TypeString},
							"ticker":    {Type: genai.TypeString},
							"pe":        {Type: genai.TypeString},
							"pb":        {Type: genai.TypeString},
							"marketCap": {Type: genai.TypeString},
						},
					},
				},
				"fairValueRange":   {Type: genai.TypeString, Description: "Estimated market cap range (e.g. HKD 150B - 180B)"},
				"fairPrice":        {Type: genai.TypeString, Description: "Estimated fair share price range (e.g. HKD 18.5 - 24.0)"},
				"valuationComment": {Type: genai.TypeString},
			},
		},
		"healthCheck": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":     {Type: genai.TypeString},
					"label":  {Type: genai.TypeString},
					"status": {Type: genai.TypeString, Enum: []string{"GREEN", "YELLOW", "RED"}},
					"value":  {Type: genai.TypeString},
					"issue":  {Type: genai.TypeString},
				},
				Required: []string{"id", "label", "status", "value"},
			},
		},
		"scoring": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"totalScore": {Type: genai.TypeNumber},
				"summary":    {Type: genai.TypeString},
				"dimensions": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"name":    {Type: genai.TypeString},
							"score":   {Type: genai.TypeNumber},
							"weight":  {Type: genai.TypeNumber},
							"comment": {Type: genai.TypeString},
						},
					},
				},
			},
		},
		"scenarios": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"type":                 {Type: genai.TypeString, Enum: []string{"Conservative", "Base", "Optimistic"}},
					"subscriptionMultiple": {Type: genai.TypeString},
					"expectedReturn":       {Type: genai.TypeString},
					"liquidity":            {Type: genai.TypeString},
					"action":               {Type: genai.TypeString},
				},
			},
		},
		"positionAdvice": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"recommendation":       {Type: genai.TypeString, Enum: []string{"GO", "NO-GO"}},
				"rationale":            {Type: genai.TypeString},
				"maxDrawdownTolerance": {Type: genai.TypeString},
			},
		},
		"exitStrategies": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"investorType":         {Type: genai.TypeString, Enum: []string{"Anchor (Short-Term)", "Cornerstone (Long-Term)"}},
					"horizon":              {Type: genai.TypeString},
					"primaryAction":        {Type: genai.TypeString},
					"keyObservationPoints": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"stopLossOrHedge":      {Type: genai.TypeString},
				},
			},
		},
		"lastUpdated": {Type: genai.TypeString},
		"dataSources": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
}
