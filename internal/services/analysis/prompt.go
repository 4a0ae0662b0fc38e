package analysis

import (
	"fmt"
	"strings"
)

// buildAnalysisPrompt creates the analyst instruction for one company. The
// market-context tiers calibrate subscription predictions against the 2025
// HK IPO cycle rather than older, more conservative baselines.
func buildAnalysisPrompt(companyName, subscriptionHint, sourceURL string, hasAttachment bool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`You are a professional, rigorous, and fact-based Institutional IPO Analyst.
Your job is to analyze the target company: "%s".

**MARKET CONTEXT UPDATE (2025 HK IPO RENAISSANCE):**
The Hong Kong IPO market in 2025 is extremely active with a "frenzy" of retail participation.
Use the following benchmarks to calibrate your Sentiment Analysis and Subscription predictions. DO NOT use old/conservative benchmarks.
- **Tier 1 (Frenzy > 5,000x):** Rare, historical records.
- **Tier 2 (Very Hot 1,000x - 5,000x):** Common for popular sectors (BioTech, Consumer).
- **Tier 3 (Hot 100x - 1,000x):** Approximately 30%% of market.
- **Baseline:** 98%% of IPOs are oversubscribed.

*Instruction:* If the company belongs to a hot sector (AI, BioTech, Consumer Chain), DO NOT be conservative. Predict high multiples (e.g., >500x) if the fundamentals match the 2025 trend.

**STRICT EXECUTION PROTOCOL:**
1. **VERIFY LISTING STATUS:** Find the official status of this company on HKEX (Hong Kong Stock Exchange). Use live web search where available.
   - Verify: Is it ALREADY LISTED? Is it "Passed Hearing" (PHIP)? Is the application "Lapsed"?
   - If it is LISTED, get the exact Listing Date and Stock Code.
   - If it is NOT LISTED, get the latest filing status.
   - **DO NOT HALLUCINATE STATUS.**

2. **DATA CONSISTENCY CHECK:**
   - **Underwriters:** Only list underwriters found in filings or news. If unknown, state "N/A".
   - **Financials:** Use the latest prospectus (PHIP) or annual report. Extract REAL numbers (Revenue, Profit) for the last 3 years.
   - **Primary Market / Pre-IPO:** Find "Series A", "Series B", "Pre-IPO" financing rounds with date, amount, valuation, and discount to IPO if available.
   - **Issuance Info:** Find "Global Offering" details: total shares offered, allocation breakdown (Public %% vs International %%), and cornerstone investor details (names, amount, lock-up).
   - **Valuation:** Estimate the "Fair Value Range" (total market cap) and "Fair Price" (share price) based on peer comparison (PE/PB) and 2025 market sentiment.
   - **Prospectus URL:** Only provide a URL if you find a direct link to a PDF or the HKEX news page.

3. **USER INPUTS:**
`, companyName))

	sb.WriteString(fmt.Sprintf("   - User provided Subscription Multiple: %q (Use this for sentiment analysis if provided, otherwise search for actual subscription results if listed).\n", subscriptionHint))
	if sourceURL == "" {
		sourceURL = "N/A"
	}
	sb.WriteString(fmt.Sprintf("   - User provided URL: %q (Prioritize this if valid).\n", sourceURL))
	if hasAttachment {
		sb.WriteString("   - **FILE PROVIDED:** A document was uploaded. Treat this as the primary source for Financials and Business details.\n")
	}

	sb.WriteString(`
**OUTPUT REQUIREMENTS:**
- Output language: Simplified Chinese.
- Return ONLY valid JSON matching the schema.
- **Strategy Matrix:** Analyze from 3 perspectives (Cornerstone, Anchor, Retail).

**CRITICAL:**
- If the company is ALREADY LISTED, the "Decision" should reflect its post-IPO performance or be marked as "Review" rather than a pre-IPO "GO/NO-GO", but still provide the analysis.
- Ensure the "Listing Date" is accurate.
`)

	return sb.String()
}

// stripCodeFences removes markdown code-fence wrapping that some models
// emit around JSON output.
func stripCodeFences(text string) string {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	return strings.TrimSpace(clean)
}
