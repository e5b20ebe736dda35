package summary

import (
	"github.com/breeew/stellar-api/pkg/types"
)

const PROMPT_INVESTOR_EN = `Read the following space biology paper excerpt and summarize details relevant for a potential investor. Focus on:
- Commercial applications and market potential
- Key findings that could lead to products or services
- Competitive advantages or unique discoveries
- Potential ROI indicators

Write it as if preparing a short investor briefing rather than an academic abstract.`

const PROMPT_RESEARCHER_EN = `Read the following space biology paper excerpt and summarize it for a researcher or student in the field. Include:
- Main research question and hypothesis
- Key methodologies used
- Significant findings and results
- Implications for future research
- Connections to broader space biology and terrestrial biomedical sciences

Be technical but accessible, and keep the structure easy to scan.`

// PLACEHOLDER is shown instead of a summary when no model answered.
const PLACEHOLDER = "Summary is not available right now."

// BuildSummaryPrompt returns the instruction for demographic. Non empty
// overrides configured per demographic take precedence.
func BuildSummaryPrompt(overrides map[types.Demographic]string, demographic types.Demographic) string {
	if tpl := overrides[demographic]; tpl != "" {
		return tpl
	}
	switch demographic {
	case types.DEMOGRAPHIC_INVESTOR:
		return PROMPT_INVESTOR_EN
	default:
		return PROMPT_RESEARCHER_EN
	}
}
