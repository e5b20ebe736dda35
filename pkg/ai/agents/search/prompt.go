package search

import (
	"strings"

	"github.com/breeew/stellar-api/pkg/types"
)

const PROMPT_FILTER_EN = `You help a {demographic} find space biology papers.
You will receive a JSON array with the titles of all available papers.
Select the titles that match the request below and answer with a JSON array of the selected titles, copied exactly.
Answer with the JSON array only. Answer with [] when nothing matches.

Request: {prompt}`

// BuildFilterPrompt fills the filter template. An empty tpl uses
// PROMPT_FILTER_EN.
func BuildFilterPrompt(tpl string, demographic types.Demographic, prompt string) string {
	if tpl == "" {
		tpl = PROMPT_FILTER_EN
	}
	return strings.NewReplacer(
		"{demographic}", string(demographic),
		"{prompt}", strings.TrimSpace(prompt),
	).Replace(tpl)
}
