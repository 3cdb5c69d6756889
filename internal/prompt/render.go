// Package prompt renders review prompts from templates with named
// placeholders. Rendering is a pure string transformation: placeholders with
// no value in the context are left verbatim in the output, never deleted and
// never an error, so a malformed template is visibly diagnosable instead of
// producing a silently truncated prompt.
package prompt

import (
	"fmt"
	"strings"

	"github.com/greglamb/gemini-pr-reviewer/internal/store"
)

// Context carries the substitution values for one render. Assets are in
// upload order; per-asset placeholders are resolved positionally against it.
type Context struct {
	Assets   []*store.Asset
	Story    string
	Criteria string
}

// Render substitutes every resolvable placeholder in template and returns
// the result. Recognized placeholders:
//
//	{USER_STORY}               user story text
//	{ACCEPTANCE_CRITERIA}      acceptance criteria text
//	{ZIP_FILES_LIST}           one formatted line per asset, upload order
//	{ZIP_FILE_<n>_NAME}        remote (server) name of asset n, 1-indexed
//	{ZIP_FILE_<n>_DISPLAY_NAME} display name of asset n
//	{ZIP_FILE_<n>_URI}         model-access URI of asset n
//
// A per-asset placeholder referencing more assets than were uploaded stays
// unresolved under the same verbatim rule.
func Render(template string, rc Context) string {
	out := template

	out = strings.ReplaceAll(out, "{USER_STORY}", rc.Story)
	out = strings.ReplaceAll(out, "{ACCEPTANCE_CRITERIA}", rc.Criteria)
	out = strings.ReplaceAll(out, "{ZIP_FILES_LIST}", assetList(rc.Assets))

	for i, a := range rc.Assets {
		n := i + 1
		out = strings.ReplaceAll(out, fmt.Sprintf("{ZIP_FILE_%d_NAME}", n), a.RemoteName)
		out = strings.ReplaceAll(out, fmt.Sprintf("{ZIP_FILE_%d_DISPLAY_NAME}", n), a.DisplayName)
		out = strings.ReplaceAll(out, fmt.Sprintf("{ZIP_FILE_%d_URI}", n), a.URI)
	}

	return out
}

// assetList formats one line per asset in upload order.
func assetList(assets []*store.Asset) string {
	var b strings.Builder
	for i, a := range assets {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s (server name: %s, URI: %s)", a.DisplayName, a.RemoteName, a.URI)
	}
	return b.String()
}
