package agents

import (
	"regexp"
	"strings"
)

var (
	htmlDocPattern   = regexp.MustCompile(`(?is)<html.*?>.*?</html>`)
	htmlBodyPattern  = regexp.MustCompile(`(?is)<body.*?>.*?</body>`)
	codeBlockPattern = regexp.MustCompile("(?s)```(?:html)?(.*?)```")
	htmlFragPattern  = regexp.MustCompile(`(?is)(<div.*?>.*?</div>|<section.*?>.*?</section>)`)
	fenceMarker      = regexp.MustCompile("```(?:html)?")
)

// extractHTML pulls the renderable HTML out of a model response. Models
// wrap output in markdown fences or prepend commentary despite being told
// not to, so this tries progressively looser matches: a full document, a
// body element, a fenced block, then a bare div or section fragment.
// When nothing matches the input is returned with fence markers stripped.
func extractHTML(text string) string {
	if m := htmlDocPattern.FindString(text); m != "" {
		return m
	}
	if m := htmlBodyPattern.FindString(text); m != "" {
		return m
	}
	if m := codeBlockPattern.FindStringSubmatch(text); m != nil {
		content := strings.TrimSpace(m[1])
		if strings.HasPrefix(content, "<") && strings.Contains(content, ">") {
			return content
		}
	}
	if m := htmlFragPattern.FindString(text); m != "" {
		return m
	}
	return strings.TrimSpace(fenceMarker.ReplaceAllString(text, ""))
}
