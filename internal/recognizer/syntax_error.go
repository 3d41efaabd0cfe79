package recognizer

import (
	"regexp"
	"strings"

	"github.com/steveyegge/stuckdetector/internal/event"
)

// minSyntaxErrorRun is the number of trailing IPythonRunCellObs
// observations recognizer F requires.
const minSyntaxErrorRun = 4

const (
	jupyterCwdBanner         = "[Jupyter current working directory:"
	jupyterInterpreterBanner = "[Jupyter Python interpreter:"
)

var (
	cellLineRe     = regexp.MustCompile(`Cell In\[[^\]]*\],\s*line\s*(\d+)`)
	detectedLineRe = regexp.MustCompile(`detected at line\s*(\d+)`)
)

// syntaxErrorSignature is what must match identically across all four
// observations for recognizer F to fire.
type syntaxErrorSignature struct {
	errorTag       string
	lineNumber     string
	detectedAtLine string // empty when the content has no "detected at line N" suffix
	residual       string
}

// SyntaxError implements spec.md §4.7: four consecutive IPythonRunCellObs
// observations that encode the same IPython syntax error at a stable
// reported line number.
func SyntaxError(tail []event.Event) (Analysis, bool) {
	var obs []event.Event
	var idxs []int
	for i := len(tail) - 1; i >= 0 && len(obs) < minSyntaxErrorRun; i-- {
		if tail[i].Kind == event.KindIPythonRunCellObs {
			obs = append(obs, tail[i])
			idxs = append(idxs, i)
		}
	}
	if len(obs) < minSyntaxErrorRun {
		return Analysis{}, false
	}

	// obs/idxs are newest-first; reverse to chronological order.
	for l, r := 0, len(obs)-1; l < r; l, r = l+1, r-1 {
		obs[l], obs[r] = obs[r], obs[l]
		idxs[l], idxs[r] = idxs[r], idxs[l]
	}

	sigs := make([]syntaxErrorSignature, len(obs))
	for i, o := range obs {
		sig, ok := extractSyntaxErrorSignature(o.Content)
		if !ok {
			return Analysis{}, false
		}
		sigs[i] = sig
	}

	for i := 1; i < len(sigs); i++ {
		if sigs[i] != sigs[0] {
			return Analysis{}, false
		}
	}

	return Analysis{
		LoopType:        LoopSyntaxError,
		LoopRepeatTimes: len(obs),
		LoopStartIdx:    idxs[0],
	}, true
}

// stripJupyterBanner removes the trailing run of Jupyter banner lines
// ("[Jupyter current working directory:" / "[Jupyter Python interpreter:")
// from content, returning everything before the banner began.
func stripJupyterBanner(content string) string {
	lines := strings.Split(content, "\n")
	cut := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, jupyterCwdBanner) || strings.HasPrefix(trimmed, jupyterInterpreterBanner) {
			cut = i
			continue
		}
		if trimmed != "" {
			break
		}
	}
	return strings.Join(lines[:cut], "\n")
}

// extractSyntaxErrorSignature strips the Jupyter banner from content and
// extracts the error tag, line number(s), and residual content that
// recognizer F compares across occurrences. ok is false when content
// doesn't carry both a "SyntaxError:" line and a "Cell In[_], line N"
// marker — such content cannot satisfy recognizer F.
func extractSyntaxErrorSignature(content string) (syntaxErrorSignature, bool) {
	stripped := stripJupyterBanner(content)

	var errorTag string
	found := false
	for _, line := range strings.Split(stripped, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "SyntaxError:") {
			errorTag = trimmed
			found = true
			break
		}
	}
	if !found {
		return syntaxErrorSignature{}, false
	}

	lineMatch := cellLineRe.FindStringSubmatch(stripped)
	if lineMatch == nil {
		return syntaxErrorSignature{}, false
	}

	detected := ""
	if m := detectedLineRe.FindStringSubmatch(stripped); m != nil {
		detected = m[1]
	}

	return syntaxErrorSignature{
		errorTag:       errorTag,
		lineNumber:     lineMatch[1],
		detectedAtLine: detected,
		residual:       strings.TrimRight(stripped, " \t\n"),
	}, true
}
