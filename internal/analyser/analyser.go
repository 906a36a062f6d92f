// Package analyser turns a note's raw text into the structured data the
// index store and search need: a title, a sequence of heading-scoped
// chunks for full-text indexing, and a content fingerprint used to detect
// changes without re-walking the whole vault.
package analyser

import (
	"strings"
	"unicode"

	"github.com/twmb/murmur3"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxTitleRunes bounds title extraction: titles longer than this are cut,
// counting Unicode code points rather than bytes.
const maxTitleRunes = 20

// Chunk is one heading-scoped slice of a note's body: the stack of
// enclosing heading texts (outermost first) plus the block text found
// under that heading before the next heading of any level.
type Chunk struct {
	Breadcrumb []string
	Text       string
}

// Result is everything the analyser derives from a note's raw text.
type Result struct {
	Title       string
	Chunks      []Chunk
	Fingerprint uint32
}

var md = goldmark.New()

// Analyse strips frontmatter from raw, walks the remaining Markdown body,
// and derives its title, chunks, and fingerprint. Chunk text is
// diacritic-stripped so accent-only edits don't change what a search
// matches; the frontmatter chunk, if any, is stripped the same way and
// appended last.
func Analyse(raw string) Result {
	frontmatter, body := StripFrontmatter(raw)
	chunks := extractChunks(body)
	if frontmatter != "" {
		fmText, err := stripDiacritics(frontmatter)
		if err != nil {
			fmText = frontmatter
		}
		chunks = append(chunks, Chunk{Breadcrumb: []string{"FrontMatter"}, Text: fmText})
	}
	return Result{
		Title:       ExtractTitle(body),
		Chunks:      chunks,
		Fingerprint: Fingerprint(body),
	}
}

// SearchableText joins every chunk's text into the blob fed to the
// full-text index, in the order the chunks were extracted.
func (r Result) SearchableText() string {
	parts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\n")
}

// StripFrontmatter splits raw into a leading "---" or "+++" delimited
// frontmatter block (the lines between the delimiters, delimiters
// excluded) and the remaining body. If raw has no frontmatter block at its very start, the
// whole of raw is returned as body and frontmatter is empty.
func StripFrontmatter(raw string) (frontmatter string, body string) {
	trimmed := strings.TrimPrefix(raw, "\xef\xbb\xbf")

	for _, delim := range []string{"---", "+++"} {
		if fm, rest, ok := cutFrontmatterBlock(trimmed, delim); ok {
			return fm, rest
		}
	}
	return "", raw
}

func cutFrontmatterBlock(content, delim string) (string, string, bool) {
	if !strings.HasPrefix(content, delim+"\n") && !strings.HasPrefix(content, delim+"\r\n") {
		return "", "", false
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == delim {
			fm := strings.Join(lines[1:i], "\n")
			rest := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimPrefix(rest, "\n"), true
		}
	}
	return "", "", false
}

// ExtractTitle returns the first non-empty textual line encountered while
// walking body in document order: whichever comes first, a heading's text
// or a paragraph's (or list item's, code block's, blockquote's), truncated
// to maxTitleRunes Unicode code points. A block whose first line is blank
// doesn't stop the walk; it keeps looking for the next block.
func ExtractTitle(body string) string {
	src := []byte(body)
	doc := md.Parser().Parse(text.NewReader(src))

	var title string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || title != "" {
			return ast.WalkContinue, nil
		}

		var blockText string
		switch n.Kind() {
		case ast.KindHeading:
			blockText = string(n.(*ast.Heading).Text(src))
		case ast.KindParagraph, ast.KindListItem, ast.KindFencedCodeBlock,
			ast.KindCodeBlock, ast.KindBlockquote:
			blockText = string(n.Text(src))
		default:
			return ast.WalkContinue, nil
		}

		if firstLine := firstNonEmptyLine(blockText); firstLine != "" {
			title = firstLine
			return ast.WalkStop, nil
		}
		return ast.WalkSkipChildren, nil
	})

	return truncateRunes(title, maxTitleRunes)
}

func firstNonEmptyLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

func truncateRunes(s string, limit int) string {
	runeCount := 0
	for i := range s {
		if runeCount == limit {
			return s[:i]
		}
		runeCount++
	}
	return s
}

// extractChunks walks body's heading stack and groups non-heading block
// content under the breadcrumb of enclosing heading texts, outermost
// first. Each chunk's text is diacritic-stripped before it's stored, so a
// search for an unaccented token still matches accented content.
func extractChunks(body string) []Chunk {
	src := []byte(body)
	doc := md.Parser().Parse(text.NewReader(src))

	var chunks []Chunk
	var stack []headingFrame
	var current strings.Builder

	flush := func() {
		txt := strings.TrimSpace(current.String())
		if txt == "" {
			return
		}
		stripped, err := stripDiacritics(txt)
		if err != nil {
			stripped = txt
		}
		chunks = append(chunks, Chunk{Breadcrumb: breadcrumbOf(stack), Text: stripped})
		current.Reset()
	}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Kind() == ast.KindHeading {
			heading := n.(*ast.Heading)
			flush()
			for len(stack) > 0 && stack[len(stack)-1].level >= heading.Level {
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, headingFrame{level: heading.Level, text: string(heading.Text(src))})
			return ast.WalkSkipChildren, nil
		}

		switch n.Kind() {
		case ast.KindParagraph, ast.KindListItem, ast.KindFencedCodeBlock,
			ast.KindCodeBlock, ast.KindBlockquote:
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.Write(n.Text(src))
		}
		return ast.WalkContinue, nil
	})
	flush()

	return chunks
}

type headingFrame struct {
	level int
	text  string
}

func breadcrumbOf(stack []headingFrame) []string {
	if len(stack) == 0 {
		return nil
	}
	out := make([]string, len(stack))
	for i, f := range stack {
		out[i] = f.text
	}
	return out
}

// Fingerprint computes a 32-bit non-cryptographic hash of body over its
// diacritic-stripped bytes, so accent-only edits do not register as
// content changes. The hash seed is fixed at 0 for reproducibility across
// runs and machines.
func Fingerprint(body string) uint32 {
	stripped, err := stripDiacritics(body)
	if err != nil {
		stripped = body
	}
	h := murmur3.New32WithSeed(0)
	h.Write([]byte(stripped))
	return h.Sum32()
}

// stripDiacritics decomposes text to NFD and removes combining marks, so
// e.g. "café" and "cafe" fingerprint identically.
func stripDiacritics(s string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return "", err
	}
	return out, nil
}
