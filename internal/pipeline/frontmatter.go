package pipeline

import (
	"strings"

	"github.com/alnah/go-md2cards/internal/yamlutil"
)

// FrontMatter holds the document metadata the cards use. Other keys are
// ignored so blog front matter passes through.
type FrontMatter struct {
	Title string `yaml:"title"`
	Lang  string `yaml:"lang"`
}

// SplitFrontMatter separates a leading YAML block delimited by "---" lines
// from the Markdown body. The closing line may also be "...".
//
// A document that merely opens with a thematic break is left alone: when the
// block is not a YAML mapping, or is never closed, the whole content is the
// body.
func SplitFrontMatter(content string) (FrontMatter, string) {
	s := strings.TrimPrefix(content, "\uFEFF")
	first, rest, ok := strings.Cut(s, "\n")
	if !ok || strings.TrimRight(first, " \t\r") != "---" {
		return FrontMatter{}, content
	}

	var block strings.Builder
	for rest != "" {
		var line string
		line, rest, _ = strings.Cut(rest, "\n")
		switch strings.TrimRight(line, " \t\r") {
		case "---", "...":
			fm, ok := decodeFrontMatter(block.String())
			if !ok {
				return FrontMatter{}, content
			}
			return fm, rest
		}
		block.WriteString(strings.TrimSuffix(line, "\r"))
		block.WriteByte('\n')
	}
	return FrontMatter{}, content
}

func decodeFrontMatter(block string) (FrontMatter, bool) {
	var fm FrontMatter
	if strings.TrimSpace(block) == "" {
		return fm, true
	}
	if err := yamlutil.UnmarshalMapping([]byte(block), &fm); err != nil {
		return FrontMatter{}, false
	}
	return fm, true
}
