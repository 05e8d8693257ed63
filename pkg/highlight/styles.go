package highlight

import "strings"

type Presentation string

const (
	PresentationHighlight Presentation = "highlight"
	PresentationUnderline Presentation = "underline"
)

type Style struct {
	Color        string
	Presentation Presentation
}

// Category names arrive from the agent and are matched case-insensitively.
var categoryStyles = map[string]Style{
	"noun":       {Color: "#f59e0b", Presentation: PresentationHighlight},
	"verb":       {Color: "#34d399", Presentation: PresentationHighlight},
	"adjective":  {Color: "#60a5fa", Presentation: PresentationHighlight},
	"adverb":     {Color: "#c084fc", Presentation: PresentationUnderline},
	"phrase":     {Color: "#f472b6", Presentation: PresentationUnderline},
	"vocabulary": {Color: "#fbbf24", Presentation: PresentationHighlight},
}

// fallbackStyle keeps unknown categories visible instead of silently unstyled.
var fallbackStyle = Style{Color: "#fde047", Presentation: PresentationHighlight}

func StyleFor(category string) Style {
	if s, ok := categoryStyles[strings.ToLower(strings.TrimSpace(category))]; ok {
		return s
	}
	return fallbackStyle
}
