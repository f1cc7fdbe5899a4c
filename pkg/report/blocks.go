package report

// Heading levels.
const (
	H1 = "h1"
	H2 = "h2"
	H3 = "h3"
	H4 = "h4"
	H5 = "h5"
	H6 = "h6"
)

// List styles.
const (
	Bullet   = "disc"
	Numbered = "decimal"
	Todo     = "todo"
)

// Text alignments.
const (
	AlignLeft    = "left"
	AlignCenter  = "center"
	AlignRight   = "right"
	AlignJustify = "justify"
)

// Column layouts accepted by StartColumns.
var (
	TwoEqual   = []string{"50%", "50%"}
	LeftWide   = []string{"70%", "30%"}
	RightWide  = []string{"30%", "70%"}
	ThreeEqual = []string{"33.333333333333336%", "33.333333333333336%", "33.333333333333336%"}
	CenterWide = []string{"25%", "50%", "25%"}
)

// Node is an element of a block's children: a *Block or a Text leaf.
type Node interface {
	node()
}

// Block is an element of the report editor state.
type Block struct {
	Type          string      `json:"type"`
	ID            string      `json:"id,omitempty"`
	Align         string      `json:"align,omitempty"`
	ListStyleType string      `json:"listStyleType,omitempty"`
	URL           string      `json:"url,omitempty"`
	Language      *string     `json:"language,omitempty"`
	Equation      string      `json:"equation,omitempty"`
	Width         string      `json:"width,omitempty"`
	WidgetData    *WidgetData `json:"widgetData,omitempty"`
	Height        *int        `json:"height,omitempty"`
	Children      []Node      `json:"children"`
}

func (*Block) node() {}

// WidgetData points a widget block at an insight.
type WidgetData struct {
	InsightID string `json:"insightId"`
}

// Text is a text leaf. Formatting marks are omitted when unset.
type Text struct {
	Text            string `json:"text"`
	Bold            bool   `json:"bold,omitempty"`
	Italic          bool   `json:"italic,omitempty"`
	Underline       bool   `json:"underline,omitempty"`
	Strikethrough   bool   `json:"strikethrough,omitempty"`
	Code            bool   `json:"code,omitempty"`
	Highlight       bool   `json:"highlight,omitempty"`
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"background_color,omitempty"`
}

func (Text) node() {}

// Plain returns an unformatted text leaf.
func Plain(s string) Text {
	return Text{Text: s}
}

// Structure is the document tree of a report.
type Structure struct {
	EditorState []*Block `json:"editorState"`
}

// Metadata lists the resources a report depends on.
type Metadata struct {
	Insights []string `json:"insights"`
	Datasets []string `json:"datasets,omitempty"`
}

// Body is the params object of create_report.
type Body struct {
	OrganizationID string    `json:"organization_id,omitempty"`
	SolutionID     string    `json:"solution_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Slug           string    `json:"slug,omitempty"`
	Structure      Structure `json:"structure"`
	Metadata       Metadata  `json:"metadata"`
}
