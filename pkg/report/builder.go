package report

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Builder assembles a report Body block by block. While a column group is
// open, blocks go into its current column.
type Builder struct {
	body    Body
	group   *Block
	current int
	errs    []error
}

// New returns an empty report builder.
func New() *Builder {
	return &Builder{body: Body{
		Structure: Structure{EditorState: []*Block{}},
		Metadata:  Metadata{Insights: []string{}},
	}}
}

// BlockID returns a random 10 character hex block id.
func BlockID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func (b *Builder) fail(format string, args ...any) *Builder {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
	return b
}

func (b *Builder) add(blk *Block) *Builder {
	if blk.ID == "" {
		blk.ID = BlockID()
	}
	if b.group != nil {
		col := b.group.Children[b.current].(*Block)
		col.Children = append(col.Children, blk)
		return b
	}
	b.body.Structure.EditorState = append(b.body.Structure.EditorState, blk)
	return b
}

// Name sets the report name.
func (b *Builder) Name(name string) *Builder {
	b.body.Name = name
	return b
}

// Description sets the report description.
func (b *Builder) Description(desc string) *Builder {
	b.body.Description = desc
	return b
}

// Slug sets the report slug.
func (b *Builder) Slug(slug string) *Builder {
	b.body.Slug = slug
	return b
}

// SolutionID sets the solution the report belongs to.
func (b *Builder) SolutionID(id string) *Builder {
	b.body.SolutionID = id
	return b
}

// OrganizationID sets the owning organization.
func (b *Builder) OrganizationID(id string) *Builder {
	b.body.OrganizationID = id
	return b
}

// Heading adds a heading of level H1 to H6. align may be empty.
func (b *Builder) Heading(text, level, align string) *Builder {
	if !slices.Contains([]string{H1, H2, H3, H4, H5, H6}, level) {
		return b.fail("invalid heading level %q", level)
	}
	return b.add(&Block{Type: level, Align: align, Children: []Node{Plain(text)}})
}

// Paragraph adds a paragraph of one or more text leaves.
func (b *Builder) Paragraph(align string, texts ...Text) *Builder {
	children := make([]Node, 0, max(len(texts), 1))
	for _, t := range texts {
		children = append(children, t)
	}
	if len(children) == 0 {
		children = append(children, Plain(""))
	}
	return b.add(&Block{Type: "p", Align: align, Children: children})
}

// Text adds a paragraph with a single plain text leaf.
func (b *Builder) Text(text string) *Builder {
	return b.Paragraph("", Plain(text))
}

// List adds a list of the given style (Bullet, Numbered or Todo).
func (b *Builder) List(style string, items ...string) *Builder {
	if !slices.Contains([]string{Bullet, Numbered, Todo}, style) {
		return b.fail("invalid list style %q", style)
	}
	children := make([]Node, 0, len(items))
	for _, item := range items {
		children = append(children, &Block{Type: "li", Children: []Node{Plain(item)}})
	}
	return b.add(&Block{Type: "list", ListStyleType: style, Children: children})
}

// Table adds a table. With header set, the first row uses header cells.
func (b *Builder) Table(rows [][]string, header bool) *Builder {
	trs := make([]Node, 0, len(rows))
	for i, row := range rows {
		cellType := "td"
		if i == 0 && header {
			cellType = "th"
		}
		cells := make([]Node, 0, len(row))
		for _, cell := range row {
			cells = append(cells, &Block{Type: cellType, Children: []Node{Plain(cell)}})
		}
		trs = append(trs, &Block{Type: "tr", Children: cells})
	}
	return b.add(&Block{Type: "table", Children: trs})
}

// Widget embeds an insight and records it in the report metadata. height
// of 0 leaves the height to the platform.
func (b *Builder) Widget(insightID string, height int) *Builder {
	if insightID == "" {
		return b.fail("widget requires an insight id")
	}
	if !slices.Contains(b.body.Metadata.Insights, insightID) {
		b.body.Metadata.Insights = append(b.body.Metadata.Insights, insightID)
	}
	blk := &Block{
		Type:       "widget",
		WidgetData: &WidgetData{InsightID: insightID},
		Children:   []Node{Plain("")},
	}
	if height > 0 {
		blk.Height = &height
	}
	return b.add(blk)
}

// Dataset records a dataset in the report metadata.
func (b *Builder) Dataset(datasetID string) *Builder {
	if !slices.Contains(b.body.Metadata.Datasets, datasetID) {
		b.body.Metadata.Datasets = append(b.body.Metadata.Datasets, datasetID)
	}
	return b
}

// HorizontalRule adds a divider.
func (b *Builder) HorizontalRule() *Builder {
	return b.add(&Block{Type: "hr", Children: []Node{Plain("")}})
}

// Link adds a link block.
func (b *Builder) Link(text, url string) *Builder {
	return b.add(&Block{Type: "link", URL: url, Children: []Node{Plain(text)}})
}

// Blockquote adds a quote.
func (b *Builder) Blockquote(text string) *Builder {
	return b.add(&Block{Type: "blockquote", Children: []Node{Plain(text)}})
}

// Code adds a code block. language may be empty.
func (b *Builder) Code(code, language string) *Builder {
	blk := &Block{Type: "code_block", Children: []Node{
		&Block{Type: "code_line", Children: []Node{Plain(code)}},
	}}
	if language != "" {
		blk.Language = &language
	}
	return b.add(blk)
}

// Date adds a date block.
func (b *Builder) Date(date string) *Builder {
	return b.add(&Block{Type: "date", Children: []Node{Plain(date)}})
}

// Toggle adds a collapsible section. Without content leaves the body is
// empty text.
func (b *Builder) Toggle(header string, content ...Text) *Builder {
	inner := make([]Node, 0, max(len(content), 1))
	for _, t := range content {
		inner = append(inner, t)
	}
	if len(inner) == 0 {
		inner = append(inner, Plain(""))
	}
	return b.add(&Block{Type: "toggle", Children: []Node{
		Plain(header),
		&Block{Type: "toggle_content", Children: inner},
	}})
}

// Equation adds a LaTeX equation, inline or as a block.
func (b *Builder) Equation(tex string, inline bool) *Builder {
	typ := "equation"
	if inline {
		typ = "inline_equation"
	}
	return b.add(&Block{Type: typ, Equation: tex, Children: []Node{Plain("")}})
}

// StartColumns opens a column group with one column per width, for example
// TwoEqual or []string{"60%", "40%"}. An open group is closed first.
func (b *Builder) StartColumns(widths []string) *Builder {
	if len(widths) == 0 {
		return b.fail("column layout needs at least one width")
	}
	b.EndColumns()
	group := &Block{Type: "column_group", ID: BlockID(), Children: make([]Node, 0, len(widths))}
	for _, w := range widths {
		group.Children = append(group.Children, &Block{Type: "column", ID: BlockID(), Width: w, Children: []Node{}})
	}
	b.group = group
	b.current = 0
	return b
}

// NextColumn moves to the next column of the open group.
func (b *Builder) NextColumn() *Builder {
	if b.group == nil {
		return b.fail("no active column group")
	}
	if b.current+1 >= len(b.group.Children) {
		return b.fail("no more columns available in this group")
	}
	b.current++
	return b
}

// EndColumns closes the open column group. Empty columns get an empty
// paragraph.
func (b *Builder) EndColumns() *Builder {
	if b.group == nil {
		return b
	}
	for _, n := range b.group.Children {
		col := n.(*Block)
		if len(col.Children) == 0 {
			col.Children = append(col.Children, &Block{Type: "p", ID: BlockID(), Children: []Node{Plain("")}})
		}
	}
	group := b.group
	b.group = nil
	b.current = 0
	b.body.Structure.EditorState = append(b.body.Structure.EditorState, group)
	return b
}

// Build closes any open column group and returns the body, or the joined
// errors recorded by earlier calls.
func (b *Builder) Build() (Body, error) {
	b.EndColumns()
	if err := errors.Join(b.errs...); err != nil {
		return Body{}, err
	}
	return b.body, nil
}
