package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/wasafinance/internal/report/shaper"
)

const (
	cellSize  = 8
	rowHeight = 7
)

var (
	headerFill = &props.Color{Red: 230, Green: 236, Blue: 245}
	mutedText  = &props.Color{Red: 110, Green: 110, Blue: 110}
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateReport(ctx context.Context, doc shaper.Document, reportID string) (io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Halaman {current} dari {total}",
			Place:   props.RightBottom,
			Size:    cellSize,
		}).
		WithLeftMargin(12).
		WithRightMargin(12).
		WithTopMargin(12).
		Build()

	m := maroto.New(cfg)

	if doc.BusinessName != "" {
		m.AddRow(8,
			text.NewCol(12, doc.BusinessName, props.Text{
				Size:  11,
				Style: fontstyle.Bold,
				Color: mutedText,
			}),
		)
	}

	m.AddRow(11,
		text.NewCol(12, doc.Title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(14,
		col.New(8).Add(
			text.New(doc.Subtitle, props.Text{Size: 10}),
			text.New("Dibuat: "+doc.Generated, props.Text{Top: 5, Size: cellSize, Color: mutedText}),
		),
		text.NewCol(4, "ID: "+reportID, props.Text{Size: cellSize, Align: align.Right, Color: mutedText}),
	)
	m.AddRow(2, line.NewCol(12))

	for _, table := range doc.Tables {
		addTable(m, table)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate report pdf: %w", err)
	}

	return bytes.NewReader(out.GetBytes()), nil
}

func addTable(m core.Maroto, table shaper.Table) {
	m.AddRow(12,
		text.NewCol(12, table.Title, props.Text{
			Top:   5,
			Size:  12,
			Style: fontstyle.Bold,
		}),
	)

	header := make([]core.Col, 0, len(table.Columns))
	for _, c := range table.Columns {
		header = append(header, text.NewCol(c.Width, c.Header, props.Text{
			Top:   1.5,
			Size:  cellSize,
			Style: fontstyle.Bold,
			Align: toAlign(c.Align),
		}))
	}
	m.AddRow(rowHeight, header...).WithStyle(&props.Cell{BackgroundColor: headerFill})

	for _, cells := range table.Rows {
		if table.Placeholder {
			m.AddRow(rowHeight,
				text.NewCol(12, shaper.PlaceholderText, props.Text{
					Top:   1.5,
					Size:  cellSize,
					Style: fontstyle.Italic,
					Align: align.Center,
					Color: mutedText,
				}),
			)
			continue
		}
		m.AddRow(rowHeight, rowCols(table.Columns, cells, fontstyle.Normal)...)
	}

	if len(table.Footer) > 0 {
		m.AddRow(1, line.NewCol(12))
		m.AddRow(rowHeight, rowCols(table.Columns, table.Footer, fontstyle.Bold)...)
	}
}

func rowCols(columns []shaper.Column, cells []string, style fontstyle.Type) []core.Col {
	cols := make([]core.Col, 0, len(columns))
	for i, c := range columns {
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		cols = append(cols, text.NewCol(c.Width, value, props.Text{
			Top:   1.5,
			Size:  cellSize,
			Style: style,
			Align: toAlign(c.Align),
		}))
	}
	return cols
}

func toAlign(a shaper.Align) align.Type {
	switch a {
	case shaper.AlignRight:
		return align.Right
	case shaper.AlignCenter:
		return align.Center
	default:
		return align.Left
	}
}
