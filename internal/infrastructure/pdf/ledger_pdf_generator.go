// Package pdf genera el reporte del libro de stock de un producto con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + categoría  │  Generado el / Cantidad    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Fecha | Sentido | Cantidad | Saldo | Usuario     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Saldo reconstruido            │
//	│  FOOTER: QR con el ID del producto                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/ledger"
)

var _ inventory.LedgerPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorDanger  = &props.Color{Red: 170, Green: 20, Blue: 20}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.LedgerPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. Los números se formatean con separador de miles en español.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.Spanish)}
}

// GenerateLedgerPDF genera el PDF del libro y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateLedgerPDF(
	_ context.Context,
	product *entity.Product,
	entries []ledger.Entry,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Libro de stock - "+product.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(product, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(entries) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	for _, r := range g.tableDetailRows(entries) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(product, entries))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(product))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre, categoría y precio (izq); fecha de generación y cantidad actual (der).
func (g *MarotoPDFGenerator) headerRow(product *entity.Product, generatedAt time.Time) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(product.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Categoría: %s   |   Precio: $%s",
				nonEmpty(product.Category, "-"),
				formatPrice(product.Price),
			), props.Text{Size: 9, Top: 9, Color: colorGray}),
			text.New("ID: "+product.ID, props.Text{Size: 7, Top: 15, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("LIBRO DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(g.printer.Sprintf("Cantidad: %d", product.Quantity), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Fecha", 3, align.Left),
		h("Sentido", 2, align.Center),
		h("Cantidad", 2, align.Right),
		h("Saldo", 2, align.Right),
		h("Usuario", 2, align.Left),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por movimiento, con saldo acumulado.
func (g *MarotoPDFGenerator) tableDetailRows(entries []ledger.Entry) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for i, e := range entries {
		sign, label := "+", "Entrada"
		if e.Movement.Direction == entity.DirectionOut {
			sign, label = "-", "Salida"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(e.Movement.CreatedAt.Format("02/01/2006 15:04:05"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(label, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(sign+g.printer.Sprintf("%d", e.Movement.Magnitude), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.printer.Sprintf("%d", e.Balance), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(shortID(e.Movement.CreatedBy), props.Text{Size: 7, Top: 1, Left: 1, Color: colorGray})),
		))
	}
	return result
}

// totalsRow: entradas, salidas y saldo reconstruido. Si no coincide con la cantidad del producto se marca en rojo.
func (g *MarotoPDFGenerator) totalsRow(product *entity.Product, entries []ledger.Entry) core.Row {
	movements := make([]*entity.Movement, 0, len(entries))
	for _, e := range entries {
		movements = append(movements, e.Movement)
	}
	in, out := ledger.Totals(movements)
	replayed := ledger.Replay(movements)

	balanceColor := colorPrimary
	if replayed != product.Quantity {
		balanceColor = colorDanger
	}
	label := func(s string, c *props.Color) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Color: c})
	}
	value := func(s string, c *props.Color) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Color: c})
	}

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Entradas:", nil),
			label("Salidas:", nil),
			label("Saldo:", balanceColor),
		),
		col.New(3).Add(
			value(g.printer.Sprintf("%d", in), nil),
			value(g.printer.Sprintf("%d", out), nil),
			value(g.printer.Sprintf("%d", replayed), balanceColor),
		),
	)
}

// footerRow: QR con el ID del producto para ubicarlo desde el reporte impreso.
func footerRow(product *entity.Product) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(product.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("El saldo se reconstruye sumando los movimientos en orden de registro.", props.Text{
				Size: 7, Top: 4, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatPrice formatea con dos decimales, puntos de miles y coma decimal. Ej: 1234.5 → "1.234,50".
func formatPrice(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := false
	if s[0] == '-' {
		neg, s = true, s[1:]
	}
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	out := formatThousands(intPart) + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return nonEmpty(id, "-")
}
