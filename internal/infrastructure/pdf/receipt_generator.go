// Package pdf genera el recibo de pago de una membresía.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Organización          │  N° Recibo + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MIEMBRO: Empresa + registro + dirección                     │
//	│  MEMBRESÍA: tipo, vigencia, estado de pago                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Método | Referencia | Estado | Monto         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL PAGADO                                                │
//	│  FOOTER: QR de la referencia + leyenda                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

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

	"github.com/jhoicas/gncci-portal/internal/application/dto"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 98, Blue: 65}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var methodLabels = map[string]string{
	"bank_transfer": "Bank transfer",
	"card":          "Card",
	"cash":          "Cash",
	"mobile_money":  "Mobile money",
}

// ReceiptGenerator recibos con Maroto v2.
type ReceiptGenerator struct {
	org string
}

// NewReceiptGenerator construye el generador; org aparece como emisor del recibo.
func NewReceiptGenerator(org string) *ReceiptGenerator {
	if org == "" {
		org = "GNCCI"
	}
	return &ReceiptGenerator{org: org}
}

// Render genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) Render(_ context.Context, r dto.ReceiptData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Payment receipt "+ReceiptNumber(r.Payment.ID), true).
		WithAuthor(g.org, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if r.Company != nil {
		m.AddRows(memberRow(r))
	}
	if r.Membership != nil {
		m.AddRows(membershipRow(r))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(), paymentRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(r.Payment.Amount))

	m.AddRows(line.NewRow(4))
	m.AddRows(footerRows(r)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ReceiptNumber número visible del recibo, derivado del id del pago.
func ReceiptNumber(paymentID string) string {
	id := strings.ReplaceAll(paymentID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "RCPT-" + strings.ToUpper(id)
}

func (g *ReceiptGenerator) headerRow(r dto.ReceiptData) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.org, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Membership payment receipt", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("RECEIPT", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(ReceiptNumber(r.Payment.ID), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Issued: "+r.IssuedAt.Format("02 Jan 2006"), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func memberRow(r dto.ReceiptData) core.Row {
	c := r.Company
	return row.New(16).Add(
		col.New(12).Add(
			text.New("MEMBER", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(c.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Reg. No: %s   |   %s, %s, %s",
				nonEmpty(c.RegistrationNumber, "—"), nonEmpty(c.Address, "—"), c.City, c.Country,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func membershipRow(r dto.ReceiptData) core.Row {
	ms := r.Membership
	period := ms.StartDate.String() + " to " + ms.EndDate.String()
	return row.New(12).Add(
		col.New(12).Add(
			text.New("MEMBERSHIP", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Type: %s   |   Period: %s   |   Annual fee: %s   |   Payment status: %s",
				strings.ToUpper(string(ms.MembershipType)), period, FormatMoney(ms.AnnualFee), nonEmpty(ms.PaymentStatus, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Date", 2, align.Left),
		h("Method", 2, align.Left),
		h("Reference", 4, align.Left),
		h("Status", 2, align.Center),
		h("Amount", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func paymentRow(r dto.ReceiptData) core.Row {
	p := r.Payment
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(7).Add(
		cell(p.PaymentDate.String(), 2, align.Left),
		cell(nonEmpty(methodLabels[p.PaymentMethod], p.PaymentMethod), 2, align.Left),
		cell(p.Reference, 4, align.Left),
		cell(p.Status, 2, align.Center),
		cell(FormatMoney(p.Amount), 2, align.Right),
	)
}

func totalRow(amount decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL PAID:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(FormatMoney(amount), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func footerRows(r dto.ReceiptData) []core.Row {
	legend := "This receipt confirms a payment recorded against the membership above. " +
		"Keep it for your records."
	if r.Payment.Reference == "" {
		return []core.Row{row.New(10).Add(col.New(12).Add(
			text.New(legend, props.Text{Size: 7, Color: colorGray, Top: 2}),
		))}
	}
	return []core.Row{row.New(40).Add(
		col.New(3).Add(code.NewQr(r.Payment.Reference, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Payment reference: "+r.Payment.Reference, props.Text{Style: fontstyle.Bold, Size: 8, Top: 4, Left: 3}),
			text.New(legend, props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray}),
		),
	)}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// FormatMoney dos decimales con separador de miles: 1250.5 -> "1,250.50".
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, intPart[i])
	}
	return sign + string(buf) + "." + frac
}
