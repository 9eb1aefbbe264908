// internal/pkg/receipt/service.go
package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/config"
)

// Service renders printable receipts for completed transactions
type Service struct {
	config *config.Config
}

// NewService creates a new receipt service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// Generate renders a PDF receipt for a transaction
func (s *Service) Generate(tx *backend.Transaction) (*bytes.Buffer, error) {
	data := receiptData{
		Transaction: tx,
		Company: companyInfo{
			Name:    s.config.Company.Name,
			Address: s.config.Company.Address,
			Phone:   s.config.Company.Phone,
		},
		IssuedAt: tx.CreatedAt.Format("02 Jan 2006 15:04"),
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(true)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data receiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Funcs(template.FuncMap{
		"rupiah": formatRupiah,
	}).Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// formatRupiah renders an integer rupiah amount with thousand separators
func formatRupiah(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	negative := false
	if amount < 0 {
		negative = true
		digits = digits[1:]
	}

	var buf bytes.Buffer
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			buf.WriteByte('.')
		}
		buf.WriteRune(d)
	}

	if negative {
		return "-Rp " + buf.String()
	}
	return "Rp " + buf.String()
}

type receiptData struct {
	Transaction *backend.Transaction
	Company     companyInfo
	IssuedAt    string
}

type companyInfo struct {
	Name    string
	Address string
	Phone   string
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.Transaction.InvoiceNumber}}</title>
    <style>
        body {
            font-family: "Courier New", monospace;
            font-size: 12px;
            width: 280px;
            margin: 0 auto;
            padding: 10px;
        }
        .center { text-align: center; }
        .right { text-align: right; }
        .divider { border-top: 1px dashed #000; margin: 8px 0; }
        table { width: 100%; border-collapse: collapse; }
        td { padding: 2px 0; vertical-align: top; }
        .total { font-weight: bold; font-size: 14px; }
    </style>
</head>
<body>
    <div class="center">
        <strong>{{.Company.Name}}</strong><br>
        {{if .Company.Address}}{{.Company.Address}}<br>{{end}}
        {{if .Company.Phone}}{{.Company.Phone}}<br>{{end}}
    </div>
    <div class="divider"></div>
    <table>
        <tr><td>Invoice</td><td class="right">{{.Transaction.InvoiceNumber}}</td></tr>
        <tr><td>Date</td><td class="right">{{.IssuedAt}}</td></tr>
        <tr><td>Customer</td><td class="right">{{.Transaction.CustomerName}}</td></tr>
        <tr><td>Payment</td><td class="right">{{.Transaction.PaymentMethod}}</td></tr>
    </table>
    <div class="divider"></div>
    <table>
        {{range .Transaction.Items}}
        <tr>
            <td colspan="2">{{.ProductName}}</td>
        </tr>
        <tr>
            <td>{{.Quantity}} x {{rupiah .Price}}</td>
            <td class="right">{{rupiah .Subtotal}}</td>
        </tr>
        {{end}}
    </table>
    <div class="divider"></div>
    <table>
        <tr><td>Subtotal</td><td class="right">{{rupiah .Transaction.Subtotal}}</td></tr>
        {{if .Transaction.Discount}}
        <tr><td>Discount</td><td class="right">-{{rupiah .Transaction.Discount}}</td></tr>
        {{end}}
        <tr><td>Tax (11%)</td><td class="right">{{rupiah .Transaction.Tax}}</td></tr>
        <tr class="total"><td>TOTAL</td><td class="right">{{rupiah .Transaction.Total}}</td></tr>
    </table>
    <div class="divider"></div>
    <div class="center">Terima kasih atas kunjungan Anda</div>
</body>
</html>
`
