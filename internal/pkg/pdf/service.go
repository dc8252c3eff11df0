// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"

	"github.com/shopvn/storefront/internal/config"
	"github.com/shopvn/storefront/internal/domain/product"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
	tmpl   *template.Template
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		tmpl: template.Must(template.New("listing").Funcs(template.FuncMap{
			"vnd":    FormatVND,
			"vndPtr": formatVNDPtr,
		}).Parse(listingTemplate)),
		now: time.Now,
	}
}

// ListingReport is the data behind an exported admin listing
type ListingReport struct {
	Company     string
	Title       string
	GeneratedAt string
	Filters     string
	Page        int
	TotalPages  int
	Total       int64
	Rows        []product.Card
}

// NewListingReport describes one page of the admin listing
func (s *Service) NewListingReport(q product.SearchQuery, result *product.ListResult, cards []product.Card) ListingReport {
	return ListingReport{
		Company:     s.config.App.CompanyName,
		Title:       "Danh sách sản phẩm",
		GeneratedAt: s.now().Format("02/01/2006 15:04"),
		Filters:     describeFilters(q),
		Page:        result.Pagination.Page,
		TotalPages:  result.Pagination.TotalPages,
		Total:       result.Pagination.Total,
		Rows:        cards,
	}
}

// GenerateListing renders the report to PDF through wkhtmltopdf
func (s *Service) GenerateListing(report ListingReport) (*bytes.Buffer, error) {
	// Generate HTML from template
	htmlContent, err := s.RenderHTML(report)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	// Convert HTML to PDF
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationLandscape)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(htmlContent))
	page.FooterRight.Set("[page]/[topage]")
	page.FooterFontSize.Set(9)
	page.Encoding.Set("utf-8")

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML executes the listing template
func (s *Service) RenderHTML(report ListingReport) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func describeFilters(q product.SearchQuery) string {
	var parts []string
	if q.Term != "" {
		parts = append(parts, fmt.Sprintf("từ khóa %q", q.Term))
	}
	if q.CategorySlug != "" {
		parts = append(parts, "danh mục "+q.CategorySlug)
	}
	if q.MinPrice != nil {
		parts = append(parts, "giá từ "+FormatVND(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		parts = append(parts, "giá đến "+FormatVND(*q.MaxPrice))
	}
	if len(parts) == 0 {
		return "Tất cả sản phẩm"
	}
	return strings.Join(parts, ", ")
}

// FormatVND formats an amount as whole dong with dot thousand separators
func FormatVND(amount decimal.Decimal) string {
	digits := amount.Abs().Round(0).StringFixed(0)

	var b strings.Builder
	if amount.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteString(" ₫")
	return b.String()
}

func formatVNDPtr(amount *decimal.Decimal) string {
	if amount == nil {
		return ""
	}
	return FormatVND(*amount)
}

const listingTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        h1 { font-size: 22px; color: #2563eb; margin-bottom: 4px; }
        .meta { font-size: 12px; color: #666; margin-bottom: 16px; }
        table { width: 100%; border-collapse: collapse; font-size: 12px; }
        th { background: #f3f4f6; text-align: left; padding: 6px; border-bottom: 2px solid #ddd; }
        td { padding: 6px; border-bottom: 1px solid #eee; }
        .num { text-align: right; }
        .inactive { color: #999; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <div class="meta">
        {{.Company}} · {{.GeneratedAt}} · {{.Filters}} · Trang {{.Page}}/{{.TotalPages}} · {{.Total}} sản phẩm
    </div>
    <table>
        <thead>
            <tr>
                <th>ID</th>
                <th>Tên sản phẩm</th>
                <th>Danh mục</th>
                <th class="num">Giá</th>
                <th class="num">Giảm giá</th>
                <th class="num">Tồn kho</th>
                <th>Trạng thái</th>
            </tr>
        </thead>
        <tbody>
            {{range .Rows}}
            <tr{{if not .IsActive}} class="inactive"{{end}}>
                <td>{{.ID}}</td>
                <td>{{.Name}}<br><small>{{.Slug}}</small></td>
                <td>{{if .Category}}{{.Category.Name}}{{else}}—{{end}}</td>
                <td class="num">{{vnd .Price}}</td>
                <td class="num">{{if .HasDiscount}}{{vndPtr .DiscountPrice}} (-{{.DiscountPercent}}%){{else}}—{{end}}</td>
                <td class="num">{{.TotalStock}}</td>
                <td>{{if .IsActive}}Đang bán{{else}}Ẩn{{end}}</td>
            </tr>
            {{else}}
            <tr><td colspan="7">Không có sản phẩm</td></tr>
            {{end}}
        </tbody>
    </table>
</body>
</html>
`
