package listing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sort"

	"github.com/emlak/backend/internal/application/media"
	"github.com/emlak/backend/internal/domain/branch"
	"github.com/emlak/backend/internal/domain/consultant"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/location"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BrochureImageLimit is the number of images printed on a brochure
const BrochureImageLimit = 6

// PDFRenderer turns a complete HTML document into a PDF
type PDFRenderer interface {
	RenderPDF(ctx context.Context, title, html string) ([]byte, error)
}

var statusLabels = map[listing.Status]string{
	listing.StatusForSale: "Satılık",
	listing.StatusForRent: "Kiralık",
}

var categoryLabels = map[listing.Category]string{
	listing.CategoryHousing:     "Konut",
	listing.CategoryLand:        "Arsa",
	listing.CategoryCommercial:  "İşyeri",
	listing.CategoryTransfer:    "Devren",
	listing.CategoryField:       "Tarla",
	listing.CategoryGarden:      "Bahçe",
	listing.CategoryHobbyGarden: "Hobi Bahçesi",
}

// BrochureData is the view model of the brochure template
type BrochureData struct {
	ListingNo       string
	Title           string
	Description     string
	PriceDisplay    string
	StatusLabel     string
	CategoryLabel   string
	Area            string
	Location        string
	Attributes      []BrochureAttribute
	ImageURLs       []string
	BranchName      string
	BranchPhone     string
	BranchAddress   string
	ConsultantName  string
	ConsultantPhone string
}

// BrochureAttribute is one labelled attribute row
type BrochureAttribute struct {
	Key   string
	Value string
}

// BrochureService renders printable listing brochures
type BrochureService struct {
	listingRepo    listing.ListingRepository
	branchRepo     branch.BranchRepository
	consultantRepo consultant.ConsultantRepository
	cityRepo       location.CityRepository
	districtRepo   location.DistrictRepository
	renderer       PDFRenderer
	urls           media.URLBuilder
	tmpl           *template.Template
	logger         *zap.Logger
}

// NewBrochureService creates a new BrochureService
func NewBrochureService(
	listingRepo listing.ListingRepository,
	branchRepo branch.BranchRepository,
	consultantRepo consultant.ConsultantRepository,
	cityRepo location.CityRepository,
	districtRepo location.DistrictRepository,
	renderer PDFRenderer,
	urls media.URLBuilder,
	logger *zap.Logger,
) *BrochureService {
	return &BrochureService{
		listingRepo:    listingRepo,
		branchRepo:     branchRepo,
		consultantRepo: consultantRepo,
		cityRepo:       cityRepo,
		districtRepo:   districtRepo,
		renderer:       renderer,
		urls:           urls,
		tmpl:           template.Must(template.New("brochure").Parse(brochureTemplate)),
		logger:         logger,
	}
}

// Render returns the PDF brochure of a published listing
func (s *BrochureService) Render(ctx context.Context, tenantID, id uuid.UUID) ([]byte, string, error) {
	data, err := s.Data(ctx, tenantID, id)
	if err != nil {
		return nil, "", err
	}
	html, err := s.HTML(data)
	if err != nil {
		return nil, "", err
	}

	pdf, err := s.renderer.RenderPDF(ctx, data.Title, html)
	if err != nil {
		s.logger.Error("Failed to render brochure",
			zap.String("listing_id", id.String()),
			zap.Error(err),
		)
		return nil, "", err
	}
	return pdf, fmt.Sprintf("ilan-%s.pdf", data.ListingNo), nil
}

// Data collects the brochure view model. Missing branch, consultant or
// location names leave the corresponding fields empty.
func (s *BrochureService) Data(ctx context.Context, tenantID, id uuid.UUID) (*BrochureData, error) {
	l, err := s.listingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !l.IsPublished() {
		return nil, shared.NewNotFoundError("Listing")
	}

	data := &BrochureData{
		ListingNo:     l.ListingNo,
		Title:         l.Title,
		Description:   l.Description,
		PriceDisplay:  l.Price.Display(),
		StatusLabel:   statusLabels[l.Status],
		CategoryLabel: categoryLabels[l.Category],
		Attributes:    brochureAttributes(l.Attributes),
	}
	if l.Area.IsPositive() {
		data.Area = l.Area.String() + " m²"
	}
	for _, img := range l.Images {
		if len(data.ImageURLs) == BrochureImageLimit {
			break
		}
		data.ImageURLs = append(data.ImageURLs, s.urls.URL(img.Key))
	}

	if city, err := s.cityRepo.FindByIDForTenant(ctx, tenantID, l.CityID); err == nil {
		data.Location = city.Name
	}
	if l.DistrictID != nil {
		if d, err := s.districtRepo.FindByIDForTenant(ctx, tenantID, *l.DistrictID); err == nil {
			data.Location = d.Name + " / " + data.Location
		}
	}
	if l.BranchID != nil {
		if b, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, *l.BranchID); err == nil {
			data.BranchName = b.Name
			data.BranchPhone = b.Phone
			data.BranchAddress = b.Address
		}
	}
	if l.ConsultantID != nil {
		if c, err := s.consultantRepo.FindByIDForTenant(ctx, tenantID, *l.ConsultantID); err == nil {
			data.ConsultantName = c.FullName
			data.ConsultantPhone = c.Phone
		}
	}
	return data, nil
}

// HTML executes the brochure template
func (s *BrochureService) HTML(data *BrochureData) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute brochure template: %w", err)
	}
	return buf.String(), nil
}

func brochureAttributes(attrs listing.Attributes) []BrochureAttribute {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]BrochureAttribute, 0, len(keys))
	for _, k := range keys {
		if v := attrs.String(k); v != "" {
			out = append(out, BrochureAttribute{Key: k, Value: v})
		}
	}
	return out
}

const brochureTemplate = `<!DOCTYPE html>
<html lang="tr">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; color: #222; margin: 0; }
header { border-bottom: 3px solid #c0392b; padding-bottom: 8px; margin-bottom: 16px; }
h1 { font-size: 22px; margin: 0 0 4px; }
.meta { color: #666; font-size: 12px; }
.price { font-size: 26px; font-weight: bold; color: #c0392b; margin: 12px 0; }
.gallery { display: flex; flex-wrap: wrap; gap: 6px; }
.gallery img { width: 32%; height: 150px; object-fit: cover; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; font-size: 13px; }
td { border-bottom: 1px solid #eee; padding: 4px 6px; }
footer { margin-top: 24px; font-size: 12px; border-top: 1px solid #ccc; padding-top: 8px; }
</style>
</head>
<body>
<header>
<h1>{{.Title}}</h1>
<div class="meta">İlan No: {{.ListingNo}}{{if .Location}} · {{.Location}}{{end}}</div>
</header>
<div class="price">{{.PriceDisplay}}</div>
{{if .ImageURLs}}<div class="gallery">{{range .ImageURLs}}<img src="{{.}}">{{end}}</div>{{end}}
<table>
<tr><td>Durum</td><td>{{.StatusLabel}}</td></tr>
<tr><td>Kategori</td><td>{{.CategoryLabel}}</td></tr>
{{if .Area}}<tr><td>Alan</td><td>{{.Area}}</td></tr>{{end}}
{{range .Attributes}}<tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
{{if .Description}}<p>{{.Description}}</p>{{end}}
<footer>
{{if .ConsultantName}}<div>{{.ConsultantName}}{{if .ConsultantPhone}} · {{.ConsultantPhone}}{{end}}</div>{{end}}
{{if .BranchName}}<div>{{.BranchName}}{{if .BranchPhone}} · {{.BranchPhone}}{{end}}</div>{{end}}
{{if .BranchAddress}}<div>{{.BranchAddress}}</div>{{end}}
</footer>
</body>
</html>
`
