package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"TrendScanner/internal/domain"
)

// PageType names a marketplace page template variant.
type PageType string

const (
	PageGoldbox PageType = "goldbox"
	PageBest    PageType = "best"
	PageUnknown PageType = "unknown"
)

var nonDigitExpr = regexp.MustCompile(`\D`)

// rule holds the per-template selectors. Each field is extracted independently
// so a missing one never aborts the rest of the unit.
type rule struct {
	marker   string // container class unique to the template, used for classification
	item     string // repeating product-unit anchor
	title    string
	price    string
	original string
	discount string
	cdnHost  string
	baseURL  string
}

// known is ordered: classification checks markers in this order and unknown
// markup falls back to the first entry.
var known = []struct {
	pageType PageType
	rule     rule
}{
	{
		pageType: PageGoldbox,
		rule: rule{
			marker:   "goldbox-product-list",
			item:     `a[href*="/products/"]`,
			title:    ".product-name",
			price:    ".sale-price",
			original: ".base-price",
			discount: ".discount-rate",
			cdnHost:  "marketcdn",
			baseURL:  "https://www.coupang.com",
		},
	},
	{
		pageType: PageBest,
		rule: rule{
			marker:   "best-product-list",
			item:     `a[href*="/products/"]`,
			title:    ".name",
			price:    ".price-value",
			original: ".price-origin",
			discount: ".sale-badge",
			cdnHost:  "marketcdn",
			baseURL:  "https://www.coupang.com",
		},
	},
}

// Classify inspects markup for the container class unique to each known
// template. Unrecognized markup yields PageUnknown, never an error.
func Classify(markup string) PageType {
	for _, k := range known {
		if strings.Contains(markup, k.rule.marker) {
			return k.pageType
		}
	}
	return PageUnknown
}

// Extract turns raw markup into product records. It is pure and never fails:
// malformed input degrades to an empty list, and unknown page types are scanned
// best-effort with the first known rule.
func Extract(markup string) (PageType, []domain.ProductRecord) {
	pageType := Classify(markup)
	r := ruleFor(pageType)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return pageType, nil
	}

	var records []domain.ProductRecord
	doc.Find(r.item).Each(func(_ int, sel *goquery.Selection) {
		if rec, ok := extractUnit(sel, r); ok {
			records = append(records, rec)
		}
	})

	return pageType, records
}

func ruleFor(pageType PageType) rule {
	for _, k := range known {
		if k.pageType == pageType {
			return k.rule
		}
	}
	return known[0].rule
}

func extractUnit(sel *goquery.Selection, r rule) (domain.ProductRecord, bool) {
	href, _ := sel.Attr("href")

	rec := domain.ProductRecord{
		Name:      cleanName(sel.Find(r.title).First().Text()),
		SourceURL: absoluteURL(r.baseURL, strings.TrimSpace(href)),
	}
	if rec.Name == "" || rec.SourceURL == "" {
		return domain.ProductRecord{}, false
	}

	sel.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, ok := img.Attr("src")
		if !ok || !strings.Contains(src, r.cdnHost) {
			return true
		}
		rec.ImageURL = normalizeImageURL(src)
		return false
	})

	rec.Price = parsePrice(sel.Find(r.price).First().Text())
	rec.OriginalPrice = parsePrice(sel.Find(r.original).First().Text())
	rec.DiscountRate = parseDiscount(sel.Find(r.discount).First().Text())

	return rec, true
}

// cleanName collapses redundant whitespace; comment nodes are already dropped
// by the document parser.
func cleanName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// parsePrice strips every non-digit character before parsing. A string with no
// digits yields nil, never zero.
func parsePrice(raw string) *int64 {
	digits := nonDigitExpr.ReplaceAllString(raw, "")
	if digits == "" {
		return nil
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseDiscount accepts percentages in 0-100 only.
func parseDiscount(raw string) *int {
	digits := nonDigitExpr.ReplaceAllString(raw, "")
	if digits == "" {
		return nil
	}
	v, err := strconv.Atoi(digits)
	if err != nil || v > 100 {
		return nil
	}
	return &v
}

// normalizeImageURL upgrades protocol-relative URLs to explicit https.
func normalizeImageURL(src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}

func absoluteURL(base, href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "http"):
		return href
	case strings.HasPrefix(href, "/"):
		return strings.TrimSuffix(base, "/") + href
	}
	return strings.TrimSuffix(base, "/") + "/" + href
}
