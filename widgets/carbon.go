package widgets

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/amarshat/walletwidget"
)

// DefaultCarbonPeriod labels the summary when the API sends no period.
const DefaultCarbonPeriod = "This month"

// CarbonImpactPayload is the body of /api/wallet/carbon-impact.
type CarbonImpactPayload struct {
	CO2SavedKg       Amount `json:"co2SavedKg"`
	TreesEquivalent  Amount `json:"treesEquivalent"`
	OffsetPercentage Amount `json:"offsetPercentage"`
	Period           string `json:"period"`
}

// Normalize clamps the offset into [0, 100] and defaults the period.
func (p *CarbonImpactPayload) Normalize() {
	for _, v := range []*Amount{&p.CO2SavedKg, &p.TreesEquivalent, &p.OffsetPercentage} {
		if f := float64(*v); math.IsNaN(f) || math.IsInf(f, 0) {
			*v = 0
		}
	}
	if p.OffsetPercentage < 0 {
		p.OffsetPercentage = 0
	}
	if p.OffsetPercentage > 100 {
		p.OffsetPercentage = 100
	}
	if p.CO2SavedKg < 0 {
		p.CO2SavedKg = 0
	}
	if p.TreesEquivalent < 0 {
		p.TreesEquivalent = 0
	}
	if strings.TrimSpace(p.Period) == "" {
		p.Period = DefaultCarbonPeriod
	}
}

// CarbonImpact renders the carbon-impact widget.
func CarbonImpact() *walletwidget.TypedRenderer[CarbonImpactPayload] {
	return walletwidget.Typed(walletwidget.TypeCarbonImpact, carbonView)
}

func carbonView(_ context.Context, p CarbonImpactPayload) templ.Component {
	offset := strconv.FormatFloat(float64(p.OffsetPercentage), 'f', 0, 64)
	return markup(func(sb *strings.Builder) {
		sb.WriteString(`<div class="ww-carbon">`)
		sb.WriteString(`<p class="ww-muted">` + esc(p.Period) + `</p>`)
		sb.WriteString(`<div class="ww-metric">` + strconv.FormatFloat(float64(p.CO2SavedKg), 'f', 1, 64) + ` kg CO₂ saved</div>`)
		field(sb, "Trees equivalent", strconv.FormatFloat(float64(p.TreesEquivalent), 'f', 1, 64))
		field(sb, "Offset", offset+"%")
		sb.WriteString(`<div class="ww-progress" role="progressbar" aria-valuemin="0" aria-valuemax="100" aria-valuenow="` + offset + `">`)
		sb.WriteString(`<div class="ww-progress-bar" style="width:` + offset + `%"></div></div>`)
		sb.WriteString(`</div>`)
	})
}
