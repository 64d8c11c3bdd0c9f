package mail

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"

	"birthday-coupons/internal/config"
	"birthday-coupons/internal/domain/model"
)

// MergeFields are the values substituted into the subject, greeting and
// message body. Placeholder names mirror the upstream email template.
type MergeFields struct {
	CustomerName     string
	CouponCode       string
	CouponAmount     string
	CouponTypeText   string
	CouponExpiryDate string
	SiteTitle        string
}

func (f MergeFields) replacer() *strings.Replacer {
	return strings.NewReplacer(
		"{customer_name}", f.CustomerName,
		"{coupon_code}", f.CouponCode,
		"{coupon_amount}", f.CouponAmount,
		"{coupon_type_text}", f.CouponTypeText,
		"{coupon_expiry_date}", f.CouponExpiryDate,
		"{site_title}", f.SiteTitle,
	)
}

var bodyTmpl = template.Must(template.New("birthday-coupon").Parse(`<html>
<body>
  <h1>{{.Heading}}</h1>
  {{if .Message}}<p>{{.Message}}</p>{{end}}
  <p>Here is your birthday gift: a {{.AmountText}} just for you.</p>
  <p class="coupon-code"><strong>{{.Code}}</strong></p>
  <p>Use it before {{.Expiry}}.</p>
</body>
</html>
`))

// Renderer turns coupon and profile data into a ready-to-send email.
type Renderer struct {
	cfg config.EmailConfig
}

func NewRenderer(cfg config.EmailConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render substitutes merge fields into the configured subject/greeting
// and wraps the message in the HTML body template.
func (r *Renderer) Render(profile *model.Profile, coupon *model.Coupon) (subject, htmlBody string, err error) {
	fields := MergeFields{
		CustomerName:     profile.DisplayName,
		CouponCode:       coupon.Code,
		CouponAmount:     trimTrailingZeros(coupon.Amount),
		CouponTypeText:   coupon.AmountText(),
		CouponExpiryDate: coupon.ExpiresAt.Format("January 2, 2006"),
		SiteTitle:        r.cfg.SiteTitle,
	}
	rep := fields.replacer()

	subject = rep.Replace(r.cfg.Subject)
	heading := rep.Replace(r.cfg.Greeting)
	message := rep.Replace(r.cfg.Message)

	var buf bytes.Buffer
	err = bodyTmpl.Execute(&buf, struct {
		Heading    string
		Message    string
		AmountText string
		Code       string
		Expiry     string
	}{
		Heading:    heading,
		Message:    message,
		AmountText: fields.CouponTypeText,
		Code:       coupon.Code,
		Expiry:     fields.CouponExpiryDate,
	})
	if err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}

func trimTrailingZeros(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "" {
		return "0"
	}
	return s
}
