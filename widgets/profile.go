package widgets

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/amarshat/walletwidget"
)

// MessageNoProfile is shown when the profile carries no displayable field.
const MessageNoProfile = "Profile details are unavailable."

// ProfilePayload is the body of /api/user/profile.
type ProfilePayload struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	WalletID  string `json:"walletId"`
}

// Normalize fills Name from first/last name when absent.
func (p *ProfilePayload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	}
}

func (p ProfilePayload) empty() bool {
	return p.Name == "" && p.Email == "" && p.Phone == "" && p.WalletID == ""
}

// initials returns up to two upper-case initials of name.
func initials(name string) string {
	var out []rune
	for _, part := range strings.Fields(name) {
		out = append(out, []rune(strings.ToUpper(part))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// Profile renders the profile widget.
func Profile() *walletwidget.TypedRenderer[ProfilePayload] {
	return walletwidget.Typed(walletwidget.TypeProfile, profileView)
}

func profileView(_ context.Context, p ProfilePayload) templ.Component {
	if p.empty() {
		return walletwidget.EmptyView(MessageNoProfile)
	}
	return markup(func(sb *strings.Builder) {
		sb.WriteString(`<div class="ww-profile">`)
		if p.Name != "" {
			sb.WriteString(`<div class="ww-field"><span class="ww-avatar" aria-hidden="true">` + esc(initials(p.Name)) + `</span>`)
			sb.WriteString(`<span class="ww-metric">` + esc(p.Name) + `</span></div>`)
		}
		field(sb, "Email", p.Email)
		field(sb, "Phone", p.Phone)
		field(sb, "Wallet ID", p.WalletID)
		sb.WriteString(`</div>`)
	})
}
