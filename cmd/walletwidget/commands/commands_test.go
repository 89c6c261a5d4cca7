package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	walletwidget "github.com/amarshat/walletwidget"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	got, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "walletwidget version "+Version) {
		t.Errorf("version output = %q", got)
	}
}

func TestTypes(t *testing.T) {
	got, err := run(t, "types")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"balance", "carbon-impact", "/api/user/profile"} {
		if !strings.Contains(got, want) {
			t.Errorf("types output missing %q:\n%s", want, got)
		}
	}

	got, err = run(t, "types", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var descs []walletwidget.Descriptor
	if err := json.Unmarshal([]byte(got), &descs); err != nil {
		t.Fatalf("types --json: %v", err)
	}
	if len(descs) != 6 {
		t.Errorf("len = %d", len(descs))
	}
}

func TestLint(t *testing.T) {
	got, err := run(t, "lint", "--types", "../../..", "../../../widgets")
	if err != nil {
		t.Fatalf("lint error = %v\n%s", err, got)
	}
	if strings.Contains(got, "MISSING") {
		t.Errorf("lint output = %s", got)
	}
}

func TestRender(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err != nil || c.Value != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, `{"balances":[{"availableBalance":42.5,"currencyCode":"USD","currencySymbol":"$"}]}`)
	}))
	defer api.Close()

	page := filepath.Join(t.TempDir(), "host.html")
	body := `<html><body><script src="https://cdn.example/wallet-widget.js" data-widget="balance"></script></body></html>`
	if err := os.WriteFile(page, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := run(t, "render", page, "--api-base-url", api.URL, "--cookie", "session=abc", "--log-format", "text")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "$42.50") || !strings.Contains(got, walletwidget.StyleElementID) {
		t.Errorf("render output = %s", got)
	}

	got, err = run(t, "render", page, "--api-base-url", api.URL, "--log-format", "text")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `data-ww-state="auth_error"`) {
		t.Errorf("render without cookie = %s", got)
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := run(t, "render", "--mode", "eager", "--api-base-url", "https://api.example"); err == nil {
		t.Error("unknown mode should fail")
	}
	if _, err := run(t, "render"); err == nil {
		t.Error("render without an API base URL should fail")
	}
	if _, err := run(t, "render", "--api-base-url", "https://api.example", "--cookie", "novalue"); err == nil {
		t.Error("malformed cookie should fail")
	}
}

func TestParseCookies(t *testing.T) {
	jar, err := parseCookies([]string{"session=a=b", " theme =dark"})
	if err != nil {
		t.Fatal(err)
	}
	if len(jar) != 2 || jar[0].Value != "a=b" || jar[1].Name != "theme" {
		t.Errorf("jar = %+v", jar)
	}
}
