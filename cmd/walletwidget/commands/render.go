package commands

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	walletwidget "github.com/amarshat/walletwidget"
	"github.com/amarshat/walletwidget/internal/app"
)

func renderCmd() *cobra.Command {
	var (
		mode    string
		out     string
		cookies []string
	)
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Bootstrap a host HTML document and print the result",
		Long: `Render reads a host document (a file, or stdin when omitted or "-"),
binds every wallet widget embed tag and writes the document back out.

Session cookies for the wallet API can be supplied with --cookie name=value.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := walletwidget.ParseMode(mode)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			jar, err := parseCookies(cookies)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			boot, err := app.NewBootstrapper(cfg, logger)
			if err != nil {
				return err
			}
			ctx := walletwidget.WithCredentials(background(cmd), jar)
			report, err := boot.RenderPage(ctx, in, w, m)
			if err != nil {
				return err
			}
			for _, s := range report.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped tag %d: %v\n", s.Index, s.Err)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&mode, "mode", string(walletwidget.ModeInline), "inline or deferred")
	f.StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	f.StringArrayVar(&cookies, "cookie", nil, "session cookie name=value forwarded to the wallet API (repeatable)")
	return cmd
}

func parseCookies(pairs []string) ([]*http.Cookie, error) {
	var jar []*http.Cookie
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("cookie %q: want name=value", p)
		}
		jar = append(jar, &http.Cookie{Name: strings.TrimSpace(name), Value: value})
	}
	return jar, nil
}
