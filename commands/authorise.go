package commands

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/tutorqa/sheets-sync/auth"
	"github.com/tutorqa/sheets-sync/commands/html"
	"github.com/tutorqa/sheets-sync/log"
)

var AuthoriseCmd = Authorise{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: "",
	},

	bind: "127.0.0.1:0",
}

type Authorise struct {
	command
	bind string
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises sheets-sync to access Google Sheets with OAuth2 client credentials"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options] --credentials <file>\n", APP)
	fmt.Println()
	fmt.Println("  Opens the Google sign in page in a browser and saves the OAuth2 tokens for the credentials")
	fmt.Println("  to the working directory. Not required for service account credentials.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s authorise --credentials "credentials.json"`+"\n", APP)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("authorise")

	flagset.StringVar(&cmd.bind, "bind", cmd.bind, "Local address for the OAuth2 redirect")

	return flagset
}

func (cmd *Authorise) Execute(args ...any) error {
	options := args[0].(*Options)

	if err := cmd.setup(options); err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	credentials, err := auth.Credentials{Source: cmd.credentials}.Load(ctx)
	if err != nil {
		return err
	}

	if kind, err := auth.Kind(credentials); err != nil {
		return err
	} else if kind != "installed" && kind != "web" {
		return fmt.Errorf("'%v' credentials do not require authorisation", kind)
	}

	config, err := google.ConfigFromJSON(credentials, auth.SHEETS, auth.DRIVE)
	if err != nil {
		return fmt.Errorf("invalid OAuth client credentials (%w)", err)
	}

	token, err := authorise(ctx, config, cmd.bind, openBrowser)
	if err != nil {
		return fmt.Errorf("authorisation error (%w)", err)
	}

	return auth.SaveToken(auth.TokensFile(cmd.workdir, cmd.credentials), token)
}

// authorise runs the OAuth2 'installed application' flow: a local HTTP server serves a sign in
// page and receives the authorisation code on the redirect.
func authorise(ctx context.Context, config *oauth2.Config, bind string, open func(string) error) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return nil, err
	}

	state, err := nonce()
	if err != nil {
		return nil, err
	}

	config.RedirectURL = fmt.Sprintf("http://%v/", listener.Addr())

	codes := make(chan string, 1)
	srv := &http.Server{
		Handler:           callback(config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), state, codes),
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("%v", err)
		}
	}()

	defer func() {
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdown); err != nil {
			log.Warnf("%v", err)
		}
	}()

	page := config.RedirectURL
	if err := open(page); err != nil {
		fmt.Printf("Could not open the authorisation page in your browser - please open %v manually\n", page)
	}

	select {
	case <-ctx.Done():
		fmt.Printf("\n.. cancelled\n\n")
		return nil, ctx.Err()

	case code := <-codes:
		return config.Exchange(ctx, code)
	}
}

// callback serves the sign in page and accepts the redirect with the authorisation code.
func callback(url string, state string, codes chan<- string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, rq *http.Request) {
		if rq.URL.Path != "/" {
			http.NotFound(w, rq)
			return
		}

		code := rq.FormValue("code")
		if code == "" && rq.FormValue("error") == "" {
			render(w, "auth.html", map[string]any{"url": template.URL(url)})
			return
		}

		switch {
		case rq.FormValue("state") != state:
			w.WriteHeader(http.StatusBadRequest)
			render(w, "authorised.html", map[string]any{"ok": false, "message": "Invalid state token"})

		case rq.FormValue("error") != "":
			w.WriteHeader(http.StatusForbidden)
			render(w, "authorised.html", map[string]any{"ok": false, "message": rq.FormValue("error")})

		default:
			select {
			case codes <- code:
			default:
			}

			render(w, "authorised.html", map[string]any{"ok": true, "message": "sheets-sync has been authorised"})
		}
	})

	return mux
}

func render(w http.ResponseWriter, page string, data map[string]any) {
	t, err := template.New(page).ParseFS(html.HTML, page)
	if err != nil {
		http.Error(w, "Internal error formatting page", http.StatusInternalServerError)
		return
	}

	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		http.Error(w, "Error formatting page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(b.Bytes())
}

func nonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

func openBrowser(url string) error {
	args := strings.Fields(BROWSER)
	args = append(args, url)

	return exec.Command(args[0], args[1:]...).Start()
}
