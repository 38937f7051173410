package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Ayush-gihub-12345/Web-app/internal/calculator"
	"github.com/Ayush-gihub-12345/Web-app/internal/platform/requestctx"
	"github.com/Ayush-gihub-12345/Web-app/internal/submission"
)

var (
	//go:embed templates/*.tmpl
	templateFS embed.FS

	//go:embed static
	staticFS embed.FS
)

// Config carries the branding shown on every page.
type Config struct {
	Brand       string
	Title       string
	Description string
	Lang        string
	Now         func() time.Time
}

// Site renders the landing page and the submission review page.
type Site struct {
	cfg     Config
	binding *calculator.Binding
	pages   map[string]*template.Template
}

// PlanCard is one pricing card.
type PlanCard struct {
	ID            string
	Label         string
	Tagline       string
	PriceText     string
	IncludedPages int
	Description   template.HTML
}

type pageData struct {
	Lang          string
	Title         string
	Description   string
	Brand         string
	Year          int
	Plans         []PlanCard
	ExtraPageText string
	Toggle        template.HTML
	Review        submission.ReviewView
}

// New parses the embedded templates.
func New(binding *calculator.Binding, cfg Config) (*Site, error) {
	if binding == nil {
		return nil, fmt.Errorf("site: calculator binding is required")
	}
	if cfg.Brand == "" {
		cfg.Brand = "WebpageWale"
	}
	if cfg.Title == "" {
		cfg.Title = cfg.Brand + " | Websites for small businesses"
	}
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	pages := make(map[string]*template.Template, 2)
	for _, name := range []string{"index", "review"} {
		t, err := template.New(name).ParseFS(templateFS, "templates/layout.tmpl", "templates/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("site: parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Site{cfg: cfg, binding: binding, pages: pages}, nil
}

func (s *Site) base() pageData {
	return pageData{
		Lang:        s.cfg.Lang,
		Title:       s.cfg.Title,
		Description: s.cfg.Description,
		Brand:       s.cfg.Brand,
		Year:        s.cfg.Now().Year(),
	}
}

// Home renders the landing page and mounts the calculator into it. When the page has no
// mount points the calculator is skipped and the page is served as is.
func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := requestctx.Logger(ctx)

	data := s.base()
	money := s.binding.Money()
	cat := s.binding.Engine().Catalog()
	for _, p := range cat.Packages() {
		data.Plans = append(data.Plans, PlanCard{
			ID:            p.ID,
			Label:         p.Label,
			Tagline:       p.Tagline,
			PriceText:     money.Format(p.Price),
			IncludedPages: p.IncludedPages,
			Description:   p.DescriptionHTML(),
		})
	}
	data.ExtraPageText = money.Format(cat.ExtraPageCost())

	var toggle bytes.Buffer
	if err := s.binding.RenderToggle(&toggle, false, false); err != nil {
		s.fail(w, r, "render toggle", err)
		return
	}
	data.Toggle = template.HTML(toggle.String())

	var page bytes.Buffer
	if err := s.pages["index"].ExecuteTemplate(&page, "base", data); err != nil {
		s.fail(w, r, "render home", err)
		return
	}

	doc, err := goquery.NewDocumentFromReader(&page)
	if err != nil {
		s.fail(w, r, "parse home", err)
		return
	}
	mounted, err := s.binding.Mount(ctx, doc, s.binding.DefaultSelection())
	if err != nil {
		logger.Error("mount calculator", zap.Error(err))
	} else if !mounted {
		logger.Debug("calculator mount points missing")
	}

	body, err := doc.Html()
	if err != nil {
		s.fail(w, r, "serialise home", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

// RenderReview implements submission.Renderer.
func (s *Site) RenderReview(w io.Writer, view submission.ReviewView) error {
	data := s.base()
	data.Title = "Review your enquiry | " + s.cfg.Brand
	data.Review = view
	return s.pages["review"].ExecuteTemplate(w, "base", data)
}

// Assets serves the embedded stylesheet and scripts.
func (s *Site) Assets() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

func (s *Site) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	requestctx.Logger(r.Context()).Error(msg, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
