package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"storefront_e2e/domain/entities"
	"storefront_e2e/domain/interfaces"
)

// HTTPProvider hands out sessions that fetch pages over plain HTTP and parse
// them with goquery. Scripts never run, so it suits server rendered flows
// such as browsing, searching and submitting forms.
type HTTPProvider struct {
	opts   Options
	logger *logrus.Logger
	seq    atomic.Int64

	// Transport is used by every session when set, e.g. by tests
	Transport http.RoundTripper
}

func NewHTTPProvider(opts Options, logger *logrus.Logger) *HTTPProvider {
	return &HTTPProvider{opts: opts.withDefaults(), logger: logger}
}

// NewSession starts a session with its own cookie jar
func (p *HTTPProvider) NewSession(ctx context.Context) (interfaces.Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	id := fmt.Sprintf("http-%d", p.seq.Add(1))
	s := &httpSession{
		id:      id,
		baseURL: p.opts.BaseURL,
		client: &http.Client{
			Jar:       jar,
			Timeout:   p.opts.NavigationTimeout,
			Transport: p.Transport,
		},
		logger: p.logger.WithField("session", id),
	}
	s.driver = &httpDriver{s: s}
	return s, nil
}

func (p *HTTPProvider) Close() error { return nil }

type httpSession struct {
	id      string
	baseURL string
	client  *http.Client
	logger  logrus.FieldLogger
	driver  *httpDriver

	mu  sync.Mutex
	url string
	doc *goquery.Document
}

func (s *httpSession) ID() string { return s.id }

func (s *httpSession) Navigate(ctx context.Context, raw string) error {
	s.mu.Lock()
	target, err := resolveURL(s.baseURL, s.url, raw)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.load(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	})
}

// load sends the request built by newReq and replaces the current page.
// Transport failures are retried a couple of times, HTTP error pages are not.
func (s *httpSession) load(ctx context.Context, newReq func() (*http.Request, error)) error {
	var resp *http.Response
	op := func() error {
		req, err := newReq()
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err = s.client.Do(req)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", resp.Request.URL, err)
	}
	s.logger.Infof("%s %s -> %d", resp.Request.Method, resp.Request.URL, resp.StatusCode)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = resp.Request.URL.String()
	s.doc = doc
	return nil
}

func (s *httpSession) URL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.url == "" {
		return "about:blank", nil
	}
	return s.url, nil
}

func (s *httpSession) Title(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return "", nil
	}
	return strings.TrimSpace(s.doc.Find("title").First().Text()), nil
}

func (s *httpSession) Snapshot(ctx context.Context) (entities.PageInfo, error) {
	u, _ := s.URL(ctx)
	t, _ := s.Title(ctx)
	return entities.PageInfo{URL: u, Title: t}, nil
}

func (s *httpSession) Driver() interfaces.Driver { return s.driver }

func (s *httpSession) Close(ctx context.Context) error {
	s.client.CloseIdleConnections()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
	return nil
}

// page returns the current document, failing before the first navigation
func (s *httpSession) page() (*goquery.Document, error) {
	if s.doc == nil {
		return nil, errors.New("no page loaded")
	}
	return s.doc, nil
}

type httpElement struct {
	sel  *goquery.Selection
	desc string
}

func (e *httpElement) Describe() string { return e.desc }

func node(e interfaces.Element) *goquery.Selection {
	return e.(*httpElement).sel
}

type httpDriver struct {
	s *httpSession
}

// matches returns every node of the current page matched by q, in document
// order
func (d *httpDriver) matches(q entities.Query) ([]*goquery.Selection, error) {
	doc, err := d.s.page()
	if err != nil {
		return nil, err
	}
	roots := []*goquery.Selection{doc.Selection}
	if q.Scope != "" {
		roots = roots[:0]
		for _, n := range selectAll(doc.Selection, q.Scope) {
			roots = append(roots, doc.FindNodes(n))
		}
	}
	found := make(map[*html.Node]bool)
	for _, r := range roots {
		for _, n := range selectAll(r, q.Selector) {
			found[n] = true
		}
	}

	var out []*goquery.Selection
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if !found[s.Nodes[0]] {
			return
		}
		if !q.Text.IsZero() && !matchesFilter(s.Text(), q.Text.Value, q.Text.Exact) {
			return
		}
		out = append(out, s)
	})
	return out, nil
}

// selectAll evaluates a selector list below root
func selectAll(root *goquery.Selection, sel string) []*html.Node {
	var nodes []*html.Node
	for _, alt := range splitSelector(sel) {
		switch {
		case alt.CSS == "":
			root.Find("*").Each(func(_ int, s *goquery.Selection) {
				if containsText(ownText(s), alt.Text) {
					nodes = append(nodes, s.Nodes...)
				}
			})
		case alt.Text == "":
			nodes = append(nodes, root.Find(alt.CSS).Nodes...)
		default:
			root.Find(alt.CSS).Each(func(_ int, s *goquery.Selection) {
				if containsText(s.Text(), alt.Text) {
					nodes = append(nodes, s.Nodes...)
				}
			})
		}
	}
	return nodes
}

func ownText(s *goquery.Selection) string {
	var b strings.Builder
	for c := s.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func (d *httpDriver) Find(ctx context.Context, q entities.Query) (interfaces.Element, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	m, err := d.matches(q)
	if err != nil {
		return nil, err
	}
	idx := q.Index
	if idx == entities.NoIndex {
		idx = 0
	}
	if idx < 0 || idx >= len(m) {
		return nil, nil
	}
	return &httpElement{sel: m[idx], desc: q.String()}, nil
}

func (d *httpDriver) Count(ctx context.Context, q entities.Query) (int, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	m, err := d.matches(q.Unindexed())
	return len(m), err
}

// IsVisible approximates rendering: hidden inputs, the hidden attribute and
// inline display:none hide an element and everything below it
func (d *httpDriver) IsVisible(ctx context.Context, e interfaces.Element) (bool, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	for n := node(e).Nodes[0]; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if n.Data == "head" || n.Data == "script" || n.Data == "style" || n.Data == "template" {
			return false, nil
		}
		for _, a := range n.Attr {
			switch {
			case a.Key == "hidden":
				return false, nil
			case a.Key == "type" && n.Data == "input" && strings.EqualFold(a.Val, "hidden"):
				return false, nil
			case a.Key == "style" && strings.Contains(strings.ReplaceAll(a.Val, " ", ""), "display:none"):
				return false, nil
			}
		}
	}
	return true, nil
}

func (d *httpDriver) IsEnabled(ctx context.Context, e interfaces.Element) (bool, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	_, disabled := node(e).Attr("disabled")
	return !disabled, nil
}

func (d *httpDriver) IsChecked(ctx context.Context, e interfaces.Element) (bool, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	_, checked := node(e).Attr("checked")
	return checked, nil
}

func (d *httpDriver) Text(ctx context.Context, e interfaces.Element) (string, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	return node(e).Text(), nil
}

func (d *httpDriver) Value(ctx context.Context, e interfaces.Element) (string, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	return controlValue(node(e)), nil
}

func controlValue(s *goquery.Selection) string {
	switch goquery.NodeName(s) {
	case "textarea":
		return s.Text()
	case "select":
		opt := s.Find("option[selected]").First()
		if opt.Length() == 0 {
			opt = s.Find("option").First()
		}
		return optionValue(opt)
	default:
		return s.AttrOr("value", "")
	}
}

func optionValue(opt *goquery.Selection) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(opt.Text())
}

func (d *httpDriver) Attribute(ctx context.Context, e interfaces.Element, name string) (string, bool, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	v, ok := node(e).Attr(name)
	return v, ok, nil
}

// Click follows links and submits forms. Anything else needs scripts and is
// a no-op.
func (d *httpDriver) Click(ctx context.Context, e interfaces.Element) error {
	d.s.mu.Lock()
	s := node(e)
	name := goquery.NodeName(s)
	typ := strings.ToLower(s.AttrOr("type", ""))

	switch {
	case name == "a":
		href, ok := s.Attr("href")
		d.s.mu.Unlock()
		if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			d.s.logger.Debugf("link %s has no target", e.Describe())
			return nil
		}
		return d.s.Navigate(ctx, href)

	case name == "input" && (typ == "checkbox" || typ == "radio"):
		defer d.s.mu.Unlock()
		if _, checked := s.Attr("checked"); checked && typ == "checkbox" {
			s.RemoveAttr("checked")
			return nil
		}
		check(s)
		return nil

	case (name == "button" && typ != "button" && typ != "reset") ||
		(name == "input" && (typ == "submit" || typ == "image")):
		form := s.Closest("form")
		if form.Length() == 0 {
			d.s.mu.Unlock()
			d.s.logger.Debugf("button %s is outside a form", e.Describe())
			return nil
		}
		req, err := d.formRequest(ctx, form, s)
		d.s.mu.Unlock()
		if err != nil {
			return err
		}
		return d.s.load(ctx, req)

	default:
		d.s.mu.Unlock()
		d.s.logger.Debugf("click on %s needs scripts, ignored", e.Describe())
		return nil
	}
}

// formRequest builds the submission of form as if submitter was pressed
func (d *httpDriver) formRequest(ctx context.Context, form, submitter *goquery.Selection) (func() (*http.Request, error), error) {
	action, err := resolveURL(d.s.baseURL, d.s.url, form.AttrOr("action", d.s.url))
	if err != nil {
		return nil, err
	}
	values := url.Values{}
	form.Find("input, select, textarea").Each(func(_ int, f *goquery.Selection) {
		name, ok := f.Attr("name")
		if !ok || name == "" {
			return
		}
		if _, disabled := f.Attr("disabled"); disabled {
			return
		}
		switch strings.ToLower(f.AttrOr("type", "")) {
		case "submit", "image", "button", "reset":
			return
		case "checkbox", "radio":
			if _, checked := f.Attr("checked"); !checked {
				return
			}
			values.Add(name, f.AttrOr("value", "on"))
			return
		}
		values.Add(name, controlValue(f))
	})
	if name, ok := submitter.Attr("name"); ok && name != "" {
		values.Add(name, submitter.AttrOr("value", ""))
	}

	method := strings.ToUpper(form.AttrOr("method", http.MethodGet))
	if method != http.MethodPost {
		u, err := url.Parse(action)
		if err != nil {
			return nil, err
		}
		u.RawQuery = values.Encode()
		target := u.String()
		return func() (*http.Request, error) {
			return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		}, nil
	}
	body := values.Encode()
	return func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, action, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, nil
}

func (d *httpDriver) Fill(ctx context.Context, e interfaces.Element, value string) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	s := node(e)
	switch goquery.NodeName(s) {
	case "textarea":
		s.SetText(value)
	case "input":
		s.SetAttr("value", value)
	default:
		return fmt.Errorf("%s is not a text field", e.Describe())
	}
	return nil
}

func (d *httpDriver) Check(ctx context.Context, e interfaces.Element) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	check(node(e))
	return nil
}

// check ticks s and, for radios, clears the rest of its group
func check(s *goquery.Selection) {
	if strings.EqualFold(s.AttrOr("type", ""), "radio") {
		if name, ok := s.Attr("name"); ok {
			scope := s.Closest("form")
			if scope.Length() == 0 {
				scope = s.ParentsUntil("html").Last()
			}
			scope.Find(`input[type="radio"]`).Each(func(_ int, r *goquery.Selection) {
				if r.AttrOr("name", "") == name {
					r.RemoveAttr("checked")
				}
			})
		}
	}
	s.SetAttr("checked", "checked")
}

func (d *httpDriver) Uncheck(ctx context.Context, e interfaces.Element) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	node(e).RemoveAttr("checked")
	return nil
}

func (d *httpDriver) SelectOption(ctx context.Context, e interfaces.Element, value string) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	s := node(e)
	if goquery.NodeName(s) != "select" {
		return fmt.Errorf("%s is not a dropdown", e.Describe())
	}
	opts := s.Find("option")
	chosen := opts.FilterFunction(func(_ int, o *goquery.Selection) bool {
		return optionValue(o) == value || strings.TrimSpace(o.Text()) == value
	}).First()
	if chosen.Length() == 0 {
		return fmt.Errorf("option %q not available in %s", value, e.Describe())
	}
	opts.RemoveAttr("selected")
	chosen.SetAttr("selected", "selected")
	return nil
}

var _ interfaces.SessionProvider = (*HTTPProvider)(nil)
