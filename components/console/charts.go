package console

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "320px"

// RenderCache memoizes rendered chart HTML so repeated snapshots are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache is an in-memory TTL cache for rendered charts.
type ChartCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedChart
}

type cachedChart struct {
	html    string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{
		ttl:     ttl,
		entries: make(map[string]cachedChart),
	}
}

// GetOrRender returns a cached entry or renders/stores a new one.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

func (c *ChartCache) get(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		return "", false
	}
	return entry.html, true
}

func (c *ChartCache) set(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedChart{
		html:    html,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// statsHash returns a deterministic hash of a status breakdown.
func statsHash(stats StatusCounts) string {
	if stats.Total == 0 {
		return "empty"
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

var sharedChartCache = NewChartCache(5 * time.Minute)

// StatsChartProvider renders the status breakdown of a page snapshot as
// server-side ECharts markup.
type StatsChartProvider struct {
	chartType  string
	cache      RenderCache
	theme      string
	assetsHost string
}

// StatsChartOption customizes provider behavior.
type StatsChartOption func(*StatsChartProvider)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) StatsChartOption {
	return func(p *StatsChartProvider) {
		p.cache = cache
	}
}

// WithChartTheme sets the ECharts theme (defaults to Westeros).
func WithChartTheme(theme string) StatsChartOption {
	return func(p *StatsChartProvider) {
		p.theme = theme
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) StatsChartOption {
	return func(p *StatsChartProvider) {
		p.assetsHost = host
	}
}

// NewStatsChartProvider builds a provider for "bar" or "pie" charts.
func NewStatsChartProvider(chartType string, options ...StatsChartOption) *StatsChartProvider {
	p := &StatsChartProvider{
		chartType: strings.ToLower(chartType),
		cache:     sharedChartCache,
		theme:     types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Render turns the snapshot's status counts into chart HTML. The cache key
// covers the collection and the exact counts, so a changed breakdown always
// re-renders.
func (p *StatsChartProvider) Render(snapshot PageSnapshot) (string, error) {
	labels, values := statusSeries(snapshot.Stats)
	if len(labels) == 0 {
		return "", fmt.Errorf("no status data for %s", snapshot.Collection)
	}
	title := collectionTitle(snapshot.Collection)

	renderFn := func() (string, error) {
		switch p.chartType {
		case "bar":
			return p.renderBar(title, labels, values)
		case "pie":
			return p.renderPie(title, labels, values)
		default:
			return "", fmt.Errorf("unsupported chart type: %s", p.chartType)
		}
	}
	if p.cache == nil {
		return renderFn()
	}
	key := fmt.Sprintf("%s:%s:%s", snapshot.Collection, p.chartType, statsHash(snapshot.Stats))
	return p.cache.GetOrRender(key, renderFn)
}

func (p *StatsChartProvider) renderBar(title string, labels []string, values []int) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(p.globalChartOptions(title)...)
	bar.SetXAxis(labels)
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Name: labels[i], Value: v}
	}
	bar.AddSeries("Status", data)
	return renderChart(bar)
}

func (p *StatsChartProvider) renderPie(title string, labels []string, values []int) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(p.globalChartOptions(title)...)
	data := make([]opts.PieData, len(values))
	for i, v := range values {
		data[i] = opts.PieData{Name: labels[i], Value: v}
	}
	pie.AddSeries("Status", data)
	return renderChart(pie)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (p *StatsChartProvider) globalChartOptions(title string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  p.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if p.assetsHost != "" {
		initOpts.AssetsHost = p.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

// statusSeries flattens the counts into sorted label/value pairs so renders
// are deterministic.
func statusSeries(stats StatusCounts) ([]string, []int) {
	if len(stats.ByStatus) == 0 {
		return nil, nil
	}
	labels := make([]string, 0, len(stats.ByStatus))
	for status := range stats.ByStatus {
		labels = append(labels, status)
	}
	sort.Strings(labels)
	values := make([]int, len(labels))
	for i, label := range labels {
		values[i] = stats.ByStatus[label]
	}
	return labels, values
}

func collectionTitle(code string) string {
	parts := strings.Split(code, ".")
	last := parts[len(parts)-1]
	if last == "" {
		return code
	}
	return strings.ToUpper(last[:1]) + last[1:]
}
