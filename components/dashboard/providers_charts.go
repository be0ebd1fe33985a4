package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const defaultChartHeight = "360px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartSeries represents a set of values plotted for a given legend entry.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// ChartPoint represents an individual value (optionally labeled).
type ChartPoint struct {
	Label string
	Value float64
}

// ChartRequest carries everything needed to render one chart.
type ChartRequest struct {
	Title    string
	Subtitle string
	XAxis    []string
	Series   []ChartSeries
	DarkMode bool
	CacheKey string
}

// ChartRenderer produces server-side go-echarts markup for a chart type.
type ChartRenderer struct {
	chartType  string
	cache      RenderCache
	assetsHost string
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// NewChartRenderer builds a renderer for a specific chart type.
func NewChartRenderer(chartType string, options ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{
		chartType: strings.ToLower(chartType),
		cache:     sharedChartCache,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Render produces chart HTML, memoizing per cache key, chart type and theme.
func (r *ChartRenderer) Render(req ChartRequest) (string, error) {
	if len(req.Series) == 0 {
		return "", fmt.Errorf("chart series is required")
	}
	theme := ChartThemeFor(req.DarkMode)
	renderFn := func() (string, error) {
		return r.render(req, theme)
	}
	if r.cache != nil && req.CacheKey != "" {
		key := fmt.Sprintf("%s:%s:%s:%s", req.CacheKey, r.chartType, theme, seriesHash(req.Series))
		return r.cache.GetOrRender(key, renderFn)
	}
	return renderFn()
}

func (r *ChartRenderer) render(req ChartRequest, theme string) (string, error) {
	switch r.chartType {
	case "bar":
		return r.renderBarChart(req, theme)
	case "line":
		return r.renderLineChart(req, theme)
	case "pie":
		return r.renderPieChart(req, theme)
	default:
		return "", fmt.Errorf("unsupported chart type: %s", r.chartType)
	}
}

func (r *ChartRenderer) renderBarChart(req ChartRequest, theme string) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalChartOptions(req, theme)...)
	bar.SetXAxis(req.XAxis)
	for _, s := range req.Series {
		bar.AddSeries(s.Name, toBarData(s.Points))
	}
	return renderChart(bar)
}

func (r *ChartRenderer) renderLineChart(req ChartRequest, theme string) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalChartOptions(req, theme)...)
	line.SetXAxis(req.XAxis)
	for _, s := range req.Series {
		line.AddSeries(s.Name, toLineData(s.Points))
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *ChartRenderer) renderPieChart(req ChartRequest, theme string) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalChartOptions(req, theme)...)
	for _, s := range req.Series {
		pie.AddSeries(s.Name, toPieData(s.Points))
	}
	return renderChart(pie)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *ChartRenderer) globalChartOptions(req ChartRequest, theme string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: req.Title, Subtitle: req.Subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{
			Name:  point.Label,
			Value: point.Value,
		}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{
			Name:  point.Label,
			Value: point.Value,
		}
	}
	return data
}

func toPieData(points []ChartPoint) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{
			Name:  name,
			Value: point.Value,
		}
	}
	return data
}
