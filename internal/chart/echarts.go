// internal/chart/echarts.go
package chart

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// stackName groups every region series of a subplot into one additive stack.
const stackName = "regions"

// Page adapts a chart model to a go-echarts page. The adapter owns all
// rendering-library types; the model stays plain data.
func Page(m Model) *components.Page {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)

	anns := m.Annotations()
	ids := make([]string, 0, len(m.Subplots))
	for i, sp := range m.Subplots {
		id := chartID(i)
		ids = append(ids, id)
		page.AddCharts(barChart(id, sp, anns[i].Text, m.Columns))
	}
	if len(ids) > 1 {
		// Connect all chart instances so the first subplot's range slider
		// drives every x-axis.
		page.AddCharts(connectorChart(ids))
	}
	return page
}

func chartID(i int) string {
	return fmt.Sprintf("bench%02d", i)
}

func barChart(id string, sp Subplot, title string, columns int) *charts.Bar {
	bar := charts.NewBar()

	width := "620px"
	if columns == 1 {
		width = "960px"
	}

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: id,
			Width:   width,
			Height:  "380px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
	}
	if sp.HasSlider {
		global = append(global, charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}))
	}
	bar.SetGlobalOptions(global...)

	bar.SetXAxis(sp.Days)
	for _, s := range sp.Series {
		data := make([]opts.BarData, 0, len(s.Points))
		for _, p := range s.Points {
			data = append(data, opts.BarData{Value: p.Value})
		}
		bar.AddSeries(s.Region, data,
			charts.WithBarChartOpts(opts.BarChart{Stack: stackName}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}

	bar.AddJSFuncs(pointDetailJS(id, sp))
	return bar
}

// pointDetailJS wires the pre-rendered hover text and the commit click
// payload onto a rendered chart instance.
func pointDetailJS(id string, sp Subplot) string {
	hover := make(map[string]map[string]string)
	links := make(map[string]map[string][]string)
	for _, s := range sp.Series {
		hover[s.Region] = make(map[string]string)
		links[s.Region] = make(map[string][]string)
		for i, p := range s.Points {
			idx := fmt.Sprintf("%d", i)
			hover[s.Region][idx] = strings.ReplaceAll(p.Hover, "\n", "<br/>")
			if len(p.CommitURLs) > 0 {
				links[s.Region][idx] = p.CommitURLs
			}
		}
	}

	hoverJSON, _ := json.Marshal(hover)
	linksJSON, _ := json.Marshal(links)

	return fmt.Sprintf(`(function () {
  var chart = goecharts_%s;
  var hover = %s;
  var links = %s;
  chart.setOption({tooltip: {trigger: 'axis', formatter: function (params) {
    if (!Array.isArray(params)) { params = [params]; }
    var lines = [params[0].name];
    for (var i = 0; i < params.length; i++) {
      var p = params[i];
      var detail = (hover[p.seriesName] || {})[p.dataIndex];
      lines.push(detail ? detail : p.seriesName + ': ' + p.value);
    }
    return lines.join('<br/>');
  }}});
  chart.on('click', function (p) {
    var urls = (links[p.seriesName] || {})[p.dataIndex] || [];
    if (urls.length > 0) { window.open(urls[0], '_blank'); }
  });
})();`, id, hoverJSON, linksJSON)
}

// connectorChart emits an invisible chart whose only job is to carry the
// echarts.connect call linking every subplot's visible range.
func connectorChart(ids []string) *charts.Bar {
	refs := make([]string, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, "goecharts_"+id)
	}

	link := charts.NewBar()
	link.SetGlobalOptions(charts.WithInitializationOpts(opts.Initialization{
		ChartID: "benchlink",
		Width:   "1px",
		Height:  "1px",
	}))
	link.SetXAxis([]string{})
	link.AddJSFuncs(fmt.Sprintf("echarts.connect([%s]);", strings.Join(refs, ", ")))
	return link
}
