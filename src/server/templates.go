package server

import "html/template"

// dashboardTmpl is the single-page dashboard: a two-input domain form at the
// top, and the results panel below it when a domain has been queried.
var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Link Spread Intelligence Dashboard</title>
<style>
  body { font-family: sans-serif; margin: 2em auto; max-width: 960px; color: #222; }
  h1 { font-size: 1.6em; }
  form { margin-bottom: 2em; }
  input[type=text] { width: 20em; padding: 0.4em; margin-right: 1em; }
  .metrics { display: flex; gap: 2em; margin: 1.5em 0; }
  .metric { border: 1px solid #ddd; border-radius: 6px; padding: 1em 2em; text-align: center; }
  .metric .value { font-size: 1.8em; font-weight: bold; }
  .metric .label { color: #666; font-size: 0.9em; }
  .insight { background: #eef6fb; border-left: 4px solid #3887be; padding: 1em; margin: 1.5em 0; }
  .nodata { background: #fbeeee; border-left: 4px solid #be3838; padding: 1em; }
  img.chart { max-width: 100%; margin: 1em 0; border: 1px solid #eee; }
  table { border-collapse: collapse; width: 100%; margin: 1em 0; }
  th, td { border: 1px solid #ddd; padding: 0.4em 0.7em; text-align: left; font-size: 0.9em; }
  th { background: #f5f5f5; }
</style>
</head>
<body>
<h1>Link Spread Intelligence Dashboard</h1>
<form action="/dashboard" method="get">
  <label>News domain: <input type="text" name="domain" value="{{.Domain}}" placeholder="e.g., cnn.com"></label>
  <label>Compare with: <input type="text" name="compare" value="{{.Compare}}" placeholder="optional second domain"></label>
  <button type="submit">Analyze</button>
</form>

{{if .Queried}}
  {{if .NoData}}
    <p class="nodata">No posts found linking to {{.Domain}}.</p>
  {{else}}
    <p>{{.Stats.TotalPosts}} posts found for {{.Domain}}</p>

    <div class="metrics">
      <div class="metric"><div class="value">{{.Stats.TotalPosts}}</div><div class="label">Total Posts</div></div>
      <div class="metric"><div class="value">{{printf "%.3f" .Stats.AvgSentiment}}</div><div class="label">Avg Sentiment</div></div>
      <div class="metric"><div class="value">{{printf "%.3f" .Stats.AvgToxicity}}</div><div class="label">Avg Toxicity</div></div>
    </div>

    <h2>Emotion Distribution</h2>
    <img class="chart" src="/charts/emotions.png?domain={{.DomainQuery}}" alt="emotion distribution">

    <h2>Trend Over Time</h2>
    <img class="chart" src="/charts/activity.png?domain={{.DomainQuery}}" alt="daily activity">

    <h2>Top Subreddits Posting This Domain</h2>
    <img class="chart" src="/charts/subreddits.png?domain={{.DomainQuery}}" alt="top subreddits">

    <h2>Topic Clustering</h2>
    <table>
      <tr><th>Title</th><th>Cluster</th></tr>
      {{range .Samples}}<tr><td>{{.Title}}</td><td>{{.Cluster}}</td></tr>
      {{end}}
    </table>

    <h2>Summary Report</h2>
    <div class="insight">{{.Narrative}}</div>

    {{if .HasCompare}}
      <h2>Activity Comparison</h2>
      <img class="chart" src="/charts/compare.png?domain={{.DomainQuery}}&compare={{.CompareQuery}}" alt="activity comparison">
    {{end}}

    <p><a href="/export.pdf?domain={{.DomainQuery}}{{if .HasCompare}}&compare={{.CompareQuery}}{{end}}">Download PDF report</a></p>
  {{end}}
{{end}}
</body>
</html>
`))
