package web

import (
	"html/template"
)

const headerTemplate = `{{define "header"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} · Bet Analytics</title>
<style>
body{font-family:sans-serif;margin:0;display:flex;min-height:100vh;background:#fafafa;color:#222}
aside{width:260px;padding:16px;background:#f0f2f6;box-sizing:border-box}
main{flex:1;padding:24px 32px}
nav a{display:block;padding:6px 8px;color:#222;text-decoration:none;border-radius:4px}
nav a.active{background:#ff4b4b;color:#fff}
.clock{font-size:13px;color:#555;margin-bottom:16px}
.cards{display:flex;gap:16px;margin-bottom:24px}
.card{flex:1;background:#fff;border:1px solid #e6e6e6;border-radius:8px;padding:16px}
.card .label{font-size:13px;color:#666}
.card .value{font-size:28px;font-weight:600}
.charts{display:flex;gap:16px;flex-wrap:wrap}
.chart-empty{width:520px;height:120px;display:flex;align-items:center;justify-content:center;color:#888;border:1px dashed #ccc}
table{border-collapse:collapse;font-size:13px;margin-bottom:24px}
td,th{border:1px solid #e6e6e6;padding:4px 8px;text-align:left}
select[multiple]{width:100%;min-height:90px}
.error{color:#b00020}
</style>
</head>
<body>
<aside>
<div class="clock">Now Shanghai Time: {{.Clock}}</div>
<nav>
<a href="/home" {{if eq .Active "home"}}class="active"{{end}}>Home</a>
<a href="/table" {{if eq .Active "table"}}class="active"{{end}}>Table</a>
<a href="/betdata" {{if eq .Active "betdata"}}class="active"{{end}}>Betdata</a>
<a href="/predict" {{if eq .Active "predict"}}class="active"{{end}}>Car Price Prediction</a>
</nav>
{{with .Sidebar}}{{template "filters" .}}{{end}}
</aside>
<main>
<h1>{{.Title}}</h1>
{{end}}`

const footerTemplate = `{{define "footer"}}</main>
</body>
</html>
{{end}}`

const filtersTemplate = `{{define "filters"}}<h3>Filters</h3>
<form method="post" action="/filters">
<input type="hidden" name="return" value="{{.Return}}">
<label>Order type</label>
<select name="order_type" multiple>
{{range .OrderTypes}}<option value="{{.Value}}" {{if .Selected}}selected{{end}}>{{.Value}}</option>
{{end}}</select>
<label>API name</label>
<select name="api_name" multiple>
{{range .APINames}}<option value="{{.Value}}" {{if .Selected}}selected{{end}}>{{.Value}}</option>
{{end}}</select>
<button type="submit">Apply</button>
</form>
<form method="post" action="/filters/reset">
<input type="hidden" name="return" value="{{.Return}}">
<button type="submit">Select all</button>
</form>
{{end}}`

const homeTemplate = `{{define "home"}}{{template "header" .}}
<div class="cards">
<div class="card"><div class="label">Active users</div><div class="value">{{thousands .Metrics.ActiveUsers}}</div></div>
<div class="card"><div class="label">Order number</div><div class="value">{{thousands .Metrics.OrderNumberTotal}}</div></div>
<div class="card"><div class="label">Valid order amount</div><div class="value">{{thousands .Metrics.ValidOrderAmountTotal}}</div></div>
<div class="card"><div class="label">Net amount</div><div class="value">{{thousands .Metrics.NetAmountTotal}}</div></div>
</div>
<div class="charts">
<div>{{.Pie}}</div>
<div>{{.Bar}}</div>
</div>
<p>{{.Rows}} rows in selection</p>
{{template "footer" .}}{{end}}`

const tableTemplate = `{{define "table"}}{{template "header" .}}
<form method="get" action="/table">
<input type="hidden" name="columns_set" value="1">
{{range .Columns}}<label><input type="checkbox" name="columns" value="{{.Value}}" {{if .Selected}}checked{{end}}> {{.Value}}</label>
{{end}}<button type="submit">Show</button>
</form>
<p><a href="{{.CSVHref}}">Download CSV</a></p>
<table>
<thead><tr>{{range .View.Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .View.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{if .Stats}}<h2>Statistics</h2>
<table>
<thead><tr><th></th><th>count</th><th>mean</th><th>std</th><th>min</th><th>25%</th><th>50%</th><th>75%</th><th>max</th></tr></thead>
<tbody>
{{range .Stats}}<tr><th>{{.Column}}</th><td>{{.Count}}</td><td>{{decimal2 .Mean}}</td><td>{{decimal2 .Std}}</td><td>{{decimal2 .Min}}</td><td>{{decimal2 .Q25}}</td><td>{{decimal2 .Median}}</td><td>{{decimal2 .Q75}}</td><td>{{decimal2 .Max}}</td></tr>
{{end}}</tbody>
</table>{{end}}
{{template "footer" .}}{{end}}`

const betdataTemplate = `{{define "betdata"}}{{template "header" .}}
<p>This view is not available yet.</p>
{{template "footer" .}}{{end}}`

const predictTemplate = `{{define "predict"}}{{template "header" .}}
{{if .ModelError}}<p class="error">Prediction is unavailable: {{.ModelError}}</p>
{{else}}<form method="post" action="/predict">
<p><label>Miles <input type="number" step="any" name="miles" value="{{.Form.Miles}}"></label></p>
<p><label>Year <input type="number" name="year" value="{{.Form.Year}}"></label></p>
<p><label>Make <select name="make">{{$make := .Form.Make}}{{range .Makes}}<option value="{{.}}" {{if eq . $make}}selected{{end}}>{{.}}</option>{{end}}</select></label></p>
<p><label>Model <select name="model">{{$model := .Form.Model}}{{range .CarModels}}<option value="{{.}}" {{if eq . $model}}selected{{end}}>{{.}}</option>{{end}}</select></label></p>
<p><label>Engine size <input type="number" step="0.1" min="0.9" name="engine_size" value="{{.Form.EngineSize}}"></label></p>
<p><label>Province <select name="province">{{$prov := .Form.Province}}{{range .Provinces}}<option value="{{.}}" {{if eq . $prov}}selected{{end}}>{{.}}</option>{{end}}</select></label></p>
<button type="submit">Calculate</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<p class="result">{{.Result}}</p>
{{end}}
{{template "footer" .}}{{end}}`

const errorTemplate = `{{define "error"}}{{template "header" .}}
<p class="error">{{.Message}}</p>
{{template "footer" .}}{{end}}`

// parseTemplates builds the page set gin renders from.
func parseTemplates() *template.Template {
	funcs := template.FuncMap{
		"thousands": thousands,
		"decimal2":  decimal2,
	}
	t := template.New("pages").Funcs(funcs)
	for _, src := range []string{
		headerTemplate,
		footerTemplate,
		filtersTemplate,
		homeTemplate,
		tableTemplate,
		betdataTemplate,
		predictTemplate,
		errorTemplate,
	} {
		t = template.Must(t.Parse(src))
	}
	return t
}
