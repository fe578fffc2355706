package generator

import (
	"bytes"
	"html/template"

	"github.com/firefly-engineering/browser-conf/internal/config"
	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/mods"
)

// GuideData is everything the setup guide shows.
type GuideData struct {
	ProfileName string
	Resolved    []mods.Resolved
	// Warnings are unresolved mod references and catalog failures. Each
	// becomes a manual step.
	Warnings   []mods.Warning
	Workspaces []config.Workspace
	// Files lists the paths written by the apply run.
	Files []string
}

// workspaceEssentials groups the essential tabs of one workspace.
type workspaceEssentials struct {
	Name string
	URLs []string
}

func (d GuideData) essentials() []workspaceEssentials {
	var out []workspaceEssentials
	for _, ws := range d.Workspaces {
		if len(ws.Essentials) == 0 {
			continue
		}
		out = append(out, workspaceEssentials{Name: ws.Name, URLs: ws.Essentials})
	}
	return out
}

const guideTemplateText = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Zen Browser Setup Guide</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; max-width: 800px; margin: 40px auto; padding: 20px; background: #1a1a1a; color: #e0e0e0; }
h1 { color: #6b9eff; }
h2 { color: #8ab4ff; margin-top: 30px; }
h3 { color: #a0c4ff; }
.step { background: #2a2a2a; border-left: 4px solid #6b9eff; padding: 15px; margin: 15px 0; border-radius: 4px; }
.checkbox-item { margin: 10px 0; padding: 8px; background: #333; border-radius: 4px; }
input[type="checkbox"] { margin-right: 10px; }
a { color: #6b9eff; text-decoration: none; }
code { background: #333; padding: 2px 6px; border-radius: 3px; }
table { width: 100%; border-collapse: collapse; margin: 15px 0; background: #2a2a2a; }
th, td { padding: 10px; text-align: left; border-bottom: 1px solid #3a3a3a; }
th { background: #333; color: #6b9eff; }
</style>
</head>
<body>
<h1>Zen Browser Setup Guide</h1>
<p>The configuration for profile <code>{{.ProfileName}}</code> has been applied. Complete these manual steps:</p>

<h2 id="mods">1. Install Zen Mods</h2>
<div class="step">
{{- if or .Resolved .Warnings}}
{{- range .Resolved}}
<div class="checkbox-item"><label><input type="checkbox"> Install <a href="{{.Mod.InstallURL}}" target="_blank">{{.Mod.Name}}</a>{{with .Mod.Author}} by {{.}}{{end}}</label></div>
{{- end}}
{{- if .Warnings}}
<h3>Needs attention</h3>
{{- range .Warnings}}
<div class="checkbox-item warning"><label><input type="checkbox"> Find <strong>{{.Ref}}</strong> by hand: {{.Message}}</label></div>
{{- end}}
<p>Browse the <a href="https://zen-browser.app/mods/" target="_blank">mods catalog</a> to install these manually.</p>
{{- end}}
{{- else}}
<p>No mods configured.</p>
{{- end}}
</div>

<h2 id="workspaces">2. Configure Workspaces</h2>
<div class="step">
{{- if .Workspaces}}
<table>
<thead><tr><th>Name</th><th>Icon</th><th>Default Container</th></tr></thead>
<tbody>
{{- range .Workspaces}}
<tr><td><label><input type="checkbox"> <strong>{{.Name}}</strong></label></td><td>{{or .Icon "Not specified"}}</td><td>{{or .DefaultContainer "None"}}</td></tr>
{{- end}}
</tbody>
</table>
<ol>
<li>Open the <strong>Workspaces</strong> menu in the sidebar and choose <strong>Create New Workspace</strong>.</li>
<li>Name the workspace and pick its icon from the table above.</li>
<li>If a default container is listed, open a tab in the workspace and select that container from the address bar.</li>
</ol>
{{- else}}
<p>No workspaces configured.</p>
{{- end}}
</div>

<h2 id="essentials">3. Pin Essential Tabs</h2>
<div class="step">
{{- with essentials .}}
{{- range .}}
<h3>{{.Name}}</h3>
<table>
<thead><tr><th>#</th><th>URL</th></tr></thead>
<tbody>
{{- range $i, $url := .URLs}}
<tr><td>{{inc $i}}</td><td><label><input type="checkbox"> <a href="{{$url}}" target="_blank">{{$url}}</a></label></td></tr>
{{- end}}
</tbody>
</table>
{{- end}}
<p>Switch to each workspace, open its URLs, then right-click each tab and select <strong>Pin as Essential</strong>.</p>
{{- else}}
<p>No essential tabs configured.</p>
{{- end}}
</div>

<h2 id="files">Written Files</h2>
<div class="step">
{{- if .Files}}
<ul>
{{- range .Files}}
<li><code>{{.}}</code></li>
{{- end}}
</ul>
{{- else}}
<p>No files were written.</p>
{{- end}}
</div>
<p>Restart the browser for the changes to take effect. This file can be deleted once every step is done.</p>
</body>
</html>
`

var guideTemplate *template.Template

func init() {
	funcs := template.FuncMap{
		"essentials": func(d GuideData) []workspaceEssentials { return d.essentials() },
		"inc":        func(i int) int { return i + 1 },
	}
	guideTemplate = template.Must(template.New("guide").Funcs(funcs).Parse(guideTemplateText))
}

// Guide renders the HTML setup guide.
func Guide(data GuideData) ([]byte, error) {
	if data.ProfileName == "" {
		data.ProfileName = config.DefaultProfileName
	}
	var buf bytes.Buffer
	if err := guideTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "failed to render setup guide", err)
	}
	return buf.Bytes(), nil
}
