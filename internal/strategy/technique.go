package strategy

import (
	"strings"
	"text/template"
)

// techniqueInput parameterizes the illustrative technique snippets. The
// rendered text is documentation for the presentation layer; nothing in the
// core depends on its wording.
type techniqueInput struct {
	Kind       string
	TypeName   string
	Bucket     int
	Count      int
	SourceID   int64
	WrongType  string
	Detail     string
}

var techniqueTmpl = template.Must(template.New("technique").Parse(strings.TrimSpace(`
// {{.Kind}} phase
{{- if eq .Kind "spray"}}
for (let i = 0; i < {{.Count}}; i++) {
  hold.push(makeObject("{{.TypeName}}", {{.Bucket}}));  // fills {{.Bucket}}-byte slots
}
{{- else if eq .Kind "allocation"}}
let obj = makeObject("{{.TypeName}}", {{.Bucket}});  // lands in the {{.Bucket}}-byte bucket
{{- else if eq .Kind "free"}}
let dangling = hold[victim];  // keep the reference
release(hold[victim]);        // slot {{.Bucket}} is now reusable
{{- else if eq .Kind "preparation"}}
// {{.Detail}}
drainBucket({{.Bucket}});  // drive the target bucket into a predictable state
{{- else if eq .Kind "trigger"}}
// {{.Detail}}
triggerBug(source /* ID {{.SourceID}} */);
{{- else if eq .Kind "exploitation"}}
// {{.Detail}}
let primitive = readCorrupted(target);
{{- else if eq .Kind "scan"}}
for (let obj of hold) {
  if (looksCorrupted(obj)) { report(obj); }
}
{{- end}}
`)))

// renderTechnique renders the snippet for a phase. Template input is fully
// controlled here, so rendering cannot fail; errors fall back to the
// detail string.
func renderTechnique(in techniqueInput) string {
	var sb strings.Builder
	if err := techniqueTmpl.Execute(&sb, in); err != nil {
		return in.Detail
	}
	return sb.String()
}
