package generator

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/prefs"
	"github.com/firefly-engineering/browser-conf/internal/tree"
)

// UserJSFile is the preference file name inside a profile directory.
const UserJSFile = "user.js"

// userPref is one rendered user_pref line.
type userPref struct {
	Key   string
	Value *tree.Value
}

const userJSTemplateText = `// Generated by browser-conf. Do not edit by hand.
//
// Changes made here are overwritten on the next apply. Edit the
// configuration document instead.
{{range .}}
user_pref({{.Key | jsString}}, {{.Value | prefLiteral}});
{{- end}}
`

var userJSTemplate *template.Template

func init() {
	funcs := template.FuncMap{
		"jsString":    tree.QuoteJSON,
		"prefLiteral": prefLiteral,
	}
	userJSTemplate = template.Must(template.New("user.js").Funcs(funcs).Parse(userJSTemplateText))
}

// prefLiteral renders a preference value as a JavaScript literal.
func prefLiteral(v *tree.Value) (string, error) {
	switch v.Kind {
	case tree.KindBool:
		return strconv.FormatBool(v.Bool), nil
	case tree.KindInt:
		return strconv.FormatInt(v.Int, 10), nil
	case tree.KindString:
		return tree.QuoteJSON(v.Str), nil
	}
	return "", fmt.Errorf("unsupported preference value of kind %s", v.Kind)
}

// UserJS renders the preference set as the contents of user.js.
func UserJS(set *prefs.Set) ([]byte, error) {
	lines := make([]userPref, 0, set.Len())
	for _, k := range set.Keys() {
		v, _ := set.Get(k)
		lines = append(lines, userPref{Key: k, Value: v})
	}

	var buf bytes.Buffer
	if err := userJSTemplate.Execute(&buf, lines); err != nil {
		return nil, errors.Wrap(errors.ExitValidationError, "failed to render user.js", err)
	}
	return buf.Bytes(), nil
}
