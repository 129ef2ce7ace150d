package api

import (
	"embed"
	"html/template"

	"filmoteca/backend/go/pkg/prettyjoin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pageData 是所有页面模板的根数据：Title 用于 <title>，Page 是具体页面的数据。
type pageData struct {
	Title string
	Page  any
}

// LoadTemplates 解析内嵌的页面模板，并注册 prettyJoin 模板函数。
func LoadTemplates(joiner *prettyjoin.Joiner) (*template.Template, error) {
	return template.New("pages").Funcs(joiner.FuncMap()).ParseFS(templatesFS, "templates/*.html")
}
