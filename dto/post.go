package dto

import "github.com/Maxbrain0/echo_posts/validation"

// PostShape is the payload of POST /posts (strict) and PATCH /posts/:id (partial).
var PostShape = &validation.Shape{
	Name: "post",
	Fields: []validation.Field{
		{Name: "title", Kind: validation.String, Required: true, Rules: "max=200"},
		{Name: "content", Kind: validation.String, Required: true},
		{Name: "authors", Kind: validation.StringList, Rules: "min=1", ElemRules: "mongodb"},
	},
}

// Post is the typed post payload. Authors is only honoured on update.
type Post struct {
	Title   *string
	Content *string
	Authors []string
}

func (p *Post) Load(v validation.Values) {
	p.Title = optional(v, "title")
	p.Content = optional(v, "content")
	if authors, ok := v.Strings("authors"); ok {
		p.Authors = authors
	}
}

// HasAuthors reports whether the payload carried an authors list.
func (p *Post) HasAuthors() bool {
	return p.Authors != nil
}
