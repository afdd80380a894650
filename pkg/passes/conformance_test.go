// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package passes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
	"github.com/kraklabs/tmplc/pkg/pass"
	"github.com/kraklabs/tmplc/pkg/registry"
)

func TestConformanceReportsBannedAttribute(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	attr := ast.NewNode(gen, ast.KindAttribute, diag.Location{}, &ast.AttributeData{Name: "onclick"})
	tag := ast.NewNode(gen, ast.KindTagOpen, diag.Location{}, &ast.TagOpenData{TagName: "div"})
	tag.AppendChild(attr)
	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo"})
	tmpl.AppendChild(tag)
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	p := Conformance{Rules: []ConformanceRule{
		BannedAttribute("onclick", "inline event handlers are not allowed"),
	}}
	verdict := p.RunFileset([]*ast.Node{file}, gen, registry.New(), sink)

	require.Equal(t, pass.Continue, verdict)
	require.Equal(t, 1, sink.Len())
	require.Equal(t, diag.KindBannedAttribute, sink.All()[0].Kind)
}

func TestConformanceAllowDoesNotReport(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	attr := ast.NewNode(gen, ast.KindAttribute, diag.Location{}, &ast.AttributeData{Name: "href"})
	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo"})
	tmpl.AppendChild(attr)
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	p := Conformance{Rules: []ConformanceRule{
		BannedAttribute("onclick", "inline event handlers are not allowed"),
	}}
	p.RunFileset([]*ast.Node{file}, gen, registry.New(), sink)

	require.Equal(t, 0, sink.Len())
}
