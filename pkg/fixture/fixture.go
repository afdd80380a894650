// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fixture loads a YAML-described template fileset into the
// pkg/ast tree shape the pipeline operates on. It stands in for the
// lexer/parser the pipeline consumes from an external collaborator
// (spec §1, §6: "Consumed from the parser ... a populated
// SoyFileSetNode"); building that production parser is out of this
// module's scope, so the CLI and tests drive the pipeline from this
// structured substitute instead of real template source text.
package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
	"github.com/kraklabs/tmplc/pkg/typesig"
)

// File is the on-disk shape of one source file.
type File struct {
	Path      string     `yaml:"path"`
	Namespace string     `yaml:"namespace"`
	Kind      string     `yaml:"kind"` // "src" (default), "dep", "indirect_dep"
	Templates []Template `yaml:"templates"`
}

// Template is the on-disk shape of one template header plus body.
type Template struct {
	Name            string   `yaml:"name"` // local name; FQN is Namespace + "." + Name
	Kind            string   `yaml:"kind"` // "regular" (default), "delegate", "element"
	Params          []Param  `yaml:"params"`
	PropVars        []Param  `yaml:"prop_vars"`
	RequiredCSS     []string `yaml:"required_css"`
	Visibility      string   `yaml:"visibility"` // "public" (default), "private"
	Autoescape      string   `yaml:"autoescape"` // "strict" (default), "contextual", "false"
	ContentKind     string   `yaml:"content_kind"`
	DelegateName    string   `yaml:"delegate_name"`
	DelegateVariant string   `yaml:"delegate_variant"`
	Priority        int      `yaml:"priority"`
	Body            []Node   `yaml:"body"`
}

// Param is one @param/@prop declaration.
type Param struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Required bool   `yaml:"required"`
}

// Node is a tagged union over the body node shapes this loader accepts.
// Only the fields used by the shape named in Type are read.
type Node struct {
	Type string `yaml:"type"`

	// rawtext
	Text string `yaml:"text"`

	// print
	Expr *Node `yaml:"expr"`

	// if
	Branches []Branch `yaml:"branches"`

	// call
	Callee     string `yaml:"callee"`
	IsDelegate bool   `yaml:"is_delegate"`

	// for
	Var  string `yaml:"var"`
	List *Node  `yaml:"list"`
	Body []Node `yaml:"body"`

	// let
	Value *Node `yaml:"value"`

	// msg
	Desc string `yaml:"desc"`

	// switch
	Subject *Node  `yaml:"subject"`
	Cases   []Case `yaml:"cases"`

	// var / global / field
	Name     string `yaml:"name"`
	Base     *Node  `yaml:"base"`
	Field    string `yaml:"field"`

	// literal
	LiteralKind string `yaml:"literal_kind"`
	Value_      string `yaml:"value_str"`
	IntVal      int64  `yaml:"value_int"`
	FloatVal    float64 `yaml:"value_float"`
	BoolVal     bool    `yaml:"value_bool"`

	// binop
	Op    string `yaml:"op"`
	Left  *Node  `yaml:"left"`
	Right *Node  `yaml:"right"`
}

// Branch is one {if}/{elseif}/{else} arm. Cond nil means {else}.
type Branch struct {
	Cond *Node  `yaml:"cond"`
	Body []Node `yaml:"body"`
}

// Case is one {case}/{default} arm. Values empty means {default}.
type Case struct {
	Values []Node `yaml:"values"`
	Body   []Node `yaml:"body"`
}

// Load reads a YAML fixture file and builds its fileset as a slice of
// File nodes, allocating every node id from gen.
func Load(path string, gen *ids.Generator) ([]*ast.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	var files []File
	if err := yaml.Unmarshal(data, &files); err != nil {
		return nil, fmt.Errorf("fixture: parse %s: %w", path, err)
	}
	return Build(files, gen)
}

// Build converts parsed fixture Files into the fileset's []*ast.Node
// shape, one KindFile node per entry.
func Build(files []File, gen *ids.Generator) ([]*ast.Node, error) {
	out := make([]*ast.Node, 0, len(files))
	for _, f := range files {
		node, err := buildFile(f, gen)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

func buildFile(f File, gen *ids.Generator) (*ast.Node, error) {
	kind := ast.FileSRC
	switch f.Kind {
	case "", "src":
		kind = ast.FileSRC
	case "dep":
		kind = ast.FileDEP
	case "indirect_dep":
		kind = ast.FileIndirectDEP
	default:
		return nil, fmt.Errorf("fixture: file %s: unknown kind %q", f.Path, f.Kind)
	}
	loc := diag.Location{File: f.Path}
	file := ast.NewFile(gen, loc, f.Path, f.Namespace, kind)
	for _, t := range f.Templates {
		tmpl, err := buildTemplate(f.Namespace, t, gen)
		if err != nil {
			return nil, err
		}
		file.AppendChild(tmpl)
	}
	return file, nil
}

func buildTemplate(namespace string, t Template, gen *ids.Generator) (*ast.Node, error) {
	td := &ast.TemplateData{
		Name:            namespace + "." + t.Name,
		RequiredCSS:     t.RequiredCSS,
		DelegateName:    t.DelegateName,
		DelegateVariant: t.DelegateVariant,
		Priority:        t.Priority,
	}
	switch t.Kind {
	case "", "regular":
		td.Kind = ast.TemplateRegular
	case "delegate":
		td.Kind = ast.TemplateDelegate
	case "element":
		td.Kind = ast.TemplateElement
	default:
		return nil, fmt.Errorf("fixture: template %s: unknown kind %q", t.Name, t.Kind)
	}
	switch t.Visibility {
	case "", "public":
		td.Visibility = ast.VisibilityPublic
	case "private":
		td.Visibility = ast.VisibilityPrivate
	default:
		return nil, fmt.Errorf("fixture: template %s: unknown visibility %q", t.Name, t.Visibility)
	}
	switch t.Autoescape {
	case "", "strict":
		td.Autoescape = ast.AutoescapeStrict
	case "contextual":
		td.Autoescape = ast.AutoescapeContextual
	case "false":
		td.Autoescape = ast.AutoescapeFalse
	default:
		return nil, fmt.Errorf("fixture: template %s: unknown autoescape %q", t.Name, t.Autoescape)
	}
	td.ContentKind = parseContentKind(t.ContentKind)

	// Fixtures are YAML, not source text, so there is no per-field line
	// number to attach to a single @param/@prop; the enclosing template's
	// location stands in, consistent with tmpl's own loc below.
	paramLoc := diag.Location{File: namespace}
	for _, p := range t.Params {
		td.Params = append(td.Params, ast.ParamDecl{Name: p.Name, Type: typesig.ParseType(p.Type), Required: p.Required, Loc: paramLoc})
	}
	for _, p := range t.PropVars {
		td.PropVars = append(td.PropVars, ast.ParamDecl{Name: p.Name, Type: typesig.ParseType(p.Type), Required: p.Required, Loc: paramLoc})
	}

	loc := diag.Location{File: namespace}
	tmpl := ast.NewTemplate(gen, loc, td)
	for _, n := range t.Body {
		child, err := buildNode(n, gen)
		if err != nil {
			return nil, err
		}
		tmpl.AppendChild(child)
	}
	return tmpl, nil
}

func parseContentKind(s string) ast.ContentKind {
	switch s {
	case "text":
		return ast.ContentText
	case "attributes":
		return ast.ContentAttributes
	case "js":
		return ast.ContentJS
	case "css":
		return ast.ContentCSS
	case "uri":
		return ast.ContentURI
	default:
		return ast.ContentHTML
	}
}

func buildNode(n Node, gen *ids.Generator) (*ast.Node, error) {
	loc := diag.Location{}
	switch n.Type {
	case "rawtext":
		return ast.NewRawText(gen, loc, n.Text), nil

	case "print":
		expr, err := buildNode(*n.Expr, gen)
		if err != nil {
			return nil, err
		}
		return ast.NewPrint(gen, loc, expr), nil

	case "if":
		ifNode := ast.NewIf(gen, loc)
		for _, b := range n.Branches {
			var cond *ast.Node
			if b.Cond != nil {
				c, err := buildNode(*b.Cond, gen)
				if err != nil {
					return nil, err
				}
				cond = c
			}
			branch := ast.NewIfCond(gen, loc, cond)
			for _, bn := range b.Body {
				c, err := buildNode(bn, gen)
				if err != nil {
					return nil, err
				}
				branch.AppendChild(c)
			}
			ifNode.AppendChild(branch)
		}
		return ifNode, nil

	case "call":
		call := ast.NewCall(gen, loc, n.Callee, n.IsDelegate)
		for _, bn := range n.Body {
			c, err := buildNode(bn, gen)
			if err != nil {
				return nil, err
			}
			call.AppendChild(c)
		}
		return call, nil

	case "for":
		list, err := buildNode(*n.List, gen)
		if err != nil {
			return nil, err
		}
		forNode := ast.NewFor(gen, loc, n.Var, list)
		for _, bn := range n.Body {
			c, err := buildNode(bn, gen)
			if err != nil {
				return nil, err
			}
			forNode.AppendChild(c)
		}
		return forNode, nil

	case "let":
		if n.Value != nil {
			v, err := buildNode(*n.Value, gen)
			if err != nil {
				return nil, err
			}
			return ast.NewLetValue(gen, loc, n.Var, v), nil
		}
		letNode := ast.NewLetBlock(gen, loc, n.Var)
		for _, bn := range n.Body {
			c, err := buildNode(bn, gen)
			if err != nil {
				return nil, err
			}
			letNode.AppendChild(c)
		}
		return letNode, nil

	case "msg":
		msgNode := ast.NewNode(gen, ast.KindMsg, loc, &ast.MsgData{Desc: n.Desc})
		for _, bn := range n.Body {
			c, err := buildNode(bn, gen)
			if err != nil {
				return nil, err
			}
			msgNode.AppendChild(c)
		}
		return msgNode, nil

	case "switch":
		subject, err := buildNode(*n.Subject, gen)
		if err != nil {
			return nil, err
		}
		switchNode := ast.NewNode(gen, ast.KindSwitch, loc, &ast.SwitchData{})
		switchNode.AppendChild(subject)
		for _, cs := range n.Cases {
			var values []*ast.Node
			for _, v := range cs.Values {
				vn, err := buildNode(v, gen)
				if err != nil {
					return nil, err
				}
				values = append(values, vn)
			}
			caseNode := ast.NewNode(gen, ast.KindSwitchCase, loc, &ast.SwitchCaseData{Values: values})
			for _, bn := range cs.Body {
				c, err := buildNode(bn, gen)
				if err != nil {
					return nil, err
				}
				caseNode.AppendChild(c)
			}
			switchNode.AppendChild(caseNode)
		}
		return switchNode, nil

	case "var":
		return ast.NewExprVarRef(gen, loc, n.Name), nil

	case "global":
		return ast.NewExprGlobal(gen, loc, n.Name), nil

	case "field":
		base, err := buildNode(*n.Base, gen)
		if err != nil {
			return nil, err
		}
		fieldNode := ast.NewNode(gen, ast.KindExprFieldAccess, loc, &ast.ExprFieldAccessData{FieldName: n.Field})
		fieldNode.AppendChild(base)
		return fieldNode, nil

	case "binop":
		left, err := buildNode(*n.Left, gen)
		if err != nil {
			return nil, err
		}
		right, err := buildNode(*n.Right, gen)
		if err != nil {
			return nil, err
		}
		binNode := ast.NewNode(gen, ast.KindExprBinOp, loc, &ast.ExprBinOpData{Op: n.Op})
		binNode.AppendChild(left)
		binNode.AppendChild(right)
		return binNode, nil

	case "literal":
		return buildLiteral(n, gen, loc)

	case "v1expr":
		return ast.NewExprV1(gen, loc, n.Text), nil

	default:
		return nil, fmt.Errorf("fixture: unknown node type %q", n.Type)
	}
}

func buildLiteral(n Node, gen *ids.Generator, loc diag.Location) (*ast.Node, error) {
	switch n.LiteralKind {
	case "string":
		return ast.NewExprStringLiteral(gen, loc, n.Value_), nil
	case "int":
		return ast.NewExprIntLiteral(gen, loc, n.IntVal), nil
	case "float":
		return ast.NewNode(gen, ast.KindExprLiteral, loc, &ast.ExprLiteralData{Kind: ast.LiteralFloat, FloatValue: n.FloatVal}), nil
	case "bool":
		return ast.NewExprBoolLiteral(gen, loc, n.BoolVal), nil
	case "null", "":
		return ast.NewExprNullLiteral(gen, loc), nil
	default:
		return nil, fmt.Errorf("fixture: unknown literal kind %q", n.LiteralKind)
	}
}
