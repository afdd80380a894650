// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package ast

import (
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/typesig"
)

// --- File family -----------------------------------------------------

// FileKind classifies a File per §6: "each carrying ... file kind ∈ {SRC,
// DEP, INDIRECT_DEP}. Only SRC files are rewritten."
type FileKind int

const (
	FileSRC FileKind = iota
	FileDEP
	FileIndirectDEP
)

func (k FileKind) String() string {
	switch k {
	case FileSRC:
		return "SRC"
	case FileDEP:
		return "DEP"
	case FileIndirectDEP:
		return "INDIRECT_DEP"
	default:
		return "UNKNOWN"
	}
}

// FileData is the payload for KindFile nodes. A File's children are its
// Template nodes, in declaration order.
type FileData struct {
	Path      string
	Namespace string
	FileKind  FileKind
}

func (*FileData) isNodeData() {}

// --- Template family ---------------------------------------------------

// TemplateKind distinguishes regular, delegate and element templates (§3).
type TemplateKind int

const (
	TemplateRegular TemplateKind = iota
	TemplateDelegate
	TemplateElement
)

// Visibility controls cross-template call checks (§4.5 Cross-template
// checks: "a private template may be called only from its namespace").
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityPrivate
)

// AutoescapeMode is the per-template autoescaping mode declared in the
// header.
type AutoescapeMode int

const (
	AutoescapeStrict AutoescapeMode = iota
	AutoescapeContextual
	AutoescapeFalse
)

// ContentKind is the declared content kind of a template body (used by
// §4.5 HTML rewrite to decide whether raw text gets partitioned).
type ContentKind int

const (
	ContentHTML ContentKind = iota
	ContentText
	ContentAttributes
	ContentJS
	ContentCSS
	ContentURI
)

func (k ContentKind) String() string {
	switch k {
	case ContentHTML:
		return "html"
	case ContentText:
		return "text"
	case ContentAttributes:
		return "attributes"
	case ContentJS:
		return "js"
	case ContentCSS:
		return "css"
	case ContentURI:
		return "uri"
	default:
		return "unknown"
	}
}

// ParamDecl is a single @param/@prop header declaration.
type ParamDecl struct {
	Name     string
	Type     typesig.Type
	Required bool
	Loc      diag.Location // the declaration's name location, for diagnostics
}

// TemplateData is the payload for KindTemplate nodes. A Template's
// children are its body nodes, in document order.
type TemplateData struct {
	Name            string // fully-qualified name, e.g. "ns.foo"
	Kind            TemplateKind
	Params          []ParamDecl
	PropVars        []ParamDecl
	RequiredCSS     []string
	Visibility      Visibility
	Autoescape      AutoescapeMode
	ContentKind     ContentKind
	DelegateName    string // set when Kind == TemplateDelegate
	DelegateVariant string
	Priority        int // declared delegate priority, used by registry sort (§4.6)
}

func (*TemplateData) isNodeData() {}

// --- Leaf text/placeholder ---------------------------------------------

// RawTextData is the payload for KindRawText nodes: literal template
// source text with no further structure. Leaf node, no children.
type RawTextData struct {
	Text string
}

func (*RawTextData) isNodeData() {}

// PlaceholderData is the payload for KindPlaceholder nodes: a synthetic
// node inserted into a translatable {msg} to represent a non-text
// substructure, with a stable generated identifier (§4.5 Message
// placeholder insertion). Its single child is the wrapped substructure.
type PlaceholderData struct {
	Name string // stable, collision-free within the enclosing msg
}

func (*PlaceholderData) isNodeData() {}

// --- Command family -----------------------------------------------------

// MsgData is the payload for KindMsg nodes. Children are the message's
// mixed raw-text/placeholder/command body.
type MsgData struct {
	Desc string
}

func (*MsgData) isNodeData() {}

// CallData is the payload for KindCall nodes. Children are the call's
// argument expressions (KindLet-less positional/named params resolved by
// the cross-template checks pass).
type CallData struct {
	CalleeName      string
	IsDelegate      bool
	DelegateVariant string
}

func (*CallData) isNodeData() {}

// ForData is the payload for KindFor nodes. Children[0] is the list
// expression; Children[1:] is the loop body.
type ForData struct {
	VarName string
}

func (*ForData) isNodeData() {}

// IfData is the payload for KindIf nodes. Children are IfCond nodes (one
// per if/elseif/else branch), in order.
type IfData struct{}

func (*IfData) isNodeData() {}

// IfCondData is the payload for one if/elseif/else branch. Cond is nil
// for an {else} branch. Children are the branch body.
type IfCondData struct {
	Cond *Node
}

func (*IfCondData) isNodeData() {}

// SwitchData is the payload for KindSwitch nodes. Children[0] is the
// subject expression; Children[1:] are SwitchCase nodes, in order.
type SwitchData struct{}

func (*SwitchData) isNodeData() {}

// SwitchCaseData is the payload for one case/default branch. Values is
// empty for a {default} branch. Children are the branch body.
type SwitchCaseData struct {
	Values []*Node // expression literals
}

func (*SwitchCaseData) isNodeData() {}

// LetData is the payload for KindLet nodes. A value-let's single child is
// its value expression; a block-let's children are its body.
type LetData struct {
	VarName  string
	HasValue bool
}

func (*LetData) isNodeData() {}

// PrintData is the payload for KindPrint nodes. Children[0] is the
// expression to print. Directives records the escaping/formatting
// directive chain attached by autoescape, applied left to right.
type PrintData struct {
	Directives []string
}

func (*PrintData) isNodeData() {}

// --- Html family ----------------------------------------------------

// TagOpenData is the payload for KindTagOpen nodes. Children are
// Attribute nodes.
type TagOpenData struct {
	TagName string
}

func (*TagOpenData) isNodeData() {}

// TagCloseData is the payload for KindTagClose nodes. Leaf node.
type TagCloseData struct {
	TagName string
}

func (*TagCloseData) isNodeData() {}

// SelfContainedData is the payload for KindSelfContained nodes (a void
// element, e.g. <br>). Children are Attribute nodes.
type SelfContainedData struct {
	TagName string
}

func (*SelfContainedData) isNodeData() {}

// AttributeData is the payload for KindAttribute nodes. Children[0], if
// present, is an AttrValue node.
type AttributeData struct {
	Name string
}

func (*AttributeData) isNodeData() {}

// AttrValueData is the payload for KindAttrValue nodes. Children are the
// mixed raw-text/expression content of the attribute value.
type AttrValueData struct{}

func (*AttrValueData) isNodeData() {}

// --- Expr family -----------------------------------------------------

// ExprVarRefData is the payload for KindExprVarRef nodes: a reference to
// $name. Resolved is nil until resolve-names assigns the declaring node.
// Type holds the zero typesig.Type until resolve-types runs.
type ExprVarRefData struct {
	Name     string
	Resolved *Node // the declaring node (header param, {let}, {for}); nil if unresolved
	Type     typesig.Type
}

func (*ExprVarRefData) isNodeData() {}

// LiteralKind is the closed tag for ExprLiteralData's value union.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralBool
	LiteralNull
)

// ExprLiteralData is the payload for KindExprLiteral nodes.
type ExprLiteralData struct {
	Kind        LiteralKind
	StringValue string
	IntValue    int64
	FloatValue  float64
	BoolValue   bool
	Type        typesig.Type
}

func (*ExprLiteralData) isNodeData() {}

// ExprBinOpData is the payload for KindExprBinOp nodes. Children[0] and
// Children[1] are the left and right operands.
type ExprBinOpData struct {
	Op   string
	Type typesig.Type
}

func (*ExprBinOpData) isNodeData() {}

// ExprGlobalData is the payload for KindExprGlobal nodes: a reference to
// a compile-time global, before global-rewrite substitutes it with a
// literal (§4.5 Global rewrite).
type ExprGlobalData struct {
	Name string
	Type typesig.Type
}

func (*ExprGlobalData) isNodeData() {}

// ExprFieldAccessData is the payload for KindExprFieldAccess nodes (e.g.
// $record.field). Children[0] is the base expression.
type ExprFieldAccessData struct {
	FieldName string
	Type      typesig.Type
}

func (*ExprFieldAccessData) isNodeData() {}

// ExprV1Data is the payload for KindExprV1 nodes: an expression written
// in the pre-migration v1 syntax, carried opaquely since this layer does
// not parse it further. §6 allow_v1_expression governs whether it is
// rejected or passed through untyped.
type ExprV1Data struct {
	Raw string
}

func (*ExprV1Data) isNodeData() {}
