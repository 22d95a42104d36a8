// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package workspace

import (
	"math"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/api2spec/plugopts/internal/parser"
)

// maxDepth bounds expression nesting and identifier chains.
const maxDepth = 32

// evaluator computes static values of expressions. Values are plain Go
// values: string, float64, bool, nil, []interface{} and
// map[string]interface{}.
type evaluator struct {
	w    *Workspace
	file *SourceFile

	// scope binds bare identifiers while evaluating enum members
	scope map[string]interface{}

	depth    int
	visiting map[string]bool
}

func (e *evaluator) eval(node *sitter.Node) (interface{}, bool) {
	if node == nil || e.depth > maxDepth {
		return nil, false
	}
	e.depth++
	defer func() { e.depth-- }()

	node = parser.UnwrapExpression(node)
	content := e.file.Content()

	switch node.Type() {
	case "string":
		return e.w.parser.ExtractStringLiteral(node, content)
	case "template_string":
		return e.template(node)
	case "number":
		return parseNumber(node.Content(content))
	case "true":
		return true, true
	case "false":
		return false, true
	case "null", "undefined":
		return nil, true
	case "array":
		return e.array(node)
	case "object":
		return e.object(node)
	case "unary_expression":
		return e.unary(node)
	case "binary_expression":
		return e.binary(node)
	case "identifier", "shorthand_property_identifier":
		return e.identifier(node.Content(content))
	case "member_expression":
		return e.member(node)
	case "subscript_expression":
		return e.subscript(node)
	}

	return nil, false
}

func (e *evaluator) template(node *sitter.Node) (interface{}, bool) {
	content := e.file.Content()
	var sb strings.Builder

	pos := node.StartByte() + 1
	end := node.EndByte() - 1

	for i := 0; i < int(node.NamedChildCount()); i++ {
		sub := node.NamedChild(i)
		if sub.Type() != "template_substitution" {
			continue
		}
		sb.WriteString(parser.Unescape(string(content[pos:sub.StartByte()])))

		var expr *sitter.Node
		for j := 0; j < int(sub.NamedChildCount()); j++ {
			if c := sub.NamedChild(j); c.Type() != "comment" {
				expr = c
				break
			}
		}
		v, ok := e.eval(expr)
		if !ok {
			return nil, false
		}
		s, ok := toJSString(v)
		if !ok {
			return nil, false
		}
		sb.WriteString(s)
		pos = sub.EndByte()
	}

	if pos < end {
		sb.WriteString(parser.Unescape(string(content[pos:end])))
	}

	return sb.String(), true
}

func (e *evaluator) array(node *sitter.Node) (interface{}, bool) {
	items := make([]interface{}, 0, node.NamedChildCount())

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "comment":
			continue
		case "spread_element":
			v, ok := e.eval(child.NamedChild(0))
			spread, isArray := v.([]interface{})
			if !ok || !isArray {
				return nil, false
			}
			items = append(items, spread...)
			continue
		}
		v, ok := e.eval(child)
		if !ok {
			return nil, false
		}
		items = append(items, v)
	}

	return items, true
}

func (e *evaluator) object(node *sitter.Node) (interface{}, bool) {
	obj := make(map[string]interface{})

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "spread_element" {
			continue
		}
		v, ok := e.eval(child.NamedChild(0))
		spread, isMap := v.(map[string]interface{})
		if !ok || !isMap {
			return nil, false
		}
		for k, sv := range spread {
			obj[k] = sv
		}
	}

	for _, prop := range e.w.parser.ObjectProperties(node, e.file.Content()) {
		if prop.Node.Type() == "method_definition" {
			return nil, false
		}
		v, ok := e.eval(prop.Value)
		if !ok {
			return nil, false
		}
		obj[prop.Key] = v
	}

	return obj, true
}

func (e *evaluator) unary(node *sitter.Node) (interface{}, bool) {
	op := node.ChildByFieldName("operator")
	arg, ok := e.eval(node.ChildByFieldName("argument"))
	if op == nil || !ok {
		return nil, false
	}

	switch op.Type() {
	case "-":
		if f, ok := arg.(float64); ok {
			return -f, true
		}
	case "+":
		if f, ok := arg.(float64); ok {
			return f, true
		}
	case "!":
		return !truthy(arg), true
	case "~":
		if f, ok := arg.(float64); ok {
			return float64(^toInt32(f)), true
		}
	}
	return nil, false
}

func (e *evaluator) binary(node *sitter.Node) (interface{}, bool) {
	op := node.ChildByFieldName("operator")
	if op == nil {
		return nil, false
	}
	left, ok := e.eval(node.ChildByFieldName("left"))
	if !ok {
		return nil, false
	}

	switch op.Type() {
	case "??":
		if left != nil {
			return left, true
		}
		return e.eval(node.ChildByFieldName("right"))
	case "||":
		if truthy(left) {
			return left, true
		}
		return e.eval(node.ChildByFieldName("right"))
	case "&&":
		if !truthy(left) {
			return left, true
		}
		return e.eval(node.ChildByFieldName("right"))
	}

	right, ok := e.eval(node.ChildByFieldName("right"))
	if !ok {
		return nil, false
	}

	if op.Type() == "+" {
		ls, lIsString := left.(string)
		rs, rIsString := right.(string)
		if lIsString || rIsString {
			if !lIsString {
				if ls, ok = toJSString(left); !ok {
					return nil, false
				}
			}
			if !rIsString {
				if rs, ok = toJSString(right); !ok {
					return nil, false
				}
			}
			return ls + rs, true
		}
	}

	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		return nil, false
	}

	switch op.Type() {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		return l / r, true
	case "%":
		return math.Mod(l, r), true
	case "**":
		return math.Pow(l, r), true
	case "|":
		return float64(toInt32(l) | toInt32(r)), true
	case "&":
		return float64(toInt32(l) & toInt32(r)), true
	case "^":
		return float64(toInt32(l) ^ toInt32(r)), true
	case "<<":
		return float64(toInt32(l) << (uint32(toInt32(r)) & 31)), true
	case ">>":
		return float64(toInt32(l) >> (uint32(toInt32(r)) & 31)), true
	case ">>>":
		return float64(uint32(toInt32(l)) >> (uint32(toInt32(r)) & 31)), true
	}
	return nil, false
}

func (e *evaluator) identifier(name string) (interface{}, bool) {
	if v, ok := e.scope[name]; ok {
		return v, true
	}
	if name == "undefined" {
		return nil, true
	}

	f := e.file
	if members, ok := f.enums[name]; ok {
		return members, true
	}
	if v, ok := f.values[name]; ok {
		return v, true
	}
	if _, ok := f.Parsed.Constants[name]; ok {
		return e.constant(name)
	}

	for _, imp := range f.Parsed.Imports {
		if imported, ok := imp.Named[name]; ok {
			target, found := e.w.loadedImport(f.Path, imp.Source)
			if !found {
				break
			}
			if members, ok := target.enums[imported]; ok {
				return members, true
			}
			if v, ok := target.values[imported]; ok {
				return v, true
			}
			break
		}
		if imp.Namespace == name {
			target, found := e.w.loadedImport(f.Path, imp.Source)
			if !found {
				break
			}
			ns := make(map[string]interface{}, len(target.values)+len(target.enums))
			for k, v := range target.values {
				ns[k] = v
			}
			for k, v := range target.enums {
				ns[k] = v
			}
			return ns, true
		}
	}

	if members, ok := e.w.enums[name]; ok {
		return members, true
	}

	return nil, false
}

// constant evaluates a same-file top-level declaration, guarding cycles.
func (e *evaluator) constant(name string) (interface{}, bool) {
	node, ok := e.file.Parsed.Constants[name]
	if !ok || e.visiting[name] {
		return nil, false
	}
	if e.visiting == nil {
		e.visiting = make(map[string]bool)
	}
	e.visiting[name] = true
	defer delete(e.visiting, name)

	return e.eval(node)
}

func (e *evaluator) member(node *sitter.Node) (interface{}, bool) {
	prop := node.ChildByFieldName("property")
	if prop == nil {
		return nil, false
	}
	obj, ok := e.eval(node.ChildByFieldName("object"))
	if !ok {
		return nil, false
	}
	return lookup(obj, prop.Content(e.file.Content()))
}

func (e *evaluator) subscript(node *sitter.Node) (interface{}, bool) {
	obj, ok := e.eval(node.ChildByFieldName("object"))
	if !ok {
		return nil, false
	}
	index, ok := e.eval(node.ChildByFieldName("index"))
	if !ok {
		return nil, false
	}
	key, ok := toJSString(index)
	if !ok {
		return nil, false
	}
	return lookup(obj, key)
}

// enumMembers evaluates an enum's members. Members without an initializer
// continue numbering from the previous numeric member.
func (e *evaluator) enumMembers(enum parser.TSEnum) map[string]interface{} {
	members := make(map[string]interface{}, len(enum.Members))

	saved := e.scope
	e.scope = members
	defer func() { e.scope = saved }()

	next, numbering := 0.0, true
	for _, m := range enum.Members {
		if m.Value == nil {
			if numbering {
				members[m.Name] = next
				next++
			}
			continue
		}

		v, ok := e.eval(m.Value)
		if !ok {
			numbering = false
			continue
		}
		members[m.Name] = v
		if f, isNum := v.(float64); isNum {
			next, numbering = f+1, true
		} else {
			numbering = false
		}
	}

	return members
}

func lookup(obj interface{}, key string) (interface{}, bool) {
	switch o := obj.(type) {
	case map[string]interface{}:
		v, ok := o[key]
		return v, ok
	case []interface{}:
		if key == "length" {
			return float64(len(o)), true
		}
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(o) {
			return nil, false
		}
		return o[i], true
	case string:
		if key == "length" {
			return float64(len(o)), true
		}
	}
	return nil, false
}

func parseNumber(text string) (interface{}, bool) {
	text = strings.ReplaceAll(text, "_", "")
	text = strings.TrimSuffix(text, "n")

	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		n, err := strconv.ParseInt(lower, 0, 64)
		if err != nil {
			return nil, false
		}
		return float64(n), true
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

// toJSString converts a scalar the way string concatenation would.
func toJSString(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return FormatNumber(x), true
	case bool:
		return strconv.FormatBool(x), true
	case nil:
		return "null", true
	}
	return "", false
}

// FormatNumber renders a number without a trailing ".0" for integers.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	}
	return true
}

func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(math.Trunc(f))))
}
