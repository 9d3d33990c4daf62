package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder builds our internal AST from tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST from a tree-sitter node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	node := b.buildNode(tsNode)
	return node
}

// buildNode converts a tree-sitter node to our internal AST node
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if tsNode == nil || b.isTrivia(tsNode) {
		return nil
	}

	switch tsNode.Type() {
	case "translation_unit":
		return b.buildTranslationUnit(tsNode)
	case "function_definition":
		return b.buildFunctionDefinition(tsNode)
	case "declaration":
		return b.buildDeclaration(tsNode)
	case "compound_statement":
		return b.buildCompoundStatement(tsNode)
	case "if_statement":
		return b.buildIfStatement(tsNode)
	case "switch_statement":
		return b.buildSwitchStatement(tsNode)
	case "while_statement":
		return b.buildWhileStatement(tsNode)
	case "do_statement":
		return b.buildDoWhileStatement(tsNode)
	case "for_statement":
		return b.buildForStatement(tsNode)
	case "return_statement":
		return b.buildReturnStatement(tsNode)
	case "break_statement":
		return b.buildSimpleStatement(tsNode, NodeBreakStatement)
	case "continue_statement":
		return b.buildSimpleStatement(tsNode, NodeContinueStatement)
	case "goto_statement":
		return b.buildGotoStatement(tsNode)
	case "labeled_statement":
		return b.buildLabeledStatement(tsNode)
	case "expression_statement":
		// Unwrap to the inner expression; a bare ";" produces nothing
		if tsNode.NamedChildCount() > 0 {
			return b.buildNode(tsNode.NamedChild(0))
		}
		return nil
	case "parenthesized_expression":
		if tsNode.NamedChildCount() > 0 {
			return b.buildNode(tsNode.NamedChild(0))
		}
		return nil
	case "call_expression":
		return b.buildCallExpression(tsNode)
	case "binary_expression", "comma_expression":
		return b.buildBinaryExpression(tsNode)
	case "unary_expression", "pointer_expression":
		return b.buildUnaryExpression(tsNode)
	case "update_expression":
		return b.buildUpdateExpression(tsNode)
	case "assignment_expression":
		return b.buildAssignmentExpression(tsNode)
	case "conditional_expression":
		return b.buildConditionalExpression(tsNode)
	case "field_expression":
		return b.buildFieldExpression(tsNode)
	case "subscript_expression":
		return b.buildSubscriptExpression(tsNode)
	case "identifier", "field_identifier":
		return b.buildIdentifier(tsNode)
	case "string_literal", "concatenated_string":
		return b.buildLiteral(tsNode, NodeStringLiteral)
	case "char_literal":
		return b.buildLiteral(tsNode, NodeCharLiteral)
	case "number_literal":
		return b.buildLiteral(tsNode, NodeNumberLiteral)
	case "preproc_include":
		return b.buildPreprocInclude(tsNode)
	case "preproc_def", "preproc_function_def":
		return b.buildPreprocDefine(tsNode)
	default:
		return b.buildGenericNode(tsNode)
	}
}

func (b *ASTBuilder) buildTranslationUnit(tsNode *sitter.Node) *Node {
	node := NewNode(NodeTranslationUnit)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		if built := b.buildNode(tsNode.NamedChild(i)); built != nil {
			built.Parent = node
			node.Body = append(node.Body, built)
		}
	}

	return node
}

func (b *ASTBuilder) buildFunctionDefinition(tsNode *sitter.Node) *Node {
	node := NewNode(NodeFunctionDefinition)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child.Type() == "storage_class_specifier" && b.getNodeText(child) == "static" {
			node.Static = true
		}
	}

	declarator := b.getChildByFieldName(tsNode, "declarator")
	node.Name = b.declaratorName(declarator)
	b.collectParameters(declarator, node)

	if body := b.getChildByFieldName(tsNode, "body"); body != nil {
		if built := b.buildNode(body); built != nil {
			built.Parent = node
			node.Body = append(node.Body, built)
		}
	}

	return node
}

func (b *ASTBuilder) buildDeclaration(tsNode *sitter.Node) *Node {
	node := NewNode(NodeDeclaration)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		switch child.Type() {
		case "storage_class_specifier":
			if b.getNodeText(child) == "static" {
				node.Static = true
			}
		case "init_declarator":
			decl := NewNode(NodeVariableDeclarator)
			decl.Location = b.getLocation(child)
			decl.Name = b.declaratorName(b.getChildByFieldName(child, "declarator"))
			if value := b.getChildByFieldName(child, "value"); value != nil {
				decl.AddChild(b.buildNode(value))
			}
			decl.Parent = node
			node.Declarations = append(node.Declarations, decl)
		case "function_declarator":
			decl := NewNode(NodeFunctionDeclarator)
			decl.Location = b.getLocation(child)
			decl.Name = b.declaratorName(child)
			decl.Parent = node
			node.Declarations = append(node.Declarations, decl)
		case "identifier", "array_declarator", "pointer_declarator", "reference_declarator":
			nodeType := NodeVariableDeclarator
			if b.isFunctionDeclarator(child) {
				// e.g. "static int helper(int);" behind a pointer return type
				nodeType = NodeFunctionDeclarator
			}
			decl := NewNode(nodeType)
			decl.Location = b.getLocation(child)
			decl.Name = b.declaratorName(child)
			decl.Parent = node
			node.Declarations = append(node.Declarations, decl)
		}
	}

	return node
}

func (b *ASTBuilder) buildCompoundStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeCompoundStatement)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		if built := b.buildNode(tsNode.NamedChild(i)); built != nil {
			built.Parent = node
			node.Body = append(node.Body, built)
		}
	}

	return node
}

func (b *ASTBuilder) buildIfStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeIfStatement)
	node.Location = b.getLocation(tsNode)

	node.Test = b.attach(node, b.getChildByFieldName(tsNode, "condition"))
	node.Consequent = b.attach(node, b.getChildByFieldName(tsNode, "consequence"))

	if alt := b.getChildByFieldName(tsNode, "alternative"); alt != nil {
		// The else branch may be wrapped in an else_clause node
		if alt.Type() == "else_clause" && alt.NamedChildCount() > 0 {
			alt = alt.NamedChild(0)
		}
		node.Alternate = b.attach(node, alt)
	}

	return node
}

func (b *ASTBuilder) buildSwitchStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeSwitchStatement)
	node.Location = b.getLocation(tsNode)

	node.Test = b.attach(node, b.getChildByFieldName(tsNode, "condition"))

	if body := b.getChildByFieldName(tsNode, "body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			child := body.NamedChild(i)
			if child.Type() == "case_statement" {
				if caseNode := b.buildCaseClause(child); caseNode != nil {
					caseNode.Parent = node
					node.Cases = append(node.Cases, caseNode)
				}
			} else if built := b.buildNode(child); built != nil {
				node.AddChild(built)
			}
		}
	}

	return node
}

func (b *ASTBuilder) buildCaseClause(tsNode *sitter.Node) *Node {
	node := NewNode(NodeCaseClause)
	node.Location = b.getLocation(tsNode)

	// The value field is nil for a default clause
	value := b.getChildByFieldName(tsNode, "value")
	if value != nil {
		node.Test = b.attach(node, value)
	}

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if value != nil && child.StartByte() == value.StartByte() {
			continue
		}
		if built := b.buildNode(child); built != nil {
			built.Parent = node
			node.Body = append(node.Body, built)
		}
	}

	return node
}

func (b *ASTBuilder) buildWhileStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeWhileStatement)
	node.Location = b.getLocation(tsNode)

	node.Test = b.attach(node, b.getChildByFieldName(tsNode, "condition"))
	if body := b.attach(node, b.getChildByFieldName(tsNode, "body")); body != nil {
		node.Body = append(node.Body, body)
	}

	return node
}

func (b *ASTBuilder) buildDoWhileStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeDoWhileStatement)
	node.Location = b.getLocation(tsNode)

	if body := b.attach(node, b.getChildByFieldName(tsNode, "body")); body != nil {
		node.Body = append(node.Body, body)
	}
	node.Test = b.attach(node, b.getChildByFieldName(tsNode, "condition"))

	return node
}

func (b *ASTBuilder) buildForStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeForStatement)
	node.Location = b.getLocation(tsNode)

	node.Init = b.attach(node, b.getChildByFieldName(tsNode, "initializer"))
	node.Test = b.attach(node, b.getChildByFieldName(tsNode, "condition"))
	node.Update = b.attach(node, b.getChildByFieldName(tsNode, "update"))
	if body := b.attach(node, b.getChildByFieldName(tsNode, "body")); body != nil {
		node.Body = append(node.Body, body)
	}

	return node
}

func (b *ASTBuilder) buildReturnStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeReturnStatement)
	node.Location = b.getLocation(tsNode)

	if tsNode.NamedChildCount() > 0 {
		node.Argument = b.attach(node, tsNode.NamedChild(0))
	}

	return node
}

func (b *ASTBuilder) buildSimpleStatement(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)
	return node
}

func (b *ASTBuilder) buildGotoStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeGotoStatement)
	node.Location = b.getLocation(tsNode)

	if label := b.getChildByFieldName(tsNode, "label"); label != nil {
		node.Label = b.getNodeText(label)
	}

	return node
}

func (b *ASTBuilder) buildLabeledStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeLabeledStatement)
	node.Location = b.getLocation(tsNode)

	label := b.getChildByFieldName(tsNode, "label")
	if label != nil {
		node.Label = b.getNodeText(label)
	}

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if label != nil && child.StartByte() == label.StartByte() {
			continue
		}
		if built := b.buildNode(child); built != nil {
			built.Parent = node
			node.Body = append(node.Body, built)
		}
	}

	return node
}

func (b *ASTBuilder) buildCallExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeCallExpression)
	node.Location = b.getLocation(tsNode)

	node.Callee = b.attach(node, b.getChildByFieldName(tsNode, "function"))

	if args := b.getChildByFieldName(tsNode, "arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			if built := b.buildNode(args.NamedChild(i)); built != nil {
				built.Parent = node
				node.Arguments = append(node.Arguments, built)
			}
		}
	}

	return node
}

func (b *ASTBuilder) buildBinaryExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeBinaryExpression)
	node.Location = b.getLocation(tsNode)

	node.Left = b.attach(node, b.getChildByFieldName(tsNode, "left"))
	node.Right = b.attach(node, b.getChildByFieldName(tsNode, "right"))
	if op := b.getChildByFieldName(tsNode, "operator"); op != nil {
		node.Operator = b.getNodeText(op)
	} else if tsNode.Type() == "comma_expression" {
		node.Operator = ","
	}

	return node
}

func (b *ASTBuilder) buildUnaryExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeUnaryExpression)
	node.Location = b.getLocation(tsNode)

	if op := b.getChildByFieldName(tsNode, "operator"); op != nil {
		node.Operator = b.getNodeText(op)
	}
	node.Argument = b.attach(node, b.getChildByFieldName(tsNode, "argument"))

	return node
}

func (b *ASTBuilder) buildUpdateExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeUpdateExpression)
	node.Location = b.getLocation(tsNode)

	if op := b.getChildByFieldName(tsNode, "operator"); op != nil {
		node.Operator = b.getNodeText(op)
	}
	node.Argument = b.attach(node, b.getChildByFieldName(tsNode, "argument"))

	return node
}

func (b *ASTBuilder) buildAssignmentExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeAssignmentExpression)
	node.Location = b.getLocation(tsNode)

	node.Left = b.attach(node, b.getChildByFieldName(tsNode, "left"))
	node.Right = b.attach(node, b.getChildByFieldName(tsNode, "right"))
	if op := b.getChildByFieldName(tsNode, "operator"); op != nil {
		node.Operator = b.getNodeText(op)
	}

	return node
}

func (b *ASTBuilder) buildConditionalExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeConditionalExpression)
	node.Location = b.getLocation(tsNode)

	node.Test = b.attach(node, b.getChildByFieldName(tsNode, "condition"))
	node.Consequent = b.attach(node, b.getChildByFieldName(tsNode, "consequence"))
	node.Alternate = b.attach(node, b.getChildByFieldName(tsNode, "alternative"))

	return node
}

func (b *ASTBuilder) buildFieldExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeFieldExpression)
	node.Location = b.getLocation(tsNode)

	node.Argument = b.attach(node, b.getChildByFieldName(tsNode, "argument"))
	if field := b.getChildByFieldName(tsNode, "field"); field != nil {
		node.Name = b.getNodeText(field)
	}

	return node
}

func (b *ASTBuilder) buildSubscriptExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeSubscriptExpression)
	node.Location = b.getLocation(tsNode)

	node.Left = b.attach(node, b.getChildByFieldName(tsNode, "argument"))
	node.Right = b.attach(node, b.getChildByFieldName(tsNode, "index"))

	return node
}

func (b *ASTBuilder) buildIdentifier(tsNode *sitter.Node) *Node {
	node := NewNode(NodeIdentifier)
	node.Location = b.getLocation(tsNode)
	node.Name = b.getNodeText(tsNode)
	return node
}

func (b *ASTBuilder) buildLiteral(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)
	node.Raw = b.getNodeText(tsNode)
	return node
}

func (b *ASTBuilder) buildPreprocInclude(tsNode *sitter.Node) *Node {
	node := NewNode(NodePreprocInclude)
	node.Location = b.getLocation(tsNode)
	if path := b.getChildByFieldName(tsNode, "path"); path != nil {
		node.Name = b.getNodeText(path)
	}
	return node
}

func (b *ASTBuilder) buildPreprocDefine(tsNode *sitter.Node) *Node {
	node := NewNode(NodePreprocDefine)
	node.Location = b.getLocation(tsNode)
	if name := b.getChildByFieldName(tsNode, "name"); name != nil {
		node.Name = b.getNodeText(name)
	}
	return node
}

// buildGenericNode handles node types that do not need dedicated handling.
// Named children are kept so traversal still reaches everything inside.
func (b *ASTBuilder) buildGenericNode(tsNode *sitter.Node) *Node {
	node := NewNode(NodeType(tsNode.Type()))
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		if built := b.buildNode(tsNode.NamedChild(i)); built != nil {
			node.AddChild(built)
		}
	}

	return node
}

// declaratorName descends through declarator wrappers to the declared name.
// C declarators nest: "void (*f(int))(void)" buries the name three levels down.
func (b *ASTBuilder) declaratorName(tsNode *sitter.Node) string {
	for tsNode != nil {
		switch tsNode.Type() {
		case "identifier", "field_identifier", "type_identifier",
			"qualified_identifier", "operator_name", "destructor_name":
			return b.getNodeText(tsNode)
		case "function_declarator", "pointer_declarator", "array_declarator",
			"init_declarator", "reference_declarator":
			next := b.getChildByFieldName(tsNode, "declarator")
			if next == nil {
				next = tsNode.NamedChild(0)
			}
			tsNode = next
		case "parenthesized_declarator":
			tsNode = tsNode.NamedChild(0)
		default:
			return ""
		}
	}
	return ""
}

// collectParameters extracts parameters from the function declarator
func (b *ASTBuilder) collectParameters(declarator *sitter.Node, fn *Node) {
	paramList := b.findParameterList(declarator)
	if paramList == nil {
		return
	}

	for i := 0; i < int(paramList.NamedChildCount()); i++ {
		child := paramList.NamedChild(i)
		if child.Type() != "parameter_declaration" {
			continue
		}
		// "(void)" parses as a parameter declaration without a declarator
		d := b.getChildByFieldName(child, "declarator")
		if d == nil {
			continue
		}
		param := NewNode(NodeParameter)
		param.Location = b.getLocation(child)
		param.Name = b.declaratorName(d)
		param.Parent = fn
		fn.Params = append(fn.Params, param)
	}
}

func (b *ASTBuilder) findParameterList(tsNode *sitter.Node) *sitter.Node {
	for tsNode != nil {
		if tsNode.Type() == "function_declarator" {
			return b.getChildByFieldName(tsNode, "parameters")
		}
		next := b.getChildByFieldName(tsNode, "declarator")
		if next == nil {
			next = tsNode.NamedChild(0)
		}
		tsNode = next
	}
	return nil
}

func (b *ASTBuilder) isFunctionDeclarator(tsNode *sitter.Node) bool {
	return b.findParameterList(tsNode) != nil
}

// attach builds a child node and links its parent
func (b *ASTBuilder) attach(parent *Node, tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}
	built := b.buildNode(tsNode)
	if built != nil {
		built.Parent = parent
	}
	return built
}

// getChildByFieldName finds a child node by field name
func (b *ASTBuilder) getChildByFieldName(tsNode *sitter.Node, fieldName string) *sitter.Node {
	if tsNode == nil {
		return nil
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if tsNode.FieldNameForChild(i) == fieldName {
			return tsNode.Child(i)
		}
	}
	return nil
}

// getNodeText extracts the source text for a node
func (b *ASTBuilder) getNodeText(tsNode *sitter.Node) string {
	if tsNode == nil {
		return ""
	}
	return tsNode.Content(b.source)
}

// getLocation extracts location information from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	startPoint := tsNode.StartPoint()
	endPoint := tsNode.EndPoint()

	return Location{
		File:      b.filename,
		StartLine: int(startPoint.Row) + 1,
		StartCol:  int(startPoint.Column),
		EndLine:   int(endPoint.Row) + 1,
		EndCol:    int(endPoint.Column),
	}
}

// isTrivia returns true for nodes that carry no semantic content
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	return tsNode.Type() == "comment"
}
