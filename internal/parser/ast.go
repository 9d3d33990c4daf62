package parser

import "fmt"

// NodeType represents the type of AST node
type NodeType string

// C/C++ AST node types
const (
	// Structure
	NodeTranslationUnit NodeType = "TranslationUnit"

	// Functions and declarations
	NodeFunctionDefinition NodeType = "FunctionDefinition"
	NodeFunctionDeclarator NodeType = "FunctionDeclarator"
	NodeDeclaration        NodeType = "Declaration"
	NodeVariableDeclarator NodeType = "VariableDeclarator"
	NodeParameter          NodeType = "Parameter"

	// Control flow statements
	NodeIfStatement       NodeType = "IfStatement"
	NodeSwitchStatement   NodeType = "SwitchStatement"
	NodeCaseClause        NodeType = "CaseClause"
	NodeForStatement      NodeType = "ForStatement"
	NodeWhileStatement    NodeType = "WhileStatement"
	NodeDoWhileStatement  NodeType = "DoWhileStatement"
	NodeBreakStatement    NodeType = "BreakStatement"
	NodeContinueStatement NodeType = "ContinueStatement"
	NodeReturnStatement   NodeType = "ReturnStatement"
	NodeGotoStatement     NodeType = "GotoStatement"
	NodeLabeledStatement  NodeType = "LabeledStatement"

	// Expressions
	NodeCallExpression        NodeType = "CallExpression"
	NodeBinaryExpression      NodeType = "BinaryExpression"
	NodeUnaryExpression       NodeType = "UnaryExpression"
	NodeUpdateExpression      NodeType = "UpdateExpression"
	NodeAssignmentExpression  NodeType = "AssignmentExpression"
	NodeConditionalExpression NodeType = "ConditionalExpression"
	NodeFieldExpression       NodeType = "FieldExpression"
	NodeSubscriptExpression   NodeType = "SubscriptExpression"
	NodeIdentifier            NodeType = "Identifier"

	// Literals
	NodeStringLiteral NodeType = "StringLiteral"
	NodeNumberLiteral NodeType = "NumberLiteral"
	NodeCharLiteral   NodeType = "CharLiteral"

	// Blocks
	NodeCompoundStatement NodeType = "CompoundStatement"

	// Preprocessor leftovers that survive configuration expansion
	NodePreprocInclude NodeType = "PreprocInclude"
	NodePreprocDefine  NodeType = "PreprocDefine"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node represents an AST node
type Node struct {
	Type     NodeType
	Children []*Node
	Location Location
	Parent   *Node

	// Common fields
	Name   string // Function/variable/parameter name
	Static bool   // static storage class on functions and declarations
	Label  string // Target label for goto, own label for labeled statements

	// Function fields
	Params []*Node // Function parameters
	Body   []*Node // Function/block/case body

	// Control flow fields
	Test       *Node   // Condition for if/while/for/switch/case
	Consequent *Node   // Then branch for if
	Alternate  *Node   // Else branch for if
	Init       *Node   // For loop initializer
	Update     *Node   // For loop update
	Cases      []*Node // Switch cases

	// Expression fields
	Left      *Node   // Left operand
	Right     *Node   // Right operand
	Operator  string  // Operator (+, -, &, etc.)
	Argument  *Node   // Unary expression argument / return value
	Arguments []*Node // Function call arguments
	Callee    *Node   // Function being called

	// Declaration fields
	Declarations []*Node // Declarators of one declaration

	// Utility fields
	Raw string // Raw literal value
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{
		Type:     nodeType,
		Children: []*Node{},
	}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk traverses the AST depth-first and calls the visitor function for each node.
// If the visitor returns false, traversal of that branch is stopped.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}

	if !visitor(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(visitor)
	}
	for _, param := range n.Params {
		param.Walk(visitor)
	}
	for _, stmt := range n.Body {
		stmt.Walk(visitor)
	}
	for _, caseNode := range n.Cases {
		caseNode.Walk(visitor)
	}
	for _, arg := range n.Arguments {
		arg.Walk(visitor)
	}
	for _, decl := range n.Declarations {
		decl.Walk(visitor)
	}

	if n.Test != nil {
		n.Test.Walk(visitor)
	}
	if n.Consequent != nil {
		n.Consequent.Walk(visitor)
	}
	if n.Alternate != nil {
		n.Alternate.Walk(visitor)
	}
	if n.Init != nil {
		n.Init.Walk(visitor)
	}
	if n.Update != nil {
		n.Update.Walk(visitor)
	}
	if n.Left != nil {
		n.Left.Walk(visitor)
	}
	if n.Right != nil {
		n.Right.Walk(visitor)
	}
	if n.Argument != nil {
		n.Argument.Walk(visitor)
	}
	if n.Callee != nil {
		n.Callee.Walk(visitor)
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsStatement returns true if the node is a statement
func (n *Node) IsStatement() bool {
	switch n.Type {
	case NodeIfStatement, NodeSwitchStatement, NodeForStatement,
		NodeWhileStatement, NodeDoWhileStatement,
		NodeBreakStatement, NodeContinueStatement, NodeReturnStatement,
		NodeGotoStatement, NodeLabeledStatement,
		NodeDeclaration, NodeCompoundStatement:
		return true
	}
	return false
}

// IsJump returns true for statements after which control never falls
// through to the next statement in the same block
func (n *Node) IsJump() bool {
	switch n.Type {
	case NodeReturnStatement, NodeBreakStatement, NodeContinueStatement, NodeGotoStatement:
		return true
	}
	return false
}
