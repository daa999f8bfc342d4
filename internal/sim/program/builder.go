package program

// Builder assigns each node a stable, monotonically increasing NodeID as
// it is constructed, mirroring what an external parser is expected to do.
// Tests and hosts without a real parser can use Builder directly to
// construct trees by hand.
type Builder struct {
	next       NodeID
	pendingLoc SourceLocation
}

// NewBuilder returns a Builder starting node numbering at 1 (0 is
// reserved to mean "no resume target pending").
func NewBuilder() *Builder {
	return &Builder{next: 1}
}

// At fixes the SourceLocation of the next node this Builder constructs.
// Call it immediately before the constructor for that node.
func (b *Builder) At(line, column int) *Builder {
	b.pendingLoc = SourceLocation{Line: line, Column: column}
	return b
}

func (b *Builder) takeLoc() node {
	n := node{id: b.next, loc: b.pendingLoc}
	b.next++
	b.pendingLoc = SourceLocation{}
	return n
}

func (b *Builder) Literal(v Value) *LiteralExpr { return &LiteralExpr{node: b.takeLoc(), Value: v} }
func (b *Builder) Var(name string) *VarExpr     { return &VarExpr{node: b.takeLoc(), Name: name} }

func (b *Builder) Binary(op BinaryOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{node: b.takeLoc(), Op: op, Left: left, Right: right}
}

func (b *Builder) Unary(op UnaryOp, operand Expr) *UnaryExpr {
	return &UnaryExpr{node: b.takeLoc(), Op: op, Operand: operand}
}

func (b *Builder) Query(q EnvQuery) *EnvQueryExpr {
	return &EnvQueryExpr{node: b.takeLoc(), Query: q}
}

func (b *Builder) Attr(attr AttrKind, target Expr) *AttrExpr {
	return &AttrExpr{node: b.takeLoc(), Attr: attr, Target: target}
}

func (b *Builder) Distance(target Expr) *DistanceExpr {
	return &DistanceExpr{node: b.takeLoc(), Target: target}
}

func (b *Builder) Seq(stmts ...Stmt) *SeqStmt { return &SeqStmt{node: b.takeLoc(), Stmts: stmts} }

func (b *Builder) Assign(name string, value Expr) *AssignStmt {
	return &AssignStmt{node: b.takeLoc(), Name: name, Value: value}
}

func (b *Builder) If(cond Expr, then, els Stmt) *IfStmt {
	return &IfStmt{node: b.takeLoc(), Cond: cond, Then: then, Else: els}
}

func (b *Builder) While(cond Expr, body Stmt) *WhileStmt {
	return &WhileStmt{node: b.takeLoc(), Cond: cond, Body: body}
}

func (b *Builder) Break() *BreakStmt           { return &BreakStmt{node: b.takeLoc()} }
func (b *Builder) Skip() *SkipStmt             { return &SkipStmt{node: b.takeLoc()} }
func (b *Builder) ThrustOn() *ThrustOnStmt     { return &ThrustOnStmt{node: b.takeLoc()} }
func (b *Builder) ThrustOff() *ThrustOffStmt   { return &ThrustOffStmt{node: b.takeLoc()} }
func (b *Builder) Fire() *FireStmt             { return &FireStmt{node: b.takeLoc()} }
func (b *Builder) Turn(angle Expr) *TurnStmt   { return &TurnStmt{node: b.takeLoc(), Angle: angle} }
func (b *Builder) Print(value Expr) *PrintStmt { return &PrintStmt{node: b.takeLoc(), Value: value} }
func (b *Builder) Return() *ReturnStmt         { return &ReturnStmt{node: b.takeLoc()} }
