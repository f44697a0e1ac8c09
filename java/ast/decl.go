package ast

type CompilationUnit struct {
	Location
	File    string
	Package *PackageDeclaration
	Imports []*ImportDeclaration
	Types   []TypeDeclaration
}

func NewCompilationUnit(file string) *CompilationUnit {
	return &CompilationUnit{Location: Location{File: file, Line: 1, Column: 1}, File: file}
}

func (cu *CompilationUnit) AddTypeDeclaration(td TypeDeclaration) {
	cu.Types = append(cu.Types, td)
}

// PackageName returns the declared package or "" for the default package.
func (cu *CompilationUnit) PackageName() string {
	if cu.Package == nil {
		return ""
	}
	return cu.Package.Name
}

type PackageDeclaration struct {
	Location
	Name string
}

type ImportDeclaration struct {
	Location
	Identifiers []string
	Static      bool
	OnDemand    bool
}

type ClassDeclaration struct {
	Location
	Modifiers  *Modifiers
	Name       string
	Extends    *ReferenceType
	Implements []*ReferenceType
	Members    []Member
}

type InterfaceDeclaration struct {
	Location
	Modifiers *Modifiers
	Name      string
	Extends   []*ReferenceType
	Members   []Member
}

func (d *ClassDeclaration) AddMember(m Member)                       { d.Members = append(d.Members, m) }
func (d *ClassDeclaration) AddMethod(m *MethodDeclaration)           { d.AddMember(m) }
func (d *ClassDeclaration) AddField(f *FieldDeclaration)             { d.AddMember(f) }
func (d *ClassDeclaration) AddConstructor(c *ConstructorDeclaration) { d.AddMember(c) }

func (d *InterfaceDeclaration) AddMember(m Member)             { d.Members = append(d.Members, m) }
func (d *InterfaceDeclaration) AddMethod(m *MethodDeclaration) { d.AddMember(m) }
func (d *InterfaceDeclaration) AddField(f *FieldDeclaration)   { d.AddMember(f) }

func (d *ClassDeclaration) TypeName() string              { return d.Name }
func (d *ClassDeclaration) TypeModifiers() *Modifiers     { return d.Modifiers }
func (d *ClassDeclaration) TypeMembers() []Member         { return d.Members }
func (d *InterfaceDeclaration) TypeName() string          { return d.Name }
func (d *InterfaceDeclaration) TypeModifiers() *Modifiers { return d.Modifiers }
func (d *InterfaceDeclaration) TypeMembers() []Member     { return d.Members }

type FieldDeclaration struct {
	Location
	Modifiers *Modifiers
	Type      Type
	Variables []*VariableDeclarator
}

// MethodDeclaration has a nil Body when it is abstract or native.
type MethodDeclaration struct {
	Location
	Modifiers  *Modifiers
	ReturnType Type
	Name       string
	Parameters []*FormalParameter
	Thrown     []*ReferenceType
	Body       *Block
}

type ConstructorDeclaration struct {
	Location
	Modifiers  *Modifiers
	Name       string
	Parameters []*FormalParameter
	Thrown     []*ReferenceType
	Invocation *ConstructorInvocation
	Body       *Block
}

// ConstructorInvocation is an explicit `this(...)` or `super(...)` call at
// the start of a constructor body.
type ConstructorInvocation struct {
	Location
	Super     bool
	Arguments []Expr
}

type Initializer struct {
	Location
	Static bool
	Body   *Block
}

type FormalParameter struct {
	Location
	Final   bool
	Type    Type
	Name    string
	VarArgs bool
}

func (*CompilationUnit) Kind() Kind        { return KindCompilationUnit }
func (*PackageDeclaration) Kind() Kind     { return KindPackageDeclaration }
func (*ImportDeclaration) Kind() Kind      { return KindImportDeclaration }
func (*ClassDeclaration) Kind() Kind       { return KindClassDeclaration }
func (*InterfaceDeclaration) Kind() Kind   { return KindInterfaceDeclaration }
func (*FieldDeclaration) Kind() Kind       { return KindFieldDeclaration }
func (*MethodDeclaration) Kind() Kind      { return KindMethodDeclaration }
func (*ConstructorDeclaration) Kind() Kind { return KindConstructorDeclaration }
func (*ConstructorInvocation) Kind() Kind  { return KindConstructorInvocation }
func (*Initializer) Kind() Kind            { return KindInitializer }
func (*FormalParameter) Kind() Kind        { return KindFormalParameter }

func (*ClassDeclaration) typeDeclNode()     {}
func (*InterfaceDeclaration) typeDeclNode() {}

func (*FieldDeclaration) memberNode()       {}
func (*MethodDeclaration) memberNode()      {}
func (*ConstructorDeclaration) memberNode() {}
func (*Initializer) memberNode()            {}
