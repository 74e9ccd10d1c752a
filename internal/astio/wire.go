package astio

// The syntactic module document. Types are written as strings in the
// surface syntax ("Vec<*u8>", "_" for an omitted annotation); expressions
// and statements are tagged nodes. Field names are shared by the YAML and
// MessagePack encodings.

type wireModule struct {
	Module string     `yaml:"module" msgpack:"module"`
	Path   string     `yaml:"path,omitempty" msgpack:"path,omitempty"`
	Source string     `yaml:"source,omitempty" msgpack:"source,omitempty"`
	Items  []wireItem `yaml:"items" msgpack:"items"`
}

type wireGeneric struct {
	Name         string   `yaml:"name" msgpack:"name"`
	Restrictions []string `yaml:"restrictions,omitempty" msgpack:"restrictions,omitempty"`
}

type wireParam struct {
	Name string   `yaml:"name" msgpack:"name"`
	Type string   `yaml:"type" msgpack:"type"`
	Span []uint32 `yaml:"span,omitempty" msgpack:"span,omitempty"`
}

type wireField struct {
	Name string   `yaml:"name" msgpack:"name"`
	Type string   `yaml:"type" msgpack:"type"`
	Span []uint32 `yaml:"span,omitempty" msgpack:"span,omitempty"`
}

// wireItem covers every item kind: fn, impl, type, interface, use.
type wireItem struct {
	Kind string   `yaml:"kind" msgpack:"kind"`
	Span []uint32 `yaml:"span,omitempty" msgpack:"span,omitempty"`

	// fn, impl, type, interface
	Name     string        `yaml:"name,omitempty" msgpack:"name,omitempty"`
	Generics []wireGeneric `yaml:"generics,omitempty" msgpack:"generics,omitempty"`

	// fn, impl
	Params    []wireParam `yaml:"params,omitempty" msgpack:"params,omitempty"`
	Variadic  bool        `yaml:"variadic,omitempty" msgpack:"variadic,omitempty"`
	Ret       string      `yaml:"ret,omitempty" msgpack:"ret,omitempty"`
	Alloc     string      `yaml:"alloc,omitempty" msgpack:"alloc,omitempty"`
	Intrinsic bool        `yaml:"intrinsic,omitempty" msgpack:"intrinsic,omitempty"`
	Body      []*wireStmt `yaml:"body,omitempty" msgpack:"body,omitempty"`

	// impl
	Interface string `yaml:"interface,omitempty" msgpack:"interface,omitempty"`
	For       string `yaml:"for,omitempty" msgpack:"for,omitempty"`

	// type
	Fields []wireField `yaml:"fields,omitempty" msgpack:"fields,omitempty"`

	// interface
	Methods []wireItem `yaml:"methods,omitempty" msgpack:"methods,omitempty"`

	// use
	Path string `yaml:"path,omitempty" msgpack:"path,omitempty"`
}

type wireStmt struct {
	Kind string   `yaml:"kind" msgpack:"kind"`
	Span []uint32 `yaml:"span,omitempty" msgpack:"span,omitempty"`

	Name  string    `yaml:"name,omitempty" msgpack:"name,omitempty"`
	Type  string    `yaml:"type,omitempty" msgpack:"type,omitempty"`
	Value *wireExpr `yaml:"value,omitempty" msgpack:"value,omitempty"`

	Expr   *wireExpr `yaml:"expr,omitempty" msgpack:"expr,omitempty"`
	Target *wireExpr `yaml:"target,omitempty" msgpack:"target,omitempty"`

	Cond *wireExpr   `yaml:"cond,omitempty" msgpack:"cond,omitempty"`
	Then []*wireStmt `yaml:"then,omitempty" msgpack:"then,omitempty"`
	// Else distinguishes "no else" (nil) from an empty else block.
	Else []*wireStmt `yaml:"else,omitempty" msgpack:"else,omitempty"`
	Body []*wireStmt `yaml:"body,omitempty" msgpack:"body,omitempty"`
}

type wireFieldInit struct {
	Name  string    `yaml:"name" msgpack:"name"`
	Value *wireExpr `yaml:"value" msgpack:"value"`
	Span  []uint32  `yaml:"span,omitempty" msgpack:"span,omitempty"`
}

type wireExpr struct {
	Kind string   `yaml:"kind" msgpack:"kind"`
	Span []uint32 `yaml:"span,omitempty" msgpack:"span,omitempty"`

	// ident, call, struct: name; int, bool, string: text
	Name string `yaml:"name,omitempty" msgpack:"name,omitempty"`
	Text string `yaml:"text,omitempty" msgpack:"text,omitempty"`

	Op      string    `yaml:"op,omitempty" msgpack:"op,omitempty"`
	Operand *wireExpr `yaml:"operand,omitempty" msgpack:"operand,omitempty"`
	Left    *wireExpr `yaml:"left,omitempty" msgpack:"left,omitempty"`
	Right   *wireExpr `yaml:"right,omitempty" msgpack:"right,omitempty"`

	// call, struct; a present but empty list means "<>" was written
	Recv     string          `yaml:"recv,omitempty" msgpack:"recv,omitempty"`
	Generics []string        `yaml:"generics" msgpack:"generics"`
	Args     []*wireExpr     `yaml:"args,omitempty" msgpack:"args,omitempty"`
	Fields   []wireFieldInit `yaml:"fields,omitempty" msgpack:"fields,omitempty"`

	// index, field, cast
	Target *wireExpr `yaml:"target,omitempty" msgpack:"target,omitempty"`
	Index  *wireExpr `yaml:"index,omitempty" msgpack:"index,omitempty"`
	Field  string    `yaml:"field,omitempty" msgpack:"field,omitempty"`
	Value  *wireExpr `yaml:"value,omitempty" msgpack:"value,omitempty"`
	Type   string    `yaml:"type,omitempty" msgpack:"type,omitempty"`
}
