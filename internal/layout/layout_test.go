package layout_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ferrite/internal/layout"
	"ferrite/internal/mir"
)

func structType(name string, fields ...mir.Field) *mir.Type {
	return &mir.Type{Kind: mir.TypeStruct, Struct: &mir.Struct{Name: name, BaseName: name, Fields: fields}}
}

func TestStructLayoutPerTarget(t *testing.T) {
	// { a: u8, p: *u8, n: i64 }
	st := structType("S",
		mir.Field{Name: "a", Type: mir.U8},
		mir.Field{Name: "p", Type: mir.PtrTo(mir.U8)},
		mir.Field{Name: "n", Type: mir.I64},
	)
	tests := []struct {
		target layout.Target
		want   layout.TypeLayout
	}{
		{layout.X86_64(), layout.TypeLayout{Size: 24, Align: 8, FieldOffsets: []int{0, 8, 16}}},
		{layout.I386(), layout.TypeLayout{Size: 16, Align: 4, FieldOffsets: []int{0, 4, 8}}},
		{layout.Wasm32(), layout.TypeLayout{Size: 16, Align: 8, FieldOffsets: []int{0, 4, 8}}},
	}
	for _, tt := range tests {
		t.Run(tt.target.Name, func(t *testing.T) {
			got, err := layout.New(tt.target).LayoutOf(st)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("layout mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNestedStructIsCached(t *testing.T) {
	inner := structType("Inner", mir.Field{Name: "x", Type: mir.U32}, mir.Field{Name: "b", Type: mir.Bool})
	outer := structType("Outer", mir.Field{Name: "i", Type: inner}, mir.Field{Name: "j", Type: inner})
	e := layout.New(layout.X86_64())
	size, err := e.SizeOf(outer)
	if err != nil {
		t.Fatal(err)
	}
	if size != 16 {
		t.Fatalf("Outer size %d, want 16", size)
	}
	off, err := e.FieldOffset(outer, 1)
	if err != nil || off != 8 {
		t.Fatalf("Outer.j offset %d (%v), want 8", off, err)
	}
}

func TestRecursiveByValueStruct(t *testing.T) {
	node := &mir.Struct{Name: "Node", BaseName: "Node"}
	nodeT := &mir.Type{Kind: mir.TypeStruct, Struct: node}
	node.Fields = []mir.Field{{Name: "next", Type: nodeT}}

	_, err := layout.New(layout.X86_64()).LayoutOf(nodeT)
	var lerr *layout.Error
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *layout.Error, got %T (%v)", err, err)
	}
	if lerr.Kind != layout.ErrRecursiveUnsized {
		t.Fatalf("kind %d", lerr.Kind)
	}
	if diff := cmp.Diff([]string{"Node", "Node"}, lerr.Cycle); diff != "" {
		t.Fatalf("cycle (-want +got):\n%s", diff)
	}
}

func TestSelfReferenceThroughPointer(t *testing.T) {
	node := &mir.Struct{Name: "List", BaseName: "List"}
	nodeT := &mir.Type{Kind: mir.TypeStruct, Struct: node}
	node.Fields = []mir.Field{{Name: "v", Type: mir.I32}, {Name: "next", Type: mir.PtrTo(nodeT)}}

	l, err := layout.New(layout.I386()).LayoutOf(nodeT)
	if err != nil {
		t.Fatal(err)
	}
	if l.Size != 8 || l.Align != 4 {
		t.Fatalf("List layout %+v", l)
	}
}

func TestTargetByName(t *testing.T) {
	for _, name := range layout.TargetNames() {
		if _, ok := layout.TargetByName(name); !ok {
			t.Fatalf("listed target %q does not resolve", name)
		}
	}
	if _, ok := layout.TargetByName("sparc"); ok {
		t.Fatal("unknown target resolved")
	}
}
