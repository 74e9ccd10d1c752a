package mono

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"ferrite/internal/hir"
	"ferrite/internal/source"
	"ferrite/internal/types"
)

func identityReq(arg *types.Type) Request {
	return Request{
		Name:        "identity",
		GenericArgs: []*types.Type{arg},
		Params:      []*types.Type{arg},
		Ret:         arg,
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	r := NewRegistry(0)
	a, created, err := r.Ensure(identityReq(types.I64))
	if err != nil || !created {
		t.Fatalf("first request must create: created=%v err=%v", created, err)
	}
	b, created, err := r.Ensure(identityReq(types.I64))
	if err != nil || created {
		t.Fatalf("second request must be a lookup: created=%v err=%v", created, err)
	}
	if a != b || r.Len() != 1 {
		t.Fatalf("expected a single cached instance, got %d", r.Len())
	}
	if a.Identity != "identity<i64>(i64)->i64" {
		t.Fatalf("unexpected identity %q", a.Identity)
	}
	if _, created, _ := r.Ensure(identityReq(types.U8)); !created {
		t.Fatalf("different arguments must give a new instance")
	}
}

func TestWorkListDrainsOnce(t *testing.T) {
	r := NewRegistry(0)
	r.Ensure(identityReq(types.I32))
	r.Ensure(identityReq(types.I32))
	inst, ok := r.Next()
	if !ok || inst.State != StateResolving {
		t.Fatalf("expected resolving instance")
	}
	r.Complete(inst, &hir.Func{Name: "identity", Symbol: inst.Symbol})
	if _, ok := r.Next(); ok {
		t.Fatalf("work list must be empty")
	}
	if got := len(r.Funcs()); got != 1 {
		t.Fatalf("expected one resolved function, got %d", got)
	}
}

func TestDepthLimit(t *testing.T) {
	r := NewRegistry(2)
	var caller *Instance
	var err error
	arg := types.I32
	for i := 0; i < 3; i++ {
		arg = types.PtrTo(arg)
		req := identityReq(arg)
		req.Caller = caller
		caller, _, err = r.Ensure(req)
		if err != nil {
			break
		}
	}
	var depthErr *DepthError
	if !errors.As(err, &depthErr) || depthErr.Depth != 3 {
		t.Fatalf("expected depth error at depth 3, got %v", err)
	}
}

func TestNonGenericCallsDoNotDeepen(t *testing.T) {
	r := NewRegistry(1)
	root, _, _ := r.Ensure(Request{Name: "main", Ret: types.Void})
	inst, _, err := r.Ensure(Request{Name: "helper", Ret: types.Void, Caller: root})
	if err != nil || inst.Depth != 0 {
		t.Fatalf("non-generic chain must stay at depth 0: depth=%d err=%v", inst.Depth, err)
	}
	if inst.Symbol != "helper" {
		t.Fatalf("non-generic symbol must be the plain name, got %q", inst.Symbol)
	}
}

func TestSymbolNameIsStable(t *testing.T) {
	id := Identity("Vec::push", []*types.Type{types.U8}, []*types.Type{types.U8}, types.Void)
	a := SymbolName("Vec::push", id, true)
	b := SymbolName("Vec::push", id, true)
	if a != b || !strings.HasPrefix(a, "Vec.push$") {
		t.Fatalf("unexpected symbol %q / %q", a, b)
	}
	other := SymbolName("Vec::push", Identity("Vec::push", []*types.Type{types.I32}, nil, types.Void), true)
	if other == a {
		t.Fatalf("different identities must hash differently")
	}
}

func TestMutedTemplateIdentity(t *testing.T) {
	r := NewRegistry(0)
	inst, _, _ := r.Ensure(Request{Name: "pick", Muted: true, Ret: types.Unknown})
	if inst.Identity != "pick<?>" {
		t.Fatalf("unexpected template identity %q", inst.Identity)
	}
	r.Complete(inst, &hir.Func{Name: "pick"})
	if len(r.Funcs()) != 0 {
		t.Fatalf("muted templates must not be emitted")
	}
}

func TestDumpListsUseSites(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("main.fe", []byte("fn main() {\n  identity<i64>(1)\n}\n"))
	r := NewRegistry(0)
	req := identityReq(types.I64)
	req.Site = source.Span{File: file, Start: 14, End: 30}
	r.Ensure(req)
	var buf bytes.Buffer
	if err := Dump(&buf, r, fs); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "fn identity<i64>(i64)->i64") || !strings.Contains(out, "at main.fe:2:3 from _") {
		t.Fatalf("unexpected dump:\n%s", out)
	}
}
