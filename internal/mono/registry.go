package mono

import (
	"fmt"

	"ferrite/internal/ast"
	"ferrite/internal/hir"
	"ferrite/internal/source"
	"ferrite/internal/types"
)

// DefaultMaxDepth bounds chains of instantiations that keep producing new
// identities (polymorphic recursion).
const DefaultMaxDepth = 64

// State tracks an instance through the work list.
type State uint8

const (
	// StatePending means the body is queued but not resolved yet.
	StatePending State = iota
	// StateResolving means the body is being resolved right now.
	StateResolving
	// StateDone means Func holds the resolved body.
	StateDone
	// StateFailed means resolution was aborted by a fatal error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolving:
		return "resolving"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// UseSite records a location where an instantiation is requested.
type UseSite struct {
	Span   source.Span
	Caller string // identity of the requesting instance, "" for roots
}

// Request describes an instantiation requested by a call site or a root.
type Request struct {
	Name        string
	Decl        *ast.FnData
	GenericArgs []*types.Type
	Params      []*types.Type
	Ret         *types.Type
	// Muted marks a template check whose diagnostics are discarded.
	Muted bool
	// Caller is the requesting instance, nil for roots.
	Caller *Instance
	Site   source.Span
}

// Instance is one memoized instantiation.
type Instance struct {
	Identity    string
	Symbol      string
	Name        string
	Decl        *ast.FnData
	GenericArgs []*types.Type
	Params      []*types.Type
	Ret         *types.Type
	Muted       bool
	State       State
	// Depth is the length of the chain of generic instances leading here.
	Depth    int
	Func     *hir.Func
	UseSites []UseSite
}

// DepthError reports an instantiation chain longer than the limit.
type DepthError struct {
	Identity string
	Depth    int
	Limit    int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("instantiation of %s exceeds depth limit %d (depth %d)", e.Identity, e.Limit, e.Depth)
}

// Registry maps identities to instances and owns the pending work list.
type Registry struct {
	MaxDepth int

	byIdentity map[string]*Instance
	order      []*Instance
	queue      []*Instance
}

// NewRegistry creates an empty registry; maxDepth <= 0 selects DefaultMaxDepth.
func NewRegistry(maxDepth int) *Registry {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Registry{MaxDepth: maxDepth, byIdentity: make(map[string]*Instance)}
}

// Ensure returns the instance for req, creating and queueing it on first
// request. created reports whether this call made the instance.
func (r *Registry) Ensure(req Request) (inst *Instance, created bool, err error) {
	generic := len(req.GenericArgs) > 0
	identity := Identity(req.Name, req.GenericArgs, req.Params, req.Ret)
	if req.Muted {
		identity = TemplateIdentity(req.Name)
	}
	caller := ""
	if req.Caller != nil {
		caller = req.Caller.Identity
	}
	if inst = r.byIdentity[identity]; inst != nil {
		inst.addSite(UseSite{Span: req.Site, Caller: caller})
		return inst, false, nil
	}

	depth := 0
	if req.Caller != nil {
		depth = req.Caller.Depth
	}
	if generic {
		depth++
	}
	if depth > r.MaxDepth {
		return nil, false, &DepthError{Identity: identity, Depth: depth, Limit: r.MaxDepth}
	}

	inst = &Instance{
		Identity:    identity,
		Symbol:      SymbolName(req.Name, identity, generic || req.Muted),
		Name:        req.Name,
		Decl:        req.Decl,
		GenericArgs: req.GenericArgs,
		Params:      req.Params,
		Ret:         req.Ret,
		Muted:       req.Muted,
		Depth:       depth,
	}
	inst.addSite(UseSite{Span: req.Site, Caller: caller})
	r.byIdentity[identity] = inst
	r.order = append(r.order, inst)
	r.queue = append(r.queue, inst)
	return inst, true, nil
}

func (i *Instance) addSite(us UseSite) {
	for _, existing := range i.UseSites {
		if existing == us {
			return
		}
	}
	i.UseSites = append(i.UseSites, us)
}

// Next pops the oldest pending instance and marks it resolving.
func (r *Registry) Next() (*Instance, bool) {
	for len(r.queue) > 0 {
		inst := r.queue[0]
		r.queue[0] = nil
		r.queue = r.queue[1:]
		if inst.State != StatePending {
			continue
		}
		inst.State = StateResolving
		return inst, true
	}
	return nil, false
}

// Pending reports the number of queued instances.
func (r *Registry) Pending() int {
	return len(r.queue)
}

// Complete stores the resolved body of inst.
func (r *Registry) Complete(inst *Instance, fn *hir.Func) {
	inst.Func = fn
	inst.State = StateDone
}

// Fail marks inst as aborted.
func (r *Registry) Fail(inst *Instance) {
	inst.State = StateFailed
}

// Lookup finds an instance by identity.
func (r *Registry) Lookup(identity string) (*Instance, bool) {
	inst, ok := r.byIdentity[identity]
	return inst, ok
}

// Len returns the number of distinct instances.
func (r *Registry) Len() int {
	return len(r.order)
}

// Instances returns every instance in creation order.
func (r *Registry) Instances() []*Instance {
	out := make([]*Instance, len(r.order))
	copy(out, r.order)
	return out
}

// Funcs returns the resolved bodies of completed, non-muted instances in
// creation order.
func (r *Registry) Funcs() []*hir.Func {
	out := make([]*hir.Func, 0, len(r.order))
	for _, inst := range r.order {
		if inst.State == StateDone && !inst.Muted && inst.Func != nil {
			out = append(out, inst.Func)
		}
	}
	return out
}
