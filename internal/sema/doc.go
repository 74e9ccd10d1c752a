// Package sema resolves syntactic modules into a typed, generics-free
// hir.Module.
//
// Resolution is driven by reachability. Type declarations are checked
// first, then the entry function, then every other non-generic function.
// A call to a generic function computes only the callee's signature under
// the chosen generic arguments and queues the body on a mono.Registry
// keyed by the mangled identity; Check drains that work list until it is
// empty. Bodies therefore never nest, and recursive generics terminate
// on the memo or on the depth limit.
//
// Recoverable problems are reported through diag.Reporter and replaced by
// types.Unknown. A call to a function that does not exist aborts the pass
// with *FatalError.
package sema
