// Package pcpbuild is the task-driven builder: it turns a single
// (path, root layer stack, options) request into a pcpgraph.Graph by
// repeatedly popping the highest-priority pcptask.Task from a queue and
// running the evaluator that task names, each evaluator adding zero or
// more new arcs via AddArc and, through that, enqueueing further tasks for
// whatever it discovered.
//
// The central operation is AddArc (addarc.go): every per-arc evaluator
// file (references.go, inherits.go, variants.go, relocations.go,
// impliedclasses.go, impliedspecializes.go) calls through it rather than
// touching pcpgraph directly, so cycle detection, duplicate suppression,
// the relocation "salted earth" rule, permission checks, and task
// enqueueing happen exactly once in one place. Evaluators are reimplemented
// idiomatically from the shape of the original primIndex.cpp's _Eval*
// functions, not transliterated.
package pcpbuild
