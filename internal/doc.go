// Package internal houses the front-end passes behind the klor facade.
//
// # Architecture Overview
//
// The front end is a pipeline of small packages with one concern each:
//
//	                     +------------------+
//	                     |     klor.go      |  Facade, per-form orchestration
//	                     +--------+---------+
//	                              |
//	      +-----------------------+-----------------------+
//	      |                       |                       |
//	+-----v------+         +------v------+         +------v-------+
//	|    sexp    |         |   expand    |         |   analyze    |
//	|  (reader)  |         |  (desugar)  |         | (attributes) |
//	+-----+------+         +------+------+         +------+-------+
//	      |                       |                       |
//	      +-----------------------+-----------------------+
//	                              |
//	               +--------------v--------------+
//	               |     tree / role / diag      |  Shared vocabulary
//	               +-----------------------------+
//
// manifest sits to the side: it only feeds the checker command a role set
// and strictness settings per file.
//
// # Pipeline
//
//  1. sexp reads the source into surface trees and collects the
//     ;klor:roles directives into the declared role set
//  2. expand rewrites active role-qualified identifiers into ownership
//     wrappers, recursing only through do, let, if, and select
//  3. analyze propagates the role context over each expanded form and
//     boxes every recognized node with its owner and implicated roles
//  4. the facade runs 2 and 3 per top-level form and collects every
//     form's diagnostics into one diag.List
//
// # Attribute Rules
//
// The analyzer never synthesizes context from children:
//
//   - a compound's owner is the surrounding context, or none
//   - a wrapper analyzes its expression under the wrapper's role, then
//     forces the result's owner to that role, so the outermost wrapper
//     of a nest wins
//   - a node's roles are the union of its annotated children's roles;
//     leaves contribute their context as a singleton
//   - shapes outside the attributed language pass through untouched,
//     and a wrapper around one boxes it as opaque
//
// Both passes allocate new spines and share unchanged subtrees; input
// trees are never mutated.
package internal
