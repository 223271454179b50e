// Package promiscuity computes promiscuity scores over an abstract graph view.
//
// The promiscuity score of a walk source → n1 → … → nk → tail is the largest
// degree among its k intermediate nodes. The source and tail never contribute.
// For a fixed k the searches in this package find the walk of exactly k+1 edges
// that minimises that score.
//
// Four searches share the same entry model:
//
//   - BestFirst: branch-and-bound over a degree-ordered frontier.
//   - DepthFirst: recursive descent with an upper bound threaded through each level.
//   - Exhaustive: breadth-first enumeration of every walk, no pruning. Used as an oracle.
//   - TopPaths: BestFirst variant that keeps the n lowest-scoring walks and
//     reconstructs them from a parent-indexed lineage arena.
//
// Frontier entries are ordered by the degree of their node. Because the score
// of a walk is a max-fold, no walk through an entry can score below that
// entry's degree, so every search stops as soon as the next entry's degree
// reaches the best complete score found so far.
//
// All state is local to one call. A Graph is only read, so the same view may be
// shared by concurrent searches as long as nothing mutates it underneath.
package promiscuity
