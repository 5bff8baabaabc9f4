/*
Package patch implements the declarative patch model and the generic applier.

	+-----------+     +---------+     +----------+
	|   Spec    |---->|  Guard  |---->| Applier  |
	| (Anchor,  |     | (skip?) |     | (splice) |
	|  Kind,    |     +---------+     +----------+
	|  Payload) |
	+-----------+

🎯 Purpose:
- Describes one edit as data: anchor, guard, kind, payload
- Locates anchors deterministically (leftmost-first, non-overlapping)
- Applies edits idempotently: a satisfied guard is a byte-for-byte no-op

🔄 Flow:
1. Guard is evaluated against the buffer; satisfied → Skipped
2. Anchor is matched; no match → NotFound
3. Payload is spliced at the first match → Applied

📝 Design Philosophy:
What to change lives in the Spec; how to change it safely lives in Apply.
Idempotence is a property of the spec (its guard), not of any bookkeeping:
every run re-decides purely from the current buffer content.
*/
package patch
