/*
Package organize drives the full pipeline for one run.

	+----------+     +------------+     +----------+     +-----------+
	|  Walker  | --> |  Metadata  | --> | Planner  | --> | Executor  |
	| (source) |     |  Resolver  |     | (+Index) |     | (dest fs) |
	+----------+     +------------+     +----------+     +-----------+
	      \________________________________________________/
	                          Summary

🎯 Purpose:
- Discovers regular files under the source root
- Resolves a capture timestamp per file, falling back to mtime
- Plans skip / copy / rename against the destination index
- Applies the plan and accumulates the run summary

🔄 Flow:
1. Walk the source tree (symlinks never followed, hidden entries skipped)
2. Resolve each file's capture timestamp
3. Claim a destination name through the per-run index
4. Copy (or pretend to, under dry-run) and record the outcome

⚡ Key Responsibilities:
- Per-file failures are counted, never fatal
- Only an unreadable source root or cancellation aborts the run
- With workers > 1, destination names are still claimed atomically

🤝 Interfaces:
- metadata.Resolver: capture timestamp extraction
- status.Summary: thread-safe outcome counters
*/
package organize
