/*
Package config manages configuration parsing and validation for patchrc.

	            +-------------+
	            |   Config    |
	            | (jobs +     |
	            |  patches)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Loads the .patchrc run declaration (root + ordered jobs)
- Validates configuration values
- Compiles config-level patches into executable patch specs

🔄 Flow:
1. Reads configuration from file (format by extension)
2. Parses format-specific syntax
3. Validates structural requirements
4. Compile() expands globs and compiles anchors/guards into runner jobs

📝 Design Philosophy:
The config is the entire refactor definition: what to change is data here,
how to change it safely is the fixed algorithm in pkg/patch and pkg/txn.
A config that fails to compile is a programming error in the refactor and
aborts the run before any file is touched.
*/
package config
