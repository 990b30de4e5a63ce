/*
Package status renders the outcome stream of a conversion run.

	            +--------------+
	            |  Dispatcher  |
	            | (pkg/convert)|
	            +------+-------+
	                   |
	          one Outcome per file
	                   |
	            +------+-------+
	            |   Reporter   |
	            +------+-------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+------+          +-----+----+
	| Progress   |          |  Lines   |
	| (pterm bar)|          | (pkg/log)|
	+------------+          +----------+

🎯 Purpose:
- Consumes the per-file outcome stream in completion order
- Advances a progress bar once per finished task
- Prints warning and failure lines; successes stay silent
- Accumulates the run summary printed on Done

🤝 Interfaces:
- convert.Reporter: Begin / Report / Done, driven by the dispatcher
  from a single goroutine
*/
package status
