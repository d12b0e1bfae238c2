// Package hcl_adapter implements config.Loader for HCL files.
//
// A configuration file may contain one engine, generator and log block:
//
//	engine {
//	  workers     = max(1, cpus - 1)
//	  queue_depth = 64
//	  size_limit  = 6
//	}
//
//	generator {
//	  inputs = 32
//	  gates  = 1000
//	  seed   = 7
//	}
//
//	log {
//	  level  = "debug"
//	  format = "text"
//	}
//
// Expressions are evaluated with the variable cpus (the host CPU count) and
// the functions min and max.
package hcl_adapter
