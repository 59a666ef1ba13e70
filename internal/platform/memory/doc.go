// Package memory provides an in-process implementation of the store
// interfaces. Data lives for the lifetime of the process only.
package memory
