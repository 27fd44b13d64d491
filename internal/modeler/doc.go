// Package modeler knows the on-disk layout of an Oracle SQL Developer
// Data Modeler installation: where the product records its version, where
// its two global configuration locations live on each operating system,
// and how those locations map into a version-labeled archive.
//
// Everything here is either a small read ([ReadVersion]) or a pure path
// computation ([Locations]); no function in this package mutates the
// filesystem.
package modeler
