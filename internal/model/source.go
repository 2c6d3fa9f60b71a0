// Package model defines the data structures shared by the arrowcheck layers.
package model

// Path represents a file system path.
type Path string

// File represents a fixture file on disk.
type File struct {
	FullPath  Path   `yaml:"full_path"`
	ShortPath Path   `yaml:"short_path"`
	Hash      string `yaml:"hash"`
}
