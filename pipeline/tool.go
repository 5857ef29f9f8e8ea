// Package pipeline contains the values passed between an evaluation pipeline and its consumer.
package pipeline

// Tool is an annotation tool under evaluation and the directory holding its output.
type Tool struct {
	Name string
	Dir  string
}

// NewTool creates a new tool.
func NewTool(name, dir string) Tool {
	return Tool{Name: name, Dir: dir}
}
