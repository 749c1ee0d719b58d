package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed, color.Bold)
	faint = color.New(color.Faint)
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

func printOK(w io.Writer, format string, a ...interface{}) {
	green.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, a...))
}

// printFailure 打印标题和错误列表
func printFailure(w io.Writer, title string, messages []string) {
	red.Fprintf(w, "✗ %s\n", title)
	for _, msg := range messages {
		faint.Fprintf(w, "    - %s\n", msg)
	}
}
