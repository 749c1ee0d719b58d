// flowctl 是 flow-board 的命令行工具：离线校验谜题板和解答文件，或通过 API 提交解答。
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	err := rootCmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, errVerifyFailed):
		os.Exit(2)
	default:
		red.Fprintf(os.Stderr, "error: %v\n", err)
		fmt.Fprintln(os.Stderr, "run 'flowctl --help' for usage")
		os.Exit(1)
	}
}
