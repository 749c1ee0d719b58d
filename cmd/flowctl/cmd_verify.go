package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"flow-board/internal/engine"
	"flow-board/internal/service"
)

// errVerifyFailed 表示至少有一个文件未通过校验，具体原因已经打印
var errVerifyFailed = errors.New("verification failed")

// verifyResult 是单个解答文件的校验结果
type verifyResult struct {
	Path     string
	Paths    int
	Messages []string
}

func (r verifyResult) ok() bool { return len(r.Messages) == 0 }

func runVerify(cmd *cobra.Command, args []string) error {
	ok, err := verifyFiles(cmd.Context(), cmd.OutOrStdout(), boardPath, args, maxBoardSize)
	if err != nil {
		return err
	}
	if !ok {
		return errVerifyFailed
	}
	return nil
}

// verifyFiles 校验谜题板，然后并发校验每个解答文件，按参数顺序输出结果。
// 返回值 ok 表示全部通过；error 只用于无法读取谜题板等情况。
func verifyFiles(ctx context.Context, w io.Writer, boardFilePath string, solutionPaths []string, maxSize int) (bool, error) {
	b, err := loadBoard(boardFilePath)
	if err != nil {
		return false, err
	}

	// 1. 谜题板本身
	if msgs := checkBoard(b, maxSize); len(msgs) > 0 {
		printFailure(w, fmt.Sprintf("board %s", boardFilePath), msgs)
		return false, nil
	}
	printOK(w, "board %s (%dx%d, %d points)", boardFilePath, b.Rows, b.Columns, len(b.Points))

	// 2. 解答文件
	index := engine.NewBoardIndex(b.Rows, b.Columns, b.Points)
	results := make([]verifyResult, len(solutionPaths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range solutionPaths {
		i, p := i, p
		g.Go(func() error {
			results[i] = verifySolutionFile(index, b.ID, p)
			return nil
		})
	}
	_ = g.Wait()

	allOK := true
	for _, r := range results {
		if r.ok() {
			printOK(w, "solution %s (%d paths)", r.Path, r.Paths)
			continue
		}
		allOK = false
		printFailure(w, fmt.Sprintf("solution %s", r.Path), r.Messages)
	}
	return allOK, nil
}

func checkBoard(b boardFile, maxSize int) []string {
	err := service.NewBoardValidator(maxSize).Validate(b.input())
	if err == nil {
		return nil
	}
	var verrs engine.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return []string{err.Error()}
}

func verifySolutionFile(index *engine.BoardIndex, boardID, path string) verifyResult {
	res := verifyResult{Path: path}
	sol, err := loadSolution(path)
	if err != nil {
		res.Messages = []string{err.Error()}
		return res
	}
	res.Paths = len(sol.Paths)
	if len(sol.Paths) == 0 {
		res.Messages = []string{engine.ErrNoPaths.Error()}
		return res
	}
	if _, verrs := engine.VerifySolution(index, boardID, sol.Paths); !verrs.Empty() {
		res.Messages = verrs
	}
	return res
}
