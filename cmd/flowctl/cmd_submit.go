package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"flow-board/internal/apiclient"
	"flow-board/internal/engine"
)

func runSubmit(cmd *cobra.Command, args []string) error {
	opts := submitOptions{
		APIURL:     apiURL,
		Token:      apiToken,
		Username:   username,
		Password:   password,
		BoardID:    boardID,
		SolutionID: solutionID,
		SkipVerify: skipVerify,
	}
	return submit(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
}

type submitOptions struct {
	APIURL     string
	Token      string
	Username   string
	Password   string
	BoardID    string
	SolutionID string
	SkipVerify bool
}

// submit 读取解答文件，按需登录，先在本地校验再通过 API 创建或更新解答
func submit(ctx context.Context, w io.Writer, path string, opts submitOptions) error {
	logCtx := logrus.WithFields(logrus.Fields{"file": path, "api": opts.APIURL})

	sol, err := loadSolution(path)
	if err != nil {
		return err
	}
	// 1. 命令行参数优先于文件里的 ID
	if opts.BoardID == "" {
		opts.BoardID = sol.BoardID
	}
	if opts.SolutionID == "" {
		opts.SolutionID = sol.ID
	}
	if opts.BoardID == "" {
		return errors.New("board ID is required (--board-id or board_id in the file)")
	}
	if len(sol.Paths) == 0 {
		printFailure(w, fmt.Sprintf("solution %s", path), []string{engine.ErrNoPaths.Error()})
		return errVerifyFailed
	}

	// 2. 认证
	client := apiclient.New(opts.APIURL, opts.Token)
	if opts.Token == "" {
		if opts.Username == "" {
			return errors.New("either --token or --user/--password is required")
		}
		if _, err := client.Login(ctx, opts.Username, opts.Password); err != nil {
			return reportAPIError(w, "login", err)
		}
		logCtx.WithField("username", opts.Username).Debug("Logged in")
	}

	// 3. 本地校验，避免把明显错误的解答发给服务端
	if !opts.SkipVerify {
		board, err := client.GetBoard(ctx, opts.BoardID)
		if err != nil {
			return reportAPIError(w, "load board", err)
		}
		index := engine.NewBoardIndex(board.Rows, board.Columns, board.Points)
		if _, verrs := engine.VerifySolution(index, board.ID, sol.Paths); !verrs.Empty() {
			printFailure(w, fmt.Sprintf("solution %s", path), verrs)
			return errVerifyFailed
		}
		logCtx.WithField("board_id", board.ID).Debug("Solution verified locally")
	}

	// 4. 提交
	saved, err := client.SaveSolution(ctx, opts.BoardID, opts.SolutionID, sol.Paths)
	if err != nil {
		return reportAPIError(w, "save solution", err)
	}
	verb := "created"
	if opts.SolutionID != "" {
		verb = "updated"
	}
	printOK(w, "solution %s %s (%d paths)", saved.ID, verb, len(saved.Paths))
	return nil
}

// reportAPIError 打印服务端返回的错误列表。校验类错误 (400) 视为校验失败
func reportAPIError(w io.Writer, action string, err error) error {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", action, err)
	}
	printFailure(w, fmt.Sprintf("%s (HTTP %d)", action, apiErr.StatusCode), apiErr.Messages)
	if apiErr.StatusCode == http.StatusBadRequest {
		return errVerifyFailed
	}
	return fmt.Errorf("%s failed with status %d", action, apiErr.StatusCode)
}
