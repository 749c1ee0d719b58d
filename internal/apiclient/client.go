// Package apiclient 是 flow-board HTTP API 的客户端，供命令行工具使用。
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"flow-board/internal/domain"
	"flow-board/internal/dto"
)

// Client 封装对 API 的调用。Token 为空时只能调用登录接口。
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New 创建 Client 实例
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Login 登录并记录返回的 token
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

// GetBoard 读取谜题板
func (c *Client) GetBoard(ctx context.Context, boardID string) (*dto.BoardResponse, error) {
	var board dto.BoardResponse
	if err := c.do(ctx, http.MethodGet, "/api/boards/"+boardID, nil, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// CreateSolution 提交新的解答
func (c *Client) CreateSolution(ctx context.Context, boardID string, paths []domain.Path) (*dto.SolutionResponse, error) {
	var sol dto.SolutionResponse
	req := dto.SolutionRequest{BoardID: boardID, Paths: paths}
	if err := c.do(ctx, http.MethodPost, "/api/boards/"+boardID+"/solutions", req, &sol); err != nil {
		return nil, err
	}
	return &sol, nil
}

// UpdateSolution 覆盖已有解答
func (c *Client) UpdateSolution(ctx context.Context, boardID, solutionID string, paths []domain.Path) (*dto.SolutionResponse, error) {
	var sol dto.SolutionResponse
	req := dto.SolutionRequest{BoardID: boardID, Paths: paths}
	if err := c.do(ctx, http.MethodPut, "/api/boards/"+boardID+"/solutions/"+solutionID, req, &sol); err != nil {
		return nil, err
	}
	return &sol, nil
}

// SaveSolution 根据 solutionID 是否为空选择创建或更新
func (c *Client) SaveSolution(ctx context.Context, boardID, solutionID string, paths []domain.Path) (*dto.SolutionResponse, error) {
	if solutionID == "" {
		return c.CreateSolution(ctx, boardID, paths)
	}
	return c.UpdateSolution(ctx, boardID, solutionID, paths)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	logCtx := logrus.WithFields(logrus.Fields{"method": method, "path": path})

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logCtx.WithError(err).Debug("Request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	logCtx.WithField("status", resp.StatusCode).Debug("Request completed")

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Messages: ParseErrorResponse(resp.StatusCode, data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
