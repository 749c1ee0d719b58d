package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"flow-board/internal/dto"
)

const boardYAML = `name: columns
rows: 3
columns: 3
points:
  - {x: 0, y: 0, color: {name: red, hex_value: "#FF0000"}}
  - {x: 0, y: 2, color: {name: red, hex_value: "#FF0000"}}
  - {x: 2, y: 0, color: {name: blue, hex_value: "#0000FF"}}
  - {x: 2, y: 2, color: {name: blue, hex_value: "#0000FF"}}
`

const validSolutionJSON = `{"board_id": "board-1", "paths": [
  {"color": {"hex_value": "#FF0000"}, "path": [{"x":0,"y":0},{"x":0,"y":1},{"x":0,"y":2}]},
  {"color": {"hex_value": "#0000FF"}, "path": [{"x":2,"y":0},{"x":2,"y":1},{"x":2,"y":2}]}
]}`

// 蓝色路径穿过红色路径的格子
const overlappingSolutionYAML = `paths:
  - color: {hex_value: "#FF0000"}
    path: [{x: 0, y: 0}, {x: 0, y: 1}, {x: 0, y: 2}]
  - color: {hex_value: "#0000FF"}
    path: [{x: 2, y: 0}, {x: 1, y: 0}, {x: 0, y: 0}]
`

func init() {
	color.NoColor = true
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestVerifyFiles(t *testing.T) {
	dir := t.TempDir()
	board := writeFile(t, dir, "board.yaml", boardYAML)
	good := writeFile(t, dir, "good.json", validSolutionJSON)
	bad := writeFile(t, dir, "bad.yml", overlappingSolutionYAML)
	empty := writeFile(t, dir, "empty.json", `{"paths": []}`)

	t.Run("All solutions valid", func(t *testing.T) {
		var out bytes.Buffer
		ok, err := verifyFiles(context.Background(), &out, board, []string{good}, 0)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Contains(t, out.String(), "✓ board")
		assert.Contains(t, out.String(), "✓ solution "+good+" (2 paths)")
	})

	t.Run("Failures are reported per file", func(t *testing.T) {
		var out bytes.Buffer
		ok, err := verifyFiles(context.Background(), &out, board, []string{good, bad, empty}, 0)

		require.NoError(t, err)
		assert.False(t, ok, "有一个文件失败时整体应失败")
		assert.Contains(t, out.String(), "✓ solution "+good)
		assert.Contains(t, out.String(), "✗ solution "+bad)
		assert.Contains(t, out.String(), "path 2 (#0000FF)")
		assert.Contains(t, out.String(), "✗ solution "+empty)
		assert.Contains(t, out.String(), "no paths have been drawn")
	})

	t.Run("Invalid board stops early", func(t *testing.T) {
		badBoard := writeFile(t, dir, "board-bad.json", `{"name": "", "rows": 3, "columns": 3, "points": []}`)
		var out bytes.Buffer
		ok, err := verifyFiles(context.Background(), &out, badBoard, []string{good}, 0)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, out.String(), "✗ board")
		assert.Contains(t, out.String(), "Name is required.")
		assert.NotContains(t, out.String(), "solution", "谜题板无效时不应校验解答")
	})

	t.Run("Board size limit", func(t *testing.T) {
		var out bytes.Buffer
		ok, err := verifyFiles(context.Background(), &out, board, nil, 2)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, out.String(), "Rows must be between 1 and 2.")
	})

	t.Run("Unreadable board is an error", func(t *testing.T) {
		txt := writeFile(t, dir, "board.txt", boardYAML)
		_, err := verifyFiles(context.Background(), &bytes.Buffer{}, txt, nil, 0)
		assert.ErrorContains(t, err, "unsupported file extension")

		_, err = verifyFiles(context.Background(), &bytes.Buffer{}, filepath.Join(dir, "missing.json"), nil, 0)
		assert.Error(t, err)
	})
}

// fakeAPI 模拟 login、读取谜题板和提交解答三个接口
func fakeAPI(t *testing.T, saveStatus int, saveBody interface{}) (*httptest.Server, *[]string) {
	t.Helper()
	var calls []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "login")
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	})
	mux.HandleFunc("/api/boards/board-1", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "board")
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var b boardFile
		require.NoError(t, yaml.Unmarshal([]byte(boardYAML), &b))
		_ = json.NewEncoder(w).Encode(dto.BoardResponse{ID: "board-1", Name: b.Name, Rows: b.Rows, Columns: b.Columns, Points: b.Points})
	})
	mux.HandleFunc("/api/boards/board-1/solutions", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" solutions")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(saveStatus)
		_ = json.NewEncoder(w).Encode(saveBody)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestSubmit(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", validSolutionJSON)
	bad := writeFile(t, dir, "bad.yaml", overlappingSolutionYAML)

	t.Run("Login, verify and create", func(t *testing.T) {
		// Arrange
		srv, calls := fakeAPI(t, http.StatusCreated, dto.SolutionResponse{ID: "sol-1", BoardID: "board-1", Paths: nil})
		var out bytes.Buffer

		// Act
		err := submit(context.Background(), &out, good, submitOptions{APIURL: srv.URL, Username: "alice", Password: "pw"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"login", "board", "POST solutions"}, *calls)
		assert.Contains(t, out.String(), "✓ solution sol-1 created")
	})

	t.Run("Local verification failure is not submitted", func(t *testing.T) {
		srv, calls := fakeAPI(t, http.StatusCreated, nil)
		var out bytes.Buffer

		err := submit(context.Background(), &out, bad, submitOptions{APIURL: srv.URL, Token: "tok", BoardID: "board-1"})

		assert.ErrorIs(t, err, errVerifyFailed)
		assert.Equal(t, []string{"board"}, *calls, "本地校验失败时不应提交")
		assert.Contains(t, out.String(), "path 2 (#0000FF)")
	})

	t.Run("Server validation errors are printed", func(t *testing.T) {
		srv, _ := fakeAPI(t, http.StatusBadRequest, []string{"path 1 (#FF0000): paths cross"})
		var out bytes.Buffer

		err := submit(context.Background(), &out, bad, submitOptions{APIURL: srv.URL, Token: "tok", BoardID: "board-1", SkipVerify: true})

		assert.ErrorIs(t, err, errVerifyFailed)
		assert.Contains(t, out.String(), "save solution (HTTP 400)")
		assert.Contains(t, out.String(), "paths cross")
	})

	t.Run("Missing credentials", func(t *testing.T) {
		err := submit(context.Background(), &bytes.Buffer{}, good, submitOptions{APIURL: "http://127.0.0.1:1"})
		assert.ErrorContains(t, err, "--token")
	})

	t.Run("Missing board ID", func(t *testing.T) {
		noBoard := writeFile(t, dir, "noboard.yaml", overlappingSolutionYAML)
		err := submit(context.Background(), &bytes.Buffer{}, noBoard, submitOptions{Token: "tok"})
		assert.ErrorContains(t, err, "board ID is required")
	})
}
