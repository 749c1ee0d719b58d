package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"flow-board/internal/domain"
	"flow-board/internal/service"
)

// boardFile 是谜题板文件的格式，与 API 的谜题板 JSON 相同
type boardFile struct {
	ID      string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string         `json:"name" yaml:"name"`
	Rows    int            `json:"rows" yaml:"rows"`
	Columns int            `json:"columns" yaml:"columns"`
	Points  []domain.Point `json:"points" yaml:"points"`
}

func (b boardFile) input() service.BoardInput {
	return service.BoardInput{Name: b.Name, Rows: b.Rows, Columns: b.Columns, Points: b.Points}
}

// solutionFile 是解答文件的格式
type solutionFile struct {
	ID      string        `json:"id,omitempty" yaml:"id,omitempty"`
	BoardID string        `json:"board_id,omitempty" yaml:"board_id,omitempty"`
	Paths   []domain.Path `json:"paths" yaml:"paths"`
}

// decodeFile 按扩展名选择 JSON 或 YAML 解码
func decodeFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, out)
	case ".json":
		err = json.Unmarshal(data, out)
	default:
		return fmt.Errorf("%s: unsupported file extension (want .json, .yaml or .yml)", path)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func loadBoard(path string) (boardFile, error) {
	var b boardFile
	err := decodeFile(path, &b)
	return b, err
}

func loadSolution(path string) (solutionFile, error) {
	var s solutionFile
	err := decodeFile(path, &s)
	return s, err
}
