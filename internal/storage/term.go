// Package storage 基于文件的术语表存储，实现 glossary.Client
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"atlasdcat/internal/glossary"
)

// TermStorage 术语存储
type TermStorage struct {
	pathManager *PathManager
	mu          sync.RWMutex
}

// NewTermStorage 创建术语存储
func NewTermStorage(pathManager *PathManager) *TermStorage {
	return &TermStorage{
		pathManager: pathManager,
	}
}

// EndpointURL 返回存储位置
func (s *TermStorage) EndpointURL() string {
	return "file://" + filepath.ToSlash(s.pathManager.DataRoot())
}

// PutGlossary 写入术语表及其 termInfo 中的术语，guid 为空时自动生成
func (s *TermStorage) PutGlossary(_ context.Context, g glossary.Glossary) (*glossary.Glossary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.GUID == "" {
		g.GUID = uuid.New().String()
	}

	header := glossary.Glossary{
		GUID:          g.GUID,
		QualifiedName: g.QualifiedName,
		Name:          g.Name,
		Terms:         make([]glossary.TermHeader, 0, len(g.Terms)),
	}
	header.Terms = append(header.Terms, g.Terms...)

	for _, term := range g.OrderedTerms() {
		if term.GUID == "" {
			term.GUID = uuid.New().String()
		}
		term.Anchor = &glossary.Anchor{GlossaryGUID: g.GUID}
		if err := s.writeTerm(g.GUID, term); err != nil {
			return nil, err
		}
		if !hasHeader(header.Terms, term.GUID) {
			header.Terms = append(header.Terms, glossary.TermHeader{TermGUID: term.GUID, DisplayText: term.Name})
		}
	}

	if err := writeJSON(s.pathManager.GetGlossaryPath(g.GUID), header); err != nil {
		return nil, err
	}

	return s.readGlossary(g.GUID, true)
}

// GetGlossary 获取术语表
func (s *TermStorage) GetGlossary(_ context.Context, id string, detailed bool) (*glossary.Glossary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readGlossary(id, detailed)
}

// CreateTerm 创建术语，生成 guid 并加入术语表
func (s *TermStorage) CreateTerm(_ context.Context, term glossary.Term) (*glossary.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	glossaryID, err := anchorOf(term)
	if err != nil {
		return nil, err
	}
	header, err := s.readGlossary(glossaryID, false)
	if err != nil {
		return nil, err
	}
	if term.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidTerm)
	}

	term.GUID = uuid.New().String()
	if err := s.writeTerm(glossaryID, term); err != nil {
		return nil, err
	}

	header.Terms = append(header.Terms, glossary.TermHeader{TermGUID: term.GUID, DisplayText: term.Name})
	header.TermInfo = nil
	if err := writeJSON(s.pathManager.GetGlossaryPath(glossaryID), header); err != nil {
		return nil, err
	}

	if err := s.linkRelated(glossaryID, term); err != nil {
		return nil, err
	}

	return &term, nil
}

// UpdateTerm 更新已存在的术语
func (s *TermStorage) UpdateTerm(_ context.Context, term glossary.Term) (*glossary.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if term.GUID == "" {
		return nil, fmt.Errorf("%w: guid is required", ErrInvalidTerm)
	}
	glossaryID, err := anchorOf(term)
	if err != nil {
		return nil, err
	}
	if _, err := s.readTerm(glossaryID, term.GUID); err != nil {
		return nil, err
	}

	if err := s.writeTerm(glossaryID, term); err != nil {
		return nil, err
	}
	if err := s.linkRelated(glossaryID, term); err != nil {
		return nil, err
	}

	return &term, nil
}

func (s *TermStorage) readGlossary(id string, detailed bool) (*glossary.Glossary, error) {
	var g glossary.Glossary
	if err := readJSON(s.pathManager.GetGlossaryPath(id), &g); err != nil {
		return nil, fmt.Errorf("glossary %s: %w", id, err)
	}
	if !detailed {
		return &g, nil
	}

	dir := s.pathManager.GetTermDir(id)
	files, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	g.TermInfo = make(map[string]glossary.Term, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		var term glossary.Term
		if err := readJSON(filepath.Join(dir, file.Name()), &term); err != nil {
			continue
		}
		g.TermInfo[term.GUID] = term
	}

	return &g, nil
}

func (s *TermStorage) readTerm(glossaryID, guid string) (glossary.Term, error) {
	var term glossary.Term
	if err := readJSON(s.pathManager.GetTermPath(glossaryID, guid), &term); err != nil {
		return glossary.Term{}, fmt.Errorf("term %s: %w", guid, err)
	}
	return term, nil
}

func (s *TermStorage) writeTerm(glossaryID string, term glossary.Term) error {
	return writeJSON(s.pathManager.GetTermPath(glossaryID, term.GUID), term)
}

func anchorOf(term glossary.Term) (string, error) {
	if term.Anchor == nil || term.Anchor.GlossaryGUID == "" {
		return "", fmt.Errorf("%w: anchor glossaryGuid is required", ErrInvalidTerm)
	}
	return term.Anchor.GlossaryGUID, nil
}

func hasHeader(headers []glossary.TermHeader, guid string) bool {
	for _, h := range headers {
		if h.TermGUID == guid {
			return true
		}
	}
	return false
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	// 确保目录存在
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
