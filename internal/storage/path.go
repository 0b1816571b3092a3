package storage

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// PathManager 路径管理器
//
// 布局：<root>/<glossary>/glossary.json 与 <root>/<glossary>/terms/<guid>.json
type PathManager struct {
	dataRoot string
}

// NewPathManager 创建路径管理器
func NewPathManager(dataRoot string) *PathManager {
	return &PathManager{
		dataRoot: dataRoot,
	}
}

// DataRoot 返回数据根目录
func (pm *PathManager) DataRoot() string {
	return pm.dataRoot
}

// GetGlossaryDir 获取术语表目录
func (pm *PathManager) GetGlossaryDir(glossaryID string) string {
	return filepath.Join(pm.dataRoot, normalizeName(glossaryID))
}

// GetGlossaryPath 获取术语表文件路径
func (pm *PathManager) GetGlossaryPath(glossaryID string) string {
	return filepath.Join(pm.GetGlossaryDir(glossaryID), "glossary.json")
}

// GetTermDir 获取术语目录
func (pm *PathManager) GetTermDir(glossaryID string) string {
	return filepath.Join(pm.GetGlossaryDir(glossaryID), "terms")
}

// GetTermPath 获取术语文件路径
func (pm *PathManager) GetTermPath(glossaryID, guid string) string {
	return filepath.Join(pm.GetTermDir(glossaryID), fmt.Sprintf("%s.json", normalizeName(guid)))
}

// normalizeName 规范化名称（用于文件名）
// 包含非ASCII字符的名称使用MD5哈希，其余替换特殊字符
func normalizeName(name string) string {
	for _, r := range name {
		if r > 127 {
			hash := md5.Sum([]byte(name))
			return hex.EncodeToString(hash[:])
		}
	}
	return unsafeChars.ReplaceAllString(strings.ToLower(name), "_")
}
