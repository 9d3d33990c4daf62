package app

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// CollectSourceFiles collects C/C++ files from paths
func (h *FileHelper) CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if h.isSourceFile(path) && !h.isExcluded(path, excludePatterns) {
				files = append(files, path)
			}
			continue
		}

		// Directory handling. Exclude patterns use gitignore semantics
		// and a .gitignore at the directory root is honoured too.
		matcher := h.excludeMatcher(path, excludePatterns)

		if recursive {
			err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}

				rel, relErr := filepath.Rel(path, filePath)
				if relErr != nil {
					rel = filePath
				}

				// Skip excluded directories early
				if info.IsDir() {
					if rel != "." && matcher.MatchesPath(rel) {
						return filepath.SkipDir
					}
					return nil
				}

				if h.isSourceFile(filePath) && !matcher.MatchesPath(rel) {
					files = append(files, filePath)
				}

				return nil
			})
		} else {
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil, err
			}

			for _, entry := range entries {
				if !entry.IsDir() {
					filePath := filepath.Join(path, entry.Name())
					if h.isSourceFile(filePath) && !matcher.MatchesPath(entry.Name()) {
						files = append(files, filePath)
					}
				}
			}
		}

		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// IsValidSourceFile checks if a file is a valid C/C++ file
func (h *FileHelper) IsValidSourceFile(path string) bool {
	return h.isSourceFile(path)
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// isSourceFile checks if a file is C/C++ based on extension
func (h *FileHelper) isSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".c" || ext == ".h" || ext == ".cpp" || ext == ".cc" ||
		ext == ".cxx" || ext == ".hpp" || ext == ".hh" || ext == ".hxx"
}

// isExcluded checks if a path matches any exclude pattern
func (h *FileHelper) isExcluded(path string, excludePatterns []string) bool {
	if len(excludePatterns) == 0 {
		return false
	}
	return ignore.CompileIgnoreLines(excludePatterns...).MatchesPath(path)
}

// excludeMatcher compiles the exclude patterns together with the
// .gitignore at root, when one exists
func (h *FileHelper) excludeMatcher(root string, excludePatterns []string) *ignore.GitIgnore {
	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		if matcher, err := ignore.CompileIgnoreFileAndLines(gitignorePath, excludePatterns...); err == nil {
			return matcher
		}
	}
	return ignore.CompileIgnoreLines(excludePatterns...)
}

// ResolveFilePaths resolves file paths, returning existing files directly
// or collecting files from directories
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	// Check if all paths are already files
	allFiles := true
	for _, path := range paths {
		exists, err := fileHelper.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	// If all paths are already files, no need to collect again
	if allFiles {
		return paths, nil
	}

	// Collect files from directories
	return fileHelper.CollectSourceFiles(paths, recursive, includePatterns, excludePatterns)
}
