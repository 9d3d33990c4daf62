package service

import "sync"

// RegisteredFile is one entry in the scanner's file list. When
// HasContent is set the registered content is checked and the file
// system is never touched for this path.
type RegisteredFile struct {
	Path       string
	Content    []byte
	HasContent bool
}

// FileRegistry keeps the ordered list of files to check. Paths are
// unique; re-adding a path keeps its original position.
type FileRegistry struct {
	mu    sync.Mutex
	files []RegisteredFile
	index map[string]int
}

// NewFileRegistry creates an empty file registry
func NewFileRegistry() *FileRegistry {
	return &FileRegistry{
		index: make(map[string]int),
	}
}

// Add registers a path to be read from disk at check time. Duplicate
// paths are ignored.
func (r *FileRegistry) Add(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[path]; ok {
		return
	}
	r.index[path] = len(r.files)
	r.files = append(r.files, RegisteredFile{Path: path})
}

// AddContent registers a path with in-memory content. The content is
// authoritative: a later Add of the same path is ignored, and a later
// AddContent replaces it.
func (r *FileRegistry) AddContent(path string, content []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.index[path]; ok {
		r.files[i].Content = content
		r.files[i].HasContent = true
		return
	}
	r.index[path] = len(r.files)
	r.files = append(r.files, RegisteredFile{Path: path, Content: content, HasContent: true})
}

// Clear removes all registered files
func (r *FileRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = nil
	r.index = make(map[string]int)
}

// Len returns the number of registered files
func (r *FileRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

// Paths returns the registered paths in registration order
func (r *FileRegistry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	paths := make([]string, len(r.files))
	for i, f := range r.files {
		paths[i] = f.Path
	}
	return paths
}

// Snapshot returns a copy of the current file list. A check run works
// on a snapshot so concurrent registry changes cannot affect it.
func (r *FileRegistry) Snapshot() []RegisteredFile {
	r.mu.Lock()
	defer r.mu.Unlock()

	files := make([]RegisteredFile, len(r.files))
	copy(files, r.files)
	return files
}
