package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adegamar/backend/utils"
)

// ContentStore guards read/write access to the JSON documents the
// admin panel can edit. Logical paths are matched exactly against a
// static allow-list, so no constructed path ever reaches the
// filesystem. Writes snapshot the current file into the backup
// directory first; the backup is best-effort and never blocks the
// write itself.
type ContentStore struct {
	dir       string
	backupDir string
	allowed   map[string]struct{}
}

func NewContentStore(dir, backupDir string, allowedFiles []string) *ContentStore {
	allowed := make(map[string]struct{}, len(allowedFiles))
	for _, f := range allowedFiles {
		allowed[f] = struct{}{}
	}
	return &ContentStore{
		dir:       dir,
		backupDir: backupDir,
		allowed:   allowed,
	}
}

// AllowedPaths returns the allow-list, sorted, for the editor UI.
func (s *ContentStore) AllowedPaths() []string {
	paths := make([]string, 0, len(s.allowed))
	for p := range s.allowed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (s *ContentStore) resolve(logicalPath string) (string, error) {
	if _, ok := s.allowed[logicalPath]; !ok {
		return "", ErrPathNotAllowed
	}
	return filepath.Join(s.dir, filepath.FromSlash(logicalPath)), nil
}

// Read returns the parsed document at an allow-listed logical path.
func (s *ContentStore) Read(logicalPath string) (json.RawMessage, error) {
	path, err := s.resolve(logicalPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		utils.TrackError("content", "read_failed")
		return nil, err
	}

	if !json.Valid(data) {
		utils.TrackError("content", "corrupt_document")
		return nil, fmt.Errorf("content file %s is not valid JSON", logicalPath)
	}

	utils.TrackContentOperation("read")
	return json.RawMessage(data), nil
}

// Write replaces the document at an allow-listed logical path. The
// current content is snapshotted into the backup directory first; a
// failed backup is logged and the write proceeds, the overwrite being
// the operation that must succeed.
func (s *ContentStore) Write(logicalPath string, data json.RawMessage) error {
	path, err := s.resolve(logicalPath)
	if err != nil {
		return err
	}

	if len(data) == 0 || !json.Valid(data) {
		return ErrValidation
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return ErrValidation
	}
	pretty.WriteByte('\n')

	if err := s.backup(logicalPath, path); err != nil {
		utils.TrackContentOperation("backup_failed")
		log.Printf("Warning: failed to back up %s before write: %v", logicalPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		utils.TrackError("content", "write_failed")
		return err
	}

	if err := os.WriteFile(path, pretty.Bytes(), 0o644); err != nil {
		utils.TrackError("content", "write_failed")
		return err
	}

	utils.TrackContentOperation("write")
	return nil
}

// backup copies the current on-disk content into the backup directory
// under a name embedding the logical path and a UTC timestamp, e.g.
// locales__en.json.20260831T142501Z.json
func (s *ContentStore) backup(logicalPath, path string) error {
	current, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing to snapshot on first write.
			return nil
		}
		return err
	}

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return err
	}

	name := fmt.Sprintf("%s.%s.json",
		strings.ReplaceAll(logicalPath, "/", "__"),
		time.Now().UTC().Format("20060102T150405Z"))

	if err := os.WriteFile(filepath.Join(s.backupDir, name), current, 0o644); err != nil {
		return err
	}

	utils.TrackContentOperation("backup")
	return nil
}
