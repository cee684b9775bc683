// Package discover walks a project tree and collects the TypeScript files
// to analyze, applying gitignore-style exclusion patterns from the config.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/dusk-indust/relint/internal/analysis"
	"github.com/dusk-indust/relint/internal/config"
)

// sourceExtensions are the file extensions considered TypeScript sources.
var sourceExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
}

// Find walks root and returns every TypeScript source file not matched by
// the config's exclude patterns. Paths are absolute. Unreadable files are
// returned with ReadErr set so the engine can report them; inaccessible
// directories are skipped silently.
func Find(root string, cfg *config.Config) ([]analysis.SourceFile, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	excludes := ignore.CompileIgnoreLines(cfg.ExcludePatterns...)

	var files []analysis.SourceFile
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if d.Name() == ".git" || excludes.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !sourceExtensions[filepath.Ext(path)] || excludes.MatchesPath(rel) {
			return nil
		}

		content, readErr := os.ReadFile(path)
		files = append(files, analysis.SourceFile{
			Path:    path,
			Content: content,
			ReadErr: readErr,
		})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return files, nil
}
