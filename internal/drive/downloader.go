// internal/drive/downloader.go
package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DownloadOptions selects the Drive folder to mirror and where local
// copies land. FolderPath takes precedence over FolderID when both are set.
type DownloadOptions struct {
	FolderID   string
	FolderPath string
	TargetDir  string
}

// Downloader mirrors a Drive folder's snapshot files to local CSVs.
type Downloader struct {
	service *Service
}

func NewDownloader(s *Service) *Downloader {
	return &Downloader{service: s}
}

// FetchFolderCSV downloads every non-trashed CSV and XLSX file in the
// folder into TargetDir and returns the local CSV paths. XLSX files are
// converted first-sheet-to-CSV and the downloaded workbook is removed.
func (d *Downloader) FetchFolderCSV(ctx context.Context, opts DownloadOptions) ([]string, error) {
	if opts.TargetDir == "" {
		return nil, fmt.Errorf("target dir is required")
	}
	if err := os.MkdirAll(opts.TargetDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create target dir: %w", err)
	}

	folderID := opts.FolderID
	if opts.FolderPath != "" {
		id, err := d.service.FindFolderByPath(ctx, opts.FolderPath)
		if err != nil {
			return nil, err
		}
		folderID = id
	}

	files, err := d.service.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var localPaths []string
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ext := strings.ToLower(filepath.Ext(f.Name))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}

		localPath := filepath.Join(opts.TargetDir, f.Name)
		if err := d.downloadTo(ctx, f.ID, localPath); err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", f.Name, err)
		}

		if ext == ".csv" {
			localPaths = append(localPaths, localPath)
			continue
		}

		csvPath := strings.TrimSuffix(localPath, filepath.Ext(localPath)) + ".csv"
		if err := convertXLSXToCSV(localPath, csvPath); err != nil {
			return nil, err
		}
		_ = os.Remove(localPath)
		localPaths = append(localPaths, csvPath)
	}

	return localPaths, nil
}

func (d *Downloader) downloadTo(ctx context.Context, fileID, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	return d.service.DownloadFile(ctx, fileID, out)
}
