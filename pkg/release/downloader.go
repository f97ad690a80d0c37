package release

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// ProgressCallback is called with download progress updates.
type ProgressCallback func(downloaded, total int64)

// DownloadOptions configures a download.
type DownloadOptions struct {
	URL        string
	DestPath   string
	Mode       os.FileMode // file mode for the final artifact, 0644 when zero
	OnProgress ProgressCallback
}

// Download fetches a file to a temporary path and renames it into place so
// an interrupted download never leaves a partial artifact at the destination.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) error {
	destDir := filepath.Dir(opts.DestPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	tmpPath := opts.DestPath + ".downloading"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	renamed := false
	defer func() {
		out.Close()
		if !renamed {
			os.Remove(tmpPath)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	reader := &progressReader{
		reader:     resp.Body,
		total:      resp.ContentLength,
		onProgress: opts.OnProgress,
	}

	if _, err := io.Copy(out, reader); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	out.Close()

	mode := opts.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tmpPath, opts.DestPath); err != nil {
		return fmt.Errorf("failed to move file: %w", err)
	}
	renamed = true

	return nil
}

type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	onProgress ProgressCallback
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.downloaded += int64(n)
	if r.onProgress != nil {
		r.onProgress(r.downloaded, r.total)
	}
	return n, err
}
