// package formatter exports scanned playlists to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/dphans/mediadex/internal/models"
	"github.com/dphans/mediadex/internal/shared"
)

// ExportToCSV converts a playlist's songs to CSV format with columns:
// ID, Title, Artist, Album, Track, Duration, Size, Path
func ExportToCSV(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Track", "Duration", "Size", "Path"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range playlist.Songs {
		record := []string{
			strconv.FormatInt(song.ID, 10),
			song.Title,
			song.Artist,
			song.Album,
			strconv.Itoa(song.Track),
			strconv.FormatInt(song.Duration, 10),
			strconv.FormatInt(song.Size, 10),
			stringValue(song.Path),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist to Markdown format
func ExportToMarkdown(playlist *models.Playlist) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", playlist.Name))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(playlist.Songs)))

	buf.WriteString("## Songs\n\n")
	for i, song := range playlist.Songs {
		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n",
			i+1, song.Artist, song.Title, albumPart, shared.FormatDuration(song.Duration)))
	}

	return buf.Bytes()
}

// ExportToText converts a playlist to plain text format
func ExportToText(playlist *models.Playlist) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", playlist.Name))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(playlist.Songs)))

	for i, song := range playlist.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
	}

	return buf.Bytes()
}

// ExportToJSON renders the playlist through the records' total serializer,
// so even an encoder failure yields writable output.
func ExportToJSON(playlist *models.Playlist, logger *log.Logger) []byte {
	return []byte(models.Serialize(playlist, logger))
}

// ExportResult contains the paths of files created by WriteExport
type ExportResult struct {
	Directory string
	Files     []string
}

// WriteExport writes a playlist export to dir in the given format: "csv",
// "json", "markdown" or "text". File names derive from the playlist id.
func WriteExport(playlist *models.Playlist, dir, format string, logger *log.Logger) (*ExportResult, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var data []byte
	var filename string

	switch format {
	case "csv":
		csvData, err := ExportToCSV(playlist)
		if err != nil {
			return nil, fmt.Errorf("failed to generate CSV: %w", err)
		}
		data, filename = csvData, fmt.Sprintf("%d_songs.csv", playlist.ID)
	case "json":
		data, filename = ExportToJSON(playlist, logger), fmt.Sprintf("%d.json", playlist.ID)
	case "markdown":
		data, filename = ExportToMarkdown(playlist), fmt.Sprintf("%d.md", playlist.ID)
	case "text":
		data, filename = ExportToText(playlist), fmt.Sprintf("%d_songs.txt", playlist.ID)
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidFlag, format)
	}

	file := filepath.Join(dir, filename)
	if err := os.WriteFile(file, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	return &ExportResult{Directory: dir, Files: []string{file}}, nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
