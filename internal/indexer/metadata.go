package indexer

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"

	"github.com/dphans/mediadex/internal/shared"
)

// parseAudioFile builds one index row from a file on disk. Tag read
// failures degrade to a filename-derived title; only files that cannot be
// stat'd are skipped.
func (ix *Indexer) parseAudioFile(path string, logger *log.Logger) *audioRow {
	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("skipping unreadable file", "path", path, "error", err)
		return nil
	}

	row := &audioRow{
		path:      path,
		size:      info.Size(),
		createdAt: shared.NowMillis(),
		updatedAt: shared.MillisFromTime(info.ModTime()),
	}

	if err := readTags(path, row); err != nil {
		logger.Debug("no readable tags", "path", path, "error", err)
	}
	if row.title == "" {
		row.title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		if d, err := mp3Duration(path); err == nil {
			row.duration = d.Milliseconds()
		} else {
			logger.Debug("could not compute duration", "path", path, "error", err)
		}
	}

	return row
}

func readTags(path string, row *audioRow) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return err
	}

	row.title = strings.TrimSpace(meta.Title())
	row.artist = strings.TrimSpace(meta.Artist())
	row.album = strings.TrimSpace(meta.Album())
	row.composer = strings.TrimSpace(meta.Composer())
	if year := meta.Year(); year > 0 {
		row.year = strconv.Itoa(year)
	}
	track, _ := meta.Track()
	row.track = track
	return nil
}

// mp3Duration decodes every frame to sum the duration. There is no
// cheaper trustworthy answer for VBR files.
func mp3Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)
	var frame mp3.Frame
	var skipped int
	var seconds float64

	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		seconds += frame.Duration().Seconds()
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
